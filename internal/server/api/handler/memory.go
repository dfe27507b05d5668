package handler

import (
	"log/slog"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/server/api"
	apierror "github.com/vmbx/vmbx/internal/server/api/error"
)

// maxMemoryRead bounds a single memory/read request.
const maxMemoryRead = 64 << 10

// MemoryRead reads device memory.
func MemoryRead(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := decode[apitypes.MemoryRequest](req.Payload)
		if err != nil {
			return err
		}
		if r.NBytes == 0 || r.NBytes > maxMemoryRead {
			return apierror.ErrBadRequest("nBytes must be between 1 and 65536")
		}
		data, err := cam.MemoryRead(r.Address, int(r.NBytes))
		if err != nil {
			return err
		}
		return reply(res, apitypes.MemoryResponse{Address: r.Address, Data: data})
	}
}

// MemoryWrite writes device memory.
func MemoryWrite(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := decode[apitypes.MemoryRequest](req.Payload)
		if err != nil {
			return err
		}
		if len(r.Data) == 0 {
			return apierror.ErrBadRequest("missing data")
		}
		n, err := cam.MemoryWrite(r.Address, r.Data)
		if err != nil {
			return err
		}
		logger.Debug("memory written", "address", r.Address, "bytes", n)
		return reply(res, apitypes.MemoryResponse{Address: r.Address, Written: n})
	}
}
