package handler

import (
	"log/slog"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/internal/node"
	"github.com/vmbx/vmbx/internal/server/api"
)

// Status returns the stream state, camera id and subscriber count.
func Status(n *node.Node) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		st := n.Status()
		return reply(res, apitypes.StatusResponse{
			Streaming:   st.Streaming,
			CameraID:    st.CameraID,
			Subscribers: st.Subscribers,
		})
	}
}

// StreamStart starts streaming independent of subscribers.
func StreamStart(n *node.Node) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		if err := n.StreamStart(); err != nil {
			return err
		}
		logger.Info("stream started by request")
		return reply(res, apitypes.StreamResponse{Streaming: true})
	}
}

// StreamStop stops streaming independent of subscribers.
func StreamStop(n *node.Node) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		if err := n.StreamStop(); err != nil {
			return err
		}
		logger.Info("stream stopped by request")
		return reply(res, apitypes.StreamResponse{Streaming: false})
	}
}

// CameraInfo describes the camera the node drives.
func CameraInfo(n *node.Node) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		info := n.Camera().Info()
		return reply(res, apitypes.CameraInfoResponse{
			ID:          info.IDString,
			ExtendedID:  info.IDExtended,
			Name:        info.Name,
			Model:       info.ModelName,
			Serial:      info.SerialString,
			AccessModes: info.PermittedAccess.String(),
		})
	}
}
