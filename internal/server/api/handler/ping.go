package handler

import (
	"fmt"
	"log/slog"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/internal/server/api"
	"github.com/vmbx/vmbx/vmb"
)

// Ping reports the server identity, its version and the SDK version.
func Ping(version string, sdk vmb.API) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		var v vmb.VersionInfo
		if code := sdk.VersionQuery(&v); code != vmb.ErrorSuccess {
			return code
		}
		return reply(res, apitypes.PingResponse{
			Server:  "vmbx",
			Version: version,
			SDK:     fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch),
		})
	}
}
