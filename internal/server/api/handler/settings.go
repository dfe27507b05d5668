package handler

import (
	"log/slog"
	"path/filepath"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/server/api"
	apierror "github.com/vmbx/vmbx/internal/server/api/error"
)

func settingsRequest(payload string) (apitypes.SettingsRequest, error) {
	r, err := decode[apitypes.SettingsRequest](payload)
	if err != nil {
		return r, err
	}
	if r.FileName == "" {
		return r, apierror.ErrBadRequest("missing fileName")
	}
	r.FileName = filepath.Clean(r.FileName)
	return r, nil
}

// SettingsSave writes the camera settings to a file on the server host. The
// format follows the extension (.yaml, .toml or JSON).
func SettingsSave(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := settingsRequest(req.Payload)
		if err != nil {
			return err
		}
		if err := cam.SettingsSave(r.FileName); err != nil {
			return err
		}
		logger.Info("settings saved", "file", r.FileName)
		return reply(res, apitypes.SettingsResponse{FileName: r.FileName})
	}
}

// SettingsLoad applies a settings file from the server host.
func SettingsLoad(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := settingsRequest(req.Payload)
		if err != nil {
			return err
		}
		if err := cam.SettingsLoad(r.FileName); err != nil {
			return err
		}
		logger.Info("settings loaded", "file", r.FileName)
		return reply(res, apitypes.SettingsResponse{FileName: r.FileName})
	}
}
