package handler

import (
	"log/slog"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/server/api"
)

// FeaturesList lists every camera feature.
func FeaturesList(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		infos, err := cam.Features()
		if err != nil {
			return err
		}
		out := make([]apitypes.FeatureInfo, 0, len(infos))
		for _, fi := range infos {
			out = append(out, featureInfo(fi))
		}
		return reply(res, apitypes.FeaturesListResponse{Features: out})
	}
}

// FeatureInfo describes one feature.
func FeatureInfo(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		fi, err := cam.FeatureInfo(name)
		if err != nil {
			return err
		}
		return reply(res, featureInfo(fi))
	}
}

// FeatureAccess reports whether a feature is currently readable and writable.
func FeatureAccess(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		r, w, err := cam.FeatureAccess(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.FeatureAccessResponse{Name: name, Readable: r, Writable: w})
	}
}

// FeaturesSelected lists the features a selector switches.
func FeaturesSelected(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		infos, err := cam.SelectedFeatures(name)
		if err != nil {
			return err
		}
		out := make([]apitypes.FeatureInfo, 0, len(infos))
		for _, fi := range infos {
			out = append(out, featureInfo(fi))
		}
		return reply(res, apitypes.FeaturesListResponse{Features: out})
	}
}
