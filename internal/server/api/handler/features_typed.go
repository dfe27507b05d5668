package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/server/api"
)

func IntGet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		v, err := cam.IntGet(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.IntValue{Name: name, Value: v})
	}
}

func IntSet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.IntValue) string { return r.Name })
		if err != nil {
			return err
		}
		if err := cam.IntSet(r.Name, r.Value); err != nil {
			return err
		}
		logger.Debug("feature set", "name", r.Name, "value", r.Value)
		return reply(res, r)
	}
}

func IntInfo(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		info, err := cam.IntInfo(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.IntInfoResponse{Name: name, Min: info.Min, Max: info.Max, Inc: info.Increment})
	}
}

func IntValidValues(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		values, err := cam.IntValidValues(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.IntValidValuesResponse{Name: name, Values: values})
	}
}

func FloatGet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		v, err := cam.FloatGet(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.FloatValue{Name: name, Value: v})
	}
}

func FloatSet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.FloatValue) string { return r.Name })
		if err != nil {
			return err
		}
		if err := cam.FloatSet(r.Name, r.Value); err != nil {
			return err
		}
		logger.Debug("feature set", "name", r.Name, "value", r.Value)
		return reply(res, r)
	}
}

func FloatInfo(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		info, err := cam.FloatInfo(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.FloatInfoResponse{
			Name:         name,
			Min:          info.Min,
			Max:          info.Max,
			Inc:          info.Increment,
			IncAvailable: info.HasIncrement,
		})
	}
}

func EnumGet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		v, err := cam.EnumGet(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.EnumValue{Name: name, Value: v})
	}
}

func EnumSet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.EnumValue) string { return r.Name })
		if err != nil {
			return err
		}
		if err := cam.EnumSet(r.Name, r.Value); err != nil {
			return err
		}
		logger.Debug("feature set", "name", r.Name, "value", r.Value)
		return reply(res, r)
	}
}

// EnumInfo lists all entries of an enum and the ones currently available.
func EnumInfo(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		info, err := cam.EnumInfo(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.EnumInfoResponse{
			Name:            name,
			PossibleValues:  info.Options,
			AvailableValues: info.Available,
		})
	}
}

func EnumAsInt(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.EnumConvertRequest) string { return r.Name })
		if err != nil {
			return err
		}
		v, err := cam.EnumAsInt(r.Name, r.Option)
		if err != nil {
			return err
		}
		return reply(res, apitypes.EnumConvertResponse{Name: r.Name, Option: r.Option, Value: v})
	}
}

func EnumAsString(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.EnumConvertRequest) string { return r.Name })
		if err != nil {
			return err
		}
		opt, err := cam.EnumAsString(r.Name, r.Value)
		if err != nil {
			return err
		}
		return reply(res, apitypes.EnumConvertResponse{Name: r.Name, Option: opt, Value: r.Value})
	}
}

func StringGet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		v, err := cam.StringGet(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.StringValue{Name: name, Value: v})
	}
}

func StringSet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.StringValue) string { return r.Name })
		if err != nil {
			return err
		}
		if err := cam.StringSet(r.Name, r.Value); err != nil {
			return err
		}
		return reply(res, r)
	}
}

func StringInfo(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		n, err := cam.StringMaxLength(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.StringInfoResponse{Name: name, MaxLength: n})
	}
}

func BoolGet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		v, err := cam.BoolGet(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.BoolValue{Name: name, Value: v})
	}
}

func BoolSet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.BoolValue) string { return r.Name })
		if err != nil {
			return err
		}
		if err := cam.BoolSet(r.Name, r.Value); err != nil {
			return err
		}
		return reply(res, r)
	}
}

// CommandRun executes a command and waits for it to finish, bounded by the
// request timeout or defaultTimeout.
func CommandRun(cam *camera.Camera, defaultTimeout time.Duration) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := commandRequest(req.Payload)
		if err != nil {
			return err
		}
		timeout := defaultTimeout
		if r.TimeoutMs > 0 {
			timeout = time.Duration(r.TimeoutMs) * time.Millisecond
		}
		ctx := req.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := cam.CommandRun(ctx, r.Name); err != nil {
			return err
		}
		logger.Debug("command run", "name", r.Name)
		return reply(res, apitypes.CommandResponse{Name: r.Name, Done: true})
	}
}

func CommandIsDone(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		done, err := cam.CommandIsDone(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.CommandResponse{Name: name, Done: done})
	}
}

func commandRequest(payload string) (apitypes.CommandRequest, error) {
	name, err := featureName(payload)
	if err != nil {
		return apitypes.CommandRequest{}, err
	}
	r := apitypes.CommandRequest{Name: name}
	if full, err := decode[apitypes.CommandRequest](payload); err == nil && full.Name != "" {
		r = full
	}
	return r, nil
}

func RawGet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		data, err := cam.RawGet(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.RawValue{Name: name, Data: data})
	}
}

func RawSet(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		r, err := named(req.Payload, func(r apitypes.RawValue) string { return r.Name })
		if err != nil {
			return err
		}
		if err := cam.RawSet(r.Name, r.Data); err != nil {
			return err
		}
		return reply(res, apitypes.RawInfoResponse{Name: r.Name, Length: uint32(len(r.Data))})
	}
}

func RawInfo(cam *camera.Camera) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		name, err := featureName(req.Payload)
		if err != nil {
			return err
		}
		n, err := cam.RawLength(name)
		if err != nil {
			return err
		}
		return reply(res, apitypes.RawInfoResponse{Name: name, Length: n})
	}
}
