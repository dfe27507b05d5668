package handler

import (
	"github.com/vmbx/vmbx/internal/log"
	"github.com/vmbx/vmbx/internal/server/api"
	"github.com/vmbx/vmbx/vmb"
)

// RegisterAll wires every route of the camera node onto the API server.
func RegisterAll(srv *api.Server, sdk vmb.API, version string, raw log.RawLogger) {
	n := srv.Node()
	cam := n.Camera()
	r := srv.Router()

	r.Register("ping", Ping(version, sdk))
	r.Register("status", Status(n))
	r.Register("stream/start", StreamStart(n))
	r.Register("stream/stop", StreamStop(n))
	r.Register("camera/info", CameraInfo(n))

	r.Register("features/list", FeaturesList(cam))
	r.Register("features/info", FeatureInfo(cam))
	r.Register("features/access", FeatureAccess(cam))
	r.Register("features/selected", FeaturesSelected(cam))

	r.Register("features/int/get", IntGet(cam))
	r.Register("features/int/set", IntSet(cam))
	r.Register("features/int/info", IntInfo(cam))
	r.Register("features/int/valid_values", IntValidValues(cam))
	r.Register("features/float/get", FloatGet(cam))
	r.Register("features/float/set", FloatSet(cam))
	r.Register("features/float/info", FloatInfo(cam))
	r.Register("features/enum/get", EnumGet(cam))
	r.Register("features/enum/set", EnumSet(cam))
	r.Register("features/enum/info", EnumInfo(cam))
	r.Register("features/enum/as_int", EnumAsInt(cam))
	r.Register("features/enum/as_string", EnumAsString(cam))
	r.Register("features/string/get", StringGet(cam))
	r.Register("features/string/set", StringSet(cam))
	r.Register("features/string/info", StringInfo(cam))
	r.Register("features/bool/get", BoolGet(cam))
	r.Register("features/bool/set", BoolSet(cam))
	r.Register("features/command/run", CommandRun(cam, srv.Config().CommandTimeout))
	r.Register("features/command/is_done", CommandIsDone(cam))
	r.Register("features/raw/get", RawGet(cam))
	r.Register("features/raw/set", RawSet(cam))
	r.Register("features/raw/info", RawInfo(cam))

	r.Register("settings/save", SettingsSave(cam))
	r.Register("settings/load", SettingsLoad(cam))
	r.Register("memory/read", MemoryRead(cam))
	r.Register("memory/write", MemoryWrite(cam))

	r.RegisterStream("image_raw", ImageRaw(n, raw))
}
