package vmb

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrSymbolNotFound is returned by Load when the resolver has no entry
	// for a required SDK function.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrSymbolType is returned by Load when a resolved symbol does not have
	// the signature of the SDK function it names.
	ErrSymbolType = errors.New("symbol has unexpected type")
)

// Resolver maps an SDK function name such as "VmbFeatureIntGet" to a Go
// function value with the signature of the matching API method. Unknown names
// resolve to nil.
type Resolver interface {
	Symbol(name string) any
}

// ResolverFunc adapts a plain lookup function to Resolver.
type ResolverFunc func(name string) any

func (f ResolverFunc) Symbol(name string) any { return f(name) }

// Library is a function table filled by Load. It implements API by calling
// the resolved functions, which lets driver code run unchanged against any
// symbol source.
type Library struct {
	versionQuery                  func(*VersionInfo) Error
	startup                       func(string) Error
	shutdown                      func()
	camerasList                   func([]CameraInfo, *uint32) Error
	cameraInfoQueryByHandle       func(Handle, *CameraInfo) Error
	cameraInfoQuery               func(string, *CameraInfo) Error
	cameraOpen                    func(string, AccessMode, *Handle) Error
	cameraClose                   func(Handle) Error
	featuresList                  func(Handle, []FeatureInfo, *uint32) Error
	featureInfoQuery              func(Handle, string, *FeatureInfo) Error
	featureListSelected           func(Handle, string, []FeatureInfo, *uint32) Error
	featureAccessQuery            func(Handle, string, *bool, *bool) Error
	featureIntGet                 func(Handle, string, *int64) Error
	featureIntSet                 func(Handle, string, int64) Error
	featureIntRangeQuery          func(Handle, string, *int64, *int64) Error
	featureIntIncrementQuery      func(Handle, string, *int64) Error
	featureIntValidValueSetQuery  func(Handle, string, []int64, *uint32) Error
	featureFloatGet               func(Handle, string, *float64) Error
	featureFloatSet               func(Handle, string, float64) Error
	featureFloatRangeQuery        func(Handle, string, *float64, *float64) Error
	featureFloatIncrementQuery    func(Handle, string, *bool, *float64) Error
	featureEnumGet                func(Handle, string, *string) Error
	featureEnumSet                func(Handle, string, string) Error
	featureEnumRangeQuery         func(Handle, string, []string, *uint32) Error
	featureEnumIsAvailable        func(Handle, string, string, *bool) Error
	featureEnumAsInt              func(Handle, string, string, *int64) Error
	featureEnumAsString           func(Handle, string, int64, *string) Error
	featureEnumEntryGet           func(Handle, string, string, *FeatureEnumEntry) Error
	featureStringGet              func(Handle, string, []byte, *uint32) Error
	featureStringSet              func(Handle, string, string) Error
	featureStringMaxlengthQuery   func(Handle, string, *uint32) Error
	featureBoolGet                func(Handle, string, *bool) Error
	featureBoolSet                func(Handle, string, bool) Error
	featureCommandRun             func(Handle, string) Error
	featureCommandIsDone          func(Handle, string, *bool) Error
	featureRawGet                 func(Handle, string, []byte, *uint32) Error
	featureRawSet                 func(Handle, string, []byte) Error
	featureRawLengthQuery         func(Handle, string, *uint32) Error
	featureInvalidationRegister   func(Handle, string, InvalidationCallback, any) Error
	featureInvalidationUnregister func(Handle, string, InvalidationCallback) Error
	payloadSizeGet                func(Handle, *uint32) Error
	frameAnnounce                 func(Handle, *Frame) Error
	frameRevoke                   func(Handle, *Frame) Error
	frameRevokeAll                func(Handle) Error
	captureStart                  func(Handle) Error
	captureEnd                    func(Handle) Error
	captureFrameQueue             func(Handle, *Frame, FrameCallback) Error
	captureFrameWait              func(Handle, *Frame, uint32) Error
	captureQueueFlush             func(Handle) Error
	transportLayersList           func([]TransportLayerInfo, *uint32) Error
	interfacesList                func([]InterfaceInfo, *uint32) Error
	memoryRead                    func(Handle, uint64, []byte, *uint32) Error
	memoryWrite                   func(Handle, uint64, []byte, *uint32) Error
	settingsSave                  func(Handle, string, *FeaturePersistSettings) Error
	settingsLoad                  func(Handle, string, *FeaturePersistSettings) Error
	chunkDataAccess               func(*Frame, ChunkAccessCallback, any) Error
}

type binding struct {
	name   string
	target any
}

func (l *Library) bindings() []binding {
	return []binding{
		{"VmbVersionQuery", &l.versionQuery},
		{"VmbStartup", &l.startup},
		{"VmbShutdown", &l.shutdown},
		{"VmbCamerasList", &l.camerasList},
		{"VmbCameraInfoQueryByHandle", &l.cameraInfoQueryByHandle},
		{"VmbCameraInfoQuery", &l.cameraInfoQuery},
		{"VmbCameraOpen", &l.cameraOpen},
		{"VmbCameraClose", &l.cameraClose},
		{"VmbFeaturesList", &l.featuresList},
		{"VmbFeatureInfoQuery", &l.featureInfoQuery},
		{"VmbFeatureListSelected", &l.featureListSelected},
		{"VmbFeatureAccessQuery", &l.featureAccessQuery},
		{"VmbFeatureIntGet", &l.featureIntGet},
		{"VmbFeatureIntSet", &l.featureIntSet},
		{"VmbFeatureIntRangeQuery", &l.featureIntRangeQuery},
		{"VmbFeatureIntIncrementQuery", &l.featureIntIncrementQuery},
		{"VmbFeatureIntValidValueSetQuery", &l.featureIntValidValueSetQuery},
		{"VmbFeatureFloatGet", &l.featureFloatGet},
		{"VmbFeatureFloatSet", &l.featureFloatSet},
		{"VmbFeatureFloatRangeQuery", &l.featureFloatRangeQuery},
		{"VmbFeatureFloatIncrementQuery", &l.featureFloatIncrementQuery},
		{"VmbFeatureEnumGet", &l.featureEnumGet},
		{"VmbFeatureEnumSet", &l.featureEnumSet},
		{"VmbFeatureEnumRangeQuery", &l.featureEnumRangeQuery},
		{"VmbFeatureEnumIsAvailable", &l.featureEnumIsAvailable},
		{"VmbFeatureEnumAsInt", &l.featureEnumAsInt},
		{"VmbFeatureEnumAsString", &l.featureEnumAsString},
		{"VmbFeatureEnumEntryGet", &l.featureEnumEntryGet},
		{"VmbFeatureStringGet", &l.featureStringGet},
		{"VmbFeatureStringSet", &l.featureStringSet},
		{"VmbFeatureStringMaxlengthQuery", &l.featureStringMaxlengthQuery},
		{"VmbFeatureBoolGet", &l.featureBoolGet},
		{"VmbFeatureBoolSet", &l.featureBoolSet},
		{"VmbFeatureCommandRun", &l.featureCommandRun},
		{"VmbFeatureCommandIsDone", &l.featureCommandIsDone},
		{"VmbFeatureRawGet", &l.featureRawGet},
		{"VmbFeatureRawSet", &l.featureRawSet},
		{"VmbFeatureRawLengthQuery", &l.featureRawLengthQuery},
		{"VmbFeatureInvalidationRegister", &l.featureInvalidationRegister},
		{"VmbFeatureInvalidationUnregister", &l.featureInvalidationUnregister},
		{"VmbPayloadSizeGet", &l.payloadSizeGet},
		{"VmbFrameAnnounce", &l.frameAnnounce},
		{"VmbFrameRevoke", &l.frameRevoke},
		{"VmbFrameRevokeAll", &l.frameRevokeAll},
		{"VmbCaptureStart", &l.captureStart},
		{"VmbCaptureEnd", &l.captureEnd},
		{"VmbCaptureFrameQueue", &l.captureFrameQueue},
		{"VmbCaptureFrameWait", &l.captureFrameWait},
		{"VmbCaptureQueueFlush", &l.captureQueueFlush},
		{"VmbTransportLayersList", &l.transportLayersList},
		{"VmbInterfacesList", &l.interfacesList},
		{"VmbMemoryRead", &l.memoryRead},
		{"VmbMemoryWrite", &l.memoryWrite},
		{"VmbSettingsSave", &l.settingsSave},
		{"VmbSettingsLoad", &l.settingsLoad},
		{"VmbChunkDataAccess", &l.chunkDataAccess},
	}
}

// Load resolves every SDK function through r. It fails on the first missing
// or mistyped symbol.
func Load(r Resolver) (*Library, error) {
	l := &Library{}
	for _, b := range l.bindings() {
		sym := r.Symbol(b.name)
		src := reflect.ValueOf(sym)
		if sym == nil || (src.Kind() == reflect.Func && src.IsNil()) {
			return nil, fmt.Errorf("%s: %w", b.name, ErrSymbolNotFound)
		}
		dst := reflect.ValueOf(b.target).Elem()
		switch {
		case src.Type().AssignableTo(dst.Type()):
		case src.Kind() == reflect.Func && src.Type().ConvertibleTo(dst.Type()):
			src = src.Convert(dst.Type())
		default:
			return nil, fmt.Errorf("%s: %w: got %s, want %s", b.name, ErrSymbolType, src.Type(), dst.Type())
		}
		dst.Set(src)
	}
	return l, nil
}

// Exports returns the symbol table of api: every SDK function name mapped to
// the corresponding method value. It is the inverse of Load.
func Exports(api API) map[string]any {
	return map[string]any{
		"VmbVersionQuery":                  api.VersionQuery,
		"VmbStartup":                       api.Startup,
		"VmbShutdown":                      api.Shutdown,
		"VmbCamerasList":                   api.CamerasList,
		"VmbCameraInfoQueryByHandle":       api.CameraInfoQueryByHandle,
		"VmbCameraInfoQuery":               api.CameraInfoQuery,
		"VmbCameraOpen":                    api.CameraOpen,
		"VmbCameraClose":                   api.CameraClose,
		"VmbFeaturesList":                  api.FeaturesList,
		"VmbFeatureInfoQuery":              api.FeatureInfoQuery,
		"VmbFeatureListSelected":           api.FeatureListSelected,
		"VmbFeatureAccessQuery":            api.FeatureAccessQuery,
		"VmbFeatureIntGet":                 api.FeatureIntGet,
		"VmbFeatureIntSet":                 api.FeatureIntSet,
		"VmbFeatureIntRangeQuery":          api.FeatureIntRangeQuery,
		"VmbFeatureIntIncrementQuery":      api.FeatureIntIncrementQuery,
		"VmbFeatureIntValidValueSetQuery":  api.FeatureIntValidValueSetQuery,
		"VmbFeatureFloatGet":               api.FeatureFloatGet,
		"VmbFeatureFloatSet":               api.FeatureFloatSet,
		"VmbFeatureFloatRangeQuery":        api.FeatureFloatRangeQuery,
		"VmbFeatureFloatIncrementQuery":    api.FeatureFloatIncrementQuery,
		"VmbFeatureEnumGet":                api.FeatureEnumGet,
		"VmbFeatureEnumSet":                api.FeatureEnumSet,
		"VmbFeatureEnumRangeQuery":         api.FeatureEnumRangeQuery,
		"VmbFeatureEnumIsAvailable":        api.FeatureEnumIsAvailable,
		"VmbFeatureEnumAsInt":              api.FeatureEnumAsInt,
		"VmbFeatureEnumAsString":           api.FeatureEnumAsString,
		"VmbFeatureEnumEntryGet":           api.FeatureEnumEntryGet,
		"VmbFeatureStringGet":              api.FeatureStringGet,
		"VmbFeatureStringSet":              api.FeatureStringSet,
		"VmbFeatureStringMaxlengthQuery":   api.FeatureStringMaxlengthQuery,
		"VmbFeatureBoolGet":                api.FeatureBoolGet,
		"VmbFeatureBoolSet":                api.FeatureBoolSet,
		"VmbFeatureCommandRun":             api.FeatureCommandRun,
		"VmbFeatureCommandIsDone":          api.FeatureCommandIsDone,
		"VmbFeatureRawGet":                 api.FeatureRawGet,
		"VmbFeatureRawSet":                 api.FeatureRawSet,
		"VmbFeatureRawLengthQuery":         api.FeatureRawLengthQuery,
		"VmbFeatureInvalidationRegister":   api.FeatureInvalidationRegister,
		"VmbFeatureInvalidationUnregister": api.FeatureInvalidationUnregister,
		"VmbPayloadSizeGet":                api.PayloadSizeGet,
		"VmbFrameAnnounce":                 api.FrameAnnounce,
		"VmbFrameRevoke":                   api.FrameRevoke,
		"VmbFrameRevokeAll":                api.FrameRevokeAll,
		"VmbCaptureStart":                  api.CaptureStart,
		"VmbCaptureEnd":                    api.CaptureEnd,
		"VmbCaptureFrameQueue":             api.CaptureFrameQueue,
		"VmbCaptureFrameWait":              api.CaptureFrameWait,
		"VmbCaptureQueueFlush":             api.CaptureQueueFlush,
		"VmbTransportLayersList":           api.TransportLayersList,
		"VmbInterfacesList":                api.InterfacesList,
		"VmbMemoryRead":                    api.MemoryRead,
		"VmbMemoryWrite":                   api.MemoryWrite,
		"VmbSettingsSave":                  api.SettingsSave,
		"VmbSettingsLoad":                  api.SettingsLoad,
		"VmbChunkDataAccess":               api.ChunkDataAccess,
	}
}

// Symbols lists the SDK function names in declaration order.
var Symbols = func() []string {
	var l Library
	b := l.bindings()
	out := make([]string, len(b))
	for i := range b {
		out[i] = b[i].name
	}
	return out
}()

var _ API = (*Library)(nil)

func (l *Library) VersionQuery(versionInfo *VersionInfo) Error { return l.versionQuery(versionInfo) }

func (l *Library) Startup(pathConfiguration string) Error { return l.startup(pathConfiguration) }

func (l *Library) Shutdown() { l.shutdown() }

func (l *Library) CamerasList(cameraInfo []CameraInfo, numFound *uint32) Error { return l.camerasList(cameraInfo, numFound) }

func (l *Library) CameraInfoQueryByHandle(cameraHandle Handle, info *CameraInfo) Error { return l.cameraInfoQueryByHandle(cameraHandle, info) }

func (l *Library) CameraInfoQuery(idString string, info *CameraInfo) Error { return l.cameraInfoQuery(idString, info) }

func (l *Library) CameraOpen(idString string, accessMode AccessMode, cameraHandle *Handle) Error { return l.cameraOpen(idString, accessMode, cameraHandle) }

func (l *Library) CameraClose(cameraHandle Handle) Error { return l.cameraClose(cameraHandle) }

func (l *Library) FeaturesList(handle Handle, featureInfoList []FeatureInfo, numFound *uint32) Error { return l.featuresList(handle, featureInfoList, numFound) }

func (l *Library) FeatureInfoQuery(handle Handle, name string, featureInfo *FeatureInfo) Error { return l.featureInfoQuery(handle, name, featureInfo) }

func (l *Library) FeatureListSelected(handle Handle, name string, featureInfoList []FeatureInfo, numFound *uint32) Error { return l.featureListSelected(handle, name, featureInfoList, numFound) }

func (l *Library) FeatureAccessQuery(handle Handle, name string, isReadable, isWriteable *bool) Error { return l.featureAccessQuery(handle, name, isReadable, isWriteable) }

func (l *Library) FeatureIntGet(handle Handle, name string, value *int64) Error { return l.featureIntGet(handle, name, value) }

func (l *Library) FeatureIntSet(handle Handle, name string, value int64) Error { return l.featureIntSet(handle, name, value) }

func (l *Library) FeatureIntRangeQuery(handle Handle, name string, min, max *int64) Error { return l.featureIntRangeQuery(handle, name, min, max) }

func (l *Library) FeatureIntIncrementQuery(handle Handle, name string, value *int64) Error { return l.featureIntIncrementQuery(handle, name, value) }

func (l *Library) FeatureIntValidValueSetQuery(handle Handle, name string, buffer []int64, setSize *uint32) Error { return l.featureIntValidValueSetQuery(handle, name, buffer, setSize) }

func (l *Library) FeatureFloatGet(handle Handle, name string, value *float64) Error { return l.featureFloatGet(handle, name, value) }

func (l *Library) FeatureFloatSet(handle Handle, name string, value float64) Error { return l.featureFloatSet(handle, name, value) }

func (l *Library) FeatureFloatRangeQuery(handle Handle, name string, min, max *float64) Error { return l.featureFloatRangeQuery(handle, name, min, max) }

func (l *Library) FeatureFloatIncrementQuery(handle Handle, name string, hasIncrement *bool, value *float64) Error { return l.featureFloatIncrementQuery(handle, name, hasIncrement, value) }

func (l *Library) FeatureEnumGet(handle Handle, name string, value *string) Error { return l.featureEnumGet(handle, name, value) }

func (l *Library) FeatureEnumSet(handle Handle, name string, value string) Error { return l.featureEnumSet(handle, name, value) }

func (l *Library) FeatureEnumRangeQuery(handle Handle, name string, nameArray []string, numFound *uint32) Error { return l.featureEnumRangeQuery(handle, name, nameArray, numFound) }

func (l *Library) FeatureEnumIsAvailable(handle Handle, name string, value string, isAvailable *bool) Error { return l.featureEnumIsAvailable(handle, name, value, isAvailable) }

func (l *Library) FeatureEnumAsInt(handle Handle, name string, value string, intVal *int64) Error { return l.featureEnumAsInt(handle, name, value, intVal) }

func (l *Library) FeatureEnumAsString(handle Handle, name string, intValue int64, stringValue *string) Error { return l.featureEnumAsString(handle, name, intValue, stringValue) }

func (l *Library) FeatureEnumEntryGet(handle Handle, featureName string, entryName string, featureEnumEntry *FeatureEnumEntry) Error { return l.featureEnumEntryGet(handle, featureName, entryName, featureEnumEntry) }

func (l *Library) FeatureStringGet(handle Handle, name string, buffer []byte, sizeFilled *uint32) Error { return l.featureStringGet(handle, name, buffer, sizeFilled) }

func (l *Library) FeatureStringSet(handle Handle, name string, value string) Error { return l.featureStringSet(handle, name, value) }

func (l *Library) FeatureStringMaxlengthQuery(handle Handle, name string, maxLength *uint32) Error { return l.featureStringMaxlengthQuery(handle, name, maxLength) }

func (l *Library) FeatureBoolGet(handle Handle, name string, value *bool) Error { return l.featureBoolGet(handle, name, value) }

func (l *Library) FeatureBoolSet(handle Handle, name string, value bool) Error { return l.featureBoolSet(handle, name, value) }

func (l *Library) FeatureCommandRun(handle Handle, name string) Error { return l.featureCommandRun(handle, name) }

func (l *Library) FeatureCommandIsDone(handle Handle, name string, isDone *bool) Error { return l.featureCommandIsDone(handle, name, isDone) }

func (l *Library) FeatureRawGet(handle Handle, name string, buffer []byte, sizeFilled *uint32) Error { return l.featureRawGet(handle, name, buffer, sizeFilled) }

func (l *Library) FeatureRawSet(handle Handle, name string, buffer []byte) Error { return l.featureRawSet(handle, name, buffer) }

func (l *Library) FeatureRawLengthQuery(handle Handle, name string, length *uint32) Error { return l.featureRawLengthQuery(handle, name, length) }

func (l *Library) FeatureInvalidationRegister(handle Handle, name string, callback InvalidationCallback, userContext any) Error { return l.featureInvalidationRegister(handle, name, callback, userContext) }

func (l *Library) FeatureInvalidationUnregister(handle Handle, name string, callback InvalidationCallback) Error { return l.featureInvalidationUnregister(handle, name, callback) }

func (l *Library) PayloadSizeGet(handle Handle, payloadSize *uint32) Error { return l.payloadSizeGet(handle, payloadSize) }

func (l *Library) FrameAnnounce(handle Handle, frame *Frame) Error { return l.frameAnnounce(handle, frame) }

func (l *Library) FrameRevoke(handle Handle, frame *Frame) Error { return l.frameRevoke(handle, frame) }

func (l *Library) FrameRevokeAll(handle Handle) Error { return l.frameRevokeAll(handle) }

func (l *Library) CaptureStart(handle Handle) Error { return l.captureStart(handle) }

func (l *Library) CaptureEnd(handle Handle) Error { return l.captureEnd(handle) }

func (l *Library) CaptureFrameQueue(handle Handle, frame *Frame, callback FrameCallback) Error { return l.captureFrameQueue(handle, frame, callback) }

func (l *Library) CaptureFrameWait(handle Handle, frame *Frame, timeout uint32) Error { return l.captureFrameWait(handle, frame, timeout) }

func (l *Library) CaptureQueueFlush(handle Handle) Error { return l.captureQueueFlush(handle) }

func (l *Library) TransportLayersList(transportLayerInfo []TransportLayerInfo, numFound *uint32) Error { return l.transportLayersList(transportLayerInfo, numFound) }

func (l *Library) InterfacesList(interfaceInfo []InterfaceInfo, numFound *uint32) Error { return l.interfacesList(interfaceInfo, numFound) }

func (l *Library) MemoryRead(handle Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) Error { return l.memoryRead(handle, address, dataBuffer, sizeComplete) }

func (l *Library) MemoryWrite(handle Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) Error { return l.memoryWrite(handle, address, dataBuffer, sizeComplete) }

func (l *Library) SettingsSave(handle Handle, filePath string, settings *FeaturePersistSettings) Error { return l.settingsSave(handle, filePath, settings) }

func (l *Library) SettingsLoad(handle Handle, filePath string, settings *FeaturePersistSettings) Error { return l.settingsLoad(handle, filePath, settings) }

func (l *Library) ChunkDataAccess(frame *Frame, chunkAccessCallback ChunkAccessCallback, userContext any) Error { return l.chunkDataAccess(frame, chunkAccessCallback, userContext) }
