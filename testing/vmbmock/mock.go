// Package vmbmock provides a testify based test double for the VmbC SDK.
//
// The mock is a process-wide singleton so code that resolves SDK functions by
// name (see vmb.Load) can be pointed at it without plumbing:
//
//	vmbmock.Reset()
//	m := vmbmock.Instance()
//	m.On("FeatureIntGet", mock.Anything, "Width", mock.Anything).
//		Run(func(args mock.Arguments) { *args.Get(2).(*int64) = 640 }).
//		Return(vmb.ErrorSuccess)
//	lib, _ := vmb.Load(vmbmock.Resolver())
//
// A method called without a Return action yields vmb.ErrorSuccess.
package vmbmock

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/vmbx/vmbx/vmb"
)

// APIMock records VmbC calls and answers them from configured expectations.
type APIMock struct {
	mock.Mock
}

var _ vmb.API = (*APIMock)(nil)

var (
	instance   *APIMock
	instanceMu sync.Mutex
	exports    = vmb.Exports(forwarder{})
)

// Instance returns the shared mock, creating it on first use.
func Instance() *APIMock {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = &APIMock{}
	}
	return instance
}

// Reset replaces the shared mock with a fresh one. Calls already in flight
// finish on the old instance.
func Reset() {
	instanceMu.Lock()
	instance = &APIMock{}
	instanceMu.Unlock()
}

// FunctionPtr returns the function registered under an SDK symbol name, or
// nil for names the SDK does not export. The returned functions forward to
// Instance() on every call.
func FunctionPtr(name string) any {
	return exports[name]
}

// Resolver returns a vmb.Resolver backed by FunctionPtr.
func Resolver() vmb.Resolver { return vmb.ResolverFunc(FunctionPtr) }

func result(args mock.Arguments) vmb.Error {
	if len(args) == 0 {
		return vmb.ErrorSuccess
	}
	return args.Get(0).(vmb.Error)
}

func (m *APIMock) VersionQuery(versionInfo *vmb.VersionInfo) vmb.Error {
	return result(m.Called(versionInfo))
}

func (m *APIMock) Startup(pathConfiguration string) vmb.Error {
	return result(m.Called(pathConfiguration))
}

func (m *APIMock) Shutdown() {
	m.Called()
}

func (m *APIMock) CamerasList(cameraInfo []vmb.CameraInfo, numFound *uint32) vmb.Error {
	return result(m.Called(cameraInfo, numFound))
}

func (m *APIMock) CameraInfoQueryByHandle(cameraHandle vmb.Handle, info *vmb.CameraInfo) vmb.Error {
	return result(m.Called(cameraHandle, info))
}

func (m *APIMock) CameraInfoQuery(idString string, info *vmb.CameraInfo) vmb.Error {
	return result(m.Called(idString, info))
}

func (m *APIMock) CameraOpen(idString string, accessMode vmb.AccessMode, cameraHandle *vmb.Handle) vmb.Error {
	return result(m.Called(idString, accessMode, cameraHandle))
}

func (m *APIMock) CameraClose(cameraHandle vmb.Handle) vmb.Error {
	return result(m.Called(cameraHandle))
}

func (m *APIMock) FeaturesList(handle vmb.Handle, featureInfoList []vmb.FeatureInfo, numFound *uint32) vmb.Error {
	return result(m.Called(handle, featureInfoList, numFound))
}

func (m *APIMock) FeatureInfoQuery(handle vmb.Handle, name string, featureInfo *vmb.FeatureInfo) vmb.Error {
	return result(m.Called(handle, name, featureInfo))
}

func (m *APIMock) FeatureListSelected(handle vmb.Handle, name string, featureInfoList []vmb.FeatureInfo, numFound *uint32) vmb.Error {
	return result(m.Called(handle, name, featureInfoList, numFound))
}

func (m *APIMock) FeatureAccessQuery(handle vmb.Handle, name string, isReadable *bool, isWriteable *bool) vmb.Error {
	return result(m.Called(handle, name, isReadable, isWriteable))
}

func (m *APIMock) FeatureIntGet(handle vmb.Handle, name string, value *int64) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureIntSet(handle vmb.Handle, name string, value int64) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureIntRangeQuery(handle vmb.Handle, name string, min *int64, max *int64) vmb.Error {
	return result(m.Called(handle, name, min, max))
}

func (m *APIMock) FeatureIntIncrementQuery(handle vmb.Handle, name string, value *int64) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureIntValidValueSetQuery(handle vmb.Handle, name string, buffer []int64, setSize *uint32) vmb.Error {
	return result(m.Called(handle, name, buffer, setSize))
}

func (m *APIMock) FeatureFloatGet(handle vmb.Handle, name string, value *float64) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureFloatSet(handle vmb.Handle, name string, value float64) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureFloatRangeQuery(handle vmb.Handle, name string, min *float64, max *float64) vmb.Error {
	return result(m.Called(handle, name, min, max))
}

func (m *APIMock) FeatureFloatIncrementQuery(handle vmb.Handle, name string, hasIncrement *bool, value *float64) vmb.Error {
	return result(m.Called(handle, name, hasIncrement, value))
}

func (m *APIMock) FeatureEnumGet(handle vmb.Handle, name string, value *string) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureEnumSet(handle vmb.Handle, name string, value string) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureEnumRangeQuery(handle vmb.Handle, name string, nameArray []string, numFound *uint32) vmb.Error {
	return result(m.Called(handle, name, nameArray, numFound))
}

func (m *APIMock) FeatureEnumIsAvailable(handle vmb.Handle, name string, value string, isAvailable *bool) vmb.Error {
	return result(m.Called(handle, name, value, isAvailable))
}

func (m *APIMock) FeatureEnumAsInt(handle vmb.Handle, name string, value string, intVal *int64) vmb.Error {
	return result(m.Called(handle, name, value, intVal))
}

func (m *APIMock) FeatureEnumAsString(handle vmb.Handle, name string, intValue int64, stringValue *string) vmb.Error {
	return result(m.Called(handle, name, intValue, stringValue))
}

func (m *APIMock) FeatureEnumEntryGet(handle vmb.Handle, featureName string, entryName string, featureEnumEntry *vmb.FeatureEnumEntry) vmb.Error {
	return result(m.Called(handle, featureName, entryName, featureEnumEntry))
}

func (m *APIMock) FeatureStringGet(handle vmb.Handle, name string, buffer []byte, sizeFilled *uint32) vmb.Error {
	return result(m.Called(handle, name, buffer, sizeFilled))
}

func (m *APIMock) FeatureStringSet(handle vmb.Handle, name string, value string) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureStringMaxlengthQuery(handle vmb.Handle, name string, maxLength *uint32) vmb.Error {
	return result(m.Called(handle, name, maxLength))
}

func (m *APIMock) FeatureBoolGet(handle vmb.Handle, name string, value *bool) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureBoolSet(handle vmb.Handle, name string, value bool) vmb.Error {
	return result(m.Called(handle, name, value))
}

func (m *APIMock) FeatureCommandRun(handle vmb.Handle, name string) vmb.Error {
	return result(m.Called(handle, name))
}

func (m *APIMock) FeatureCommandIsDone(handle vmb.Handle, name string, isDone *bool) vmb.Error {
	return result(m.Called(handle, name, isDone))
}

func (m *APIMock) FeatureRawGet(handle vmb.Handle, name string, buffer []byte, sizeFilled *uint32) vmb.Error {
	return result(m.Called(handle, name, buffer, sizeFilled))
}

func (m *APIMock) FeatureRawSet(handle vmb.Handle, name string, buffer []byte) vmb.Error {
	return result(m.Called(handle, name, buffer))
}

func (m *APIMock) FeatureRawLengthQuery(handle vmb.Handle, name string, length *uint32) vmb.Error {
	return result(m.Called(handle, name, length))
}

func (m *APIMock) FeatureInvalidationRegister(handle vmb.Handle, name string, callback vmb.InvalidationCallback, userContext any) vmb.Error {
	return result(m.Called(handle, name, callback, userContext))
}

func (m *APIMock) FeatureInvalidationUnregister(handle vmb.Handle, name string, callback vmb.InvalidationCallback) vmb.Error {
	return result(m.Called(handle, name, callback))
}

func (m *APIMock) PayloadSizeGet(handle vmb.Handle, payloadSize *uint32) vmb.Error {
	return result(m.Called(handle, payloadSize))
}

func (m *APIMock) FrameAnnounce(handle vmb.Handle, frame *vmb.Frame) vmb.Error {
	return result(m.Called(handle, frame))
}

func (m *APIMock) FrameRevoke(handle vmb.Handle, frame *vmb.Frame) vmb.Error {
	return result(m.Called(handle, frame))
}

func (m *APIMock) FrameRevokeAll(handle vmb.Handle) vmb.Error {
	return result(m.Called(handle))
}

func (m *APIMock) CaptureStart(handle vmb.Handle) vmb.Error {
	return result(m.Called(handle))
}

func (m *APIMock) CaptureEnd(handle vmb.Handle) vmb.Error {
	return result(m.Called(handle))
}

func (m *APIMock) CaptureFrameQueue(handle vmb.Handle, frame *vmb.Frame, callback vmb.FrameCallback) vmb.Error {
	return result(m.Called(handle, frame, callback))
}

func (m *APIMock) CaptureFrameWait(handle vmb.Handle, frame *vmb.Frame, timeout uint32) vmb.Error {
	return result(m.Called(handle, frame, timeout))
}

func (m *APIMock) CaptureQueueFlush(handle vmb.Handle) vmb.Error {
	return result(m.Called(handle))
}

func (m *APIMock) TransportLayersList(transportLayerInfo []vmb.TransportLayerInfo, numFound *uint32) vmb.Error {
	return result(m.Called(transportLayerInfo, numFound))
}

func (m *APIMock) InterfacesList(interfaceInfo []vmb.InterfaceInfo, numFound *uint32) vmb.Error {
	return result(m.Called(interfaceInfo, numFound))
}

func (m *APIMock) MemoryRead(handle vmb.Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) vmb.Error {
	return result(m.Called(handle, address, dataBuffer, sizeComplete))
}

func (m *APIMock) MemoryWrite(handle vmb.Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) vmb.Error {
	return result(m.Called(handle, address, dataBuffer, sizeComplete))
}

func (m *APIMock) SettingsSave(handle vmb.Handle, filePath string, settings *vmb.FeaturePersistSettings) vmb.Error {
	return result(m.Called(handle, filePath, settings))
}

func (m *APIMock) SettingsLoad(handle vmb.Handle, filePath string, settings *vmb.FeaturePersistSettings) vmb.Error {
	return result(m.Called(handle, filePath, settings))
}

func (m *APIMock) ChunkDataAccess(frame *vmb.Frame, chunkAccessCallback vmb.ChunkAccessCallback, userContext any) vmb.Error {
	return result(m.Called(frame, chunkAccessCallback, userContext))
}
