package vmbmock

import "github.com/vmbx/vmbx/vmb"

// forwarder implements vmb.API by calling the shared mock current at call
// time, so functions resolved before a Reset reach the fresh instance.
type forwarder struct{}

var _ vmb.API = forwarder{}

func (forwarder) VersionQuery(versionInfo *vmb.VersionInfo) vmb.Error {
	return Instance().VersionQuery(versionInfo)
}

func (forwarder) Startup(pathConfiguration string) vmb.Error {
	return Instance().Startup(pathConfiguration)
}

func (forwarder) Shutdown() {
	Instance().Shutdown()
}

func (forwarder) CamerasList(cameraInfo []vmb.CameraInfo, numFound *uint32) vmb.Error {
	return Instance().CamerasList(cameraInfo, numFound)
}

func (forwarder) CameraInfoQueryByHandle(cameraHandle vmb.Handle, info *vmb.CameraInfo) vmb.Error {
	return Instance().CameraInfoQueryByHandle(cameraHandle, info)
}

func (forwarder) CameraInfoQuery(idString string, info *vmb.CameraInfo) vmb.Error {
	return Instance().CameraInfoQuery(idString, info)
}

func (forwarder) CameraOpen(idString string, accessMode vmb.AccessMode, cameraHandle *vmb.Handle) vmb.Error {
	return Instance().CameraOpen(idString, accessMode, cameraHandle)
}

func (forwarder) CameraClose(cameraHandle vmb.Handle) vmb.Error {
	return Instance().CameraClose(cameraHandle)
}

func (forwarder) FeaturesList(handle vmb.Handle, featureInfoList []vmb.FeatureInfo, numFound *uint32) vmb.Error {
	return Instance().FeaturesList(handle, featureInfoList, numFound)
}

func (forwarder) FeatureInfoQuery(handle vmb.Handle, name string, featureInfo *vmb.FeatureInfo) vmb.Error {
	return Instance().FeatureInfoQuery(handle, name, featureInfo)
}

func (forwarder) FeatureListSelected(handle vmb.Handle, name string, featureInfoList []vmb.FeatureInfo, numFound *uint32) vmb.Error {
	return Instance().FeatureListSelected(handle, name, featureInfoList, numFound)
}

func (forwarder) FeatureAccessQuery(handle vmb.Handle, name string, isReadable *bool, isWriteable *bool) vmb.Error {
	return Instance().FeatureAccessQuery(handle, name, isReadable, isWriteable)
}

func (forwarder) FeatureIntGet(handle vmb.Handle, name string, value *int64) vmb.Error {
	return Instance().FeatureIntGet(handle, name, value)
}

func (forwarder) FeatureIntSet(handle vmb.Handle, name string, value int64) vmb.Error {
	return Instance().FeatureIntSet(handle, name, value)
}

func (forwarder) FeatureIntRangeQuery(handle vmb.Handle, name string, min *int64, max *int64) vmb.Error {
	return Instance().FeatureIntRangeQuery(handle, name, min, max)
}

func (forwarder) FeatureIntIncrementQuery(handle vmb.Handle, name string, value *int64) vmb.Error {
	return Instance().FeatureIntIncrementQuery(handle, name, value)
}

func (forwarder) FeatureIntValidValueSetQuery(handle vmb.Handle, name string, buffer []int64, setSize *uint32) vmb.Error {
	return Instance().FeatureIntValidValueSetQuery(handle, name, buffer, setSize)
}

func (forwarder) FeatureFloatGet(handle vmb.Handle, name string, value *float64) vmb.Error {
	return Instance().FeatureFloatGet(handle, name, value)
}

func (forwarder) FeatureFloatSet(handle vmb.Handle, name string, value float64) vmb.Error {
	return Instance().FeatureFloatSet(handle, name, value)
}

func (forwarder) FeatureFloatRangeQuery(handle vmb.Handle, name string, min *float64, max *float64) vmb.Error {
	return Instance().FeatureFloatRangeQuery(handle, name, min, max)
}

func (forwarder) FeatureFloatIncrementQuery(handle vmb.Handle, name string, hasIncrement *bool, value *float64) vmb.Error {
	return Instance().FeatureFloatIncrementQuery(handle, name, hasIncrement, value)
}

func (forwarder) FeatureEnumGet(handle vmb.Handle, name string, value *string) vmb.Error {
	return Instance().FeatureEnumGet(handle, name, value)
}

func (forwarder) FeatureEnumSet(handle vmb.Handle, name string, value string) vmb.Error {
	return Instance().FeatureEnumSet(handle, name, value)
}

func (forwarder) FeatureEnumRangeQuery(handle vmb.Handle, name string, nameArray []string, numFound *uint32) vmb.Error {
	return Instance().FeatureEnumRangeQuery(handle, name, nameArray, numFound)
}

func (forwarder) FeatureEnumIsAvailable(handle vmb.Handle, name string, value string, isAvailable *bool) vmb.Error {
	return Instance().FeatureEnumIsAvailable(handle, name, value, isAvailable)
}

func (forwarder) FeatureEnumAsInt(handle vmb.Handle, name string, value string, intVal *int64) vmb.Error {
	return Instance().FeatureEnumAsInt(handle, name, value, intVal)
}

func (forwarder) FeatureEnumAsString(handle vmb.Handle, name string, intValue int64, stringValue *string) vmb.Error {
	return Instance().FeatureEnumAsString(handle, name, intValue, stringValue)
}

func (forwarder) FeatureEnumEntryGet(handle vmb.Handle, featureName string, entryName string, featureEnumEntry *vmb.FeatureEnumEntry) vmb.Error {
	return Instance().FeatureEnumEntryGet(handle, featureName, entryName, featureEnumEntry)
}

func (forwarder) FeatureStringGet(handle vmb.Handle, name string, buffer []byte, sizeFilled *uint32) vmb.Error {
	return Instance().FeatureStringGet(handle, name, buffer, sizeFilled)
}

func (forwarder) FeatureStringSet(handle vmb.Handle, name string, value string) vmb.Error {
	return Instance().FeatureStringSet(handle, name, value)
}

func (forwarder) FeatureStringMaxlengthQuery(handle vmb.Handle, name string, maxLength *uint32) vmb.Error {
	return Instance().FeatureStringMaxlengthQuery(handle, name, maxLength)
}

func (forwarder) FeatureBoolGet(handle vmb.Handle, name string, value *bool) vmb.Error {
	return Instance().FeatureBoolGet(handle, name, value)
}

func (forwarder) FeatureBoolSet(handle vmb.Handle, name string, value bool) vmb.Error {
	return Instance().FeatureBoolSet(handle, name, value)
}

func (forwarder) FeatureCommandRun(handle vmb.Handle, name string) vmb.Error {
	return Instance().FeatureCommandRun(handle, name)
}

func (forwarder) FeatureCommandIsDone(handle vmb.Handle, name string, isDone *bool) vmb.Error {
	return Instance().FeatureCommandIsDone(handle, name, isDone)
}

func (forwarder) FeatureRawGet(handle vmb.Handle, name string, buffer []byte, sizeFilled *uint32) vmb.Error {
	return Instance().FeatureRawGet(handle, name, buffer, sizeFilled)
}

func (forwarder) FeatureRawSet(handle vmb.Handle, name string, buffer []byte) vmb.Error {
	return Instance().FeatureRawSet(handle, name, buffer)
}

func (forwarder) FeatureRawLengthQuery(handle vmb.Handle, name string, length *uint32) vmb.Error {
	return Instance().FeatureRawLengthQuery(handle, name, length)
}

func (forwarder) FeatureInvalidationRegister(handle vmb.Handle, name string, callback vmb.InvalidationCallback, userContext any) vmb.Error {
	return Instance().FeatureInvalidationRegister(handle, name, callback, userContext)
}

func (forwarder) FeatureInvalidationUnregister(handle vmb.Handle, name string, callback vmb.InvalidationCallback) vmb.Error {
	return Instance().FeatureInvalidationUnregister(handle, name, callback)
}

func (forwarder) PayloadSizeGet(handle vmb.Handle, payloadSize *uint32) vmb.Error {
	return Instance().PayloadSizeGet(handle, payloadSize)
}

func (forwarder) FrameAnnounce(handle vmb.Handle, frame *vmb.Frame) vmb.Error {
	return Instance().FrameAnnounce(handle, frame)
}

func (forwarder) FrameRevoke(handle vmb.Handle, frame *vmb.Frame) vmb.Error {
	return Instance().FrameRevoke(handle, frame)
}

func (forwarder) FrameRevokeAll(handle vmb.Handle) vmb.Error {
	return Instance().FrameRevokeAll(handle)
}

func (forwarder) CaptureStart(handle vmb.Handle) vmb.Error {
	return Instance().CaptureStart(handle)
}

func (forwarder) CaptureEnd(handle vmb.Handle) vmb.Error {
	return Instance().CaptureEnd(handle)
}

func (forwarder) CaptureFrameQueue(handle vmb.Handle, frame *vmb.Frame, callback vmb.FrameCallback) vmb.Error {
	return Instance().CaptureFrameQueue(handle, frame, callback)
}

func (forwarder) CaptureFrameWait(handle vmb.Handle, frame *vmb.Frame, timeout uint32) vmb.Error {
	return Instance().CaptureFrameWait(handle, frame, timeout)
}

func (forwarder) CaptureQueueFlush(handle vmb.Handle) vmb.Error {
	return Instance().CaptureQueueFlush(handle)
}

func (forwarder) TransportLayersList(transportLayerInfo []vmb.TransportLayerInfo, numFound *uint32) vmb.Error {
	return Instance().TransportLayersList(transportLayerInfo, numFound)
}

func (forwarder) InterfacesList(interfaceInfo []vmb.InterfaceInfo, numFound *uint32) vmb.Error {
	return Instance().InterfacesList(interfaceInfo, numFound)
}

func (forwarder) MemoryRead(handle vmb.Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) vmb.Error {
	return Instance().MemoryRead(handle, address, dataBuffer, sizeComplete)
}

func (forwarder) MemoryWrite(handle vmb.Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) vmb.Error {
	return Instance().MemoryWrite(handle, address, dataBuffer, sizeComplete)
}

func (forwarder) SettingsSave(handle vmb.Handle, filePath string, settings *vmb.FeaturePersistSettings) vmb.Error {
	return Instance().SettingsSave(handle, filePath, settings)
}

func (forwarder) SettingsLoad(handle vmb.Handle, filePath string, settings *vmb.FeaturePersistSettings) vmb.Error {
	return Instance().SettingsLoad(handle, filePath, settings)
}

func (forwarder) ChunkDataAccess(frame *vmb.Frame, chunkAccessCallback vmb.ChunkAccessCallback, userContext any) vmb.Error {
	return Instance().ChunkDataAccess(frame, chunkAccessCallback, userContext)
}
