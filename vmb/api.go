package vmb

// API is the VmbC function surface. Every method maps to exactly one SDK
// entry point (the method name without the "Vmb" prefix) and keeps its
// parameter roles: inputs first, out-parameters as pointers, list buffers as
// slices whose length is the C list length. Struct-size arguments are implied
// by the Go types and therefore omitted.
type API interface {
	VersionQuery(versionInfo *VersionInfo) Error
	Startup(pathConfiguration string) Error
	Shutdown()

	CamerasList(cameraInfo []CameraInfo, numFound *uint32) Error
	CameraInfoQueryByHandle(cameraHandle Handle, info *CameraInfo) Error
	CameraInfoQuery(idString string, info *CameraInfo) Error
	CameraOpen(idString string, accessMode AccessMode, cameraHandle *Handle) Error
	CameraClose(cameraHandle Handle) Error

	FeaturesList(handle Handle, featureInfoList []FeatureInfo, numFound *uint32) Error
	FeatureInfoQuery(handle Handle, name string, featureInfo *FeatureInfo) Error
	FeatureListSelected(handle Handle, name string, featureInfoList []FeatureInfo, numFound *uint32) Error
	FeatureAccessQuery(handle Handle, name string, isReadable, isWriteable *bool) Error

	FeatureIntGet(handle Handle, name string, value *int64) Error
	FeatureIntSet(handle Handle, name string, value int64) Error
	FeatureIntRangeQuery(handle Handle, name string, min, max *int64) Error
	FeatureIntIncrementQuery(handle Handle, name string, value *int64) Error
	FeatureIntValidValueSetQuery(handle Handle, name string, buffer []int64, setSize *uint32) Error

	FeatureFloatGet(handle Handle, name string, value *float64) Error
	FeatureFloatSet(handle Handle, name string, value float64) Error
	FeatureFloatRangeQuery(handle Handle, name string, min, max *float64) Error
	FeatureFloatIncrementQuery(handle Handle, name string, hasIncrement *bool, value *float64) Error

	FeatureEnumGet(handle Handle, name string, value *string) Error
	FeatureEnumSet(handle Handle, name string, value string) Error
	FeatureEnumRangeQuery(handle Handle, name string, nameArray []string, numFound *uint32) Error
	FeatureEnumIsAvailable(handle Handle, name string, value string, isAvailable *bool) Error
	FeatureEnumAsInt(handle Handle, name string, value string, intVal *int64) Error
	FeatureEnumAsString(handle Handle, name string, intValue int64, stringValue *string) Error
	FeatureEnumEntryGet(handle Handle, featureName string, entryName string, featureEnumEntry *FeatureEnumEntry) Error

	FeatureStringGet(handle Handle, name string, buffer []byte, sizeFilled *uint32) Error
	FeatureStringSet(handle Handle, name string, value string) Error
	FeatureStringMaxlengthQuery(handle Handle, name string, maxLength *uint32) Error

	FeatureBoolGet(handle Handle, name string, value *bool) Error
	FeatureBoolSet(handle Handle, name string, value bool) Error

	FeatureCommandRun(handle Handle, name string) Error
	FeatureCommandIsDone(handle Handle, name string, isDone *bool) Error

	FeatureRawGet(handle Handle, name string, buffer []byte, sizeFilled *uint32) Error
	FeatureRawSet(handle Handle, name string, buffer []byte) Error
	FeatureRawLengthQuery(handle Handle, name string, length *uint32) Error

	FeatureInvalidationRegister(handle Handle, name string, callback InvalidationCallback, userContext any) Error
	FeatureInvalidationUnregister(handle Handle, name string, callback InvalidationCallback) Error

	PayloadSizeGet(handle Handle, payloadSize *uint32) Error
	FrameAnnounce(handle Handle, frame *Frame) Error
	FrameRevoke(handle Handle, frame *Frame) Error
	FrameRevokeAll(handle Handle) Error
	CaptureStart(handle Handle) Error
	CaptureEnd(handle Handle) Error
	CaptureFrameQueue(handle Handle, frame *Frame, callback FrameCallback) Error
	CaptureFrameWait(handle Handle, frame *Frame, timeout uint32) Error
	CaptureQueueFlush(handle Handle) Error

	TransportLayersList(transportLayerInfo []TransportLayerInfo, numFound *uint32) Error
	InterfacesList(interfaceInfo []InterfaceInfo, numFound *uint32) Error

	MemoryRead(handle Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) Error
	MemoryWrite(handle Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) Error

	SettingsSave(handle Handle, filePath string, settings *FeaturePersistSettings) Error
	SettingsLoad(handle Handle, filePath string, settings *FeaturePersistSettings) Error

	ChunkDataAccess(frame *Frame, chunkAccessCallback ChunkAccessCallback, userContext any) Error
}
