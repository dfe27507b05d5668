// Package vmb describes the VmbC camera SDK surface in Go: its handles, info
// structs, frame layout, error codes and the API every backend implements.
package vmb

import (
	"fmt"
	"strings"
)

// Handle is an opaque SDK handle (camera, transport layer, interface, stream
// or chunk feature container).
type Handle uintptr

// AccessMode mirrors VmbAccessModeType.
type AccessMode uint32

const (
	AccessModeNone      AccessMode = 0
	AccessModeFull      AccessMode = 1
	AccessModeRead      AccessMode = 2
	AccessModeUnknown   AccessMode = 4
	AccessModeExclusive AccessMode = 8
)

// String lists the set flags joined by "|", e.g. "Full|Read".
func (m AccessMode) String() string {
	if m == AccessModeNone {
		return "None"
	}
	var parts []string
	for _, f := range []struct {
		mode AccessMode
		name string
	}{
		{AccessModeFull, "Full"},
		{AccessModeRead, "Read"},
		{AccessModeUnknown, "Unknown"},
		{AccessModeExclusive, "Exclusive"},
	} {
		if m&f.mode != 0 {
			parts = append(parts, f.name)
			m &^= f.mode
		}
	}
	if m != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(m)))
	}
	return strings.Join(parts, "|")
}

// VersionInfo is the SDK version triple.
type VersionInfo struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// TransportLayerType mirrors VmbTransportLayerType.
type TransportLayerType uint32

const (
	TransportLayerUnknown TransportLayerType = iota
	TransportLayerGEV
	TransportLayerCL
	TransportLayerIIDC
	TransportLayerUVC
	TransportLayerCXP
	TransportLayerCLHS
	TransportLayerU3V
	TransportLayerEthernet
	TransportLayerPCI
	TransportLayerCustom
	TransportLayerMixed
)

// TransportLayerInfo describes a loaded GenTL producer.
type TransportLayerInfo struct {
	IDString  string
	Name      string
	ModelName string
	Vendor    string
	Version   string
	Path      string
	Handle    Handle
	Type      TransportLayerType
}

// InterfaceInfo describes one interface of a transport layer.
type InterfaceInfo struct {
	IDString             string
	Name                 string
	Handle               Handle
	TransportLayerHandle Handle
	Type                 TransportLayerType
}

// CameraInfo mirrors VmbCameraInfo_t.
type CameraInfo struct {
	IDString             string
	IDExtended           string
	Name                 string
	ModelName            string
	SerialString         string
	TransportLayerHandle Handle
	InterfaceHandle      Handle
	LocalDeviceHandle    Handle
	StreamHandles        []Handle
	PermittedAccess      AccessMode
}

// FeatureDataType mirrors VmbFeatureDataType.
type FeatureDataType uint32

const (
	FeatureDataUnknown FeatureDataType = iota
	FeatureDataInt
	FeatureDataFloat
	FeatureDataEnum
	FeatureDataString
	FeatureDataBool
	FeatureDataCommand
	FeatureDataRaw
	FeatureDataNone
)

var featureDataTypeNames = [...]string{
	"Unknown", "Int", "Float", "Enum", "String", "Bool", "Command", "Raw", "None",
}

func (t FeatureDataType) String() string {
	if int(t) < len(featureDataTypeNames) {
		return featureDataTypeNames[t]
	}
	return "Unknown"
}

// FeatureFlags mirrors VmbFeatureFlagsType.
type FeatureFlags uint32

const (
	FeatureFlagsNone        FeatureFlags = 0
	FeatureFlagsRead        FeatureFlags = 1
	FeatureFlagsWrite       FeatureFlags = 2
	FeatureFlagsVolatile    FeatureFlags = 8
	FeatureFlagsModifyWrite FeatureFlags = 16
)

// Has reports whether all bits of f2 are set.
func (f FeatureFlags) Has(f2 FeatureFlags) bool { return f&f2 == f2 }

// FeatureVisibility mirrors VmbFeatureVisibilityType.
type FeatureVisibility uint32

const (
	VisibilityUnknown FeatureVisibility = iota
	VisibilityBeginner
	VisibilityExpert
	VisibilityGuru
	VisibilityInvisible
)

// FeatureInfo mirrors VmbFeatureInfo_t.
type FeatureInfo struct {
	Name                string
	Category            string
	DisplayName         string
	Tooltip             string
	Description         string
	SFNCNamespace       string
	Unit                string
	Representation      string
	DataType            FeatureDataType
	Flags               FeatureFlags
	PollingTime         uint32
	Visibility          FeatureVisibility
	IsStreamable        bool
	HasSelectedFeatures bool
}

// FeatureEnumEntry mirrors VmbFeatureEnumEntry_t.
type FeatureEnumEntry struct {
	Name          string
	DisplayName   string
	Tooltip       string
	Description   string
	IntValue      int64
	SFNCNamespace string
	Visibility    FeatureVisibility
}

// PersistType selects which features SettingsSave/SettingsLoad touch.
type PersistType uint32

const (
	PersistAll        PersistType = 0
	PersistStreamable PersistType = 1
	PersistNoLUT      PersistType = 2
)

// ModulePersistFlags selects the modules SettingsSave/SettingsLoad touch.
type ModulePersistFlags uint32

const (
	ModulePersistNone           ModulePersistFlags = 0x00
	ModulePersistTransportLayer ModulePersistFlags = 0x01
	ModulePersistInterface      ModulePersistFlags = 0x02
	ModulePersistRemoteDevice   ModulePersistFlags = 0x04
	ModulePersistLocalDevice    ModulePersistFlags = 0x08
	ModulePersistStreams        ModulePersistFlags = 0x10
	ModulePersistAll            ModulePersistFlags = 0xff
)

// FeaturePersistSettings mirrors VmbFeaturePersistSettings_t.
type FeaturePersistSettings struct {
	PersistType        PersistType
	ModulePersistFlags ModulePersistFlags
	MaxIterations      uint32
	LoggingLevel       uint32
}

// FrameStatus mirrors VmbFrameStatusType.
type FrameStatus int32

const (
	FrameStatusComplete   FrameStatus = 0
	FrameStatusIncomplete FrameStatus = -1
	FrameStatusTooSmall   FrameStatus = -2
	FrameStatusInvalid    FrameStatus = -3
)

// FrameFlags tells which output fields of a Frame are valid.
type FrameFlags uint32

const (
	FrameFlagsNone             FrameFlags = 0
	FrameFlagsDimension        FrameFlags = 1
	FrameFlagsOffset           FrameFlags = 2
	FrameFlagsFrameID          FrameFlags = 4
	FrameFlagsTimestamp        FrameFlags = 8
	FrameFlagsImageData        FrameFlags = 16
	FrameFlagsPayloadType      FrameFlags = 32
	FrameFlagsChunkDataPresent FrameFlags = 64
)

// Has reports whether all bits of f2 are set.
func (f FrameFlags) Has(f2 FrameFlags) bool { return f&f2 == f2 }

// PayloadType mirrors VmbPayloadType.
type PayloadType uint32

const (
	PayloadTypeUnknown  PayloadType = 0
	PayloadTypeImage    PayloadType = 1
	PayloadTypeRaw      PayloadType = 2
	PayloadTypeFile     PayloadType = 3
	PayloadTypeJPEG     PayloadType = 5
	PayloadTypeJPEG2000 PayloadType = 6
	PayloadTypeH264     PayloadType = 7
	PayloadTypeChunk    PayloadType = 8
)

// Frame mirrors VmbFrame_t. Buffer and Context are set by the user before
// FrameAnnounce; the remaining fields are filled by the SDK on completion.
// A frame is identified by its address.
type Frame struct {
	Buffer  []byte
	Context [4]any

	ReceiveStatus    FrameStatus
	FrameID          uint64
	Timestamp        uint64
	ImageData        []byte
	ReceiveFlags     FrameFlags
	PixelFormat      PixelFormat
	Width            uint32
	Height           uint32
	OffsetX          uint32
	OffsetY          uint32
	PayloadType      PayloadType
	ChunkDataPresent bool
}

// InvalidationCallback is invoked when the value or access of a feature may
// have changed.
type InvalidationCallback func(handle Handle, name string, userContext any)

// FrameCallback is invoked for every completed queued frame.
type FrameCallback func(cameraHandle Handle, streamHandle Handle, frame *Frame)

// ChunkAccessCallback receives a handle whose features are the chunk values
// of a frame. Its return value is returned by ChunkDataAccess.
type ChunkAccessCallback func(featureAccessHandle Handle, userContext any) Error
