package vmb

import (
	"errors"
	"fmt"
)

// Error is an SDK return code (VmbError_t). Zero means success; every other
// value is a failure that can be used as a Go error directly.
type Error int32

const (
	ErrorSuccess                 Error = 0
	ErrorInternalFault           Error = -1
	ErrorApiNotStarted           Error = -2
	ErrorNotFound                Error = -3
	ErrorBadHandle               Error = -4
	ErrorDeviceNotOpen           Error = -5
	ErrorInvalidAccess           Error = -6
	ErrorBadParameter            Error = -7
	ErrorStructSize              Error = -8
	ErrorMoreData                Error = -9
	ErrorWrongType               Error = -10
	ErrorInvalidValue            Error = -11
	ErrorTimeout                 Error = -12
	ErrorOther                   Error = -13
	ErrorResources               Error = -14
	ErrorInvalidCall             Error = -15
	ErrorNoTL                    Error = -16
	ErrorNotImplemented          Error = -17
	ErrorNotSupported            Error = -18
	ErrorIncomplete              Error = -19
	ErrorIO                      Error = -20
	ErrorValidValueSetNotPresent Error = -21
	ErrorGenTLUnspecified        Error = -22
	ErrorUnspecified             Error = -23
	ErrorBusy                    Error = -24
	ErrorNoData                  Error = -25
	ErrorParsingChunkData        Error = -26
	ErrorInUse                   Error = -27
	ErrorUnknown                 Error = -28
	ErrorXml                     Error = -29
	ErrorNotAvailable            Error = -30
	ErrorNotInitialized          Error = -31
	ErrorInvalidAddress          Error = -32
	ErrorAlready                 Error = -33
	ErrorNoChunkData             Error = -34
	ErrorUserCallbackException   Error = -35
	ErrorFeaturesUnavailable     Error = -36
	ErrorTLNotFound              Error = -37
	ErrorAmbiguous               Error = -39
	ErrorRetriesExceeded         Error = -40
	ErrorInsufficientBufferCount Error = -41
	ErrorCustom                  Error = -9000
)

var errorNames = map[Error]string{
	ErrorSuccess:                 "VmbErrorSuccess",
	ErrorInternalFault:           "VmbErrorInternalFault",
	ErrorApiNotStarted:           "VmbErrorApiNotStarted",
	ErrorNotFound:                "VmbErrorNotFound",
	ErrorBadHandle:               "VmbErrorBadHandle",
	ErrorDeviceNotOpen:           "VmbErrorDeviceNotOpen",
	ErrorInvalidAccess:           "VmbErrorInvalidAccess",
	ErrorBadParameter:            "VmbErrorBadParameter",
	ErrorStructSize:              "VmbErrorStructSize",
	ErrorMoreData:                "VmbErrorMoreData",
	ErrorWrongType:               "VmbErrorWrongType",
	ErrorInvalidValue:            "VmbErrorInvalidValue",
	ErrorTimeout:                 "VmbErrorTimeout",
	ErrorOther:                   "VmbErrorOther",
	ErrorResources:               "VmbErrorResources",
	ErrorInvalidCall:             "VmbErrorInvalidCall",
	ErrorNoTL:                    "VmbErrorNoTL",
	ErrorNotImplemented:          "VmbErrorNotImplemented",
	ErrorNotSupported:            "VmbErrorNotSupported",
	ErrorIncomplete:              "VmbErrorIncomplete",
	ErrorIO:                      "VmbErrorIO",
	ErrorValidValueSetNotPresent: "VmbErrorValidValueSetNotPresent",
	ErrorGenTLUnspecified:        "VmbErrorGenTLUnspecified",
	ErrorUnspecified:             "VmbErrorUnspecified",
	ErrorBusy:                    "VmbErrorBusy",
	ErrorNoData:                  "VmbErrorNoData",
	ErrorParsingChunkData:        "VmbErrorParsingChunkData",
	ErrorInUse:                   "VmbErrorInUse",
	ErrorUnknown:                 "VmbErrorUnknown",
	ErrorXml:                     "VmbErrorXml",
	ErrorNotAvailable:            "VmbErrorNotAvailable",
	ErrorNotInitialized:          "VmbErrorNotInitialized",
	ErrorInvalidAddress:          "VmbErrorInvalidAddress",
	ErrorAlready:                 "VmbErrorAlready",
	ErrorNoChunkData:             "VmbErrorNoChunkData",
	ErrorUserCallbackException:   "VmbErrorUserCallbackException",
	ErrorFeaturesUnavailable:     "VmbErrorFeaturesUnavailable",
	ErrorTLNotFound:              "VmbErrorTLNotFound",
	ErrorAmbiguous:               "VmbErrorAmbiguous",
	ErrorRetriesExceeded:         "VmbErrorRetriesExceeded",
	ErrorInsufficientBufferCount: "VmbErrorInsufficientBufferCount",
	ErrorCustom:                  "VmbErrorCustom",
}

// String returns the SDK constant name, e.g. "VmbErrorInvalidValue".
// Codes below ErrorCustom are vendor defined and printed numerically.
func (e Error) String() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	if e < ErrorCustom {
		return fmt.Sprintf("VmbErrorCustom%+d", int32(e-ErrorCustom))
	}
	return fmt.Sprintf("VmbError(%d)", int32(e))
}

func (e Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.String(), int32(e))
}

// Err converts the code into a Go error, nil for ErrorSuccess.
func (e Error) Err() error {
	if e == ErrorSuccess {
		return nil
	}
	return e
}

// Code extracts the SDK code from err. It returns ErrorSuccess for nil and
// ErrorOther when err carries no SDK code.
func Code(err error) Error {
	if err == nil {
		return ErrorSuccess
	}
	var code Error
	if errors.As(err, &code) {
		return code
	}
	return ErrorOther
}
