package apierror

import (
	"context"
	"errors"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/node"
	"github.com/vmbx/vmbx/vmb"
)

func ErrBadRequest(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 409, Title: "Conflict", Detail: detail}
}
func ErrInternal(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}
func ErrNotImplemented(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 501, Title: "Not Implemented", Detail: detail}
}
func ErrUnavailable(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 503, Title: "Service Unavailable", Detail: detail}
}
func ErrTimeout(detail string) apitypes.ApiError {
	return apitypes.ApiError{Status: 504, Title: "Gateway Timeout", Detail: detail}
}

// WrapError normalizes any error into apitypes.ApiError. SDK failures keep
// their VmbC code and get a status matching its meaning.
func WrapError(err error) apitypes.ApiError {
	if ae, ok := err.(*apitypes.ApiError); ok {
		return *ae
	}
	if ae, ok := err.(apitypes.ApiError); ok {
		return ae
	}
	switch {
	case errors.Is(err, camera.ErrAlreadyStreaming), errors.Is(err, camera.ErrNotStreaming):
		return ErrConflict(err.Error())
	case errors.Is(err, node.ErrClosed), errors.Is(err, camera.ErrClosed):
		return ErrUnavailable(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout(err.Error())
	}
	var code vmb.Error
	if !errors.As(err, &code) {
		// Default wrap as internal error
		return ErrInternal(err.Error())
	}
	var out apitypes.ApiError
	switch code {
	case vmb.ErrorNotFound:
		out = ErrNotFound(err.Error())
	case vmb.ErrorBadParameter, vmb.ErrorInvalidValue, vmb.ErrorWrongType,
		vmb.ErrorInvalidAddress, vmb.ErrorMoreData, vmb.ErrorValidValueSetNotPresent:
		out = ErrBadRequest(err.Error())
	case vmb.ErrorInvalidAccess, vmb.ErrorInvalidCall, vmb.ErrorInUse,
		vmb.ErrorBusy, vmb.ErrorAlready, vmb.ErrorNotAvailable:
		out = ErrConflict(err.Error())
	case vmb.ErrorNotImplemented, vmb.ErrorNotSupported:
		out = ErrNotImplemented(err.Error())
	case vmb.ErrorTimeout:
		out = ErrTimeout(err.Error())
	case vmb.ErrorApiNotStarted, vmb.ErrorDeviceNotOpen, vmb.ErrorBadHandle:
		out = ErrUnavailable(err.Error())
	default:
		out = ErrInternal(err.Error())
	}
	out.Code = int32(code)
	return out
}
