package api

import apierror "github.com/vmbx/vmbx/internal/server/api/error"

// Factory helpers returning *apitypes.ApiError (single canonical error type).
var (
	ErrBadRequest = apierror.ErrBadRequest
	ErrNotFound   = apierror.ErrNotFound
	ErrConflict   = apierror.ErrConflict
	ErrInternal   = apierror.ErrInternal
)

// WrapError normalizes any error into an apitypes.ApiError.
var WrapError = apierror.WrapError
