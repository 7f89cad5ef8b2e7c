package failure

import (
	"errors"
	"net/http"
)

// Error kinds. Every Failure unwraps to one of these so callers can branch with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrDuplicate        = errors.New("duplicate error")
	ErrConflict         = errors.New("conflict error")
	ErrNotFound         = errors.New("not found error")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInternal         = errors.New("internal error")
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	kind    error
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter", kind: ErrValidation}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter", kind: ErrValidation}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions", kind: ErrForbidden}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the error kind.
func (e *Failure) Unwrap() error {
	return e.kind
}

// BadRequest returns a new validation Failure derived from an error.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			kind:    ErrValidation,
		}
	}

	return nil
}

// BadRequestFromString returns a new validation Failure with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
		kind:    ErrValidation,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
		kind:    ErrUnauthorized,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			kind:    ErrInternal,
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: msg,
		kind:    ErrNotFound,
	}
}

// Conflict returns a new Failure for a rejected admission or a referential conflict.
func Conflict(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: msg,
		kind:    ErrConflict,
	}
}

// Duplicate returns a new Failure for a unique value that is already taken.
func Duplicate(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: msg,
		kind:    ErrDuplicate,
	}
}

// StoreUnavailable returns a new Failure for a storage operation that did not complete.
// The wrapped operation must not be assumed to have committed or rolled back.
func StoreUnavailable(err error) error {
	msg := "store unavailable"
	if err != nil {
		msg = "store unavailable: " + err.Error()
	}

	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Message: msg,
		kind:    ErrStoreUnavailable,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
		kind:    ErrForbidden,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
