package failure_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"roombook/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestFailureKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		code    int
		message string
	}{
		{
			name:    "bad request",
			err:     failure.BadRequestFromString("start_time must be before end_time"),
			kind:    failure.ErrValidation,
			code:    http.StatusBadRequest,
			message: "start_time must be before end_time",
		},
		{
			name:    "bad request from error",
			err:     failure.BadRequest(errors.New("invalid date")),
			kind:    failure.ErrValidation,
			code:    http.StatusBadRequest,
			message: "invalid date",
		},
		{
			name:    "conflict",
			err:     failure.Conflict("room is already booked"),
			kind:    failure.ErrConflict,
			code:    http.StatusConflict,
			message: "room is already booked",
		},
		{
			name:    "duplicate",
			err:     failure.Duplicate("room name already exists"),
			kind:    failure.ErrDuplicate,
			code:    http.StatusConflict,
			message: "room name already exists",
		},
		{
			name:    "not found",
			err:     failure.NotFound("booking not found"),
			kind:    failure.ErrNotFound,
			code:    http.StatusNotFound,
			message: "booking not found",
		},
		{
			name:    "store unavailable",
			err:     failure.StoreUnavailable(context.DeadlineExceeded),
			kind:    failure.ErrStoreUnavailable,
			code:    http.StatusServiceUnavailable,
			message: "store unavailable: context deadline exceeded",
		},
		{
			name:    "unauthorized",
			err:     failure.Unauthorized("token expired"),
			kind:    failure.ErrUnauthorized,
			code:    http.StatusUnauthorized,
			message: "token expired",
		},
		{
			name:    "forbidden",
			err:     failure.Forbidden("Access denied"),
			kind:    failure.ErrForbidden,
			code:    http.StatusForbidden,
			message: "Access denied",
		},
		{
			name:    "internal",
			err:     failure.InternalError(errors.New("database connection failed")),
			kind:    failure.ErrInternal,
			code:    http.StatusInternalServerError,
			message: "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("expected %v to be of kind %v", tt.err, tt.kind)
			}

			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.kind) {
				t.Errorf("expected wrapped %v to be of kind %v", wrapped, tt.kind)
			}

			if code := failure.GetCode(wrapped); code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, code)
			}

			if tt.err.Error() != tt.message {
				t.Errorf("expected message to be %q, got %q", tt.message, tt.err.Error())
			}
		})
	}
}

func TestKindsAreDistinct(t *testing.T) {
	err := failure.Conflict("overlap")

	if errors.Is(err, failure.ErrDuplicate) {
		t.Error("conflict must not match duplicate")
	}

	if errors.Is(err, failure.ErrNotFound) {
		t.Error("conflict must not match not found")
	}
}

func TestNilInputs(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for BadRequest(nil)")
	}

	if failure.InternalError(nil) != nil {
		t.Error("expected nil for InternalError(nil)")
	}

	if msg := failure.StoreUnavailable(nil).Error(); msg != "store unavailable" {
		t.Errorf("expected plain message, got %q", msg)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "predefined failure",
			input:    failure.ForbiddenError,
			expected: http.StatusForbidden,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}
