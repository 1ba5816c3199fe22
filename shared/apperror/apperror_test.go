package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeNotFound, http.StatusNotFound},
		{CodeInternal, http.StatusInternalServerError},
		{Code("something-new"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromUnwrapsTypedError(t *testing.T) {
	inner := NotFound("workshop not found")
	wrapped := fmt.Errorf("handling request: %w", inner)

	if got := From(wrapped); got != inner {
		t.Errorf("From() = %v, want the wrapped error", got)
	}
}

func TestFromHidesUntypedErrors(t *testing.T) {
	got := From(errors.New("connection reset by peer"))

	if got.Code != CodeInternal {
		t.Errorf("code = %q, want internal", got.Code)
	}
	if got.Message == "connection reset by peer" {
		t.Error("internal details must not leak to callers")
	}
}

func TestErrorString(t *testing.T) {
	err := PermissionDenied("nope")
	if err.Error() != "permission-denied: nope" {
		t.Errorf("Error() = %q", err.Error())
	}
}
