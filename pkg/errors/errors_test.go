package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "booking not found"},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	original := errors.New("original error")
	appErr := Wrap(original, CodeInternal, "wrapped", http.StatusInternalServerError)

	assert.Same(t, original, errors.Unwrap(appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode())
}

func TestBookingConflict(t *testing.T) {
	conflicts := []string{"booking-a"}
	err := BookingConflict("dates overlap", conflicts)

	assert.Equal(t, CodeBookingConflict, err.Code)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
	assert.Equal(t, conflicts, err.Details["conflicts"])
}

func TestIllegalTransition(t *testing.T) {
	err := IllegalTransition("confirmed/ready_to_ship", "activate")

	assert.Equal(t, CodeIllegalTransition, err.Code)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
	assert.Equal(t, "confirmed/ready_to_ship", err.Details["from"])
	assert.Equal(t, "activate", err.Details["operation"])
	assert.Contains(t, err.Message, "activate")
}

func TestPricingConfiguration(t *testing.T) {
	cause := errors.New("no tier")
	err := PricingConfiguration("pricing is misconfigured", cause)

	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "12345")

	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, "Booking not found", err.Message)
	assert.Equal(t, "12345", err.Details["id"])
	assert.Equal(t, "Booking", err.Details["resource"])
}

func TestConstructorsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("locked"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Mongo"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFoundWithID("Payment", "p1")
	wrapped := fmt.Errorf("handler: %w", appErr)
	regular := errors.New("regular error")

	assert.True(t, IsAppError(wrapped))
	assert.False(t, IsAppError(regular))
	assert.Same(t, appErr, AsAppError(wrapped))

	result := AsAppError(regular)
	require.NotNil(t, result)
	assert.Equal(t, CodeInternal, result.Code)
	assert.Same(t, regular, result.Err)
}

func TestResponse(t *testing.T) {
	err := Validation("invalid booking", map[string]any{"field": "end_date"})
	resp := err.Response()

	assert.Equal(t, CodeValidation, resp.Code)
	assert.Equal(t, "invalid booking", resp.Message)
	assert.Equal(t, "end_date", resp.Details["field"])
}
