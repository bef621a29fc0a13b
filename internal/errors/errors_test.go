package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", Validation("quantity must be at least 1"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"not logged in", ErrNotAuthenticated, http.StatusUnauthorized, "NOT_AUTHENTICATED"},
		{"role mismatch", ErrUnauthorized, http.StatusForbidden, "UNAUTHORIZED"},
		{"wrapped not found", fmt.Errorf("load product: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"empty cart", ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{"duplicate username", ErrDuplicateUsername, http.StatusConflict, "DUPLICATE_USERNAME"},
		{"duplicate email", ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{"stock", ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesStoreErrors(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 127.0.0.1:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
}

func TestValidation_KeepsMessage(t *testing.T) {
	err := Validation("price must not be negative")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "price must not be negative", err.Error())
}

func TestNotAuthenticatedBody(t *testing.T) {
	resp := MapErrorToHTTP(ErrNotAuthenticated).ToErrorResponse()
	assert.Equal(t, "Not logged in", resp.Error)
}
