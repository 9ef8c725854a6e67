package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestAppError_KindAndCause(t *testing.T) {
	cause := errors.New("hashed password is missing")
	err := apperrors.NewUnauthorizedError("User password is incorrect.").WithCause(cause)

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "User password is incorrect.: hashed password is missing", err.Error())
}

func TestAppError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("login: %w", apperrors.NewConflictError("taken"))

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"app error passthrough", apperrors.NewBadRequestError("nope"), http.StatusBadRequest},
		{"not found sentinel", fmt.Errorf("find: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"duplicate sentinel", apperrors.ErrDuplicate, http.StatusConflict},
		{"unauthorized sentinel", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, apperrors.FromError(tt.err).Code)
		})
	}
	assert.Nil(t, apperrors.FromError(nil))
}

func TestNewValidationError_KeepsFieldErrors(t *testing.T) {
	err := apperrors.NewValidationError("Validation failed", []string{"email must be a valid email"})
	assert.Equal(t, []string{"email must be a valid email"}, err.Errors)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	empty := apperrors.NewValidationError("Validation failed", nil)
	assert.NotNil(t, empty.Errors)
}
