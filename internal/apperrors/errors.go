package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing, invalid, expired or reused credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected downstream fault.
var ErrInternal = errors.New("internal error")

// AppError is the single structured error raised by the flows. It is rendered
// once at the HTTP boundary into the failure envelope.
type AppError struct {
	Code    int      `json:"statusCode"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	// Err is the underlying cause, kept for logs only.
	Err error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if kind := kindFor(e.Code); kind != nil {
		errs = append(errs, kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func kindFor(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrDuplicate
	case http.StatusInternalServerError:
		return ErrInternal
	}
	return nil
}

// NewAppError creates an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Errors: []string{}, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// NewValidationError is a bad request carrying per-field messages.
func NewValidationError(message string, fieldErrors []string) *AppError {
	appErr := NewAppError(http.StatusBadRequest, message, nil)
	if fieldErrors != nil {
		appErr.Errors = fieldErrors
	}
	return appErr
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, nil)
}

func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

// WithCause attaches the underlying error and returns the same AppError.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// FromError coerces any error into an AppError. Errors that are not already
// AppErrors are mapped by their sentinel kind, falling back to a generic 500.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("Resource not found").WithCause(err)
	case errors.Is(err, ErrDuplicate):
		return NewConflictError("Resource already exists").WithCause(err)
	case errors.Is(err, ErrValidation):
		return NewBadRequestError("Invalid request").WithCause(err)
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError("unauthorized request").WithCause(err)
	}
	return NewInternalServerError("Internal server error").WithCause(err)
}
