package apperror

import "net/http"

// AppError is a custom error type that includes an HTTP status code and an
// optional underlying error.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 409)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a 400 for malformed input rejected before it reaches the
// availability engine.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// Conflict builds a 409 for retryable "pick again" conditions such as a slot
// lost to a concurrent reservation.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// Configuration builds a 503 for missing or invalid owner configuration that
// makes the request unservable.
func Configuration(err error, message string) *AppError {
	return Wrap(err, http.StatusServiceUnavailable, message)
}
