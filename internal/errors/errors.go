package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailExists is returned when registering with an email that is taken.
	ErrEmailExists = errors.New("email already exists")
	// ErrStudentNotFound is returned when no student matches a login email.
	ErrStudentNotFound = errors.New("student not found")
	// ErrAdminNotFound is returned at login when no admin matches an
	// email/department pair. It is a credential failure.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrAdminMissing is returned when a profile or reset operation targets an
	// admin email with no account behind it.
	ErrAdminMissing = errors.New("admin not found")
	// ErrBadCredentials is returned when a password comparison fails.
	ErrBadCredentials = errors.New("incorrect password")
	// ErrAccountNotFound is returned when an email matches neither a user nor an admin.
	ErrAccountNotFound = errors.New("user not found")
	// ErrComplaintNotFound is returned when no complaint matches the given id.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrNotOwner is returned when a student touches a complaint they do not own.
	ErrNotOwner = errors.New("unauthorized")
	// ErrInvalidStatus is returned for a status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrInvalidResetCode is returned for a wrong, missing or expired reset code.
	ErrInvalidResetCode = errors.New("invalid or expired reset code")
)

// ErrorResponse is the JSON body returned on failure. Every error surfaces as
// a message string, matching what the frontend expects.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError pairs a domain error message with an HTTP status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailExists), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidResetCode):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStudentNotFound), errors.Is(err, ErrAdminNotFound), errors.Is(err, ErrBadCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotOwner):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrAdminMissing), errors.Is(err, ErrComplaintNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}
