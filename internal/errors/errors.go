package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailTaken is returned when a profile update collides with another user's email.
	ErrEmailTaken = errors.New("email already in use")
	// ErrUserNotFound is returned when a user cannot be resolved.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrRemarkNotFound is returned when a remark is not found by ID.
	ErrRemarkNotFound = errors.New("remark not found")
	// ErrRemarkForbidden is returned when the caller does not own the remark.
	ErrRemarkForbidden = errors.New("not authorized to access this remark")
	// ErrInvalidPriority is returned for a priority outside low/medium/high.
	ErrInvalidPriority = errors.New("invalid priority level")
	// ErrInvalidDate is returned when a date parameter cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrImageTooLarge is returned when an uploaded image exceeds the size limit.
	ErrImageTooLarge = errors.New("file size too large, maximum size is 5MB")
	// ErrNotAnImage is returned when an uploaded file is not an image.
	ErrNotAnImage = errors.New("only image files are allowed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserExists:
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case ErrEmailTaken:
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrRemarkNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "REMARK_NOT_FOUND")
	case ErrRemarkForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "REMARK_FORBIDDEN")
	case ErrInvalidPriority:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRIORITY")
	case ErrInvalidDate:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DATE")
	case ErrImageTooLarge:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "IMAGE_TOO_LARGE")
	case ErrNotAnImage:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_AN_IMAGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
