package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the caller has no valid identity.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden is returned when the caller's role or ownership is insufficient.
	ErrForbidden = errors.New("not enough permissions")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrSprintNotFound is returned when a sprint is not found.
	ErrSprintNotFound = errors.New("sprint not found")
	// ErrStoryNotFound is returned when a story is not found.
	ErrStoryNotFound = errors.New("story not found")

	// ErrPrefixTaken is returned when a project prefix is already in use.
	ErrPrefixTaken = errors.New("project prefix already exists")
	// ErrInvalidDateRange is returned when a sprint does not end after it starts.
	ErrInvalidDateRange = errors.New("end date must be after start date")
	// ErrSprintProjectMismatch is returned when a story is scheduled into another project's sprint.
	ErrSprintProjectMismatch = errors.New("sprint belongs to a different project")
	// ErrProjectNotEmpty is returned when deleting a project that still owns sprints or stories.
	ErrProjectNotEmpty = errors.New("project still has sprints or stories")
	// ErrValidation is wrapped by every malformed-input error.
	ErrValidation = errors.New("validation failed")

	// ErrUserAlreadyExists is returned when a username or email is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Validation wraps ErrValidation with a human readable reason.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

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

var mappings = []struct {
	target error
	status int
	code   string
}{
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrProjectNotFound, http.StatusNotFound, "PROJECT_NOT_FOUND"},
	{ErrSprintNotFound, http.StatusNotFound, "SPRINT_NOT_FOUND"},
	{ErrStoryNotFound, http.StatusNotFound, "STORY_NOT_FOUND"},
	{ErrPrefixTaken, http.StatusBadRequest, "PREFIX_TAKEN"},
	{ErrInvalidDateRange, http.StatusBadRequest, "INVALID_DATE_RANGE"},
	{ErrSprintProjectMismatch, http.StatusBadRequest, "SPRINT_PROJECT_MISMATCH"},
	{ErrProjectNotEmpty, http.StatusBadRequest, "PROJECT_NOT_EMPTY"},
	{ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
