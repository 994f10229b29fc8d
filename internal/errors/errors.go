package errors

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// retryAfterSeconds is sent with 503 responses
const retryAfterSeconds = 1

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

type errorKind struct {
	status         int
	defaultMessage string
}

var errorKinds = map[string]errorKind{
	ErrCodeUnauthorized:       {http.StatusUnauthorized, "Authentication required"},
	ErrCodeInvalidCredentials: {http.StatusUnauthorized, "Invalid username or password"},
	ErrCodeForbidden:          {http.StatusForbidden, "Access denied"},
	ErrCodeInvalidInput:       {http.StatusBadRequest, "Invalid request"},
	ErrCodeNotFound:           {http.StatusNotFound, "Resource not found"},
	ErrCodeConflict:           {http.StatusConflict, "Resource conflict"},
	ErrCodeInternalError:      {http.StatusInternalServerError, "Internal server error"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// Respond writes the error body for code with the status the code maps to.
// An empty message is replaced by the code's default.
func Respond(c *gin.Context, code, message string) {
	kind, ok := errorKinds[code]
	if !ok {
		kind = errorKinds[ErrCodeInternalError]
	}
	if message == "" {
		message = kind.defaultMessage
	}
	c.JSON(kind.status, &APIError{Code: code, Message: message})
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	Respond(c, ErrCodeUnauthorized, message)
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	Respond(c, ErrCodeInvalidCredentials, message)
}

func Forbidden(c *gin.Context, message string) {
	Respond(c, ErrCodeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Respond(c, ErrCodeNotFound, message)
}

func BadRequest(c *gin.Context, message string) {
	Respond(c, ErrCodeInvalidInput, message)
}

func Conflict(c *gin.Context, message string) {
	Respond(c, ErrCodeConflict, message)
}

func InternalError(c *gin.Context, message string) {
	Respond(c, ErrCodeInternalError, message)
}

// ServiceUnavailable sends a 503 response with a Retry-After hint
func ServiceUnavailable(c *gin.Context, message string) {
	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	Respond(c, ErrCodeServiceUnavailable, message)
}
