package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with its HTTP translation.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// The portal's failure taxonomy. Configuration problems surface as 500/503,
// request-shape problems as 400, identity problems as 404/409, upstream
// store failures as 500. Per-row data-quality issues during ingestion are
// result data, never errors.
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrConflict           = New(http.StatusConflict, "Conflict", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Validation creates a 400 error with a caller-supplied message.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound creates a 404 error with a caller-supplied message.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Conflict creates a 409 error with a caller-supplied message.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Respond translates any error into the stable {"error": "..."} envelope.
func Respond(c *gin.Context, err error) {
	if appErr, ok := err.(*Error); ok {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
