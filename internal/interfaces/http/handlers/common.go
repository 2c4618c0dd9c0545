package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/pauling/internal/interfaces/http/middleware"
	"github.com/turtacn/pauling/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured error response.
func writeError(c *gin.Context, statusCode int, code errors.ErrorCode, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// writeAppError maps err to an HTTP status through its error code.  Errors
// without a code, and every 5xx, are masked.
func writeAppError(c *gin.Context, err error) {
	_ = c.Error(err)

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeError(c, http.StatusRequestEntityTooLarge, errors.ErrCodeBadRequest, "request body too large")
		return
	}

	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		writeError(c, http.StatusInternalServerError, errors.ErrCodeInternal, "internal server error")
		return
	}
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError {
		writeError(c, status, code, errors.DefaultMessageForCode(code))
		return
	}
	writeError(c, status, code, err.Error())
}

//Personal.AI order the ending
