package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"focuslist/focuslist/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JsonErr is the body of every error response.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

type Err struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %s, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

var statusByCode = map[string]int{
	"UNAUTHORIZED":     http.StatusUnauthorized,
	"FORBIDDEN":        http.StatusForbidden,
	"NOT_FOUND":        http.StatusNotFound,
	"VALIDATION_ERROR": http.StatusBadRequest,
	"CONFLICT":         http.StatusConflict,
	"INTERNAL_ERROR":   http.StatusInternalServerError,
}

// FromError converts a service error into its HTTP status and body. Internal
// errors never leak their message.
func FromError(err error) (int, JsonErr) {
	code := services.ErrorCode(err)
	status := statusByCode[code]

	var serr *services.ServiceError
	if code == "INTERNAL_ERROR" || !errors.As(err, &serr) {
		return http.StatusInternalServerError, JsonErr{ErrDetails: Err{Code: "INTERNAL_ERROR", Message: "Internal server error"}}
	}
	return status, JsonErr{ErrDetails: Err{Code: code, Message: serr.Message, Fields: serr.Fields}}
}

// Respond aborts the request with the response for err.
func Respond(c *gin.Context, err error) {
	status, body := FromError(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}

// Abort writes an error body that does not originate from a service call.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, JsonErr{ErrDetails: Err{Code: code, Message: message}})
}

func BadRequest(c *gin.Context, message string, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, JsonErr{ErrDetails: Err{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Fields:  fields,
	}})
}
