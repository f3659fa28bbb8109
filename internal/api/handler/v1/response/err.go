package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`

	err error
}

func (e *Err) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.Msg
}

func newErr(statusCode int, msg string, err error) *Err {
	return &Err{
		StatusCode: statusCode,
		Msg:        msg,
		err:        err,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err.Error(), err)
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, "unauthorized", err)
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err.Error(), err)
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	msg := fmt.Sprintf("%v with %v (%v) is not found", resource, key, value)
	return newErr(http.StatusNotFound, msg, nil)
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err.Error(), err)
}

// ErrInternalServerError hides the underlying error from the client; the
// cause is only logged.
func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, "internal server error", err)
}

func RenderErr(ctx *gin.Context, err *Err) {
	fields := []zap.Field{
		zap.String("request_id", requestid.Get(ctx)),
		zap.String("path", ctx.FullPath()),
		zap.Error(err.err),
	}

	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error(err.Msg, fields...)
	} else {
		zap.L().Warn(err.Msg, fields...)
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
