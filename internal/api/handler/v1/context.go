package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/caminho-companion/api/internal/api/handler/v1/response"
	"github.com/caminho-companion/api/internal/api/middleware"
)

func getUserIDFromContext(ctx *gin.Context) (string, *response.Err) {
	userID := ctx.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		return "", response.ErrUnauthorized(errors.New("missing user identity in context"))
	}

	return userID, nil
}

func getUserEmailFromContext(ctx *gin.Context) string {
	return ctx.GetString(middleware.ContextKeyUserEmail)
}
