package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caminho-companion/api/internal/api/handler/v1/request"
	"github.com/caminho-companion/api/internal/api/handler/v1/response"
	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/service"
)

type ChatService interface {
	ListMessages(ctx context.Context, activityID uint, viewerID string) ([]domain.ChatMessage, error)
	PostMessage(ctx context.Context, activityID uint, senderID, content string, isAdmin bool) (domain.ChatMessage, error)
}

type ChatHandler struct {
	svc    ChatService
	access AccessChecker
}

func NewChatHandler(svc ChatService, access AccessChecker) *ChatHandler {
	return &ChatHandler{
		svc:    svc,
		access: access,
	}
}

// HandleGetMessages godoc
// @Summary      Get activity chat
// @Description  Returns the activity's messages, oldest first. Members only.
// @Tags         chat
// @Produce      json
// @Param        activityID  path      int  true  "Activity ID"
// @Success      200  {array}   domain.ChatMessage
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID}/messages [get]
// @Security     BearerAuth
func (h *ChatHandler) HandleGetMessages(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activityID, respErr := parseActivityID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	messages, err := h.svc.ListMessages(ctx.Request.Context(), activityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("activity", "ID", activityID))
		case errors.Is(err, service.ErrNotMember):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("HandleGetMessages -> h.svc.ListMessages -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// HandlePostMessage godoc
// @Summary      Post a chat message
// @Description  Appends a message to the activity's chat and notifies the other members. Members with a verified identity only; admins are exempt.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        activityID  path      int                        true  "Activity ID"
// @Param        input       body      request.PostMessageRequest  true  "Message"
// @Success      201  {object}  domain.ChatMessage
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID}/messages [post]
// @Security     BearerAuth
func (h *ChatHandler) HandlePostMessage(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activityID, respErr := parseActivityID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.PostMessageRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	isAdmin, err := h.access.IsAdminUser(ctx.Request.Context(), userID, getUserEmailFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("HandlePostMessage -> h.access.IsAdminUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	message, err := h.svc.PostMessage(ctx.Request.Context(), activityID, userID, input.Content, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("activity", "ID", activityID))
		case errors.Is(err, service.ErrNotMember), errors.Is(err, service.ErrVerificationRequired):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("HandlePostMessage -> h.svc.PostMessage -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, message)
}
