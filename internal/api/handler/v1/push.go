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

type PushService interface {
	Subscribe(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error)
	Unsubscribe(ctx context.Context, userID string) error
	HasSubscription(ctx context.Context, userID string) (bool, error)
	SendTest(ctx context.Context, userID string) error
}

type PushHandler struct {
	svc            PushService
	vapidPublicKey string
}

func NewPushHandler(svc PushService, vapidPublicKey string) *PushHandler {
	return &PushHandler{
		svc:            svc,
		vapidPublicKey: vapidPublicKey,
	}
}

// HandleGetVAPIDKey godoc
// @Summary      Get the VAPID public key
// @Description  Returns the server's VAPID public key the browser needs to subscribe.
// @Tags         push
// @Produce      json
// @Success      200  {object}  response.VAPIDKeyResponse
// @Failure      401  {object}  response.Err
// @Router       /push/key [get]
// @Security     BearerAuth
func (h *PushHandler) HandleGetVAPIDKey(ctx *gin.Context) {
	if _, respErr := getUserIDFromContext(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, response.VAPIDKeyResponse{
		PublicKey: h.vapidPublicKey,
	})
}

// HandleGetStatus godoc
// @Summary      Get push subscription status
// @Description  Reports whether the caller currently has a stored web-push subscription.
// @Tags         push
// @Produce      json
// @Success      200  {object}  response.PushStatusResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /push/status [get]
// @Security     BearerAuth
func (h *PushHandler) HandleGetStatus(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	subscribed, err := h.svc.HasSubscription(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("HandleGetStatus -> h.svc.HasSubscription -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PushStatusResponse{
		Subscribed: subscribed,
	})
}

// HandleSendTest godoc
// @Summary      Send a test notification
// @Description  Pushes a canned payload to the caller's own subscription. A subscription the push service reports gone is pruned.
// @Tags         push
// @Produce      json
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /push/test [post]
// @Security     BearerAuth
func (h *PushHandler) HandleSendTest(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.SendTest(ctx.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("push subscription", "userID", userID))
			return
		}

		err = fmt.Errorf("HandleSendTest -> h.svc.SendTest -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "test notification sent"})
}

// HandleSubscribe godoc
// @Summary      Register push subscription
// @Description  Saves the caller's web-push endpoint and keys, replacing any previous one.
// @Tags         push
// @Accept       json
// @Produce      json
// @Param        input  body      request.SubscribePushRequest  true  "Subscription"
// @Success      200    {object}  domain.PushSubscription
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /push/subscribe [post]
// @Security     BearerAuth
func (h *PushHandler) HandleSubscribe(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SubscribePushRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	saved, err := h.svc.Subscribe(ctx.Request.Context(), domain.PushSubscription{
		UserID:   userID,
		Endpoint: input.Endpoint,
		P256dh:   input.P256dh,
		Auth:     input.Auth,
	})
	if err != nil {
		err = fmt.Errorf("HandleSubscribe -> h.svc.Subscribe -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, saved)
}

// HandleUnsubscribe godoc
// @Summary      Remove push subscription
// @Description  Deletes the caller's stored web-push subscription.
// @Tags         push
// @Produce      json
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /push/subscribe [delete]
// @Security     BearerAuth
func (h *PushHandler) HandleUnsubscribe(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Unsubscribe(ctx.Request.Context(), userID); err != nil {
		err = fmt.Errorf("HandleUnsubscribe -> h.svc.Unsubscribe -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}
