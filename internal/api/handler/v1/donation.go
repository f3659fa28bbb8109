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

type DonationService interface {
	StartDonation(ctx context.Context, userID string, amount float64, message string) (string, error)
	ConfirmDonation(ctx context.Context, sessionID string) (domain.Donation, error)
}

type DonationHandler struct {
	svc DonationService
}

func NewDonationHandler(svc DonationService) *DonationHandler {
	return &DonationHandler{
		svc: svc,
	}
}

// HandleStartDonation godoc
// @Summary      Start a donation
// @Description  Opens a hosted checkout session and returns the redirect URL.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        input  body      request.StartDonationRequest  true  "Donation"
// @Success      200    {object}  response.CheckoutResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /donations [post]
// @Security     BearerAuth
func (h *DonationHandler) HandleStartDonation(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.StartDonationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	url, err := h.svc.StartDonation(ctx.Request.Context(), userID, input.Amount, input.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleStartDonation -> h.svc.StartDonation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CheckoutResponse{URL: url})
}

// HandleConfirmDonation godoc
// @Summary      Confirm a donation
// @Description  Verifies with the payment processor that the checkout session was paid.
// @Tags         donations
// @Produce      json
// @Param        sessionID  path      string  true  "Checkout session ID"
// @Success      200  {object}  domain.Donation
// @Failure      401  {object}  response.Err
// @Failure      402  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /donations/{sessionID}/confirm [post]
// @Security     BearerAuth
func (h *DonationHandler) HandleConfirmDonation(ctx *gin.Context) {
	if _, respErr := getUserIDFromContext(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sessionID := ctx.Param("sessionID")
	donation, err := h.svc.ConfirmDonation(ctx.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDonationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("donation", "sessionID", sessionID))
		case errors.Is(err, service.ErrPaymentNotCompleted):
			ctx.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			err = fmt.Errorf("HandleConfirmDonation -> h.svc.ConfirmDonation -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, donation)
}
