package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caminho-companion/api/internal/api/handler/v1/request"
	"github.com/caminho-companion/api/internal/api/handler/v1/response"
	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/service"
)

type AccessService interface {
	Status(ctx context.Context, userID, email string) (domain.AccessStatus, error)
	ValidateInvite(ctx context.Context, code string) (domain.Invite, error)
	RedeemInvite(ctx context.Context, code, userID string) error
	CreateInvite(ctx context.Context, creatorID string, isAdmin bool, maxUses int, expiresAt *time.Time) (domain.Invite, error)
	ListInvites(ctx context.Context, userID string, isAdmin bool) ([]domain.Invite, error)
	DisableInvite(ctx context.Context, inviteID uint, userID string, isAdmin bool) error
	IsAdminUser(ctx context.Context, userID, email string) (bool, error)
}

type AccessHandler struct {
	svc AccessService
}

func NewAccessHandler(svc AccessService) *AccessHandler {
	return &AccessHandler{
		svc: svc,
	}
}

// HandleGetStatus godoc
// @Summary      Get access status
// @Description  Returns where the caller stands in onboarding: suspended, needs_invite, needs_profile, needs_terms or active.
// @Tags         access
// @Produce      json
// @Success      200  {object}  domain.AccessStatus
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /access/status [get]
// @Security     BearerAuth
func (h *AccessHandler) HandleGetStatus(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status, err := h.svc.Status(ctx.Request.Context(), userID, getUserEmailFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("HandleGetStatus -> h.svc.Status -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// HandleValidateInvite godoc
// @Summary      Validate an invite code
// @Description  Checks whether a code can still be redeemed, without consuming a use.
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        input  body  request.RedeemInviteRequest  true  "Invite code"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /access/validate [post]
// @Security     BearerAuth
func (h *AccessHandler) HandleValidateInvite(ctx *gin.Context) {
	if _, respErr := getUserIDFromContext(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.RedeemInviteRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	_, err := h.svc.ValidateInvite(ctx.Request.Context(), input.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			response.RenderErr(ctx, response.ErrNotFound("invite", "code", input.Code))
		case errors.Is(err, service.ErrInviteNotRedeemable):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("HandleValidateInvite -> h.svc.ValidateInvite -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": true})
}

// HandleRedeemInvite godoc
// @Summary      Redeem an invite code
// @Description  Burns one use of the code for the caller, unlocking onboarding.
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        input  body  request.RedeemInviteRequest  true  "Invite code"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /access/redeem [post]
// @Security     BearerAuth
func (h *AccessHandler) HandleRedeemInvite(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.RedeemInviteRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.RedeemInvite(ctx.Request.Context(), input.Code, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			response.RenderErr(ctx, response.ErrNotFound("invite", "code", input.Code))
		case errors.Is(err, service.ErrInviteNotRedeemable):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("HandleRedeemInvite -> h.svc.RedeemInvite -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "invite redeemed"})
}

// HandleCreateInvite godoc
// @Summary      Create an invite code
// @Description  Mints a fresh code. Admins and users with invite rights only.
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateInviteRequest  true  "Invite options"
// @Success      201    {object}  domain.Invite
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /invites [post]
// @Security     BearerAuth
func (h *AccessHandler) HandleCreateInvite(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateInviteRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	isAdmin, err := h.svc.IsAdminUser(ctx.Request.Context(), userID, getUserEmailFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("HandleCreateInvite -> h.svc.IsAdminUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	var expiresAt *time.Time
	if input.ExpiresInDays > 0 {
		t := time.Now().AddDate(0, 0, input.ExpiresInDays)
		expiresAt = &t
	}

	invite, err := h.svc.CreateInvite(ctx.Request.Context(), userID, isAdmin, input.MaxUses, expiresAt)
	if err != nil {
		if errors.Is(err, service.ErrInviteForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("HandleCreateInvite -> h.svc.CreateInvite -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, invite)
}

// HandleListInvites godoc
// @Summary      List invite codes
// @Description  Admins see every code, other users only codes they created.
// @Tags         access
// @Produce      json
// @Success      200  {array}   domain.Invite
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /invites [get]
// @Security     BearerAuth
func (h *AccessHandler) HandleListInvites(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	isAdmin, err := h.svc.IsAdminUser(ctx.Request.Context(), userID, getUserEmailFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("HandleListInvites -> h.svc.IsAdminUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	invites, err := h.svc.ListInvites(ctx.Request.Context(), userID, isAdmin)
	if err != nil {
		err = fmt.Errorf("HandleListInvites -> h.svc.ListInvites -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, invites)
}

// HandleDisableInvite godoc
// @Summary      Disable an invite code
// @Description  Turns a code off permanently. Admins may disable any code, others only their own.
// @Tags         access
// @Produce      json
// @Param        inviteID  path  int  true  "Invite ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /invites/{inviteID} [delete]
// @Security     BearerAuth
func (h *AccessHandler) HandleDisableInvite(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	inviteID, err := strconv.ParseUint(ctx.Param("inviteID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid invite ID: %w", err)))
		return
	}

	isAdmin, err := h.svc.IsAdminUser(ctx.Request.Context(), userID, getUserEmailFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("HandleDisableInvite -> h.svc.IsAdminUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	err = h.svc.DisableInvite(ctx.Request.Context(), uint(inviteID), userID, isAdmin)
	if err != nil {
		if errors.Is(err, service.ErrInviteForbidden) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		err = fmt.Errorf("HandleDisableInvite -> h.svc.DisableInvite -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "invite disabled"})
}
