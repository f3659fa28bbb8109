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

type ModerationService interface {
	BlockUser(ctx context.Context, blockerID, blockedID string) error
	UnblockUser(ctx context.Context, blockerID, blockedID string) error
	ListBlockedProfiles(ctx context.Context, blockerID string) ([]domain.PilgrimProfile, error)
	ReportUser(ctx context.Context, report domain.Report) (domain.Report, error)
}

type ModerationHandler struct {
	svc ModerationService
}

func NewModerationHandler(svc ModerationService) *ModerationHandler {
	return &ModerationHandler{
		svc: svc,
	}
}

// HandleBlockUser godoc
// @Summary      Block a user
// @Description  Hides the given user from the caller. Blocking twice is a no-op.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        input  body  request.BlockUserRequest  true  "Target user"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blocks [post]
// @Security     BearerAuth
func (h *ModerationHandler) HandleBlockUser(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.BlockUserRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.BlockUser(ctx.Request.Context(), userID, input.UserID); err != nil {
		if errors.Is(err, service.ErrSelfTarget) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleBlockUser -> h.svc.BlockUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "user blocked"})
}

// HandleUnblockUser godoc
// @Summary      Unblock a user
// @Tags         moderation
// @Produce      json
// @Param        userID  path  string  true  "Blocked user ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blocks/{userID} [delete]
// @Security     BearerAuth
func (h *ModerationHandler) HandleUnblockUser(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.UnblockUser(ctx.Request.Context(), userID, ctx.Param("userID")); err != nil {
		err = fmt.Errorf("HandleUnblockUser -> h.svc.UnblockUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "user unblocked"})
}

// HandleListBlocked godoc
// @Summary      List blocked users
// @Description  Returns the profiles of everyone the caller has blocked.
// @Tags         moderation
// @Produce      json
// @Success      200  {array}   domain.PilgrimProfile
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /blocks [get]
// @Security     BearerAuth
func (h *ModerationHandler) HandleListBlocked(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	profiles, err := h.svc.ListBlockedProfiles(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("HandleListBlocked -> h.svc.ListBlockedProfiles -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, profiles)
}

// HandleReportUser godoc
// @Summary      Report a user
// @Description  Files a moderation report against another user.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Param        input  body      request.ReportUserRequest  true  "Report"
// @Success      201    {object}  domain.Report
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /reports [post]
// @Security     BearerAuth
func (h *ModerationHandler) HandleReportUser(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.ReportUserRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	report, err := h.svc.ReportUser(ctx.Request.Context(), domain.Report{
		ReporterID: userID,
		ReportedID: input.UserID,
		Reason:     input.Reason,
		Details:    input.Details,
		ActivityID: input.ActivityID,
		MessageID:  input.MessageID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfTarget), errors.Is(err, service.ErrInvalidReportReason):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("HandleReportUser -> h.svc.ReportUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, report)
}
