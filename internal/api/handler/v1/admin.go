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
	"github.com/caminho-companion/api/internal/objectstore"
	"github.com/caminho-companion/api/internal/service"
)

type AdminModerationService interface {
	ListReports(ctx context.Context) ([]domain.Report, error)
	UpdateReport(ctx context.Context, id uint, status, adminNotes string) error
	SuspendUser(ctx context.Context, userID, reason string) error
	UnsuspendUser(ctx context.Context, userID string) error
	SetCanInvite(ctx context.Context, userID string, canInvite bool) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
}

type VerificationReviewService interface {
	GetProfile(ctx context.Context, userID string) (domain.PilgrimProfile, error)
	ListVerifications(ctx context.Context, status string) ([]domain.PilgrimProfile, error)
	ReviewVerification(ctx context.Context, userID, reviewedBy, status, reason string) error
}

type AdminHandler struct {
	svc    AdminModerationService
	verSvc VerificationReviewService
	access AccessChecker
	store  *objectstore.Client
}

func NewAdminHandler(svc AdminModerationService, verSvc VerificationReviewService, access AccessChecker, store *objectstore.Client) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		verSvc: verSvc,
		access: access,
		store:  store,
	}
}

// requireAdmin resolves the caller and rejects non-admins.
func (h *AdminHandler) requireAdmin(ctx *gin.Context) (string, bool) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return "", false
	}

	isAdmin, err := h.access.IsAdminUser(ctx.Request.Context(), userID, getUserEmailFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("requireAdmin -> h.access.IsAdminUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return "", false
	}
	if !isAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", userID)))
		return "", false
	}

	return userID, true
}

// HandleListReports godoc
// @Summary      List moderation reports
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.Report
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/reports [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListReports(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	reports, err := h.svc.ListReports(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListReports -> h.svc.ListReports -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, reports)
}

// HandleUpdateReport godoc
// @Summary      Update a moderation report
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        reportID  path  int                         true  "Report ID"
// @Param        input     body  request.UpdateReportRequest  true  "New status"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/reports/{reportID} [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleUpdateReport(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	reportID, err := strconv.ParseUint(ctx.Param("reportID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid report ID: %w", err)))
		return
	}

	var input request.UpdateReportRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err = h.svc.UpdateReport(ctx.Request.Context(), uint(reportID), input.Status, input.AdminNotes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReportStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleUpdateReport -> h.svc.UpdateReport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "report updated"})
}

// HandleSuspendUser godoc
// @Summary      Suspend a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID  path  string                      true  "User ID"
// @Param        input   body  request.SuspendUserRequest  true  "Suspension reason"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID}/suspend [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleSuspendUser(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	var input request.SuspendUserRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SuspendUser(ctx.Request.Context(), ctx.Param("userID"), input.Reason); err != nil {
		err = fmt.Errorf("HandleSuspendUser -> h.svc.SuspendUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "user suspended"})
}

// HandleUnsuspendUser godoc
// @Summary      Lift a user's suspension
// @Tags         admin
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID}/suspend [delete]
// @Security     BearerAuth
func (h *AdminHandler) HandleUnsuspendUser(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	if err := h.svc.UnsuspendUser(ctx.Request.Context(), ctx.Param("userID")); err != nil {
		err = fmt.Errorf("HandleUnsuspendUser -> h.svc.UnsuspendUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "suspension lifted"})
}

// HandleSetCanInvite godoc
// @Summary      Grant or revoke invite rights
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID  path  string                       true  "User ID"
// @Param        input   body  request.SetPermissionRequest  true  "Enabled flag"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID}/can-invite [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleSetCanInvite(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	var input request.SetPermissionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetCanInvite(ctx.Request.Context(), ctx.Param("userID"), input.Enabled); err != nil {
		err = fmt.Errorf("HandleSetCanInvite -> h.svc.SetCanInvite -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "invite rights updated"})
}

// HandleSetAdmin godoc
// @Summary      Grant or revoke admin rights
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID  path  string                       true  "User ID"
// @Param        input   body  request.SetPermissionRequest  true  "Enabled flag"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID}/admin [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleSetAdmin(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	var input request.SetPermissionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetAdmin(ctx.Request.Context(), ctx.Param("userID"), input.Enabled); err != nil {
		err = fmt.Errorf("HandleSetAdmin -> h.svc.SetAdmin -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "admin rights updated"})
}

// HandleListVerifications godoc
// @Summary      List identity verifications
// @Description  Returns every verification submission, optionally filtered by status (pending, verified, rejected).
// @Tags         admin
// @Produce      json
// @Param        status  query  string  false  "Verification status filter"
// @Success      200  {array}   domain.PilgrimProfile
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/verifications [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListVerifications(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	profiles, err := h.verSvc.ListVerifications(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidVerificationStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleListVerifications -> h.verSvc.ListVerifications -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, profiles)
}

// HandleGetVerificationDocuments godoc
// @Summary      Get a verification's documents
// @Description  Mints time-limited retrieval URLs for a pilgrim's submitted identity documents.
// @Tags         admin
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  response.VerificationDocumentsResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/verifications/{userID}/documents [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetVerificationDocuments(ctx *gin.Context) {
	if _, ok := h.requireAdmin(ctx); !ok {
		return
	}

	targetID := ctx.Param("userID")

	profile, err := h.verSvc.GetProfile(ctx.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("profile", "userID", targetID))
			return
		}

		err = fmt.Errorf("HandleGetVerificationDocuments -> h.verSvc.GetProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if profile.DocumentPath == "" && profile.SelfiePath == "" {
		response.RenderErr(ctx, response.ErrNotFound("verification documents", "userID", targetID))
		return
	}

	resp := response.VerificationDocumentsResponse{}
	if profile.DocumentPath != "" {
		resp.DocumentURL = h.store.SignedRetrievalURL(profile.DocumentPath, 15*time.Minute)
	}
	if profile.SelfiePath != "" {
		resp.SelfieURL = h.store.SignedRetrievalURL(profile.SelfiePath, 15*time.Minute)
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleReviewVerification godoc
// @Summary      Review an identity verification
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userID  path  string                            true  "User ID"
// @Param        input   body  request.ReviewVerificationRequest  true  "Verdict"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/verifications/{userID} [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleReviewVerification(ctx *gin.Context) {
	adminID, ok := h.requireAdmin(ctx)
	if !ok {
		return
	}

	targetID := ctx.Param("userID")

	var input request.ReviewVerificationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.verSvc.ReviewVerification(ctx.Request.Context(), targetID, adminID, input.Status, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			response.RenderErr(ctx, response.ErrNotFound("profile", "userID", targetID))
		case errors.Is(err, service.ErrInvalidVerificationStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("HandleReviewVerification -> h.verSvc.ReviewVerification -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "verification reviewed"})
}
