package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/caminho-companion/api/internal/api/handler/v1/request"
	"github.com/caminho-companion/api/internal/api/handler/v1/response"
	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/service"
)

type ActivityService interface {
	CreateActivity(ctx context.Context, activity domain.Activity, isAdmin bool) (domain.Activity, error)
	ListActivities(ctx context.Context) ([]domain.AnnotatedActivity, error)
	ListMine(ctx context.Context, userID string) ([]domain.AnnotatedActivity, error)
	GetDetail(ctx context.Context, activityID uint, viewerID string) (domain.ActivityDetail, error)
	DeleteActivity(ctx context.Context, activityID uint, userID string, isAdmin bool) error
	Join(ctx context.Context, activityID uint, userID string) error
	Leave(ctx context.Context, activityID uint, userID string) error
	GetUserRankings(ctx context.Context) ([]domain.UserRanking, error)
}

type RecommendService interface {
	Recommend(ctx context.Context, viewerID string) ([]domain.AnnotatedActivity, error)
}

// AccessChecker resolves whether the caller is an admin, either via the
// configured admin e-mails or the profile flag.
type AccessChecker interface {
	IsAdminUser(ctx context.Context, userID, email string) (bool, error)
}

type ActivityHandler struct {
	svc    ActivityService
	recSvc RecommendService
	access AccessChecker
}

func NewActivityHandler(svc ActivityService, recSvc RecommendService, access AccessChecker) *ActivityHandler {
	return &ActivityHandler{
		svc:    svc,
		recSvc: recSvc,
		access: access,
	}
}

func parseActivityID(ctx *gin.Context) (uint, *response.Err) {
	activityID, err := strconv.ParseUint(ctx.Param("activityID"), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid activity ID: %w", err))
	}

	return uint(activityID), nil
}

// HandleListActivities godoc
// @Summary      List all activities
// @Description  Returns every activity, newest first, with participant count and creator name.
// @Tags         activities
// @Produce      json
// @Success      200  {array}   domain.AnnotatedActivity
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities [get]
// @Security     BearerAuth
func (h *ActivityHandler) HandleListActivities(ctx *gin.Context) {
	if _, respErr := getUserIDFromContext(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activities, err := h.svc.ListActivities(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListActivities -> h.svc.ListActivities -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, activities)
}

// HandleListRecommended godoc
// @Summary      List recommended activities
// @Description  Returns at most ten activities ranked for the authenticated viewer.
// @Tags         activities
// @Produce      json
// @Success      200  {array}   domain.AnnotatedActivity
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/recommended [get]
// @Security     BearerAuth
func (h *ActivityHandler) HandleListRecommended(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activities, err := h.recSvc.Recommend(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("HandleListRecommended -> h.recSvc.Recommend -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, activities)
}

// HandleListMine godoc
// @Summary      List own activities
// @Description  Returns the activities the viewer created or joined.
// @Tags         activities
// @Produce      json
// @Success      200  {array}   domain.AnnotatedActivity
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/mine [get]
// @Security     BearerAuth
func (h *ActivityHandler) HandleListMine(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	activities, err := h.svc.ListMine(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("HandleListMine -> h.svc.ListMine -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, activities)
}

// HandleGetDetail godoc
// @Summary      Get activity detail
// @Description  Returns the full per-viewer view of one activity, roster included.
// @Tags         activities
// @Produce      json
// @Param        activityID  path      int  true  "Activity ID"
// @Success      200  {object}  domain.ActivityDetail
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID} [get]
// @Security     BearerAuth
func (h *ActivityHandler) HandleGetDetail(ctx *gin.Context) {
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

	detail, err := h.svc.GetDetail(ctx.Request.Context(), activityID, userID)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("activity", "ID", activityID))
			return
		}

		err = fmt.Errorf("HandleGetDetail -> h.svc.GetDetail -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

// HandleCreateActivity godoc
// @Summary      Create an activity
// @Description  Creates a new activity owned by the caller. Transport and lodging require a verified identity; admins are exempt.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateActivityRequest  true  "Activity fields"
// @Success      201    {object}  domain.Activity
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /activities [post]
// @Security     BearerAuth
func (h *ActivityHandler) HandleCreateActivity(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateActivityRequest
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
		err = fmt.Errorf("HandleCreateActivity -> h.access.IsAdminUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	activity := domain.Activity{
		CreatorID:        userID,
		Title:            input.Title,
		Description:      input.Description,
		Type:             domain.ActivityType(input.Type),
		City:             input.City,
		Date:             input.Date,
		Time:             input.Time,
		Spots:            input.Spots,
		Lat:              input.Lat,
		Lng:              input.Lng,
		TransportFrom:    input.TransportFrom,
		TransportTo:      input.TransportTo,
		TransportRouteID: input.TransportRouteID,
	}

	created, err := h.svc.CreateActivity(ctx.Request.Context(), activity, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidActivityType):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrVerificationRequired):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("HandleCreateActivity -> h.svc.CreateActivity -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleDeleteActivity godoc
// @Summary      Delete an activity
// @Description  Deletes an activity with its messages, ratings and roster. Creator or admin only.
// @Tags         activities
// @Produce      json
// @Param        activityID  path  int  true  "Activity ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID} [delete]
// @Security     BearerAuth
func (h *ActivityHandler) HandleDeleteActivity(ctx *gin.Context) {
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

	isAdmin, err := h.access.IsAdminUser(ctx.Request.Context(), userID, getUserEmailFromContext(ctx))
	if err != nil {
		err = fmt.Errorf("HandleDeleteActivity -> h.access.IsAdminUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	err = h.svc.DeleteActivity(ctx.Request.Context(), activityID, userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("activity", "ID", activityID))
		case errors.Is(err, service.ErrNotCreator):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("HandleDeleteActivity -> h.svc.DeleteActivity -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "activity deleted"})
}

// HandleJoinActivity godoc
// @Summary      Join an activity
// @Description  Adds the caller to the activity's roster if a spot is open.
// @Tags         activities
// @Produce      json
// @Param        activityID  path  int  true  "Activity ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID}/join [post]
// @Security     BearerAuth
func (h *ActivityHandler) HandleJoinActivity(ctx *gin.Context) {
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

	err := h.svc.Join(ctx.Request.Context(), activityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("activity", "ID", activityID))
		case errors.Is(err, service.ErrIsCreator),
			errors.Is(err, service.ErrAlreadyMember),
			errors.Is(err, service.ErrNoSpotsAvailable):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("HandleJoinActivity -> h.svc.Join -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "joined activity"})
}

// HandleLeaveActivity godoc
// @Summary      Leave an activity
// @Description  Removes the caller from the roster. Leaving an activity never joined is a no-op.
// @Tags         activities
// @Produce      json
// @Param        activityID  path  int  true  "Activity ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID}/leave [post]
// @Security     BearerAuth
func (h *ActivityHandler) HandleLeaveActivity(ctx *gin.Context) {
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

	if err := h.svc.Leave(ctx.Request.Context(), activityID, userID); err != nil {
		err = fmt.Errorf("HandleLeaveActivity -> h.svc.Leave -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "left activity"})
}

// HandleGetRankings godoc
// @Summary      Community rankings
// @Description  Returns pilgrims ordered by activities created plus joined.
// @Tags         activities
// @Produce      json
// @Success      200  {array}   domain.UserRanking
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /rankings [get]
// @Security     BearerAuth
func (h *ActivityHandler) HandleGetRankings(ctx *gin.Context) {
	if _, respErr := getUserIDFromContext(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rankings, err := h.svc.GetUserRankings(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleGetRankings -> h.svc.GetUserRankings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rankings)
}
