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

type RatingService interface {
	ListRatings(ctx context.Context, activityID uint, viewerID string) ([]domain.Rating, error)
	CreateRating(ctx context.Context, rating domain.Rating) (domain.Rating, error)
}

type RatingHandler struct {
	svc RatingService
}

func NewRatingHandler(svc RatingService) *RatingHandler {
	return &RatingHandler{
		svc: svc,
	}
}

// HandleGetRatings godoc
// @Summary      Get activity ratings
// @Description  Returns the activity's ratings, newest first. Members only.
// @Tags         ratings
// @Produce      json
// @Param        activityID  path      int  true  "Activity ID"
// @Success      200  {array}   domain.Rating
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID}/ratings [get]
// @Security     BearerAuth
func (h *RatingHandler) HandleGetRatings(ctx *gin.Context) {
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

	ratings, err := h.svc.ListRatings(ctx.Request.Context(), activityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("activity", "ID", activityID))
		case errors.Is(err, service.ErrNotMember):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("HandleGetRatings -> h.svc.ListRatings -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ratings)
}

// HandleCreateRating godoc
// @Summary      Rate an activity
// @Description  Records the caller's score for an activity they are a member of.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        activityID  path      int                         true  "Activity ID"
// @Param        input       body      request.CreateRatingRequest  true  "Rating"
// @Success      201  {object}  domain.Rating
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /activities/{activityID}/ratings [post]
// @Security     BearerAuth
func (h *RatingHandler) HandleCreateRating(ctx *gin.Context) {
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

	var input request.CreateRatingRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rating, err := h.svc.CreateRating(ctx.Request.Context(), domain.Rating{
		ActivityID: activityID,
		UserID:     userID,
		Score:      input.Score,
		Comment:    input.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("activity", "ID", activityID))
		case errors.Is(err, service.ErrInvalidScore):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrNotMember):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("HandleCreateRating -> h.svc.CreateRating -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, rating)
}
