package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caminho-companion/api/internal/api/handler/v1/request"
	"github.com/caminho-companion/api/internal/api/handler/v1/response"
	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/objectstore"
	"github.com/caminho-companion/api/internal/service"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (domain.PilgrimProfile, error)
	SaveProfile(ctx context.Context, profile domain.PilgrimProfile) (domain.PilgrimProfile, error)
	UpdatePhoto(ctx context.Context, userID, photoURL string) error
	AcceptTerms(ctx context.Context, userID, termsVersion, privacyVersion string) error
	SubmitVerification(ctx context.Context, userID, documentPath, selfiePath string) error
}

type ProfileHandler struct {
	svc   ProfileService
	store *objectstore.Client
}

func NewProfileHandler(svc ProfileService, store *objectstore.Client) *ProfileHandler {
	return &ProfileHandler{
		svc:   svc,
		store: store,
	}
}

// HandleGetMyProfile godoc
// @Summary      Get own profile
// @Description  Returns the authenticated user's pilgrim profile.
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  domain.PilgrimProfile
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) HandleGetMyProfile(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	profile, err := h.svc.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("profile", "userID", userID))
			return
		}

		err = fmt.Errorf("HandleGetMyProfile -> h.svc.GetProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// HandleGetProfile godoc
// @Summary      Get a profile
// @Description  Returns another pilgrim's public profile.
// @Tags         profiles
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200  {object}  domain.PilgrimProfile
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /profiles/{userID} [get]
// @Security     BearerAuth
func (h *ProfileHandler) HandleGetProfile(ctx *gin.Context) {
	if _, respErr := getUserIDFromContext(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	targetID := ctx.Param("userID")
	profile, err := h.svc.GetProfile(ctx.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("profile", "userID", targetID))
			return
		}

		err = fmt.Errorf("HandleGetProfile -> h.svc.GetProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// HandleSaveProfile godoc
// @Summary      Create or update own profile
// @Description  Upserts the authenticated user's profile. All editable fields are overwritten.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        input  body      request.SaveProfileRequest  true  "Profile fields"
// @Success      200    {object}  domain.PilgrimProfile
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /profiles/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) HandleSaveProfile(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SaveProfileRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	profile := domain.PilgrimProfile{
		UserID:          userID,
		DisplayName:     input.DisplayName,
		Language:        input.Language,
		Nationality:     input.Nationality,
		Bio:             input.Bio,
		Cities:          input.Cities,
		TravelStartDate: input.TravelStartDate,
		TravelEndDate:   input.TravelEndDate,
		PrefTransport:   input.PrefTransport,
		PrefMeals:       input.PrefMeals,
		PrefHiking:      input.PrefHiking,
		PrefLodging:     input.PrefLodging,
	}

	saved, err := h.svc.SaveProfile(ctx.Request.Context(), profile)
	if err != nil {
		err = fmt.Errorf("HandleSaveProfile -> h.svc.SaveProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, saved)
}

// HandleUpdatePhoto godoc
// @Summary      Update profile photo
// @Description  Sets the authenticated user's profile photo URL after upload.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        input  body  request.UpdatePhotoRequest  true  "Photo URL"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /profiles/me/photo [put]
// @Security     BearerAuth
func (h *ProfileHandler) HandleUpdatePhoto(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.UpdatePhotoRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.UpdatePhoto(ctx.Request.Context(), userID, input.PhotoURL); err != nil {
		err = fmt.Errorf("HandleUpdatePhoto -> h.svc.UpdatePhoto -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "photo updated"})
}

// HandleAcceptTerms godoc
// @Summary      Accept terms
// @Description  Records acceptance of the given terms and privacy policy versions.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        input  body  request.AcceptTermsRequest  true  "Accepted versions"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /profiles/me/terms [post]
// @Security     BearerAuth
func (h *ProfileHandler) HandleAcceptTerms(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.AcceptTermsRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.AcceptTerms(ctx.Request.Context(), userID, input.TermsVersion, input.PrivacyVersion); err != nil {
		err = fmt.Errorf("HandleAcceptTerms -> h.svc.AcceptTerms -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "terms accepted"})
}

// HandleSignUpload godoc
// @Summary      Sign an upload URL
// @Description  Mints a pre-signed URL for uploading a photo or verification document.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        input  body      request.SignUploadRequest  true  "Upload descriptor"
// @Success      200    {object}  response.UploadURLResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Router       /uploads/sign [post]
// @Security     BearerAuth
func (h *ProfileHandler) HandleSignUpload(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SignUploadRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	objectPath := path.Join(input.Kind, userID, uuid.NewString()+path.Ext(input.FileName))

	resp := response.UploadURLResponse{
		UploadURL:  h.store.SignedUploadURL(objectPath, 15*time.Minute),
		ObjectPath: objectPath,
	}
	// Verification documents stay private; only photos get a stable URL.
	if input.Kind == "photo" {
		resp.PublicURL = h.store.PublicURL(objectPath)
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleSubmitVerification godoc
// @Summary      Submit identity verification
// @Description  Stores uploaded document paths and marks the profile pending review.
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        input  body  request.SubmitVerificationRequest  true  "Uploaded object paths"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /verification [post]
// @Security     BearerAuth
func (h *ProfileHandler) HandleSubmitVerification(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.SubmitVerificationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.SubmitVerification(ctx.Request.Context(), userID, input.DocumentPath, input.SelfiePath)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			response.RenderErr(ctx, response.ErrNotFound("profile", "userID", userID))
		case errors.Is(err, service.ErrVerificationAlreadyFinal):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("HandleSubmitVerification -> h.svc.SubmitVerification -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "verification submitted"})
}
