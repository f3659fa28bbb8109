package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminho-companion/api/internal/api/handler/v1/response"
	"github.com/caminho-companion/api/internal/api/middleware"
	"github.com/caminho-companion/api/internal/config"
	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/objectstore"
	"github.com/caminho-companion/api/internal/service"
)

type fakeAdminModeration struct{}

func (fakeAdminModeration) ListReports(context.Context) ([]domain.Report, error) { return nil, nil }
func (fakeAdminModeration) UpdateReport(context.Context, uint, string, string) error { return nil }
func (fakeAdminModeration) SuspendUser(context.Context, string, string) error { return nil }
func (fakeAdminModeration) UnsuspendUser(context.Context, string) error { return nil }
func (fakeAdminModeration) SetCanInvite(context.Context, string, bool) error { return nil }
func (fakeAdminModeration) SetAdmin(context.Context, string, bool) error { return nil }

type fakeVerificationReview struct {
	profiles map[string]domain.PilgrimProfile
}

func (f *fakeVerificationReview) GetProfile(_ context.Context, userID string) (domain.PilgrimProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.PilgrimProfile{}, service.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeVerificationReview) ListVerifications(context.Context, string) ([]domain.PilgrimProfile, error) {
	return nil, nil
}

func (f *fakeVerificationReview) ReviewVerification(context.Context, string, string, string, string) error {
	return nil
}

type fakeAccessChecker struct {
	isAdmin bool
}

func (f *fakeAccessChecker) IsAdminUser(context.Context, string, string) (bool, error) {
	return f.isAdmin, nil
}

func adminTestRouter(verSvc VerificationReviewService, isAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, "admin")
		ctx.Set(middleware.ContextKeyUserEmail, "admin@example.com")
	})

	store := objectstore.NewClient(&config.ObjectStoreConfig{
		Endpoint:   "https://storage.example.com",
		Bucket:     "caminho",
		AccessKey:  "AKTEST",
		SigningKey: "super-secret",
	})

	h := NewAdminHandler(fakeAdminModeration{}, verSvc, &fakeAccessChecker{isAdmin: isAdmin}, store)
	router.GET("/admin/verifications/:userID/documents", h.HandleGetVerificationDocuments)

	return router
}

func TestAdminHandler_HandleGetVerificationDocuments(t *testing.T) {
	verSvc := &fakeVerificationReview{profiles: map[string]domain.PilgrimProfile{
		"u2": {
			UserID:             "u2",
			VerificationStatus: domain.VerificationPending,
			DocumentPath:       "verification/u2/doc.jpg",
			SelfiePath:         "verification/u2/selfie.jpg",
		},
		"u3": {
			UserID:             "u3",
			VerificationStatus: domain.VerificationUnverified,
		},
	}}

	t.Run("non-admins are refused", func(t *testing.T) {
		router := adminTestRouter(verSvc, false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/verifications/u2/documents", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown profile is a 404", func(t *testing.T) {
		router := adminTestRouter(verSvc, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/verifications/ghost/documents", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("profile without a submission is a 404", func(t *testing.T) {
		router := adminTestRouter(verSvc, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/verifications/u3/documents", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("mints signed retrieval URLs for both documents", func(t *testing.T) {
		router := adminTestRouter(verSvc, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/verifications/u2/documents", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body response.VerificationDocumentsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.Contains(t, body.DocumentURL, "verification/u2/doc.jpg")
		assert.Contains(t, body.DocumentURL, "signature=")
		assert.Contains(t, body.SelfieURL, "verification/u2/selfie.jpg")
		assert.Contains(t, body.SelfieURL, "signature=")
	})
}
