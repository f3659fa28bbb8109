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
	"github.com/caminho-companion/api/internal/domain"
	"github.com/caminho-companion/api/internal/service"
)

type fakePushService struct {
	subscribed bool
	sendErr    error
	testSent   bool
}

func (f *fakePushService) Subscribe(_ context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	sub.ID = 1
	return sub, nil
}

func (f *fakePushService) Unsubscribe(context.Context, string) error { return nil }

func (f *fakePushService) HasSubscription(context.Context, string) (bool, error) {
	return f.subscribed, nil
}

func (f *fakePushService) SendTest(context.Context, string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.testSent = true
	return nil
}

func pushTestRouter(svc PushService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, "u1")
	})

	h := NewPushHandler(svc, "BNtestpublickey")
	router.GET("/push/key", h.HandleGetVAPIDKey)
	router.GET("/push/status", h.HandleGetStatus)
	router.POST("/push/test", h.HandleSendTest)

	return router
}

func TestPushHandler_HandleGetVAPIDKey(t *testing.T) {
	router := pushTestRouter(&fakePushService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/push/key", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body response.VAPIDKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BNtestpublickey", body.PublicKey)
}

func TestPushHandler_HandleGetStatus(t *testing.T) {
	tests := []struct {
		name       string
		subscribed bool
	}{
		{"no subscription", false},
		{"stored subscription", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := pushTestRouter(&fakePushService{subscribed: tc.subscribed})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/push/status", nil)
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var body response.PushStatusResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.subscribed, body.Subscribed)
		})
	}
}

func TestPushHandler_HandleSendTest(t *testing.T) {
	t.Run("delivers to the caller", func(t *testing.T) {
		svc := &fakePushService{}
		router := pushTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/push/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, svc.testSent)
	})

	t.Run("missing subscription is a 404", func(t *testing.T) {
		router := pushTestRouter(&fakePushService{sendErr: service.ErrSubscriptionNotFound})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/push/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
