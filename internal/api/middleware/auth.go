package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/caminho-companion/api/internal/domain"
)

// Context keys set by VerifyJWT for downstream handlers.
const (
	ContextKeyUserID    = "userID"
	ContextKeyUserEmail = "userEmail"
	ContextKeyUserName  = "userName"
)

// Claims carried by the identity provider's tokens. The subject is the
// opaque stable user identifier everything else keys on.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT parses and validates the bearer token and stashes the caller's
// identity in the request context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		var claims Claims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.signingKey, nil
		})
		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Subject == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}

		ctx.Set(ContextKeyUserID, claims.Subject)
		ctx.Set(ContextKeyUserEmail, claims.Email)
		ctx.Set(ContextKeyUserName, claims.Name)

		ctx.Next()
	}
}

// ProfileLookup is the slice of the profile service the suspension gate
// needs.
type ProfileLookup interface {
	GetProfile(ctx context.Context, userID string) (domain.PilgrimProfile, error)
}

// BlockSuspended rejects requests from suspended accounts. Users without a
// profile pass through; the onboarding flow handles them.
func BlockSuspended(profiles ProfileLookup, notFound error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(ContextKeyUserID)
		if userID == "" {
			ctx.Next()
			return
		}

		profile, err := profiles.GetProfile(ctx.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, notFound) {
				ctx.Next()
				return
			}
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if profile.IsSuspended {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account suspended"})
			return
		}

		ctx.Next()
	}
}
