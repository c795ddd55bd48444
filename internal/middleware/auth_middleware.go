package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRoleType = "roleType"
	ContextToken    = "accessToken"
)

// Authenticator validates a bearer token, including revocation
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authenticator Authenticator
	logger        zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			detail := dto.NewErrorDetail(apperrors.CodeTokenInvalid, "authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		// Swagger UI sends the raw token without the scheme
		tokenString := strings.Trim(authHeader, "\"'")
		if !strings.HasPrefix(tokenString, "Bearer ") && strings.Count(tokenString, ".") == 2 {
			tokenString = "Bearer " + tokenString
		}
		tokenString, err := auth.ExtractBearerToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", c.FullPath()).Msg("Rejected bearer token")
			if !apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked) {
				m.logger.Error().Err(err).Msg("Token check failed")
				err = apperrors.NewStoreError(err)
			}
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoleType, models.RoleType(claims.RoleType))
		c.Set(ContextToken, tokenString)

		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the given roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleType)
		if !exists {
			detail := dto.NewErrorDetail(apperrors.CodeTokenInvalid, "authentication required").
				WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}

		roleType, ok := role.(models.RoleType)
		if !ok || !slices.Contains(roles, roleType) {
			HandleAPIError(c, apperrors.ErrPermissionDenied)
			return
		}

		c.Next()
	}
}

// GetUserID returns the authenticated user id set by JWTAuth
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetAccessToken returns the bearer token of the current request
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
