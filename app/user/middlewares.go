package user

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oddslip/oddslip/app/api"
	"github.com/oddslip/oddslip/internal/cache"
	"github.com/oddslip/oddslip/internal/security"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"

	ContextUserID = "userID"
	ContextToken  = "tokenPayload"
)

// AuthMiddleware verifies the bearer token, rejects revoked tokens and stores
// the authenticated user ID on the request context.
func AuthMiddleware(tokenMaker security.Maker, blacklist cache.Cache[string]) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != AuthorizationTypeBearer {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if payload.Scope != security.TokenScopeAccess {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if IsTokenRevoked(c.Request.Context(), blacklist, payload.ID) {
			api.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(ContextUserID, payload.UserID)
		c.Set(ContextToken, payload)
		c.Next()
	}
}

// ContextGetUserID returns the authenticated user ID set by AuthMiddleware.
func ContextGetUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextUserID).(uuid.UUID)
}

// ContextGetToken returns the verified token payload set by AuthMiddleware.
func ContextGetToken(c *gin.Context) *security.Payload {
	return c.MustGet(ContextToken).(*security.Payload)
}
