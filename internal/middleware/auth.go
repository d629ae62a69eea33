package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/handler"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	"github.com/AvaniK-2002/asvicare/pkg/auth"
)

const (
	ContextAuthUserID = "auth_user_id"
	ContextEmail      = "auth_email"
	ContextScope      = "session_scope"
)

type AuthMiddleware struct {
	jwt      auth.JWTService
	resolver *session.Resolver
}

func NewAuthMiddleware(jwt auth.JWTService, resolver *session.Resolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, resolver: resolver}
}

// Authenticate verifies the bearer token and resolves the caller's clinic
// scope. A valid token with no usable profile still passes: the scope in
// context stays nil and the data layer treats the caller as denied, so
// reads come back empty and writes fail with a not-authorized error.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwt.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextAuthUserID, claims.AuthUserID.String())
		c.Set(ContextEmail, claims.Email)

		if scope := m.resolver.Resolve(c.Request.Context(), claims.AuthUserID); scope != nil {
			c.Set(ContextScope, scope)
		}

		c.Next()
	}
}

// ScopeFromContext returns the resolved clinic scope, or nil when the
// caller has no usable profile.
func ScopeFromContext(c *gin.Context) *session.Scope {
	v, ok := c.Get(ContextScope)
	if !ok {
		return nil
	}
	scope, _ := v.(*session.Scope)
	return scope
}

// AuthUserIDFromContext returns the authenticated user id, or uuid.Nil
// outside an authenticated request.
func AuthUserIDFromContext(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(ContextAuthUserID))
	if err != nil {
		return uuid.Nil
	}
	return id
}
