package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stash/internal/shared/utils/response"
	"stash/internal/users"
)

// ContextUserKey is where RequireAuth stores the resolved principal.
const ContextUserKey = "current_user"

const bearerPrefix = "Bearer "

// RequireAuth extracts the bearer token, resolves it to a user and stores
// the user in the gin context. Every resolution failure answers 401; the
// internal reason (bad signature, expired, wrong type, unknown subject) is
// not exposed.
func RequireAuth(s Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortJSON(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			response.AbortJSON(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		user, err := s.ResolveIdentity(c.Request.Context(), tokenString)
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, ErrUserInactive) {
				msg = "inactive user"
			}
			response.AbortJSON(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(ContextUserKey, user)
		c.Set("user_id", user.ID.String())
		c.Next()
	}
}

// RequireSuperuser gates a route to superusers. It must run after
// RequireAuth; this is the only point where "logged in but not allowed"
// (403) is distinguished from "not logged in" (401).
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.AbortJSON(c, http.StatusUnauthorized, "User not authenticated")
			return
		}
		if !user.IsSuperuser {
			response.AbortJSON(c, http.StatusForbidden, "Not enough permissions")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the principal stored by RequireAuth.
func CurrentUser(c *gin.Context) (*users.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*users.User)
	return user, ok
}
