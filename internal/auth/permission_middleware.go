package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"playnote/backend/internal/apperr"
)

// RequirePermission creates a gin middleware that checks the token's role
// against policy for obj/act. It must be used AFTER AuthMiddleware.
func RequirePermission(policy *Policy, obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			// This should not happen if AuthMiddleware is used before it
			abortWithError(c, apperr.Unauthorized("User not authenticated"))
			return
		}

		allowed, err := policy.Allowed(claims.Role, obj, act)
		if err != nil {
			abortWithError(c, fmt.Errorf("evaluate permissions: %w", err))
			return
		}
		if !allowed {
			abortWithError(c, apperr.Forbidden("Admin access required"))
			return
		}

		c.Next()
	}
}
