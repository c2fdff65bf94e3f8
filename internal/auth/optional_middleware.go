package auth

import (
	"github.com/gin-gonic/gin"

	"playnote/backend/pkg/jwt"
)

// OptionalAuthMiddleware inspects for a token and sets the claims if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware(issuer *jwt.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := issuer.Parse(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}
