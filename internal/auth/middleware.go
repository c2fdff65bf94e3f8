package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"playnote/backend/internal/apperr"
	"playnote/backend/pkg/jwt"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userID"
	ContextClaims = "claims"
)

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token's subject and claims on the context.
func AuthMiddleware(issuer *jwt.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortWithError(c, apperr.Unauthorized("Authorization header with a Bearer token is required"))
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			abortWithError(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthMiddleware or OptionalAuthMiddleware.
func ClaimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextClaims, claims)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// abortWithError answers with the status and caller-facing message of err.
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"error": apperr.ErrorMessage(err)})
}
