package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"playnote/backend/internal/apperr"
	"playnote/backend/internal/auth"
	"playnote/backend/pkg/jwt"
)

// AuthHandler issues bearer tokens.
type AuthHandler struct {
	credentials auth.CredentialValidator
	issuer      *jwt.Issuer
	logger      *slog.Logger
}

func NewAuthHandler(credentials auth.CredentialValidator, issuer *jwt.Issuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{credentials: credentials, issuer: issuer, logger: logger}
}

// Authenticate godoc
// @Summary      Log in
// @Description  Checks a username and password and returns a bearer token valid for one hour.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body AuthenticationInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth [post]
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var input AuthenticationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.InfoContext(c.Request.Context(), "malformed login body", slog.String("error", err.Error()))
		respondError(c, h.logger, apperr.Invalid("Username and password are required."))
		return
	}

	user, err := h.credentials.ValidateCredentials(c.Request.Context(), input.Username, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.logger.InfoContext(c.Request.Context(), "login rejected", slog.String("username", input.Username))
		respondError(c, h.logger, apperr.Unauthorized("Invalid credentials"))
		return
	} else if err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, expires, err := h.issuer.Issue(jwt.Subject{
		ID:         user.Subject(),
		GivenName:  user.GivenName,
		FamilyName: user.FamilyName,
		Role:       user.Role,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expires})
}
