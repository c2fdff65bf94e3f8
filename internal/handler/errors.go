package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"playnote/backend/internal/apperr"
)

// respondError writes err as an ErrorResponse. Errors that are not
// application errors are logged and reported as a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		_ = c.Error(err)
	}

	body := ErrorResponse{Error: apperr.ErrorMessage(err)}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		body.Errors = appErr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, param, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Invalid("Invalid %s ID", label)
	}
	return uint(id), nil
}

func gameNotFound(id uint) error {
	return apperr.NotFound("Game with Id %d does not exist.", id)
}

func ratingNotFound(id uint) error {
	return apperr.NotFound("Rating with Id %d does not exist.", id)
}
