package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"playnote/backend/internal/apperr"
	"playnote/backend/internal/repository"
)

// GameHandler serves the read-only game routes.
type GameHandler struct {
	sessions repository.Sessions
	logger   *slog.Logger
}

func NewGameHandler(sessions repository.Sessions, logger *slog.Logger) *GameHandler {
	return &GameHandler{sessions: sessions, logger: logger}
}

// GetGames godoc
// @Summary      List games
// @Description  Lists games ordered by id, optionally filtered by a case-sensitive search over name and description. Pagination metadata is returned in the X-Pagination header.
// @Tags         games
// @Produce      json
// @Param        searchQuery query     string  false  "Substring to match in name or description"
// @Param        pageNumber  query     int     false  "Page number" default(1)
// @Param        pageSize    query     int     false  "Items per page (max 20)" default(10)
// @Success      200         {array}   GameWithoutRatingsDto
// @Header       200         {string}  X-Pagination  "Pagination metadata as JSON"
// @Failure      500         {object}  ErrorResponse
// @Router       /games [get]
func (h *GameHandler) GetGames(c *gin.Context) {
	repo := h.sessions.Session()

	games, meta, err := repo.ListGames(c.Request.Context(), c.Query("searchQuery"), parsePageRequest(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]GameWithoutRatingsDto, 0, len(games))
	for _, g := range games {
		response = append(response, newGameWithoutRatingsDto(g))
	}

	writePaginationHeader(c, meta)
	c.JSON(http.StatusOK, response)
}

// GetGame godoc
// @Summary      Get a game
// @Description  Retrieves a single game, with its ratings when includeRatings is true.
// @Tags         games
// @Produce      json
// @Param        id              path      int   true   "Game ID"
// @Param        includeRatings  query     bool  false  "Include the game's ratings" default(false)
// @Success      200             {object}  GameDto  "ratings and numberOfRatings are present only with includeRatings=true"
// @Failure      400             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	id, err := parseID(c, "id", "game")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	includeRatings, err := strconv.ParseBool(c.DefaultQuery("includeRatings", "false"))
	if err != nil {
		respondError(c, h.logger, apperr.Invalid("includeRatings must be true or false"))
		return
	}

	game, err := h.sessions.Session().GetGame(c.Request.Context(), id, includeRatings)
	if errors.Is(err, repository.ErrNotFound) {
		h.logger.InfoContext(c.Request.Context(), "game not found", slog.Uint64("gameID", uint64(id)))
		respondError(c, h.logger, gameNotFound(id))
		return
	} else if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if includeRatings {
		c.JSON(http.StatusOK, newGameDto(*game))
		return
	}
	c.JSON(http.StatusOK, newGameWithoutRatingsDto(*game))
}
