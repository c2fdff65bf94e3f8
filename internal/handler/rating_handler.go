package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"playnote/backend/internal/apperr"
	"playnote/backend/internal/models"
	"playnote/backend/internal/patch"
	"playnote/backend/internal/repository"
	"playnote/backend/internal/validation"
)

// RatingHandler serves the rating routes nested under a game.
type RatingHandler struct {
	sessions  repository.Sessions
	validator validation.Validator
	logger    *slog.Logger
}

func NewRatingHandler(sessions repository.Sessions, validator validation.Validator, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{sessions: sessions, validator: validator, logger: logger}
}

// region --- Read Handlers ---

// GetRatings godoc
// @Summary      List ratings of a game
// @Description  Lists a game's ratings ordered by id, optionally filtered by a case-sensitive search over the review. Pagination metadata is returned in the X-Pagination header.
// @Tags         ratings
// @Produce      json
// @Param        gameId      path      int     true   "Game ID"
// @Param        searchQuery query     string  false  "Substring to match in the review"
// @Param        pageNumber  query     int     false  "Page number" default(1)
// @Param        pageSize    query     int     false  "Items per page (max 20)" default(10)
// @Success      200         {array}   RatingDto
// @Header       200         {string}  X-Pagination  "Pagination metadata as JSON"
// @Failure      400         {object}  ErrorResponse
// @Failure      404         {object}  ErrorResponse "Game not found"
// @Router       /games/{gameId}/ratings [get]
func (h *RatingHandler) GetRatings(c *gin.Context) {
	ctx := c.Request.Context()
	repo := h.sessions.Session()

	gameID, err := h.requireGame(ctx, c, repo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ratings, meta, err := repo.ListRatingsForGame(ctx, gameID, c.Query("searchQuery"), parsePageRequest(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	writePaginationHeader(c, meta)
	c.JSON(http.StatusOK, newRatingDtos(ratings))
}

// GetRating godoc
// @Summary      Get a rating
// @Description  Retrieves a single rating of a game.
// @Tags         ratings
// @Produce      json
// @Param        gameId    path      int  true  "Game ID"
// @Param        ratingId  path      int  true  "Rating ID"
// @Success      200       {object}  RatingDto
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse "Game or rating not found"
// @Router       /games/{gameId}/ratings/{ratingId} [get]
func (h *RatingHandler) GetRating(c *gin.Context) {
	ctx := c.Request.Context()
	repo := h.sessions.Session()

	rating, err := h.loadRating(ctx, c, repo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newRatingDto(*rating))
}

// endregion

// region --- Write Handlers ---

// CreateRating godoc
// @Summary      Create a rating
// @Description  Adds a rating to a game. The server assigns the id and creation time.
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gameId  path      int                   true  "Game ID"
// @Param        input   body      RatingForCreationDto  true  "Rating"
// @Success      201     {object}  RatingDto
// @Header       201     {string}  Location  "URL of the new rating"
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse "Game not found"
// @Router       /games/{gameId}/ratings [post]
func (h *RatingHandler) CreateRating(c *gin.Context) {
	ctx := c.Request.Context()
	repo := h.sessions.Session()

	gameID, err := h.requireGame(ctx, c, repo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var input RatingForCreationDto
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.InfoContext(ctx, "malformed rating body", slog.String("error", err.Error()))
		respondError(c, h.logger, apperr.Invalid("The request body is not a valid rating."))
		return
	}

	rating := input.toEntity()
	if err := h.validator.Validate(&rating); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := repo.AddRating(ctx, gameID, &rating); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if _, err := repo.SaveChanges(ctx); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "rating created",
		slog.Uint64("gameID", uint64(gameID)), slog.Uint64("ratingID", uint64(rating.ID)))

	c.Header("Location", fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Request.URL.Path, "/"), rating.ID))
	c.JSON(http.StatusCreated, newRatingDto(rating))
}

// UpdateRating godoc
// @Summary      Replace a rating
// @Description  Overwrites the points and review of a rating.
// @Tags         ratings
// @Accept       json
// @Security     BearerAuth
// @Param        gameId    path  int                 true  "Game ID"
// @Param        ratingId  path  int                 true  "Rating ID"
// @Param        input     body  RatingForUpdateDto  true  "New rating values"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game or rating not found"
// @Router       /games/{gameId}/ratings/{ratingId} [put]
func (h *RatingHandler) UpdateRating(c *gin.Context) {
	ctx := c.Request.Context()
	repo := h.sessions.Session()

	rating, err := h.loadRating(ctx, c, repo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var input RatingForUpdateDto
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.InfoContext(ctx, "malformed rating body", slog.String("error", err.Error()))
		respondError(c, h.logger, apperr.Invalid("The request body is not a valid rating."))
		return
	}

	input.applyTo(rating)
	h.save(c, repo, rating, "rating updated")
}

// PatchRating godoc
// @Summary      Partially update a rating
// @Description  Applies a JSON Patch document to the rating's points and review.
// @Tags         ratings
// @Accept       json
// @Security     BearerAuth
// @Param        gameId    path  int               true  "Game ID"
// @Param        ratingId  path  int               true  "Rating ID"
// @Param        input     body  []PatchOperation  true  "JSON Patch document"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Game or rating not found"
// @Router       /games/{gameId}/ratings/{ratingId} [patch]
func (h *RatingHandler) PatchRating(c *gin.Context) {
	ctx := c.Request.Context()
	repo := h.sessions.Session()

	rating, err := h.loadRating(ctx, c, repo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, h.logger, apperr.Invalid("Could not read request body"))
		return
	}

	doc, err := patch.Decode(body)
	if err != nil {
		respondError(c, h.logger, patchError(err))
		return
	}

	projection := newRatingForUpdateDto(*rating)
	if err := patch.Apply(doc, &projection, ratingForUpdateSchema); err != nil {
		respondError(c, h.logger, patchError(err))
		return
	}

	projection.applyTo(rating)
	h.save(c, repo, rating, "rating patched")
}

// DeleteRating godoc
// @Summary      Delete a rating
// @Description  Removes a rating. Requires the admin role.
// @Tags         ratings
// @Security     BearerAuth
// @Param        gameId    path  int  true  "Game ID"
// @Param        ratingId  path  int  true  "Rating ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Game or rating not found"
// @Router       /games/{gameId}/ratings/{ratingId} [delete]
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	ctx := c.Request.Context()
	repo := h.sessions.Session()

	rating, err := h.loadRating(ctx, c, repo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	repo.DeleteRating(rating)
	if _, err := repo.SaveChanges(ctx); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "rating deleted",
		slog.Uint64("gameID", uint64(rating.GameID)), slog.Uint64("ratingID", uint64(rating.ID)))
	c.Status(http.StatusNoContent)
}

// endregion

// requireGame parses the game id path parameter and checks the game exists.
// The parameter is named "id" because gin needs one wildcard name per segment.
func (h *RatingHandler) requireGame(ctx context.Context, c *gin.Context, repo repository.Repository) (uint, error) {
	gameID, err := parseID(c, "id", "game")
	if err != nil {
		return 0, err
	}

	exists, err := repo.GameExists(ctx, gameID)
	if err != nil {
		return 0, err
	}
	if !exists {
		h.logger.InfoContext(ctx, "game not found", slog.Uint64("gameID", uint64(gameID)))
		return 0, gameNotFound(gameID)
	}
	return gameID, nil
}

// loadRating resolves the game and then the rating addressed by the path.
func (h *RatingHandler) loadRating(ctx context.Context, c *gin.Context, repo repository.Repository) (*models.Rating, error) {
	gameID, err := h.requireGame(ctx, c, repo)
	if err != nil {
		return nil, err
	}

	ratingID, err := parseID(c, "ratingId", "rating")
	if err != nil {
		return nil, err
	}

	rating, err := repo.GetRating(ctx, gameID, ratingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ratingNotFound(ratingID)
	} else if err != nil {
		return nil, err
	}
	return rating, nil
}

// save validates a modified, tracked rating and commits it.
func (h *RatingHandler) save(c *gin.Context, repo repository.Repository, rating *models.Rating, msg string) {
	ctx := c.Request.Context()

	if err := h.validator.Validate(rating); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if _, err := repo.SaveChanges(ctx); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, msg,
		slog.Uint64("gameID", uint64(rating.GameID)), slog.Uint64("ratingID", uint64(rating.ID)))
	c.Status(http.StatusNoContent)
}

func patchError(err error) error {
	var perr *patch.Error
	if errors.As(err, &perr) {
		return apperr.Validation(map[string][]string{"patchDocument": perr.Problems})
	}
	return err
}
