package handler

import (
	"time"

	"playnote/backend/internal/models"
	"playnote/backend/internal/patch"
)

// region --- DTOs ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	// Errors itemizes validation failures by field.
	Errors map[string][]string `json:"errors,omitempty"`
}

// RatingDto is the public shape of a rating.
type RatingDto struct {
	ID           uint      `json:"id" example:"1"`
	CreatedAtUTC time.Time `json:"createdAtUtc"`
	Points       int       `json:"points" example:"80"`
	Review       *string   `json:"review" example:"Great co-op."`
}

// GameDto is a game with its ratings.
type GameDto struct {
	ID              uint        `json:"id" example:"1"`
	Name            string      `json:"name" example:"Hollow Knight"`
	Description     *string     `json:"description"`
	NumberOfRatings int         `json:"numberOfRatings" example:"2"`
	Ratings         []RatingDto `json:"ratings"`
}

// GameWithoutRatingsDto is the slim shape used by lists.
type GameWithoutRatingsDto struct {
	ID          uint    `json:"id" example:"1"`
	Name        string  `json:"name" example:"Hollow Knight"`
	Description *string `json:"description"`
}

// RatingForCreationDto is the body accepted when creating a rating.
type RatingForCreationDto struct {
	Points int     `json:"points" example:"80"`
	Review *string `json:"review" example:"Great co-op."`
}

// RatingForUpdateDto is the body accepted by full updates, and the shape
// partial updates are applied to.
type RatingForUpdateDto struct {
	Points int     `json:"points" example:"80"`
	Review *string `json:"review" example:"Great co-op."`
}

// PatchOperation documents one JSON Patch operation for the API docs.
type PatchOperation struct {
	Op    string      `json:"op" example:"replace" enums:"add,remove,replace,move,copy,test"`
	Path  string      `json:"path" example:"/points"`
	From  string      `json:"from,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

// AuthenticationInput defines the structure for a login request.
type AuthenticationInput struct {
	Username string `json:"username" binding:"required" example:"playnoteTester123"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ratingForUpdateSchema is the structural check applied to a patched RatingForUpdateDto.
var ratingForUpdateSchema = patch.MustCompile(`{
	"type": "object",
	"properties": {
		"points": {"type": "integer"},
		"review": {"type": ["string", "null"]}
	},
	"required": ["points"],
	"additionalProperties": false
}`)

// endregion

// region --- Mapping ---

func newRatingDto(r models.Rating) RatingDto {
	return RatingDto{
		ID:           r.ID,
		CreatedAtUTC: r.CreatedAtUTC.UTC(),
		Points:       r.Points,
		Review:       r.Review,
	}
}

func newRatingDtos(ratings []models.Rating) []RatingDto {
	dtos := make([]RatingDto, 0, len(ratings))
	for _, r := range ratings {
		dtos = append(dtos, newRatingDto(r))
	}
	return dtos
}

func newGameDto(g models.Game) GameDto {
	return GameDto{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		NumberOfRatings: len(g.Ratings),
		Ratings:         newRatingDtos(g.Ratings),
	}
}

func newGameWithoutRatingsDto(g models.Game) GameWithoutRatingsDto {
	return GameWithoutRatingsDto{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
	}
}

func (in RatingForCreationDto) toEntity() models.Rating {
	return models.Rating{Points: in.Points, Review: in.Review}
}

func newRatingForUpdateDto(r models.Rating) RatingForUpdateDto {
	return RatingForUpdateDto{Points: r.Points, Review: r.Review}
}

// applyTo overwrites the editable fields of r.
func (in RatingForUpdateDto) applyTo(r *models.Rating) {
	r.Points = in.Points
	r.Review = in.Review
}

// endregion
