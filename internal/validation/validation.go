// Package validation holds the field rules for games and ratings.
package validation

import (
	"errors"
	"fmt"

	"playnote/backend/internal/apperr"
	"playnote/backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Validator checks an entity against its field rules and returns an
// apperr validation error listing every failing field.
type Validator interface {
	Validate(entity interface{}) error
}

var gameRules = map[string]string{
	"Name":        "required,min=3,max=64",
	"Description": "omitempty,max=1024",
}

var ratingRules = map[string]string{
	"Points": "required,min=1,max=100",
	"Review": "omitempty,max=1024",
}

// messages maps "Type.Field.tag" to the text shown to the caller.
var messages = map[string]string{
	"Game.Name.required":     "Please include Name for the game.",
	"Game.Name.min":          "Please ensure Name is at least 3.",
	"Game.Name.max":          "Please ensure Name is at max 64.",
	"Game.Description.max":   "Please ensure Description is at max 1024.",
	"Rating.Points.required": "Please provide a value for review Points.",
	"Rating.Points.min":      "Please ensure review Points be between 1 and 100.",
	"Rating.Points.max":      "Please ensure review Points be between 1 and 100.",
	"Rating.Review.max":      "Please ensure maximum length for Review is 1024.",
}

// EntityValidator validates models.Game and models.Rating.
type EntityValidator struct {
	validate *validator.Validate
}

func New() *EntityValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidationMapRules(gameRules, models.Game{})
	v.RegisterStructValidationMapRules(ratingRules, models.Rating{})
	return &EntityValidator{validate: v}
}

func (ev *EntityValidator) Validate(entity interface{}) error {
	err := ev.validate.Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return apperr.Validation(fields)
}

func message(fe validator.FieldError) string {
	// Namespace is "Rating.Points"; StructNamespace keeps Go names.
	if msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
