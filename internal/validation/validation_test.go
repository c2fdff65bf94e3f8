package validation_test

import (
	"strings"
	"testing"

	"playnote/backend/internal/apperr"
	"playnote/backend/internal/models"
	"playnote/backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) *string { return &s }

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.EINVALID, appErr.Code)
	return appErr.Fields
}

func TestValidate_RatingPoints(t *testing.T) {
	v := validation.New()

	tests := []struct {
		points  int
		valid   bool
		message string
	}{
		{points: 0, message: "Please provide a value for review Points."},
		{points: -5, message: "Please ensure review Points be between 1 and 100."},
		{points: 1, valid: true},
		{points: 50, valid: true},
		{points: 100, valid: true},
		{points: 101, message: "Please ensure review Points be between 1 and 100."},
		{points: 150, message: "Please ensure review Points be between 1 and 100."},
	}

	for _, tt := range tests {
		err := v.Validate(&models.Rating{Points: tt.points})
		if tt.valid {
			assert.NoError(t, err, "points %d", tt.points)
			continue
		}
		fields := fieldErrors(t, err)
		assert.Equal(t, []string{tt.message}, fields["Points"], "points %d", tt.points)
	}
}

func TestValidate_RatingReview(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(&models.Rating{Points: 10}))
	assert.NoError(t, v.Validate(&models.Rating{Points: 10, Review: text(strings.Repeat("a", 1024))}))

	fields := fieldErrors(t, v.Validate(&models.Rating{Points: 10, Review: text(strings.Repeat("a", 1025))}))
	assert.Equal(t, []string{"Please ensure maximum length for Review is 1024."}, fields["Review"])
}

func TestValidate_ItemizesEveryField(t *testing.T) {
	v := validation.New()

	fields := fieldErrors(t, v.Validate(&models.Rating{Points: 500, Review: text(strings.Repeat("x", 2000))}))

	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "Points")
	assert.Contains(t, fields, "Review")
}

func TestValidate_Game(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		game  models.Game
		field string
		want  string
	}{
		{name: "valid", game: models.Game{Name: "Celeste"}},
		{name: "boundary name lengths", game: models.Game{Name: "Abc", Description: text(strings.Repeat("d", 1024))}},
		{name: "empty name", game: models.Game{Name: ""}, field: "Name", want: "Please include Name for the game."},
		{name: "short name", game: models.Game{Name: "Go"}, field: "Name", want: "Please ensure Name is at least 3."},
		{name: "long name", game: models.Game{Name: strings.Repeat("n", 65)}, field: "Name", want: "Please ensure Name is at max 64."},
		{name: "long description", game: models.Game{Name: "Celeste", Description: text(strings.Repeat("d", 1025))}, field: "Description", want: "Please ensure Description is at max 1024."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.game)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			fields := fieldErrors(t, err)
			assert.Equal(t, []string{tt.want}, fields[tt.field])
		})
	}
}
