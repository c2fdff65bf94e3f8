package repository_test

import (
	"context"
	"fmt"
	"testing"

	"playnote/backend/internal/database"
	"playnote/backend/internal/models"
	"playnote/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func text(s string) *string { return &s }

func setupStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewStore(db), db
}

func createGame(t *testing.T, db *gorm.DB, name string, description *string) models.Game {
	t.Helper()
	game := models.Game{Name: name, Description: description}
	require.NoError(t, db.Create(&game).Error)
	return game
}

func createRating(t *testing.T, db *gorm.DB, gameID uint, points int, review *string) models.Rating {
	t.Helper()
	rating := models.Rating{GameID: gameID, Points: points, Review: review}
	require.NoError(t, db.Create(&rating).Error)
	return rating
}

func TestGameExists(t *testing.T) {
	store, db := setupStore(t)
	game := createGame(t, db, "Celeste", nil)
	repo := store.Session()

	exists, err := repo.GameExists(context.Background(), game.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.GameExists(context.Background(), game.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetGame(t *testing.T) {
	store, db := setupStore(t)
	game := createGame(t, db, "Hollow Knight", text("Bugs and nails"))
	createRating(t, db, game.ID, 95, text("superb"))
	createRating(t, db, game.ID, 80, nil)
	other := createGame(t, db, "Factorio", nil)
	createRating(t, db, other.ID, 60, nil)

	t.Run("without ratings", func(t *testing.T) {
		got, err := store.Session().GetGame(context.Background(), game.ID, false)

		require.NoError(t, err)
		assert.Equal(t, "Hollow Knight", got.Name)
		assert.Empty(t, got.Ratings)
	})

	t.Run("with ratings loads only this game's ratings", func(t *testing.T) {
		got, err := store.Session().GetGame(context.Background(), game.ID, true)

		require.NoError(t, err)
		require.Len(t, got.Ratings, 2)
		assert.Equal(t, 95, got.Ratings[0].Points)
		assert.Equal(t, 80, got.Ratings[1].Points)
	})

	t.Run("missing game", func(t *testing.T) {
		_, err := store.Session().GetGame(context.Background(), 999, true)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestGetRating_RequiresMatchingGame(t *testing.T) {
	store, db := setupStore(t)
	first := createGame(t, db, "Celeste", nil)
	second := createGame(t, db, "Factorio", nil)
	rating := createRating(t, db, first.ID, 70, nil)

	got, err := store.Session().GetRating(context.Background(), first.ID, rating.ID)
	require.NoError(t, err)
	assert.Equal(t, rating.ID, got.ID)

	_, err = store.Session().GetRating(context.Background(), second.ID, rating.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListGames_SearchIsCaseSensitiveOverNameAndDescription(t *testing.T) {
	store, db := setupStore(t)
	createGame(t, db, "Space Miner", nil)
	createGame(t, db, "Farm Life", text("Grow crops in space"))
	createGame(t, db, "Puzzle Box", text("No match here"))

	games, meta, err := store.Session().ListGames(context.Background(), "space", repository.PageRequest{PageNumber: 1, PageSize: 10})

	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Farm Life", games[0].Name)
	assert.Equal(t, int64(1), meta.TotalItemCount)

	games, _, err = store.Session().ListGames(context.Background(), "", repository.PageRequest{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, games, 3)
}

func TestListGames_Pagination(t *testing.T) {
	store, db := setupStore(t)
	for i := 1; i <= 25; i++ {
		createGame(t, db, fmt.Sprintf("Game %02d", i), nil)
	}

	tests := []struct {
		name      string
		page      repository.PageRequest
		wantItems int
		wantFirst string
		wantMeta  repository.PaginationMetadata
	}{
		{
			name:      "first page",
			page:      repository.PageRequest{PageNumber: 1, PageSize: 10},
			wantItems: 10,
			wantFirst: "Game 01",
			wantMeta:  repository.PaginationMetadata{TotalItemCount: 25, TotalPageCount: 3, PageSize: 10, CurrentPage: 1},
		},
		{
			name:      "last partial page",
			page:      repository.PageRequest{PageNumber: 3, PageSize: 10},
			wantItems: 5,
			wantFirst: "Game 21",
			wantMeta:  repository.PaginationMetadata{TotalItemCount: 25, TotalPageCount: 3, PageSize: 10, CurrentPage: 3},
		},
		{
			name:      "past the end",
			page:      repository.PageRequest{PageNumber: 4, PageSize: 10},
			wantItems: 0,
			wantMeta:  repository.PaginationMetadata{TotalItemCount: 25, TotalPageCount: 3, PageSize: 10, CurrentPage: 4},
		},
		{
			name:      "page size clamped",
			page:      repository.PageRequest{PageNumber: 1, PageSize: 500},
			wantItems: 20,
			wantFirst: "Game 01",
			wantMeta:  repository.PaginationMetadata{TotalItemCount: 25, TotalPageCount: 2, PageSize: 20, CurrentPage: 1},
		},
		{
			name:      "huge page number",
			page:      repository.PageRequest{PageNumber: 1_000_000_000_000_000_000, PageSize: 10},
			wantItems: 0,
			wantMeta:  repository.PaginationMetadata{TotalItemCount: 25, TotalPageCount: 3, PageSize: 10, CurrentPage: 1_000_000_000_000_000_000},
		},
		{
			name:      "page number below one",
			page:      repository.PageRequest{PageNumber: 0, PageSize: 10},
			wantItems: 0,
			wantMeta:  repository.PaginationMetadata{TotalItemCount: 25, TotalPageCount: 3, PageSize: 10, CurrentPage: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games, meta, err := store.Session().ListGames(context.Background(), "", tt.page)

			require.NoError(t, err)
			assert.NotNil(t, games)
			assert.Len(t, games, tt.wantItems)
			assert.Equal(t, tt.wantMeta, meta)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, games[0].Name)
			}
		})
	}
}

func TestListRatingsForGame_FiltersByGameThenReview(t *testing.T) {
	store, db := setupStore(t)
	game := createGame(t, db, "Celeste", nil)
	other := createGame(t, db, "Factorio", nil)
	createRating(t, db, game.ID, 90, text("Great climb"))
	createRating(t, db, game.ID, 40, text("too hard"))
	createRating(t, db, game.ID, 50, nil)
	createRating(t, db, other.ID, 10, text("Great factory"))

	ratings, meta, err := store.Session().ListRatingsForGame(context.Background(), game.ID, "Great", repository.PageRequest{PageNumber: 1, PageSize: 10})

	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 90, ratings[0].Points)
	assert.Equal(t, int64(1), meta.TotalItemCount)

	ratings, meta, err = store.Session().ListRatingsForGame(context.Background(), game.ID, "", repository.PageRequest{PageNumber: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
	assert.Equal(t, 2, meta.TotalPageCount)
}

func TestAddRating_RoundTrip(t *testing.T) {
	store, db := setupStore(t)
	game := createGame(t, db, "Celeste", nil)
	repo := store.Session()
	rating := &models.Rating{Points: 50, Review: text("ok")}

	require.NoError(t, repo.AddRating(context.Background(), game.ID, rating))
	changed, err := repo.SaveChanges(context.Background())

	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotZero(t, rating.ID)
	assert.False(t, rating.CreatedAtUTC.IsZero())

	fetched, err := store.Session().GetRating(context.Background(), game.ID, rating.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, fetched.Points)
	require.NotNil(t, fetched.Review)
	assert.Equal(t, "ok", *fetched.Review)
	assert.False(t, fetched.CreatedAtUTC.IsZero())
}

func TestAddRating_MissingGameIsNoOp(t *testing.T) {
	store, db := setupStore(t)
	repo := store.Session()

	require.NoError(t, repo.AddRating(context.Background(), 404, &models.Rating{Points: 10}))
	changed, err := repo.SaveChanges(context.Background())

	require.NoError(t, err)
	assert.False(t, changed)
	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveChanges_PersistsModificationsOfTrackedRatings(t *testing.T) {
	store, db := setupStore(t)
	game := createGame(t, db, "Celeste", nil)
	original := createRating(t, db, game.ID, 30, text("meh"))
	repo := store.Session()

	rating, err := repo.GetRating(context.Background(), game.ID, original.ID)
	require.NoError(t, err)

	changed, err := repo.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "nothing modified yet")

	rating.Points = 85
	rating.Review = nil
	changed, err = repo.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	var stored models.Rating
	require.NoError(t, db.First(&stored, original.ID).Error)
	assert.Equal(t, 85, stored.Points)
	assert.Nil(t, stored.Review)
}

func TestDeleteRating(t *testing.T) {
	store, db := setupStore(t)
	game := createGame(t, db, "Celeste", nil)
	rating := createRating(t, db, game.ID, 30, nil)
	keep := createRating(t, db, game.ID, 60, nil)
	repo := store.Session()

	loaded, err := repo.GetRating(context.Background(), game.ID, rating.ID)
	require.NoError(t, err)
	repo.DeleteRating(loaded)
	changed, err := repo.SaveChanges(context.Background())

	require.NoError(t, err)
	assert.True(t, changed)
	_, err = store.Session().GetRating(context.Background(), game.ID, rating.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Session().GetRating(context.Background(), game.ID, keep.ID)
	assert.NoError(t, err)
}

func TestDeleteRating_PendingAddIsDropped(t *testing.T) {
	store, db := setupStore(t)
	game := createGame(t, db, "Celeste", nil)
	repo := store.Session()
	rating := &models.Rating{Points: 10}

	require.NoError(t, repo.AddRating(context.Background(), game.ID, rating))
	repo.DeleteRating(rating)
	changed, err := repo.SaveChanges(context.Background())

	require.NoError(t, err)
	assert.False(t, changed)
}
