// Package repository owns read and write access to games and their ratings.
//
// Reads go straight to the database. Writes are staged on a Session and
// applied together, in one transaction, by SaveChanges.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"playnote/backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a game or rating does not exist.
var ErrNotFound = errors.New("record not found")

// Repository is a unit of work over games and ratings.
type Repository interface {
	GameExists(ctx context.Context, gameID uint) (bool, error)
	// GetGame loads a game; with includeRatings its Ratings are loaded by
	// a separate query on the foreign key.
	GetGame(ctx context.Context, gameID uint, includeRatings bool) (*models.Game, error)
	ListGames(ctx context.Context, searchQuery string, page PageRequest) ([]models.Game, PaginationMetadata, error)

	// GetRating matches both ids; a rating filed under another game is
	// reported as ErrNotFound. The returned rating is tracked, so changes
	// made to it are persisted by SaveChanges.
	GetRating(ctx context.Context, gameID, ratingID uint) (*models.Rating, error)
	ListRatingsForGame(ctx context.Context, gameID uint, searchQuery string, page PageRequest) ([]models.Rating, PaginationMetadata, error)

	// AddRating stages rating under the game. It does nothing when the game
	// does not exist; callers check existence first.
	AddRating(ctx context.Context, gameID uint, rating *models.Rating) error
	// DeleteRating stages removal of a rating obtained from GetRating.
	DeleteRating(rating *models.Rating)

	// SaveChanges applies every staged change atomically and reports
	// whether any row was written.
	SaveChanges(ctx context.Context) (bool, error)
}

// Sessions hands out one Repository per unit of work (usually per request).
type Sessions interface {
	Session() Repository
}

// Store is the GORM-backed Sessions implementation.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Session starts a new unit of work.
func (s *Store) Session() Repository {
	return &session{
		db:      s.db,
		tracked: make(map[*models.Rating]models.Rating),
	}
}

type session struct {
	db *gorm.DB

	added   []*models.Rating
	deleted []*models.Rating
	// tracked maps a loaded rating to the values it had when loaded.
	tracked map[*models.Rating]models.Rating
}

var _ Repository = (*session)(nil)

func (s *session) GameExists(ctx context.Context, gameID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", gameID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check game %d: %w", gameID, err)
	}
	return count > 0, nil
}

func (s *session) GetGame(ctx context.Context, gameID uint, includeRatings bool) (*models.Game, error) {
	db := s.db.WithContext(ctx)

	var game models.Game
	if err := db.Where("id = ?", gameID).First(&game).Error; err != nil {
		return nil, notFound(err, "get game %d", gameID)
	}

	if includeRatings {
		if err := db.Where("game_id = ?", gameID).Order("id ASC").Find(&game.Ratings).Error; err != nil {
			return nil, fmt.Errorf("load ratings for game %d: %w", gameID, err)
		}
	}
	return &game, nil
}

func (s *session) ListGames(ctx context.Context, searchQuery string, page PageRequest) ([]models.Game, PaginationMetadata, error) {
	query := s.db.WithContext(ctx).Model(&models.Game{})
	query = whereContains(query, searchQuery, "name", "description")

	games, meta, err := Paginate[models.Game](query, page)
	if err != nil {
		return nil, PaginationMetadata{}, fmt.Errorf("list games: %w", err)
	}
	return games, meta, nil
}

func (s *session) GetRating(ctx context.Context, gameID, ratingID uint) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).
		Where("game_id = ? AND id = ?", gameID, ratingID).
		First(&rating).Error
	if err != nil {
		return nil, notFound(err, "get rating %d for game %d", ratingID, gameID)
	}

	s.tracked[&rating] = rating
	return &rating, nil
}

func (s *session) ListRatingsForGame(ctx context.Context, gameID uint, searchQuery string, page PageRequest) ([]models.Rating, PaginationMetadata, error) {
	query := s.db.WithContext(ctx).Model(&models.Rating{}).Where("game_id = ?", gameID)
	query = whereContains(query, searchQuery, "review")

	ratings, meta, err := Paginate[models.Rating](query, page)
	if err != nil {
		return nil, PaginationMetadata{}, fmt.Errorf("list ratings for game %d: %w", gameID, err)
	}
	return ratings, meta, nil
}

func (s *session) AddRating(ctx context.Context, gameID uint, rating *models.Rating) error {
	exists, err := s.GameExists(ctx, gameID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	rating.GameID = gameID
	s.added = append(s.added, rating)
	return nil
}

func (s *session) DeleteRating(rating *models.Rating) {
	if rating == nil {
		return
	}
	for i, r := range s.added {
		if r == rating {
			s.added = append(s.added[:i], s.added[i+1:]...)
			return
		}
	}
	delete(s.tracked, rating)
	s.deleted = append(s.deleted, rating)
}

func (s *session) SaveChanges(ctx context.Context) (bool, error) {
	var written int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rating := range s.added {
			if err := tx.Create(rating).Error; err != nil {
				return fmt.Errorf("insert rating for game %d: %w", rating.GameID, err)
			}
			written++

			// The timestamp comes from the column default.
			var createdAt time.Time
			if err := tx.Model(&models.Rating{}).Select("created_at_utc").Where("id = ?", rating.ID).Scan(&createdAt).Error; err != nil {
				return fmt.Errorf("read back rating %d: %w", rating.ID, err)
			}
			rating.CreatedAtUTC = createdAt.UTC()
		}

		for _, rating := range s.deleted {
			res := tx.Where("game_id = ?", rating.GameID).Delete(&models.Rating{}, rating.ID)
			if res.Error != nil {
				return fmt.Errorf("delete rating %d: %w", rating.ID, res.Error)
			}
			written += res.RowsAffected
		}

		for rating, loaded := range s.tracked {
			if !modified(loaded, *rating) {
				continue
			}
			res := tx.Model(&models.Rating{}).
				Where("id = ? AND game_id = ?", loaded.ID, loaded.GameID).
				Updates(map[string]interface{}{
					"points": rating.Points,
					"review": rating.Review,
				})
			if res.Error != nil {
				return fmt.Errorf("update rating %d: %w", loaded.ID, res.Error)
			}
			written += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	for _, rating := range s.added {
		s.tracked[rating] = *rating
	}
	for rating := range s.tracked {
		s.tracked[rating] = *rating
	}
	s.added = nil
	s.deleted = nil

	return written > 0, nil
}

func modified(before, after models.Rating) bool {
	if before.Points != after.Points {
		return true
	}
	switch {
	case before.Review == nil && after.Review == nil:
		return false
	case before.Review == nil || after.Review == nil:
		return true
	default:
		return *before.Review != *after.Review
	}
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
