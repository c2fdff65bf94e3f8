package models

import "time"

// Rating is a single score with an optional review for a game.
type Rating struct {
	ID uint `gorm:"primaryKey"`
	// CreatedAtUTC is assigned by the database when the row is inserted.
	CreatedAtUTC time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;<-:create"`
	Points       int       `gorm:"not null"`
	Review       *string   `gorm:"size:1024"`
	GameID       uint      `gorm:"not null;index"`
}
