package database

import (
	"fmt"

	"playnote/backend/internal/models"

	"gorm.io/gorm"
)

func describe(s string) *string { return &s }

// DemoGames is the catalogue inserted by Seed.
var DemoGames = []models.Game{
	{Name: "The Witcher 3: Wild Hunt", Description: describe("Open world action RPG following Geralt of Rivia.")},
	{Name: "Hollow Knight", Description: describe("Hand-drawn metroidvania set in the ruined kingdom of Hallownest.")},
	{Name: "Factorio", Description: describe("Build and automate factories on an alien planet.")},
	{Name: "Celeste", Description: describe("Precision platformer about climbing a mountain.")},
	{Name: "Stardew Valley"},
}

// Seed inserts DemoGames when the games table is empty and reports how many
// games were added.
func Seed(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Game{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	games := make([]models.Game, len(DemoGames))
	copy(games, DemoGames)
	if err := db.Create(&games).Error; err != nil {
		return 0, fmt.Errorf("seed games: %w", err)
	}
	return len(games), nil
}
