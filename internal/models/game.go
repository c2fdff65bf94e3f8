package models

// Game represents a game that can be rated.
// Games are seeded or managed outside of the API.
type Game struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:64;not null"`
	Description *string `gorm:"size:1024"`

	// Ratings is only filled by an explicit ratings query, never lazily.
	// The association exists so the schema carries the cascading foreign key.
	Ratings []Rating `gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
