package models

import "time"

// Service is a catalog entry. Orders snapshot its fields into
// OrderService rows, so catalog edits never rewrite history.
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title    string  `gorm:"size:120;not null" json:"title"`
	Subtitle string  `gorm:"size:255" json:"subtitle"`
	Image    string  `gorm:"size:255" json:"image"`
	Category string  `gorm:"size:60;index;not null" json:"category"`
	Price    float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
