package models

import "time"

const (
	AvailabilityOnline  = "online"
	AvailabilityOffline = "offline"
)

type ServiceProvider struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Designation string  `gorm:"size:60;index;not null" json:"designation"`
	Location    string  `gorm:"size:120" json:"location"`
	RatePerHour float64 `json:"rate_per_hour"`
	Experience  string  `gorm:"size:60" json:"experience"`

	Status             string `gorm:"size:20;default:'active'" json:"status"`
	IsVerified         bool   `gorm:"default:false" json:"is_verified"`
	AvailabilityStatus string `gorm:"size:10;default:'offline'" json:"availability_status"`

	LastActive *time.Time `json:"last_active"`
	JoinedDate time.Time  `json:"joined_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
