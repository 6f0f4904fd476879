package models

import "time"

const (
	RoleAdmin    uint = 1
	RoleProvider uint = 2
	RoleCustomer uint = 3
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	RoleID uint   `gorm:"not null;default:3" json:"role_id"`
	Status string `gorm:"size:20;default:'active'" json:"status"`

	ForgetToken *string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
