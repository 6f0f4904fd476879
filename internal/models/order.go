package models

import "time"

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	ServiceProviderID *uint            `gorm:"index" json:"service_provider_id"`
	ServiceProvider   *ServiceProvider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service_provider,omitempty"`

	Address string `gorm:"size:255;not null" json:"address"`
	Area    string `gorm:"size:120" json:"area"`
	City    string `gorm:"size:120" json:"city"`
	ZipCode string `gorm:"size:20" json:"zip_code"`

	ScheduledDate string `gorm:"size:10;not null" json:"scheduled_date"`
	ScheduledTime string `gorm:"size:5;not null" json:"scheduled_time"`

	// Amount is the current agreed price; OriginalAmount keeps the
	// pre-negotiation price and is set only when a bid settles.
	Amount         float64  `json:"amount"`
	OriginalAmount *float64 `json:"original_amount"`
	IsNegotiated   bool     `gorm:"default:false" json:"is_negotiated"`

	Status        string `gorm:"size:20;index;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	Rating *float64 `json:"rating"`
	Review string   `gorm:"size:500" json:"review"`

	CompletedAt *time.Time `json:"completed_at"`

	Services []OrderService `gorm:"constraint:OnDelete:CASCADE;" json:"services"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderService is a line item owned exclusively by its Order. Price and
// titles are snapshots taken when the order is created or updated.
type OrderService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID   uint `gorm:"index;not null" json:"order_id"`
	ServiceID uint `gorm:"not null" json:"service_id"`

	Title    string `gorm:"size:120" json:"title"`
	Subtitle string `gorm:"size:255" json:"subtitle"`
	Image    string `gorm:"size:255" json:"image"`

	Quantity int     `gorm:"default:1" json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`

	Notes string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
