package models

import "time"

// OrderBid is one provider's offer against one order. A partial unique
// index on (order_id, service_provider_id) over active statuses keeps a
// provider from holding two live bids on the same order (see internal/db).
type OrderBid struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID uint  `gorm:"index;not null" json:"order_id"`
	Order   Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceProviderID uint            `gorm:"index;not null" json:"service_provider_id"`
	ServiceProvider   ServiceProvider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service_provider,omitempty"`

	// OriginalPrice is order.Amount captured at bid time.
	OriginalPrice float64 `json:"original_price"`
	BidPrice      float64 `json:"bid_price"`
	BidMessage    string  `gorm:"size:500" json:"bid_message"`

	CustomerCounterOffer *float64 `json:"customer_counter_offer"`

	Status string `gorm:"size:20;index;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
