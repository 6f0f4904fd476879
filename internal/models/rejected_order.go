package models

import "time"

// RejectedOrder records that a provider declined an order. Append-only;
// matching and eligible-order listings use it as an exclusion filter.
type RejectedOrder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderID           uint `gorm:"uniqueIndex:idx_rejected_order_provider;not null" json:"order_id"`
	ServiceProviderID uint `gorm:"uniqueIndex:idx_rejected_order_provider;not null" json:"service_provider_id"`

	CreatedAt time.Time `json:"created_at"`
}
