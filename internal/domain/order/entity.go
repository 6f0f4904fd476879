package order

import (
	"time"

	"github.com/fieldserve/marketplace-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// SetStatus applies a status transition, stamping CompletedAt only on
// the edge into completed so a repeated update never overwrites the
// original completion time.
func SetStatus(o *models.Order, to Status, now time.Time) error {
	from := Status(o.Status)
	if err := CanTransition(from, to); err != nil {
		return err
	}

	if to == StatusCompleted && from != StatusCompleted {
		o.CompletedAt = &now
	}

	o.Status = string(to)
	return nil
}

func Assign(o *models.Order, providerID uint) {
	o.ServiceProviderID = &providerID
}

// MarkProviderRejected clears the assignment after the assigned
// provider declines.
func MarkProviderRejected(o *models.Order) {
	o.ServiceProviderID = nil
	o.Status = string(StatusProviderRejected)
}

// NewLineItem snapshots a catalog service into an order-owned row.
// Subtotal is always recomputed server-side.
func NewLineItem(orderID uint, serviceID uint, title, subtitle, image string, quantity int, price float64, notes string) models.OrderService {
	if quantity <= 0 {
		quantity = 1
	}
	return models.OrderService{
		OrderID:   orderID,
		ServiceID: serviceID,
		Title:     title,
		Subtitle:  subtitle,
		Image:     image,
		Quantity:  quantity,
		Price:     price,
		Subtotal:  price * float64(quantity),
		Notes:     notes,
	}
}
