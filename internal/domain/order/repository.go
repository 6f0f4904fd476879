package order

import (
	"context"

	"github.com/fieldserve/marketplace-api/internal/models"
)

type Filter struct {
	UserID            *uint
	ServiceProviderID *uint
	Status            string
}

type Repository interface {
	// -------- Order --------
	GetOrder(
		ctx context.Context,
		id uint,
	) (*models.Order, error)

	ListOrders(
		ctx context.Context,
		f Filter,
	) ([]models.Order, error)

	// CreateOrder persists the order together with o.Services in one
	// transaction; a failing line item rolls back the whole order.
	CreateOrder(
		ctx context.Context,
		o *models.Order,
	) error

	// UpdateOrder saves the order; a non-nil services slice replaces
	// every existing line item in the same transaction.
	UpdateOrder(
		ctx context.Context,
		o *models.Order,
		services []models.OrderService,
	) error

	DeleteOrder(
		ctx context.Context,
		id uint,
	) error

	// -------- Catalog / Provider --------
	GetServices(
		ctx context.Context,
		ids []uint,
	) ([]models.Service, error)

	GetProvider(
		ctx context.Context,
		id uint,
	) (*models.ServiceProvider, error)

	// -------- Rejection ledger --------

	// RecordRejection appends the ledger row and, when the provider is
	// the order's current assignee, clears the assignment in the same
	// transaction. Returns the order as left by the call.
	RecordRejection(
		ctx context.Context,
		orderID uint,
		providerID uint,
	) (*models.Order, bool, error)

	ClearRejection(
		ctx context.Context,
		orderID uint,
		providerID uint,
	) error

	ListRejectedOrderIDs(
		ctx context.Context,
		providerID uint,
	) ([]uint, error)

	ListOrdersByStatusExcluding(
		ctx context.Context,
		status string,
		excludeIDs []uint,
	) ([]models.Order, error)

	ListOrderServices(
		ctx context.Context,
		orderIDs []uint,
	) ([]models.OrderService, error)
}
