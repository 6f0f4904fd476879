package bid

import (
	"context"

	"github.com/fieldserve/marketplace-api/internal/models"
)

type Repository interface {
	// -------- Lookups --------
	GetBid(
		ctx context.Context,
		id uint,
	) (*models.OrderBid, error)

	GetOrder(
		ctx context.Context,
		id uint,
	) (*models.Order, error)

	GetProvider(
		ctx context.Context,
		id uint,
	) (*models.ServiceProvider, error)

	// -------- Bid (create / mutate) --------

	// CreateBid inserts the bid; a unique violation on the active-bid
	// index surfaces as a duplicate_bid conflict.
	CreateBid(
		ctx context.Context,
		b *models.OrderBid,
	) error

	UpdateBid(
		ctx context.Context,
		b *models.OrderBid,
	) error

	// SettleAcceptedBid runs the acceptance transaction: mark the bid
	// accepted, move the order to the winning terms guarded by a
	// conditional status update, and reject every sibling bid. A guard
	// failure rolls everything back.
	SettleAcceptedBid(
		ctx context.Context,
		bidID uint,
	) (*models.OrderBid, *models.Order, error)

	// -------- Listings --------
	ListBidsByOrder(
		ctx context.Context,
		orderID uint,
	) ([]models.OrderBid, error)

	ListBidsByProvider(
		ctx context.Context,
		providerID uint,
	) ([]models.OrderBid, error)

	ListCounterOffersByProvider(
		ctx context.Context,
		providerID uint,
	) ([]models.OrderBid, error)
}
