package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/fieldserve/marketplace-api/internal/domain/bid"
	orderdomain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/models"
)

type BidGormRepository struct {
	db *gorm.DB
}

func NewBidGormRepository(db *gorm.DB) *BidGormRepository {
	return &BidGormRepository{db: db}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *BidGormRepository) GetBid(
	ctx context.Context,
	id uint,
) (*models.OrderBid, error) {

	var b models.OrderBid
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BidGormRepository) GetOrder(
	ctx context.Context,
	id uint,
) (*models.Order, error) {

	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *BidGormRepository) GetProvider(
	ctx context.Context,
	id uint,
) (*models.ServiceProvider, error) {

	var p models.ServiceProvider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Bid (create / mutate)
// --------------------------------------------------

func (r *BidGormRepository) CreateBid(
	ctx context.Context,
	b *models.OrderBid,
) error {

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		// Partial unique index on active bids; a concurrent duplicate
		// loses here instead of in a racy pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrConflict("duplicate_bid")
		}
		return err
	}
	return nil
}

func (r *BidGormRepository) UpdateBid(
	ctx context.Context,
	b *models.OrderBid,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BidGormRepository) SettleAcceptedBid(
	ctx context.Context,
	bidID uint,
) (*models.OrderBid, *models.Order, error) {

	var b models.OrderBid
	var o models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, bidID).Error; err != nil {
			return err
		}

		if err := domain.Accept(&b); err != nil {
			return err
		}

		// Conditional update: the order must still be open for
		// settlement. Zero rows means another accept already won.
		res := tx.Model(&models.Order{}).
			Where(
				"id = ? AND status IN ?",
				b.OrderID,
				[]string{
					string(orderdomain.StatusPending),
					string(orderdomain.StatusProviderRejected),
				},
			).
			Updates(map[string]any{
				"service_provider_id": b.ServiceProviderID,
				"amount":              domain.FinalPrice(&b),
				"original_amount":     b.OriginalPrice,
				"is_negotiated":       true,
				"status":              string(orderdomain.StatusAccepted),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrConflict("order_not_open_for_bids")
		}

		if err := tx.Model(&models.OrderBid{}).
			Where("id = ?", b.ID).
			Update("status", b.Status).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.OrderBid{}).
			Where("order_id = ? AND id <> ?", b.OrderID, b.ID).
			Update("status", string(domain.StatusRejected)).Error; err != nil {
			return err
		}

		return tx.Preload("Services").First(&o, b.OrderID).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &b, &o, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *BidGormRepository) ListBidsByOrder(
	ctx context.Context,
	orderID uint,
) ([]models.OrderBid, error) {

	var bids []models.OrderBid
	if err := r.db.WithContext(ctx).
		Preload("ServiceProvider").
		Preload("ServiceProvider.User").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *BidGormRepository) ListBidsByProvider(
	ctx context.Context,
	providerID uint,
) ([]models.OrderBid, error) {

	var bids []models.OrderBid
	if err := r.db.WithContext(ctx).
		Where("service_provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *BidGormRepository) ListCounterOffersByProvider(
	ctx context.Context,
	providerID uint,
) ([]models.OrderBid, error) {

	var bids []models.OrderBid
	if err := r.db.WithContext(ctx).
		Where(
			"service_provider_id = ? AND status = ?",
			providerID,
			string(domain.StatusCounterOffered),
		).
		Order("updated_at DESC").
		Find(&bids).Error; err != nil {
		return nil, err
	}
	return bids, nil
}

// Compile-time check
var _ domain.Repository = (*BidGormRepository)(nil)
