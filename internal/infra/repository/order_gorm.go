package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/models"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *OrderGormRepository) GetOrder(
	ctx context.Context,
	id uint,
) (*models.Order, error) {

	var o models.Order
	if err := r.db.WithContext(ctx).
		Preload("Services").
		First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderGormRepository) ListOrders(
	ctx context.Context,
	f domain.Filter,
) ([]models.Order, error) {

	q := r.db.WithContext(ctx).Preload("Services")

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ServiceProviderID != nil {
		q = q.Where("service_provider_id = ?", *f.ServiceProviderID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) CreateOrder(
	ctx context.Context,
	o *models.Order,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Creates the order and its line items together; any line-item
		// failure rolls back the order row too.
		return tx.Create(o).Error
	})
}

func (r *OrderGormRepository) UpdateOrder(
	ctx context.Context,
	o *models.Order,
	services []models.OrderService,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.Omit(clause.Associations).Save(o).Error; err != nil {
			return err
		}

		if services == nil {
			return nil
		}

		// Full replacement: the service list is owned wholesale by the
		// order, partial patches are not supported.
		if err := tx.
			Where("order_id = ?", o.ID).
			Delete(&models.OrderService{}).Error; err != nil {
			return err
		}

		for i := range services {
			services[i].ID = 0
			services[i].OrderID = o.ID
		}

		if len(services) > 0 {
			if err := tx.Create(&services).Error; err != nil {
				return err
			}
		}

		o.Services = services
		return nil
	})
}

func (r *OrderGormRepository) DeleteOrder(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Where("order_id = ?", id).
			Delete(&models.OrderService{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// --------------------------------------------------
// Catalog / Provider
// --------------------------------------------------

func (r *OrderGormRepository) GetServices(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *OrderGormRepository) GetProvider(
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
// Rejection ledger
// --------------------------------------------------

func (r *OrderGormRepository) RecordRejection(
	ctx context.Context,
	orderID uint,
	providerID uint,
) (*models.Order, bool, error) {

	var o models.Order
	cleared := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, orderID).Error; err != nil {
			return err
		}

		// Idempotent append: a repeated decline is not an error.
		rej := models.RejectedOrder{
			OrderID:           orderID,
			ServiceProviderID: providerID,
		}
		if err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rej).Error; err != nil {
			return err
		}

		if o.ServiceProviderID != nil && *o.ServiceProviderID == providerID {
			domain.MarkProviderRejected(&o)
			if err := tx.Model(&models.Order{}).
				Where("id = ?", o.ID).
				Updates(map[string]any{
					"service_provider_id": nil,
					"status":              o.Status,
				}).Error; err != nil {
				return err
			}
			cleared = true
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &o, cleared, nil
}

func (r *OrderGormRepository) ClearRejection(
	ctx context.Context,
	orderID uint,
	providerID uint,
) error {

	return r.db.WithContext(ctx).
		Where("order_id = ? AND service_provider_id = ?", orderID, providerID).
		Delete(&models.RejectedOrder{}).Error
}

func (r *OrderGormRepository) ListRejectedOrderIDs(
	ctx context.Context,
	providerID uint,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.RejectedOrder{}).
		Where("service_provider_id = ?", providerID).
		Pluck("order_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *OrderGormRepository) ListOrdersByStatusExcluding(
	ctx context.Context,
	status string,
	excludeIDs []uint,
) ([]models.Order, error) {

	q := r.db.WithContext(ctx).Where("status = ?", status)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) ListOrderServices(
	ctx context.Context,
	orderIDs []uint,
) ([]models.OrderService, error) {

	if len(orderIDs) == 0 {
		return nil, nil
	}

	var items []models.OrderService
	if err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Compile-time check
var _ domain.Repository = (*OrderGormRepository)(nil)
