package order

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/audit"
	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
)

type DeleteOrder struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteOrder(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *DeleteOrder {
	return &DeleteOrder{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *DeleteOrder) Execute(
	ctx context.Context,
	id uint,
) error {

	if err := uc.repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrNotFound("order_not_found")
		}
		return err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "order_deleted",
			Entity:   "order",
			EntityID: &id,
		})
	}

	return nil
}
