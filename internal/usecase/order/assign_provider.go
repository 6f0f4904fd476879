package order

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/audit"
	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/models"
)

type AssignProvider struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAssignProvider(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *AssignProvider {
	return &AssignProvider{
		repo:  repo,
		audit: auditDispatcher,
	}
}

// Execute sets the assignment directly. Eligibility was already
// checked at matching time, so no further provider validation happens
// here.
func (uc *AssignProvider) Execute(
	ctx context.Context,
	orderID uint,
	providerID uint,
) (*models.Order, error) {

	if providerID == 0 {
		return nil, httperr.ErrValidation("serviceProviderId")
	}

	o, err := uc.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("order_not_found")
		}
		return nil, err
	}

	domain.Assign(o, providerID)

	if err := uc.repo.UpdateOrder(ctx, o, nil); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			UserID:   &o.UserID,
			Action:   "order_provider_assigned",
			Entity:   "order",
			EntityID: &o.ID,
			Metadata: map[string]any{"service_provider_id": providerID},
		})
	}

	return o, nil
}
