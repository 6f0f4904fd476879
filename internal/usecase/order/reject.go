package order

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/audit"
	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/notify"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

// RejectOrder feeds the rejection ledger: the provider declines the
// order and is excluded from its future candidate lists.
type RejectOrder struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewRejectOrder(
	repo domain.Repository,
	notifier notify.Notifier,
	auditDispatcher *audit.Dispatcher,
) *RejectOrder {
	return &RejectOrder{
		repo:     repo,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

func (uc *RejectOrder) Execute(
	ctx context.Context,
	orderID uint,
	providerID uint,
) (*models.Order, error) {

	if providerID == 0 {
		return nil, httperr.ErrValidation("providerId")
	}

	o, cleared, err := uc.repo.RecordRejection(ctx, orderID, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("order_not_found")
		}
		return nil, err
	}

	// The customer only hears about it when their assigned provider
	// walked away; a decline from an unassigned candidate is silent.
	if cleared {
		uc.notifier.Publish(
			realtime.CustomerTopic(o.UserID),
			realtime.NewEvent(realtime.EventOrderRejected, map[string]any{
				"order_id":    o.ID,
				"provider_id": providerID,
			}),
		)
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "order_rejected_by_provider",
			Entity:   "order",
			EntityID: &o.ID,
			Metadata: map[string]any{
				"service_provider_id": providerID,
				"assignment_cleared":  cleared,
			},
		})
	}

	return o, nil
}

// ClearRejection removes one ledger row. Deliberately a separate,
// admin-only operation: a plain reassignment never forgives a decline.
type ClearRejection struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewClearRejection(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *ClearRejection {
	return &ClearRejection{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *ClearRejection) Execute(
	ctx context.Context,
	orderID uint,
	providerID uint,
) error {

	if providerID == 0 {
		return httperr.ErrValidation("providerId")
	}

	if err := uc.repo.ClearRejection(ctx, orderID, providerID); err != nil {
		return err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "order_rejection_cleared",
			Entity:   "order",
			EntityID: &orderID,
			Metadata: map[string]any{"service_provider_id": providerID},
		})
	}

	return nil
}
