package order

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/audit"
	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type UpdateOrderInput struct {
	Address *string
	Area    *string
	City    *string
	ZipCode *string

	ScheduledDate *string
	ScheduledTime *string

	Amount        *float64
	Status        *string
	PaymentStatus *string

	Rating *float64
	Review *string

	// Non-nil replaces every existing line item.
	Services []ServiceItemInput
}

// ======================================================
// USE CASE
// ======================================================

type UpdateOrder struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateOrder(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *UpdateOrder {
	return &UpdateOrder{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *UpdateOrder) Execute(
	ctx context.Context,
	id uint,
	in UpdateOrderInput,
) (*models.Order, error) {

	o, err := uc.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("order_not_found")
		}
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&o.Address, in.Address)
	applyString(&o.Area, in.Area)
	applyString(&o.City, in.City)
	applyString(&o.ZipCode, in.ZipCode)
	applyString(&o.ScheduledDate, in.ScheduledDate)
	applyString(&o.ScheduledTime, in.ScheduledTime)
	applyString(&o.PaymentStatus, in.PaymentStatus)
	applyString(&o.Review, in.Review)

	if in.Amount != nil {
		o.Amount = *in.Amount
	}
	if in.Rating != nil {
		o.Rating = in.Rating
	}

	if in.Status != nil {
		to := domain.Status(*in.Status)
		if !domain.IsValid(to) {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		// CompletedAt is stamped only on the edge into completed.
		if err := domain.SetStatus(o, to, time.Now()); err != nil {
			return nil, err
		}
	}

	var replacement []models.OrderService
	if in.Services != nil {
		if err := validateLineItems(in.Services); err != nil {
			return nil, err
		}
		replacement, err = snapshotLineItems(ctx, uc.repo, in.Services)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.repo.UpdateOrder(ctx, o, replacement); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			UserID:   &o.UserID,
			Action:   "order_updated",
			Entity:   "order",
			EntityID: &o.ID,
		})
	}

	return o, nil
}
