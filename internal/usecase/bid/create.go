package bid

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/audit"
	domain "github.com/fieldserve/marketplace-api/internal/domain/bid"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/notify"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

// ======================================================
// INPUT
// ======================================================

type CreateBidInput struct {
	OrderID           uint
	ServiceProviderID uint
	BidPrice          float64
	BidMessage        string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBid struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewCreateBid(
	repo domain.Repository,
	notifier notify.Notifier,
	auditDispatcher *audit.Dispatcher,
) *CreateBid {
	return &CreateBid{
		repo:     repo,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

func (uc *CreateBid) Execute(
	ctx context.Context,
	in CreateBidInput,
) (*models.OrderBid, error) {

	var missing []string
	if in.OrderID == 0 {
		missing = append(missing, "orderId")
	}
	if in.ServiceProviderID == 0 {
		missing = append(missing, "serviceProviderId")
	}
	if in.BidPrice <= 0 {
		missing = append(missing, "bidPrice")
	}
	if len(missing) > 0 {
		return nil, httperr.ErrValidation(missing...)
	}

	o, err := uc.repo.GetOrder(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("order_not_found")
		}
		return nil, err
	}

	provider, err := uc.repo.GetProvider(ctx, in.ServiceProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("provider_not_found")
		}
		return nil, err
	}

	b := &models.OrderBid{
		OrderID:           o.ID,
		ServiceProviderID: provider.ID,
		OriginalPrice:     o.Amount,
		BidPrice:          in.BidPrice,
		BidMessage:        in.BidMessage,
		Status:            string(domain.InitialStatus()),
	}

	// The active-bid unique index turns a concurrent duplicate into a
	// conflict here.
	if err := uc.repo.CreateBid(ctx, b); err != nil {
		return nil, err
	}

	uc.notifier.Publish(
		realtime.CustomerTopic(o.UserID),
		realtime.NewEvent(realtime.EventNewBid, map[string]any{
			"bid": b,
			"provider": map[string]any{
				"id":            provider.ID,
				"designation":   provider.Designation,
				"rate_per_hour": provider.RatePerHour,
			},
		}),
	)

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "bid_created",
			Entity:   "order_bid",
			EntityID: &b.ID,
			Metadata: map[string]any{"order_id": o.ID},
		})
	}

	return b, nil
}
