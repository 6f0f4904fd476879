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

type CounterOffer struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewCounterOffer(
	repo domain.Repository,
	notifier notify.Notifier,
	auditDispatcher *audit.Dispatcher,
) *CounterOffer {
	return &CounterOffer{
		repo:     repo,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

func (uc *CounterOffer) Execute(
	ctx context.Context,
	bidID uint,
	price float64,
) (*models.OrderBid, error) {

	if price == 0 {
		return nil, httperr.ErrValidation("counterOfferPrice")
	}

	b, err := uc.repo.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("bid_not_found")
		}
		return nil, err
	}

	if err := domain.SetCounterOffer(b, price); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBid(ctx, b); err != nil {
		return nil, err
	}

	uc.notifier.Publish(
		realtime.ProviderTopic(b.ServiceProviderID),
		realtime.NewEvent(realtime.EventCounterOffer, map[string]any{
			"bid":                 b,
			"counter_offer_price": price,
		}),
	)

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "bid_counter_offered",
			Entity:   "order_bid",
			EntityID: &b.ID,
			Metadata: map[string]any{"counter_offer_price": price},
		})
	}

	return b, nil
}
