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

// AcceptBid settles the negotiation: exactly one winning bid per
// order. The repository runs the whole settlement in one transaction
// guarded by a conditional order update, so a racing accept on a
// sibling bid fails with a conflict instead of overwriting the winner.
type AcceptBid struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewAcceptBid(
	repo domain.Repository,
	notifier notify.Notifier,
	auditDispatcher *audit.Dispatcher,
) *AcceptBid {
	return &AcceptBid{
		repo:     repo,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

func (uc *AcceptBid) Execute(
	ctx context.Context,
	bidID uint,
) (*models.OrderBid, *models.Order, error) {

	b, o, err := uc.repo.SettleAcceptedBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, httperr.ErrNotFound("bid_not_found")
		}
		return nil, nil, err
	}

	// Fan-out after commit; a publish failure never unwinds the
	// settlement.
	uc.notifier.Publish(
		realtime.ProviderTopic(b.ServiceProviderID),
		realtime.NewEvent(realtime.EventBidAccepted, map[string]any{
			"bid":   b,
			"order": o,
		}),
	)

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			UserID:   &o.UserID,
			Action:   "bid_accepted",
			Entity:   "order_bid",
			EntityID: &b.ID,
			Metadata: map[string]any{
				"order_id": o.ID,
				"amount":   o.Amount,
			},
		})
	}

	return b, o, nil
}
