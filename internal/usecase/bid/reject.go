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

type RejectBid struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewRejectBid(
	repo domain.Repository,
	notifier notify.Notifier,
	auditDispatcher *audit.Dispatcher,
) *RejectBid {
	return &RejectBid{
		repo:     repo,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

// Execute flips a single row; no transaction needed.
func (uc *RejectBid) Execute(
	ctx context.Context,
	bidID uint,
) (*models.OrderBid, error) {

	b, err := uc.repo.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("bid_not_found")
		}
		return nil, err
	}

	if err := domain.Reject(b); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBid(ctx, b); err != nil {
		return nil, err
	}

	uc.notifier.Publish(
		realtime.ProviderTopic(b.ServiceProviderID),
		realtime.NewEvent(realtime.EventBidRejected, map[string]any{
			"bid_id":   b.ID,
			"order_id": b.OrderID,
		}),
	)

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "bid_rejected",
			Entity:   "order_bid",
			EntityID: &b.ID,
			Metadata: map[string]any{"order_id": b.OrderID},
		})
	}

	return b, nil
}
