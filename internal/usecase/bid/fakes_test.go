package bid

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/fieldserve/marketplace-api/internal/domain/bid"
	orderdomain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

// ------------------------------------------------------
// Fake repository
// ------------------------------------------------------

type fakeRepo struct {
	bids      map[uint]*models.OrderBid
	orders    map[uint]*models.Order
	providers map[uint]*models.ServiceProvider
	nextID    uint

	failCreate   error
	failUpdate   error
	failGetOrder error
	failGetBid   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bids:      make(map[uint]*models.OrderBid),
		orders:    make(map[uint]*models.Order),
		providers: make(map[uint]*models.ServiceProvider),
	}
}

func (r *fakeRepo) GetBid(_ context.Context, id uint) (*models.OrderBid, error) {
	if r.failGetBid != nil {
		return nil, r.failGetBid
	}
	b, ok := r.bids[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	if r.failGetOrder != nil {
		return nil, r.failGetOrder
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) GetProvider(_ context.Context, id uint) (*models.ServiceProvider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) CreateBid(_ context.Context, b *models.OrderBid) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	// Mirrors the partial unique index on active bids.
	for _, existing := range r.bids {
		if existing.OrderID == b.OrderID &&
			existing.ServiceProviderID == b.ServiceProviderID &&
			domain.IsActive(domain.Status(existing.Status)) {
			return httperr.ErrConflict("duplicate_bid")
		}
	}
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bids[b.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateBid(_ context.Context, b *models.OrderBid) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.bids[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *b
	r.bids[b.ID] = &cp
	return nil
}

func (r *fakeRepo) SettleAcceptedBid(_ context.Context, bidID uint) (*models.OrderBid, *models.Order, error) {
	b, ok := r.bids[bidID]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}

	accepted := *b
	if err := domain.Accept(&accepted); err != nil {
		return nil, nil, err
	}

	o, ok := r.orders[b.OrderID]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	if !orderdomain.Biddable(orderdomain.Status(o.Status)) {
		return nil, nil, httperr.ErrConflict("order_not_open_for_bids")
	}

	settled := *o
	settled.ServiceProviderID = &accepted.ServiceProviderID
	settled.Amount = domain.FinalPrice(&accepted)
	settled.OriginalAmount = &accepted.OriginalPrice
	settled.IsNegotiated = true
	settled.Status = string(orderdomain.StatusAccepted)
	r.orders[o.ID] = &settled

	r.bids[bidID] = &accepted
	for id, sibling := range r.bids {
		if sibling.OrderID == b.OrderID && id != bidID {
			sibling.Status = string(domain.StatusRejected)
		}
	}

	bcp, ocp := accepted, settled
	return &bcp, &ocp, nil
}

func (r *fakeRepo) ListBidsByOrder(_ context.Context, orderID uint) ([]models.OrderBid, error) {
	var out []models.OrderBid
	for _, b := range r.bids {
		if b.OrderID == orderID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBidsByProvider(_ context.Context, providerID uint) ([]models.OrderBid, error) {
	var out []models.OrderBid
	for _, b := range r.bids {
		if b.ServiceProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListCounterOffersByProvider(_ context.Context, providerID uint) ([]models.OrderBid, error) {
	var out []models.OrderBid
	for _, b := range r.bids {
		if b.ServiceProviderID == providerID && b.Status == string(domain.StatusCounterOffered) {
			out = append(out, *b)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ------------------------------------------------------
// Fake notifier
// ------------------------------------------------------

type published struct {
	topic string
	event realtime.Event
}

type fakeNotifier struct {
	events []published
	tasks  []string
}

func (f *fakeNotifier) Publish(topic string, ev realtime.Event) {
	f.events = append(f.events, published{topic: topic, event: ev})
}

func (f *fakeNotifier) Go(name string, task func() error) {
	f.tasks = append(f.tasks, name)
	_ = task()
}

var errBoom = errors.New("boom")
