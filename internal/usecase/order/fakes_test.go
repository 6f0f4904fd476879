package order

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

// ------------------------------------------------------
// Fake repository
// ------------------------------------------------------

type rejectionKey struct {
	orderID    uint
	providerID uint
}

type fakeRepo struct {
	orders     map[uint]*models.Order
	catalog    map[uint]models.Service
	rejections map[rejectionKey]bool
	nextID     uint

	failCreate    error
	failUpdate    error
	failDelete    error
	failRejection error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:     make(map[uint]*models.Order),
		catalog:    make(map[uint]models.Service),
		rejections: make(map[rejectionKey]bool),
	}
}

func (r *fakeRepo) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) ListOrders(_ context.Context, f domain.Filter) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeRepo) CreateOrder(_ context.Context, o *models.Order) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	o.ID = r.nextID
	for i := range o.Services {
		o.Services[i].OrderID = o.ID
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateOrder(_ context.Context, o *models.Order, services []models.OrderService) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.orders[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if services != nil {
		for i := range services {
			services[i].OrderID = o.ID
		}
		o.Services = services
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteOrder(_ context.Context, id uint) error {
	if r.failDelete != nil {
		return r.failDelete
	}
	if _, ok := r.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeRepo) GetServices(_ context.Context, ids []uint) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if s, ok := r.catalog[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetProvider(_ context.Context, id uint) (*models.ServiceProvider, error) {
	return &models.ServiceProvider{ID: id}, nil
}

func (r *fakeRepo) RecordRejection(_ context.Context, orderID, providerID uint) (*models.Order, bool, error) {
	if r.failRejection != nil {
		return nil, false, r.failRejection
	}
	o, ok := r.orders[orderID]
	if !ok {
		return nil, false, gorm.ErrRecordNotFound
	}

	r.rejections[rejectionKey{orderID, providerID}] = true

	cleared := false
	if o.ServiceProviderID != nil && *o.ServiceProviderID == providerID {
		domain.MarkProviderRejected(o)
		cleared = true
	}

	cp := *o
	return &cp, cleared, nil
}

func (r *fakeRepo) ClearRejection(_ context.Context, orderID, providerID uint) error {
	delete(r.rejections, rejectionKey{orderID, providerID})
	return nil
}

func (r *fakeRepo) ListRejectedOrderIDs(_ context.Context, providerID uint) ([]uint, error) {
	var ids []uint
	for k := range r.rejections {
		if k.providerID == providerID {
			ids = append(ids, k.orderID)
		}
	}
	return ids, nil
}

func (r *fakeRepo) ListOrdersByStatusExcluding(_ context.Context, status string, excludeIDs []uint) ([]models.Order, error) {
	excluded := make(map[uint]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var out []models.Order
	for _, o := range r.orders {
		if o.Status != status || excluded[o.ID] {
			continue
		}
		cp := *o
		cp.Services = nil
		out = append(out, cp)
	}
	return out, nil
}

func (r *fakeRepo) ListOrderServices(_ context.Context, orderIDs []uint) ([]models.OrderService, error) {
	var out []models.OrderService
	for _, id := range orderIDs {
		if o, ok := r.orders[id]; ok {
			out = append(out, o.Services...)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ------------------------------------------------------
// Fake notifier / publisher
// ------------------------------------------------------

type published struct {
	topic string
	event realtime.Event
}

type fakeNotifier struct {
	events []published
	tasks  []string
	errs   []error
}

func (f *fakeNotifier) Publish(topic string, ev realtime.Event) {
	f.events = append(f.events, published{topic: topic, event: ev})
}

// Go runs the task synchronously so tests observe its effects.
func (f *fakeNotifier) Go(name string, task func() error) {
	f.tasks = append(f.tasks, name)
	if err := task(); err != nil {
		f.errs = append(f.errs, err)
	}
}

type fakePublisher struct {
	events []published
}

func (f *fakePublisher) Publish(topic string, ev realtime.Event) {
	f.events = append(f.events, published{topic: topic, event: ev})
}

// ------------------------------------------------------
// Fake provider source for the matcher
// ------------------------------------------------------

type fakeProviderSource struct {
	categories map[uint]string
	providers  map[string][]models.ServiceProvider
	err        error
}

func (f *fakeProviderSource) ListServiceCategories(_ context.Context, serviceIDs []uint) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[string]bool)
	var out []string
	for _, id := range serviceIDs {
		if c, ok := f.categories[id]; ok && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeProviderSource) ListEligibleProviders(_ context.Context, category string) ([]models.ServiceProvider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.providers[category], nil
}

var errBoom = errors.New("boom")
