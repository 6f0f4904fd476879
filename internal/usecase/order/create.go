package order

import (
	"context"
	"fmt"

	"github.com/fieldserve/marketplace-api/internal/audit"
	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/matching"
	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type ServiceItemInput struct {
	ServiceID uint
	Price     float64
	Quantity  int
	Notes     string
}

type CreateOrderInput struct {
	UserID uint

	Address string
	Area    string
	City    string
	ZipCode string

	ScheduledDate string
	ScheduledTime string

	Amount        float64
	Status        string
	PaymentStatus string

	Services []ServiceItemInput
}

// ======================================================
// USE CASE
// ======================================================

type CreateOrder struct {
	repo     domain.Repository
	matcher  *matching.Matcher
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewCreateOrder(
	repo domain.Repository,
	matcher *matching.Matcher,
	notifier notify.Notifier,
	auditDispatcher *audit.Dispatcher,
) *CreateOrder {
	return &CreateOrder{
		repo:     repo,
		matcher:  matcher,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateOrder) Execute(
	ctx context.Context,
	in CreateOrderInput,
) (*models.Order, error) {

	// --------------------------------------------------
	// 1. Validation: every missing field, not just the first
	// --------------------------------------------------
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	status := domain.InitialStatus()
	if in.Status != "" {
		if !domain.IsValid(domain.Status(in.Status)) {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		status = domain.Status(in.Status)
	}

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "unpaid"
	}

	// --------------------------------------------------
	// 2. Snapshot catalog entries into line items
	// --------------------------------------------------
	items, err := snapshotLineItems(ctx, uc.repo, in.Services)
	if err != nil {
		return nil, err
	}

	o := &models.Order{
		UserID:        in.UserID,
		Address:       in.Address,
		Area:          in.Area,
		City:          in.City,
		ZipCode:       in.ZipCode,
		ScheduledDate: in.ScheduledDate,
		ScheduledTime: in.ScheduledTime,
		Amount:        in.Amount,
		Status:        string(status),
		PaymentStatus: paymentStatus,
		Services:      items,
	}

	// --------------------------------------------------
	// 3. Persist order + line items in one transaction
	// --------------------------------------------------
	if err := uc.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Matching & dispatch runs off the request path;
	//    its failure never reaches the caller
	// --------------------------------------------------
	created := *o
	uc.notifier.Go("order_matching", func() error {
		return uc.matcher.DispatchOrder(context.Background(), &created)
	})

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			UserID:   &o.UserID,
			Action:   "order_created",
			Entity:   "order",
			EntityID: &o.ID,
		})
	}

	return o, nil
}

func validateCreate(in CreateOrderInput) error {
	var missing []string

	if in.UserID == 0 {
		missing = append(missing, "userId")
	}
	if in.Address == "" {
		missing = append(missing, "address")
	}
	if in.ScheduledDate == "" {
		missing = append(missing, "scheduledDate")
	}
	if in.ScheduledTime == "" {
		missing = append(missing, "scheduledTime")
	}
	if len(in.Services) == 0 {
		missing = append(missing, "services")
	}
	missing = append(missing, missingItemFields(in.Services)...)

	if len(missing) > 0 {
		return httperr.ErrValidation(missing...)
	}
	return nil
}

func missingItemFields(items []ServiceItemInput) []string {
	var missing []string
	for i, item := range items {
		if item.ServiceID == 0 {
			missing = append(missing, fmt.Sprintf("services[%d].id", i))
		}
		if item.Price <= 0 {
			missing = append(missing, fmt.Sprintf("services[%d].price", i))
		}
	}
	return missing
}

func validateLineItems(items []ServiceItemInput) error {
	if missing := missingItemFields(items); len(missing) > 0 {
		return httperr.ErrValidation(missing...)
	}
	return nil
}

// snapshotLineItems copies catalog titles into order-owned rows so the
// order stays immutable when the catalog changes.
func snapshotLineItems(
	ctx context.Context,
	repo domain.Repository,
	inputs []ServiceItemInput,
) ([]models.OrderService, error) {

	ids := make([]uint, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.ServiceID)
	}

	catalog, err := repo.GetServices(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Service, len(catalog))
	for _, s := range catalog {
		byID[s.ID] = s
	}

	items := make([]models.OrderService, 0, len(inputs))
	for _, in := range inputs {
		s := byID[in.ServiceID]
		items = append(items, domain.NewLineItem(
			0,
			in.ServiceID,
			s.Title,
			s.Subtitle,
			s.Image,
			in.Quantity,
			in.Price,
			in.Notes,
		))
	}
	return items, nil
}
