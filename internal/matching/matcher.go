package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

// ProviderSource answers the two queries matching needs.
type ProviderSource interface {
	ListServiceCategories(ctx context.Context, serviceIDs []uint) ([]string, error)
	ListEligibleProviders(ctx context.Context, category string) ([]models.ServiceProvider, error)
}

// Matcher finds providers for a freshly created order and pushes a
// new-order event to each. It runs off the request path; callers hand
// DispatchOrder to the notify dispatcher and never wait on it.
type Matcher struct {
	src ProviderSource
	pub realtime.Publisher
}

func NewMatcher(src ProviderSource, pub realtime.Publisher) *Matcher {
	return &Matcher{src: src, pub: pub}
}

type orderRequestPayload struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	Address       string   `json:"address"`
	ScheduledDate string   `json:"scheduled_date"`
	ScheduledTime string   `json:"scheduled_time"`
	Amount        float64  `json:"amount"`
	Services      []string `json:"services"`
}

func (m *Matcher) DispatchOrder(ctx context.Context, o *models.Order) error {

	ids := make([]uint, 0, len(o.Services))
	for _, item := range o.Services {
		ids = append(ids, item.ServiceID)
	}

	categories, err := m.src.ListServiceCategories(ctx, ids)
	if err != nil {
		return fmt.Errorf("list categories for order %d: %w", o.ID, err)
	}

	payload := orderRequestPayload{
		ID:            o.ID,
		Title:         orderTitle(o),
		Address:       o.Address,
		ScheduledDate: o.ScheduledDate,
		ScheduledTime: o.ScheduledTime,
		Amount:        o.Amount,
		Services:      categories,
	}

	// A provider matching several categories hears about the order once
	// per category. Accepted duplication; clients treat it as a refresh.
	for _, category := range categories {
		providers, err := m.src.ListEligibleProviders(ctx, category)
		if err != nil {
			return fmt.Errorf("match providers for category %q: %w", category, err)
		}

		for _, p := range providers {
			m.pub.Publish(
				realtime.ProviderTopic(p.ID),
				realtime.NewEvent(realtime.EventNewOrderRequest, payload),
			)
		}
	}

	return nil
}

func orderTitle(o *models.Order) string {
	titles := make([]string, 0, len(o.Services))
	for _, item := range o.Services {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}
	if len(titles) == 0 {
		return fmt.Sprintf("Order #%d", o.ID)
	}
	return strings.Join(titles, ", ")
}
