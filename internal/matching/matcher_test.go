package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

type fakeSource struct {
	categories map[uint]string
	providers  map[string][]models.ServiceProvider
	err        error
}

func (f *fakeSource) ListServiceCategories(_ context.Context, serviceIDs []uint) ([]string, error) {
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

func (f *fakeSource) ListEligibleProviders(_ context.Context, category string) ([]models.ServiceProvider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.providers[category], nil
}

type recordingPublisher struct {
	topics []string
	events []realtime.Event
}

func (p *recordingPublisher) Publish(topic string, ev realtime.Event) {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            42,
		Address:       "12 Canal St",
		ScheduledDate: "2024-01-01",
		ScheduledTime: "10:00",
		Amount:        300,
		Services: []models.OrderService{
			{ServiceID: 1, Title: "Wiring"},
			{ServiceID: 2, Title: "Socket repair"},
		},
	}
}

func TestDispatchOrder_NotifiesProvidersInMatchingCategories(t *testing.T) {
	src := &fakeSource{
		categories: map[uint]string{1: "electrical", 2: "electrical"},
		providers: map[string][]models.ServiceProvider{
			"electrical": {{ID: 7}, {ID: 8}},
			"plumbing":   {{ID: 9}},
		},
	}
	pub := &recordingPublisher{}

	err := NewMatcher(src, pub).DispatchOrder(context.Background(), sampleOrder())
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{realtime.ProviderTopic(7), realtime.ProviderTopic(8)},
		pub.topics,
	)
	for _, ev := range pub.events {
		assert.Equal(t, realtime.EventNewOrderRequest, ev.Type)
	}
}

func TestDispatchOrder_ProviderInTwoCategoriesHearsTwice(t *testing.T) {
	src := &fakeSource{
		categories: map[uint]string{1: "electrical", 2: "plumbing"},
		providers: map[string][]models.ServiceProvider{
			"electrical": {{ID: 7}},
			"plumbing":   {{ID: 7}},
		},
	}
	pub := &recordingPublisher{}

	err := NewMatcher(src, pub).DispatchOrder(context.Background(), sampleOrder())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{realtime.ProviderTopic(7), realtime.ProviderTopic(7)},
		pub.topics,
	)
}

func TestDispatchOrder_PayloadCarriesOrderSummary(t *testing.T) {
	src := &fakeSource{
		categories: map[uint]string{1: "electrical", 2: "electrical"},
		providers: map[string][]models.ServiceProvider{
			"electrical": {{ID: 7}},
		},
	}
	pub := &recordingPublisher{}

	err := NewMatcher(src, pub).DispatchOrder(context.Background(), sampleOrder())
	require.NoError(t, err)
	require.Len(t, pub.events, 1)

	payload, ok := pub.events[0].Data.(orderRequestPayload)
	require.True(t, ok)
	assert.Equal(t, uint(42), payload.ID)
	assert.Equal(t, "Wiring, Socket repair", payload.Title)
	assert.Equal(t, "12 Canal St", payload.Address)
	assert.Equal(t, []string{"electrical"}, payload.Services)
}

func TestDispatchOrder_SourceFailureSurfaces(t *testing.T) {
	src := &fakeSource{err: assert.AnError}
	pub := &recordingPublisher{}

	err := NewMatcher(src, pub).DispatchOrder(context.Background(), sampleOrder())
	assert.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestOrderTitle_FallsBackToOrderNumber(t *testing.T) {
	o := &models.Order{ID: 42, Services: []models.OrderService{{ServiceID: 1}}}
	assert.Equal(t, "Order #42", orderTitle(o))
}
