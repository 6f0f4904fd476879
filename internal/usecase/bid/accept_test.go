package bid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/fieldserve/marketplace-api/internal/domain/bid"
	orderdomain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

func placeBid(t *testing.T, repo *fakeRepo, orderID, providerID uint, price float64) uint {
	t.Helper()
	seedProvider(repo, providerID)
	b, err := NewCreateBid(repo, &fakeNotifier{}, nil).Execute(context.Background(), CreateBidInput{
		OrderID:           orderID,
		ServiceProviderID: providerID,
		BidPrice:          price,
	})
	require.NoError(t, err)
	return b.ID
}

func TestAcceptBid_SettlesOrderOnWinningTerms(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	o := seedOrder(repo, string(orderdomain.StatusPending))
	bidID := placeBid(t, repo, o.ID, 7, 250)

	uc := NewAcceptBid(repo, notifier, nil)
	b, settled, err := uc.Execute(context.Background(), bidID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusAccepted), b.Status)
	assert.Equal(t, string(orderdomain.StatusAccepted), settled.Status)
	require.NotNil(t, settled.ServiceProviderID)
	assert.Equal(t, uint(7), *settled.ServiceProviderID)
	assert.Equal(t, float64(250), settled.Amount)
	require.NotNil(t, settled.OriginalAmount)
	assert.Equal(t, float64(300), *settled.OriginalAmount)
	assert.True(t, settled.IsNegotiated)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, realtime.ProviderTopic(7), notifier.events[0].topic)
	assert.Equal(t, realtime.EventBidAccepted, notifier.events[0].event.Type)
}

func TestAcceptBid_CounterOfferPriceWins(t *testing.T) {
	repo := newFakeRepo()
	o := seedOrder(repo, string(orderdomain.StatusPending))
	bidID := placeBid(t, repo, o.ID, 7, 250)

	_, err := NewCounterOffer(repo, &fakeNotifier{}, nil).
		Execute(context.Background(), bidID, 230)
	require.NoError(t, err)

	_, settled, err := NewAcceptBid(repo, &fakeNotifier{}, nil).
		Execute(context.Background(), bidID)
	require.NoError(t, err)
	assert.Equal(t, float64(230), settled.Amount)
}

func TestAcceptBid_RejectsSiblings(t *testing.T) {
	repo := newFakeRepo()
	o := seedOrder(repo, string(orderdomain.StatusPending))
	winner := placeBid(t, repo, o.ID, 7, 250)
	loser := placeBid(t, repo, o.ID, 8, 280)

	_, _, err := NewAcceptBid(repo, &fakeNotifier{}, nil).
		Execute(context.Background(), winner)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusRejected), repo.bids[loser].Status)
}

func TestAcceptBid_SecondAcceptOnSameOrderConflicts(t *testing.T) {
	repo := newFakeRepo()
	o := seedOrder(repo, string(orderdomain.StatusPending))
	first := placeBid(t, repo, o.ID, 7, 250)
	second := placeBid(t, repo, o.ID, 8, 280)

	uc := NewAcceptBid(repo, &fakeNotifier{}, nil)
	_, _, err := uc.Execute(context.Background(), first)
	require.NoError(t, err)

	_, _, err = uc.Execute(context.Background(), second)
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
}

func TestAcceptBid_WorksAfterProviderRejection(t *testing.T) {
	repo := newFakeRepo()
	o := seedOrder(repo, string(orderdomain.StatusProviderRejected))
	bidID := placeBid(t, repo, o.ID, 7, 250)

	_, settled, err := NewAcceptBid(repo, &fakeNotifier{}, nil).
		Execute(context.Background(), bidID)
	require.NoError(t, err)
	assert.Equal(t, string(orderdomain.StatusAccepted), settled.Status)
}

func TestAcceptBid_NotFound(t *testing.T) {
	uc := NewAcceptBid(newFakeRepo(), &fakeNotifier{}, nil)

	_, _, err := uc.Execute(context.Background(), 99)
	assert.True(t, httperr.IsBusiness(err, "bid_not_found"))
}
