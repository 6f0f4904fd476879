package order

import (
	"context"

	domain "github.com/fieldserve/marketplace-api/internal/domain/order"
	"github.com/fieldserve/marketplace-api/internal/models"
)

// ListEligibleOrders returns open orders a provider may still bid on:
// everything with the wanted status minus what they already declined.
type ListEligibleOrders struct {
	repo domain.Repository
}

func NewListEligibleOrders(
	repo domain.Repository,
) *ListEligibleOrders {
	return &ListEligibleOrders{
		repo: repo,
	}
}

func (uc *ListEligibleOrders) Execute(
	ctx context.Context,
	providerID uint,
	status string,
) ([]models.Order, error) {

	if status == "" {
		status = string(domain.StatusPending)
	}

	rejectedIDs, err := uc.repo.ListRejectedOrderIDs(ctx, providerID)
	if err != nil {
		return nil, err
	}

	orders, err := uc.repo.ListOrdersByStatusExcluding(ctx, status, rejectedIDs)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	// Two queries, joined here. Keeps the listing portable across
	// stores that lack join pushdown.
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	items, err := uc.repo.ListOrderServices(ctx, ids)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uint][]models.OrderService)
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for i := range orders {
		orders[i].Services = byOrder[orders[i].ID]
	}

	return orders, nil
}
