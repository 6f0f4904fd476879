package bid

import "github.com/fieldserve/marketplace-api/internal/models"

// ===============================
// Domain Actions
// ===============================

func Accept(b *models.OrderBid) error {
	if err := CanAccept(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusAccepted)
	return nil
}

func SetCounterOffer(b *models.OrderBid, price float64) error {
	if err := CanCounter(Status(b.Status)); err != nil {
		return err
	}
	b.CustomerCounterOffer = &price
	b.Status = string(StatusCounterOffered)
	return nil
}

func Reject(b *models.OrderBid) error {
	if err := CanReject(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusRejected)
	return nil
}

// FinalPrice is what the order settles at when the bid is accepted:
// the customer's counter-offer when one exists, the bid price
// otherwise.
func FinalPrice(b *models.OrderBid) float64 {
	if b.CustomerCounterOffer != nil {
		return *b.CustomerCounterOffer
	}
	return b.BidPrice
}
