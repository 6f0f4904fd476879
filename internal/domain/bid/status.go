package bid

import "github.com/fieldserve/marketplace-api/internal/httperr"

// ===============================
// Bid Status
// ===============================

type Status string

const (
	StatusPending        Status = "pending"
	StatusCounterOffered Status = "counter_offered"
	StatusAccepted       Status = "accepted"
	StatusRejected       Status = "rejected"
)

func InitialStatus() Status {
	return StatusPending
}

// Active statuses block a second bid from the same provider on the
// same order.
func IsActive(s Status) bool {
	return s == StatusPending || s == StatusCounterOffered
}

// ===============================
// Validations
// ===============================

func CanAccept(current Status) error {
	if !IsActive(current) {
		return httperr.ErrConflict("bid_already_settled")
	}
	return nil
}

func CanCounter(current Status) error {
	if !IsActive(current) {
		return httperr.ErrConflict("bid_already_settled")
	}
	return nil
}

func CanReject(current Status) error {
	if current == StatusAccepted {
		return httperr.ErrConflict("bid_already_accepted")
	}
	return nil
}
