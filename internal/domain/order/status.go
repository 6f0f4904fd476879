package order

import "github.com/fieldserve/marketplace-api/internal/httperr"

// ===============================
// Order Status
// ===============================

type Status string

const (
	StatusPending          Status = "pending"
	StatusProviderRejected Status = "provider_rejected"
	StatusAccepted         Status = "accepted"
	StatusInProgress       Status = "in_progress"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

var transitions = map[Status][]Status{
	StatusPending:          {StatusProviderRejected, StatusAccepted, StatusCancelled},
	StatusProviderRejected: {StatusPending, StatusAccepted, StatusCancelled},
	StatusAccepted:         {StatusInProgress, StatusProviderRejected, StatusCancelled},
	StatusInProgress:       {StatusCompleted, StatusCancelled},
}

// ===============================
// Validations
// ===============================

func IsValid(s Status) bool {
	switch s {
	case StatusPending, StatusProviderRejected, StatusAccepted,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another. Completed is terminal.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_status_transition")
}

// Biddable statuses are the only ones a bid may settle against. The
// accept transaction re-checks this inside its conditional update.
func Biddable(s Status) bool {
	return s == StatusPending || s == StatusProviderRejected
}
