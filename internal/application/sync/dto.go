package sync

import "github.com/printsync/backend/internal/domain/sync"

// Outcome is the terminal result of one reconciliation attempt. The
// orchestrator never raises to the trigger source: every attempt yields
// exactly one Outcome, and Message is what the merchant sees in the
// activity log.
type Outcome struct {
	Success bool
	Message string
	QuoteID string
	Status  sync.ActivityStatus
}

func synced(message, quoteID string) Outcome {
	return Outcome{Success: true, Message: message, QuoteID: quoteID, Status: sync.ActivityStatusSynced}
}

func skipped(message string) Outcome {
	return Outcome{Success: false, Message: message, Status: sync.ActivityStatusSkipped}
}

func failed(message string) Outcome {
	return Outcome{Success: false, Message: message, Status: sync.ActivityStatusFailed}
}
