package domain

import "time"

// Change event types
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
)

// ChangeEvent announces a committed write to connected clients.
// Months lists every YYYY-MM bucket whose contents changed.
type ChangeEvent struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transactionId"`
	Months        []string  `json:"months,omitempty"`
	At            time.Time `json:"at"`
}

// NewChangeEvent builds an event, skipping empty and repeated months.
func NewChangeEvent(typ, id string, at time.Time, months ...string) ChangeEvent {
	seen := make(map[string]struct{}, len(months))
	out := make([]string, 0, len(months))
	for _, m := range months {
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return ChangeEvent{Type: typ, TransactionID: id, Months: out, At: at.UTC()}
}
