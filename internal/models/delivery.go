package models

import "time"

// DeliveryOutcome classifies a single send attempt.
type DeliveryOutcome string

const (
	OutcomeDelivered        DeliveryOutcome = "delivered"
	OutcomeRedirect         DeliveryOutcome = "redirect"
	OutcomeUnexpectedStatus DeliveryOutcome = "unexpected_status"
	OutcomeTransportError   DeliveryOutcome = "transport_error"
	OutcomeRenderError      DeliveryOutcome = "render_error"
)

// DeliveryRecord is one entry of the delivery history. It never carries the payload itself.
type DeliveryRecord struct {
	ID           string          `json:"id"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Outcome      DeliveryOutcome `json:"outcome"`
	Method       string          `json:"method"`
	URL          string          `json:"url"`
	StatusCode   int             `json:"status_code,omitempty"`
	Location     string          `json:"location,omitempty"` // redirect target, not followed
	PayloadBytes int             `json:"payload_bytes"`
	DurationMs   int64           `json:"duration_ms"`
	Error        string          `json:"error,omitempty"`
}
