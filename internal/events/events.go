// Package events defines the domain events emitted by the matching engine and
// the publishers that deliver them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeMatchesCalculated    = "matches_calculated"
	TypeCandidateShortlisted = "candidate_shortlisted"
	TypeMatchReviewed        = "match_reviewed"
)

// MatchesCalculated is emitted after a matching run for a job completes.
type MatchesCalculated struct {
	JobID      uuid.UUID `json:"job_id"`
	MatchCount int       `json:"match_count"`
	TopScore   float64   `json:"top_score"`
}

// CandidateShortlisted is emitted when a reviewer shortlists a match
type CandidateShortlisted struct {
	CandidateID   uuid.UUID `json:"candidate_id"`
	JobID         uuid.UUID `json:"job_id"`
	Score         float64   `json:"score"`
	ShortlistedBy string    `json:"shortlisted_by"`
}

// MatchReviewed is emitted for every review decision
type MatchReviewed struct {
	MatchID      uuid.UUID `json:"match_id"`
	ReviewStatus string    `json:"review_status"`
	ReviewedBy   string    `json:"reviewed_by"`
}

// Envelope wraps an event payload with its identity and time.
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into a new envelope of the given type
func NewEnvelope(eventType string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}, nil
}

// Decode unmarshals the payload into v
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

// RoutingKey is the AMQP routing key for the envelope
func (e Envelope) RoutingKey() string {
	return "match." + e.Type
}

// Publisher delivers envelopes to a sink
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}
