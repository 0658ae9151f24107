package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// LogPublisher writes every envelope to the logger
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log publisher. A nil logger discards events.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the envelope at info level
func (p *LogPublisher) Publish(_ context.Context, env Envelope) error {
	p.logger.Info("event published",
		zap.String("event_id", env.ID.String()),
		zap.String("event_type", env.Type),
		zap.Time("occurred_at", env.OccurredAt),
		zap.ByteString("payload", env.Payload),
	)
	return nil
}

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish appends the envelope
func (r *Recorder) Publish(_ context.Context, env Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, env)
	return nil
}

// Events returns a copy of the recorded envelopes in publish order
func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.events...)
}

// OfType returns the recorded envelopes with the given type
func (r *Recorder) OfType(eventType string) []Envelope {
	var out []Envelope
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Multi fans an envelope out to every publisher. All publishers are attempted;
// their errors are joined.
type Multi []Publisher

// Publish delivers to each publisher in order
func (m Multi) Publish(ctx context.Context, env Envelope) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every envelope
type Nop struct{}

// Publish does nothing
func (Nop) Publish(context.Context, Envelope) error { return nil }
