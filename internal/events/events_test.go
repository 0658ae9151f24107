package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
	err      error
}

func (c *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(context.Context, Envelope) error { return p.err }

func mustEnvelope(t *testing.T) Envelope {
	t.Helper()
	env, err := NewEnvelope(TypeMatchesCalculated, MatchesCalculated{JobID: uuid.New(), MatchCount: 3, TopScore: 91.5})
	require.NoError(t, err)
	return env
}

func TestNewEnvelope_RoundTrip(t *testing.T) {
	jobID := uuid.New()
	env, err := NewEnvelope(TypeCandidateShortlisted, CandidateShortlisted{JobID: jobID, Score: 88, ShortlistedBy: "ayse"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, env.ID)
	assert.Equal(t, "match.candidate_shortlisted", env.RoutingKey())
	assert.WithinDuration(t, time.Now(), env.OccurredAt, time.Minute)

	var payload CandidateShortlisted
	require.NoError(t, env.Decode(&payload))
	assert.Equal(t, jobID, payload.JobID)
	assert.Equal(t, "ayse", payload.ShortlistedBy)
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{exchange: "match_events", open: func() (amqpChannel, error) { return ch, nil }}
	env := mustEnvelope(t)

	require.NoError(t, p.Publish(context.Background(), env))

	assert.Equal(t, "match_events", ch.exchange)
	assert.Equal(t, "match.matches_calculated", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, env.ID.String(), ch.msg.MessageId)
	assert.True(t, ch.closed)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, env.ID, decoded.ID)
}

func TestAMQPPublisher_Errors(t *testing.T) {
	p := &AMQPPublisher{open: func() (amqpChannel, error) { return nil, errors.New("channel closed") }}
	err := p.Publish(context.Background(), mustEnvelope(t))
	assert.ErrorContains(t, err, "channel closed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, mustEnvelope(t)), context.Canceled)
}

func TestWebhookPublisher(t *testing.T) {
	var gotType string
	var got Envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("X-Event-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	env := mustEnvelope(t)
	require.NoError(t, NewWebhookPublisher(srv.URL, time.Second).Publish(context.Background(), env))

	assert.Equal(t, TypeMatchesCalculated, gotType)
	assert.Equal(t, env.ID, got.ID)
}

func TestWebhookPublisher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad payload"))
	}))
	defer srv.Close()

	err := NewWebhookPublisher(srv.URL, time.Second).Publish(context.Background(), mustEnvelope(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	env := mustEnvelope(t)

	require.NoError(t, NewLogPublisher(zap.New(core)).Publish(context.Background(), env))

	entries := logs.FilterMessage("event published").All()
	require.Len(t, entries, 1)
	assert.Equal(t, TypeMatchesCalculated, entries[0].ContextMap()["event_type"])
}

func TestMulti_JoinsErrorsAndContinues(t *testing.T) {
	rec := NewRecorder()
	m := Multi{failingPublisher{err: errors.New("broker down")}, nil, rec, Nop{}}

	err := m.Publish(context.Background(), mustEnvelope(t))

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, rec.Events(), 1)
	assert.Len(t, rec.OfType(TypeMatchesCalculated), 1)
	assert.Empty(t, rec.OfType(TypeMatchReviewed))
}
