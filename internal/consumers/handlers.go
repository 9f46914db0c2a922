package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bookit/internal/logger"
	"bookit/internal/metrics"
	"bookit/internal/models"

	"github.com/nats-io/stan.go"
)

type ActivityRecorder interface {
	Record(ctx context.Context, rec *models.ActivityRecord) error
}

type CachePurger interface {
	PurgeAll(ctx context.Context) (int, error)
}

type Handlers struct {
	activity ActivityRecorder
	cache    CachePurger
	timeout  time.Duration
}

// NewHandlers; cache may be nil when no Valkey is configured.
func NewHandlers(activity ActivityRecorder, cache CachePurger) *Handlers {
	return &Handlers{
		activity: activity,
		cache:    cache,
		timeout:  10 * time.Second,
	}
}

// envelope holds the identifiers any of the domain events may carry
type envelope struct {
	UserID    string    `json:"user_id"`
	TheatreID string    `json:"theatre_id"`
	ShowID    string    `json:"show_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleEvent is the stan callback; the message is acked only after it was
// recorded, so failures are redelivered after AckWait.
func (h *Handlers) HandleEvent(m *stan.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.Process(ctx, m.Subject, m.Data); err != nil {
		metrics.EventsConsumed.WithLabelValues(m.Subject, "error").Inc()
		logger.Get().Error("Failed to process event", "subject", m.Subject, "sequence", m.Sequence, "error", err)
		if isPoison(err) {
			// redelivery cannot fix a payload that does not decode
			_ = m.Ack()
		}
		return
	}

	metrics.EventsConsumed.WithLabelValues(m.Subject, "ok").Inc()
	if err := m.Ack(); err != nil {
		logger.Get().Error("Failed to ack event", "subject", m.Subject, "error", err)
	}
}

type poisonError struct{ err error }

func (e poisonError) Error() string { return e.err.Error() }
func (e poisonError) Unwrap() error { return e.err }

func isPoison(err error) bool {
	_, ok := err.(poisonError)
	return ok
}

// Process records one event in the activity log and, for theatre and show
// events, drops the response cache.
func (h *Handlers) Process(ctx context.Context, subject string, data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return poisonError{fmt.Errorf("failed to unmarshal %s event: %w", subject, err)}
	}

	entityID, err := entityFor(subject, env)
	if err != nil {
		return poisonError{err}
	}

	occurred := env.Timestamp
	if occurred.IsZero() {
		occurred = time.Now()
	}

	rec := &models.ActivityRecord{
		Subject:    subject,
		EntityID:   entityID,
		Payload:    json.RawMessage(data),
		OccurredAt: occurred,
	}
	if err := h.activity.Record(ctx, rec); err != nil {
		return fmt.Errorf("failed to record %s event: %w", subject, err)
	}

	log := logger.WithFields("subject", subject, "entity_id", entityID)
	log.Info("Processed event")

	if h.cache != nil && !strings.HasPrefix(subject, "user.") {
		if n, err := h.cache.PurgeAll(ctx); err != nil {
			log.Warn("Failed to purge response cache", "error", err)
		} else {
			log.Debug("Response cache purged", "keys", n)
		}
	}

	return nil
}

func entityFor(subject string, env envelope) (string, error) {
	var id string
	switch {
	case strings.HasPrefix(subject, "user."):
		id = env.UserID
	case strings.HasPrefix(subject, "theatre."):
		id = env.TheatreID
	case strings.HasPrefix(subject, "show."):
		id = env.ShowID
	default:
		return "", fmt.Errorf("unknown subject %q", subject)
	}
	if id == "" {
		return "", fmt.Errorf("%s event without entity id", subject)
	}
	return id, nil
}
