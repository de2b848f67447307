// Package events broadcasts CRUD operation notifications (record created,
// updated, deleted) to configured sinks with retry and a dead-letter log.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gencrud-dev/gencrud/internal/metrics"
)

// Event names emitted by the orchestrator.
const (
	RecordCreated = "record.created"
	RecordUpdated = "record.updated"
	RecordDeleted = "record.deleted"
)

// Default is the global dispatcher used by Emit.
var Default *Dispatcher

// Event is one CRUD notification.
type Event struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Entity string    `json:"entity"`
	Time   time.Time `json:"time"`
	Data   any       `json:"data,omitempty"`
}

// New builds an event with a fresh ID and timestamp.
func New(name, entity string, data any) Event {
	return Event{
		ID:     uuid.NewString(),
		Name:   name,
		Entity: entity,
		Time:   time.Now().UTC(),
		Data:   data,
	}
}

// Sink publishes events.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// DLQ records events that exhausted their retries.
type DLQ interface {
	Store(ctx context.Context, e Event, attempts int, lastErr string)
}

// LogDLQ is the default dead letter: a structured log line. The backend
// entity store is authoritative, so losing a notification is observable but
// not fatal.
type LogDLQ struct {
	Logger *slog.Logger
}

// Store logs the dropped event.
func (q *LogDLQ) Store(_ context.Context, e Event, attempts int, lastErr string) {
	if q == nil || q.Logger == nil {
		return
	}
	q.Logger.Error("event dropped",
		"event", e.Name, "entity", e.Entity, "id", e.ID,
		"attempts", attempts, "err", lastErr)
}

// Dispatcher broadcasts events to its sinks with exponential backoff.
type Dispatcher struct {
	sinks        []Sink
	maxAttempts  int
	initialDelay time.Duration
	dlq          DLQ
}

// RetryConfig bounds delivery attempts per sink.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// NewDispatcher creates a dispatcher from sinks and retry config.
func NewDispatcher(cfg Config, dlq DLQ, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{maxAttempts: 3, initialDelay: time.Second, dlq: dlq}
	if cfg.Retry.MaxAttempts > 0 {
		d.maxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialDelay > 0 {
		d.initialDelay = cfg.Retry.InitialDelay
	}
	d.sinks = append(d.sinks, sinks...)
	return d
}

// Emit sends an event through the global dispatcher if one is set.
func Emit(ctx context.Context, e Event) {
	if Default != nil {
		Default.Dispatch(ctx, e)
	}
}

// Dispatch sends the event to all sinks asynchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if d == nil {
		return
	}
	metrics.EventsEmitted.WithLabelValues(e.Name).Inc()
	for _, s := range d.sinks {
		go d.retrySend(ctx, s, e)
	}
}

func (d *Dispatcher) retrySend(ctx context.Context, s Sink, e Event) {
	delay := d.initialDelay
	var err error
	for i := 1; i <= d.maxAttempts; i++ {
		if err = s.Emit(ctx, e); err == nil {
			return
		}
		time.Sleep(delay)
		delay *= 2
	}
	if d.dlq != nil {
		d.dlq.Store(ctx, e, d.maxAttempts, err.Error())
	}
}
