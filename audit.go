package kvauth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Audit event types emitted by the engine.
const (
	EventLoginSuccess     = "login.success"
	EventLoginFailure     = "login.failure"
	EventLoginRateLimited = "login.rate_limited"
	EventLogout           = "logout"
	EventAdminDenied      = "admin.denied"
	EventUserCreated      = "user.created"
	EventUserDeleted      = "user.deleted"
	EventPasswordUpdated  = "user.password_updated"
	EventBootstrapSeeded  = "bootstrap.seeded"
	EventStatsWriteFailed = "stats.write_failed"
)

// AuditEvent is one security-relevant transition. Username may be empty for
// events not tied to a single account.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Username  string            `json:"username,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives engine audit events. Emit must be safe for concurrent
// use; the dispatcher calls it from a single goroutine but sinks may be
// shared.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a buffered channel for the host to consume.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a [ChannelSink] with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan AuditEvent, buffer)}
}

// Emit sends the event, giving up if ctx is cancelled first.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the sink's channel.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a [JSONWriterSink] over w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit serializes the event as a single JSON line. Serialization or write
// failures are dropped; audit is best-effort by contract.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.writer.Write(append(data, '\n'))
}
