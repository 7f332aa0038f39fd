// Package telemetry defines the event sink the engine emits session
// results into. The engine never transports or persists events itself; the
// hosting application injects whichever sink it wants (log, queue, test
// buffer) and owns its lifecycle.
package telemetry

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// EventTypeSessionEnd marks the single event emitted per completed game.
const EventTypeSessionEnd = "game_session_end"

// Event is one telemetry record.
type Event struct {
	Type      string
	Timestamp time.Time
	UserID    string
	SessionID string
	Metadata  map[string]any
}

// Sink receives events. Implementations must tolerate concurrent Emit
// calls from parallel sessions.
type Sink interface {
	Emit(evt Event)
}

// LogSink writes events to a structured logger.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink over the given logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs the event at info level.
func (s *LogSink) Emit(evt Event) {
	s.logger.Info(evt.Type,
		"user", evt.UserID,
		"session", evt.SessionID,
		"at", evt.Timestamp.Format(time.RFC3339),
		"metadata", evt.Metadata,
	)
}

// MemorySink buffers events in memory. Used by tests and in-process
// dashboards.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink creates an empty buffer sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends the event.
func (s *MemorySink) Emit(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

// Events returns a copy of everything emitted so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Discard is a sink that drops everything.
type Discard struct{}

// Emit does nothing.
func (Discard) Emit(Event) {}
