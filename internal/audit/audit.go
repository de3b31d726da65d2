// Package audit records the operational trail of alliance activity:
// lifecycle changes, report syncs, scanner writes. Events carry scoping
// identifiers and pseudonymous labels only — never plaintext intel or key
// material, so the trail is safe to ship to a shared broker.
package audit

import (
	"context"
	"sync"
	"time"
)

// Event types emitted by the core services.
const (
	EventAllianceCreated = "alliance.created"
	EventAllianceJoined  = "alliance.joined"
	EventReportSubmitted = "report.submitted"
	EventScannerSaved    = "scanner.saved"
	EventScannerDeleted  = "scanner.deleted"
)

// Event is a single audit record.
type Event struct {
	Type       string    `json:"type"`
	IdentityID string    `json:"identity_id"`
	AllianceID string    `json:"alliance_id,omitempty"`
	Universe   string    `json:"universe,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Sink receives emitted events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps and forwards events. Emission is best-effort: a sink
// failure is returned for logging but must not fail the business
// operation that produced the event.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

// Emit forwards an event, stamping the timestamp if unset. Nil-safe so
// services can treat the publisher as optional.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p == nil || p.sink == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.sink.Append(ctx, event)
}

// MemorySink is an append-only in-process sink for tests and single-node
// deployments.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
