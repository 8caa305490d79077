// Package audit keeps the append-only record of every screening attempt.
package audit

import (
	"context"
	"sync"
	"time"

	"freightgate/internal/domain"
	"freightgate/pkg/logger"

	"github.com/google/uuid"
)

// SystemActor is recorded on entries produced by the screening core itself.
const SystemActor = "SYSTEM"

// Sink receives every entry for durable long-term retention. Export-control
// recordkeeping runs to seven years; the durable store owns that, not this
// package.
type Sink interface {
	Write(ctx context.Context, entry domain.AuditEntry) error
}

// Log is the in-memory audit trail. It retains the most recent maxEntries
// entries and forwards every entry to the durable sink when one is
// configured. One Log instance is created at service startup and injected
// into the screener and evaluator.
type Log struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	max     int
	sink    Sink
	logger  logger.Logger
}

// NewLog creates a Log bounded to maxEntries. sink may be nil.
func NewLog(maxEntries int, sink Sink, log logger.Logger) *Log {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Log{
		entries: make([]domain.AuditEntry, 0, 64),
		max:     maxEntries,
		sink:    sink,
		logger:  log,
	}
}

// Append records an entry, filling in ID and timestamp when unset. The
// durable write uses its own timeout so an entry still lands in long-term
// storage when the request context has already finished.
func (l *Log) Append(ctx context.Context, entry domain.AuditEntry) domain.AuditEntry {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Actor == "" {
		entry.Actor = SystemActor
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	l.mu.Unlock()

	if l.sink != nil {
		sinkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.sink.Write(sinkCtx, entry); err != nil {
			l.logger.Error("Failed to write audit entry to durable sink", map[string]interface{}{
				"entry_id": entry.ID,
				"action":   entry.Action,
				"error":    err.Error(),
			})
		}
	}

	return entry
}

// Query returns retained entries in append (timestamp) order. With a
// non-empty shipmentID only that shipment's entries are returned.
func (l *Log) Query(shipmentID string) []domain.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.AuditEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if shipmentID != "" && e.ShipmentID != shipmentID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountByAction tallies retained entries per action, for screening stats.
func (l *Log) CountByAction() map[domain.AuditAction]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[domain.AuditAction]int)
	for _, e := range l.entries {
		counts[e.Action]++
	}
	return counts
}

// Len reports how many entries are currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
