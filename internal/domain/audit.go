package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enumerates the recorded screening events.
type AuditAction string

const (
	AuditScreeningCompleted AuditAction = "SCREENING_COMPLETED"
	AuditScreeningFailed    AuditAction = "SCREENING_FAILED"
	AuditOfficerNotified    AuditAction = "COMPLIANCE_OFFICER_NOTIFIED"
	AuditCacheHit           AuditAction = "CACHE_HIT"
)

// AuditEntry is one append-only record of a screening attempt and its
// outcome. ShipmentID is empty for standalone party screenings.
type AuditEntry struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	Timestamp  time.Time   `json:"timestamp" db:"created_at"`
	Action     AuditAction `json:"action" db:"action"`
	Actor      string      `json:"actor" db:"actor"`
	ShipmentID string      `json:"shipment_id,omitempty" db:"shipment_id"`
	Details    string      `json:"details" db:"details"`
	Result     string      `json:"result" db:"result"`
}
