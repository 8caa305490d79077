package postgres

import (
	"context"

	"freightgate/internal/domain"
	"freightgate/pkg/errors"

	"github.com/jmoiron/sqlx"
)

// AuditRepository is the durable sink for screening audit entries.
// Export-control recordkeeping requires a minimum seven-year retention,
// which this table provides; the in-memory trail only keeps recent entries.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Write inserts one audit entry. Implements audit.Sink.
func (r *AuditRepository) Write(ctx context.Context, entry domain.AuditEntry) error {
	query := `
		INSERT INTO screening_audit_logs (
			id, shipment_id, action, actor, details, result, created_at
		) VALUES (
			:id, :shipment_id, :action, :actor, :details, :result, :created_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return errors.Wrap(err, "failed to write audit entry")
	}

	return nil
}

// FindByShipmentID returns the durable audit trail for one shipment, oldest
// first.
func (r *AuditRepository) FindByShipmentID(ctx context.Context, shipmentID string, limit, offset int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	query := `
		SELECT id, shipment_id, action, actor, details, result, created_at
		FROM screening_audit_logs
		WHERE shipment_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &entries, query, shipmentID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find audit entries")
	}
	return entries, nil
}

// FindAll returns durable audit entries with pagination, newest first.
func (r *AuditRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	query := `
		SELECT id, shipment_id, action, actor, details, result, created_at
		FROM screening_audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	err := r.db.SelectContext(ctx, &entries, query, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit entries")
	}
	return entries, nil
}

// CountAll returns the total number of durable audit entries.
func (r *AuditRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM screening_audit_logs`
	err := r.db.GetContext(ctx, &total, query)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count audit entries")
	}
	return total, nil
}
