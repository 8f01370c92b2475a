package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// AuditService appends best-effort audit rows for booking and schedule
// actions.
type AuditService struct {
	db *sqlx.DB
}

// NewAuditService creates a new audit service.
func NewAuditService(db *sqlx.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends one audit row.
func (a *AuditService) Record(ctx context.Context, actorID, action, entityType, entityID, details string) error {
	row := entities.AuditRecord{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	_, err := a.db.NamedExecContext(ctx, `
		INSERT INTO audit_records (id, actor_id, action, entity_type, entity_id, details, created_at)
		VALUES (:id, :actor_id, :action, :entity_type, :entity_id, :details, :created_at)`,
		row)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// ListForEntity returns the audit trail for one entity, newest first.
func (a *AuditService) ListForEntity(ctx context.Context, entityType, entityID string, limit int) ([]*entities.AuditRecord, error) {
	var rows []*entities.AuditRecord
	err := a.db.SelectContext(ctx, &rows, `
		SELECT id, actor_id, action, entity_type, entity_id, details, created_at
		FROM audit_records
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3`,
		entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	return rows, nil
}
