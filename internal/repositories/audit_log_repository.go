package repositories

import (
	"context"
	"fmt"

	"admission-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditLogRepository struct {
	DB *pgxpool.Pool
}

func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, e *models.AuditEvent) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO audit_logs (action, entity_type, entity_id, before_state, after_state, actor_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`,
		e.Action, e.EntityType, e.EntityID, e.Before, e.After, e.ActorID,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// ListByEntity returns the change history of one entity, newest first.
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID, limit int) ([]*models.AuditEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, action, entity_type, entity_id, before_state, after_state, actor_id, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY id DESC LIMIT $3`, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.AuditEvent
	for rows.Next() {
		var e models.AuditEvent
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID,
			&e.Before, &e.After, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
