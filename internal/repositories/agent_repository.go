package repositories

import (
	"context"
	"errors"
	"fmt"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentRepository struct {
	DB *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{DB: db}
}

const agentColumns = `id, name, COALESCE(agent_type, ''), COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(commission_rate, 0),
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanAgent(row pgx.Row) (*models.Agent, error) {
	var a models.Agent
	err := row.Scan(
		&a.ID, &a.Name, &a.AgentType, &a.Phone, &a.Email, &a.CommissionRate,
		&a.IsDeleted, &a.DeletedAt, &a.DeletedBy, &a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgentRepository) Create(ctx context.Context, a *models.Agent) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO agents (name, agent_type, phone, email, commission_rate, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		a.Name, nullIfEmpty(string(a.AgentType)), a.Phone, a.Email, a.CommissionRate, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

func (r *AgentRepository) Get(ctx context.Context, id int) (*models.Agent, error) {
	a, err := scanAgent(r.DB.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("agent not found")
	}
	return a, err
}

func (r *AgentRepository) List(ctx context.Context, search string) ([]*models.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE NOT is_deleted`
	var args []interface{}
	if search != "" {
		query += ` AND (name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')`
		args = append(args, search)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *AgentRepository) Update(ctx context.Context, a *models.Agent) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE agents SET name=$1, agent_type=$2, phone=$3, email=$4, commission_rate=$5,
			updated_by=$6, updated_at=CURRENT_TIMESTAMP
		WHERE id=$7 AND NOT is_deleted`,
		a.Name, nullIfEmpty(string(a.AgentType)), a.Phone, a.Email, a.CommissionRate, a.UpdatedBy, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("agent not found")
	}
	return nil
}

func (r *AgentRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE agents SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("agent not found")
	}
	return nil
}
