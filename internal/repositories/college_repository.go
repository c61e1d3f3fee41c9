package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CollegeRepository struct {
	DB *pgxpool.Pool
}

func NewCollegeRepository(db *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{DB: db}
}

const collegeColumns = `id, name, code, COALESCE(city, ''), COALESCE(state, ''), COALESCE(contact, ''),
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanCollege(row pgx.Row) (*models.College, error) {
	var c models.College
	err := row.Scan(
		&c.ID, &c.Name, &c.Code, &c.City, &c.State, &c.Contact,
		&c.IsDeleted, &c.DeletedAt, &c.DeletedBy, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CollegeRepository) Create(ctx context.Context, c *models.College) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	err := r.DB.QueryRow(ctx, `
		INSERT INTO colleges (name, code, city, state, contact, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Code, c.City, c.State, c.Contact, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("college code %s already exists", c.Code)
		}
		return fmt.Errorf("failed to create college: %w", err)
	}
	return nil
}

func (r *CollegeRepository) Get(ctx context.Context, id int) (*models.College, error) {
	c, err := scanCollege(r.DB.QueryRow(ctx,
		`SELECT `+collegeColumns+` FROM colleges WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("college not found")
	}
	return c, err
}

func (r *CollegeRepository) List(ctx context.Context, search string) ([]*models.College, error) {
	query := `SELECT ` + collegeColumns + ` FROM colleges WHERE NOT is_deleted`
	var args []interface{}
	if search != "" {
		query += ` AND (name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $1 || '%')`
		args = append(args, search)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colleges []*models.College
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

func (r *CollegeRepository) Update(ctx context.Context, c *models.College) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE colleges SET name=$1, city=$2, state=$3, contact=$4,
			updated_by=$5, updated_at=CURRENT_TIMESTAMP
		WHERE id=$6 AND NOT is_deleted`,
		c.Name, c.City, c.State, c.Contact, c.UpdatedBy, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update college: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("college not found")
	}
	return nil
}

func (r *CollegeRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE colleges SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("college not found")
	}
	return nil
}
