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

type BranchRepository struct {
	DB *pgxpool.Pool
}

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{DB: db}
}

const branchColumns = `id, name, code, COALESCE(city, ''), COALESCE(state, ''),
	COALESCE(phone, ''), COALESCE(address, ''),
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanBranch(row pgx.Row) (*models.Branch, error) {
	var b models.Branch
	err := row.Scan(
		&b.ID, &b.Name, &b.Code, &b.City, &b.State, &b.Phone, &b.Address,
		&b.IsDeleted, &b.DeletedAt, &b.DeletedBy, &b.CreatedBy, &b.UpdatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) Create(ctx context.Context, b *models.Branch) error {
	b.Code = strings.ToUpper(strings.TrimSpace(b.Code))
	err := r.DB.QueryRow(ctx, `
		INSERT INTO branches (name, code, city, state, phone, address, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		b.Name, b.Code, b.City, b.State, b.Phone, b.Address, b.CreatedBy,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("branch code %s already exists", b.Code)
		}
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *BranchRepository) Get(ctx context.Context, id int) (*models.Branch, error) {
	b, err := scanBranch(r.DB.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("branch not found")
	}
	return b, err
}

func (r *BranchRepository) List(ctx context.Context) ([]*models.Branch, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE NOT is_deleted ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*models.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// Update edits branch details. The code is left untouched because it is
// baked into existing voucher numbers.
func (r *BranchRepository) Update(ctx context.Context, b *models.Branch) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE branches SET name=$1, city=$2, state=$3, phone=$4, address=$5,
			updated_by=$6, updated_at=CURRENT_TIMESTAMP
		WHERE id=$7 AND NOT is_deleted`,
		b.Name, b.City, b.State, b.Phone, b.Address, b.UpdatedBy, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("branch not found")
	}
	return nil
}

func (r *BranchRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE branches SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("branch not found")
	}
	return nil
}
