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

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, first_name, last_name, email, COALESCE(phone, ''), password_hash,
	role, branch_id, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.BranchID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleStaff
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, password_hash, role, branch_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE)
		RETURNING id, is_active, created_at, updated_at`,
		u.FirstName, u.LastName, u.Email, u.Phone, u.PasswordHash, u.Role, u.BranchID,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("a user with email %s already exists", u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	return u, err
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update persists user edits. An empty PasswordHash keeps the stored one.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	var err error
	if u.PasswordHash != "" {
		_, err = r.DB.Exec(ctx, `
			UPDATE users SET first_name=$1, last_name=$2, email=$3, phone=$4,
				password_hash=$5, role=$6, branch_id=$7, updated_at=CURRENT_TIMESTAMP
			WHERE id=$8`,
			u.FirstName, u.LastName, u.Email, u.Phone, u.PasswordHash, u.Role, u.BranchID, u.ID)
	} else {
		_, err = r.DB.Exec(ctx, `
			UPDATE users SET first_name=$1, last_name=$2, email=$3, phone=$4,
				role=$5, branch_id=$6, updated_at=CURRENT_TIMESTAMP
			WHERE id=$7`,
			u.FirstName, u.LastName, u.Email, u.Phone, u.Role, u.BranchID, u.ID)
	}
	if err != nil && isUniqueViolation(err) {
		return apperrors.Conflict("a user with email %s already exists", u.Email)
	}
	return err
}

func (r *UserRepository) SetActive(ctx context.Context, userID int, isActive bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET is_active=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		isActive, userID)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}
