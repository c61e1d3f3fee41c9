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

type CourseRepository struct {
	DB *pgxpool.Pool
}

func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

const courseColumns = `id, college_id, name, code, COALESCE(degree, ''), COALESCE(duration_years, 0),
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.CollegeID, &c.Name, &c.Code, &c.Degree, &c.DurationYears,
		&c.IsDeleted, &c.DeletedAt, &c.DeletedBy, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO courses (college_id, name, code, degree, duration_years, created_by)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		c.CollegeID, c.Name, c.Code, c.Degree, c.DurationYears, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("course code %s already exists for this college", c.Code)
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *CourseRepository) Get(ctx context.Context, id int) (*models.Course, error) {
	c, err := scanCourse(r.DB.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("course not found")
	}
	return c, err
}

// List returns courses, optionally narrowed to one college.
func (r *CourseRepository) List(ctx context.Context, collegeID int) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE NOT is_deleted`
	var args []interface{}
	if collegeID != 0 {
		query += ` AND college_id = $1`
		args = append(args, collegeID)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE courses SET name=$1, degree=$2, duration_years=$3,
			updated_by=$4, updated_at=CURRENT_TIMESTAMP
		WHERE id=$5 AND NOT is_deleted`,
		c.Name, c.Degree, c.DurationYears, c.UpdatedBy, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("course not found")
	}
	return nil
}

func (r *CourseRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE courses SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("course not found")
	}
	return nil
}
