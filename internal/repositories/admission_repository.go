package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"
	"admission-backend/internal/numbering"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdmissionRepository struct {
	DB *pgxpool.Pool
}

func NewAdmissionRepository(db *pgxpool.Pool) *AdmissionRepository {
	return &AdmissionRepository{DB: db}
}

const admissionColumns = `id, admission_no, admission_date, branch_id, college_id, course_id,
	academic_year, admission_status, COALESCE(referral_source, ''), student, fees,
	service_charge, college_payment, payment_summary, agent, agents, COALESCE(notes, ''),
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanAdmission(row pgx.Row) (*models.Admission, error) {
	var a models.Admission
	err := row.Scan(
		&a.ID, &a.AdmissionNo, &a.AdmissionDate, &a.BranchID, &a.CollegeID, &a.CourseID,
		&a.AcademicYear, &a.Status, &a.ReferralSource, &a.Student, &a.Fees,
		&a.ServiceCharge, &a.CollegePayment, &a.PaymentSummary, &a.Agent, &a.Agents, &a.Notes,
		&a.IsDeleted, &a.DeletedAt, &a.DeletedBy, &a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create mints the admission number and inserts the record in one
// transaction. The count-then-insert is serialized per year scope with an
// advisory lock; losing a race to the unique index maps to ConflictError.
func (r *AdmissionRepository) Create(ctx context.Context, a *models.Admission) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	year := a.AdmissionDate.Year()
	prefix := numbering.AdmissionPrefix(year)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "admission_no:"+prefix); err != nil {
		return fmt.Errorf("failed to lock admission number scope: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM admissions WHERE admission_no LIKE $1 || '-%'`, prefix).Scan(&count); err != nil {
		return fmt.Errorf("failed to count admission numbers: %w", err)
	}
	a.AdmissionNo = numbering.AdmissionNo(year, count+1)

	err = tx.QueryRow(ctx, `
		INSERT INTO admissions (
			admission_no, admission_date, branch_id, college_id, course_id,
			academic_year, admission_status, referral_source, student, fees,
			service_charge, college_payment, payment_summary, agent, agents, notes, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id, created_at, updated_at`,
		a.AdmissionNo, a.AdmissionDate, a.BranchID, a.CollegeID, a.CourseID,
		a.AcademicYear, a.Status, a.ReferralSource, a.Student, a.Fees,
		a.ServiceCharge, a.CollegePayment, a.PaymentSummary, a.Agent, a.Agents, a.Notes, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("admission number %s was taken concurrently", a.AdmissionNo)
		}
		return fmt.Errorf("failed to create admission: %w", err)
	}

	return tx.Commit(ctx)
}

// Get returns a non-deleted admission.
func (r *AdmissionRepository) Get(ctx context.Context, id int) (*models.Admission, error) {
	a, err := scanAdmission(r.DB.QueryRow(ctx,
		`SELECT `+admissionColumns+` FROM admissions WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("admission not found")
	}
	return a, err
}

// GetAny returns an admission regardless of deletion state, for callers
// that explicitly opt in to seeing deleted records.
func (r *AdmissionRepository) GetAny(ctx context.Context, id int) (*models.Admission, error) {
	a, err := scanAdmission(r.DB.QueryRow(ctx,
		`SELECT `+admissionColumns+` FROM admissions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("admission not found")
	}
	return a, err
}

// List returns non-deleted admissions matching the filter, newest first.
func (r *AdmissionRepository) List(ctx context.Context, f *models.AdmissionFilter) ([]*models.Admission, int, error) {
	conditions := []string{"NOT is_deleted"}
	var args []interface{}
	argNum := 1

	add := func(cond string, val interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argNum))
		args = append(args, val)
		argNum++
	}

	if f.BranchID != 0 {
		add("branch_id = $%d", f.BranchID)
	}
	if f.CollegeID != 0 {
		add("college_id = $%d", f.CollegeID)
	}
	if f.CourseID != 0 {
		add("course_id = $%d", f.CourseID)
	}
	if f.Status != "" {
		add("admission_status = $%d", f.Status)
	}
	if f.AcademicYear != "" {
		add("academic_year = $%d", f.AcademicYear)
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(admission_no ILIKE '%%' || $%d || '%%'
			OR student->>'firstName' ILIKE '%%' || $%d || '%%'
			OR student->>'lastName' ILIKE '%%' || $%d || '%%'
			OR student->>'phone' ILIKE '%%' || $%d || '%%'
			OR student->>'email' ILIKE '%%' || $%d || '%%')`,
			argNum, argNum, argNum, argNum, argNum))
		args = append(args, f.Search)
		argNum++
	}
	if f.StartDate != nil {
		add("admission_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("admission_date <= $%d", endOfDay(*f.EndDate))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM admissions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageArgs(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM admissions %s ORDER BY admission_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		admissionColumns, where, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var admissions []*models.Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		admissions = append(admissions, a)
	}
	return admissions, total, rows.Err()
}

// Update persists the full financial and bio state of an admission. The
// caller is responsible for having run the derivation beforehand.
func (r *AdmissionRepository) Update(ctx context.Context, a *models.Admission) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE admissions SET
			admission_date=$1, academic_year=$2, admission_status=$3, referral_source=$4,
			student=$5, fees=$6, service_charge=$7, college_payment=$8, payment_summary=$9,
			agent=$10, agents=$11, notes=$12, updated_by=$13, updated_at=CURRENT_TIMESTAMP
		WHERE id=$14 AND NOT is_deleted`,
		a.AdmissionDate, a.AcademicYear, a.Status, a.ReferralSource,
		a.Student, a.Fees, a.ServiceCharge, a.CollegePayment, a.PaymentSummary,
		a.Agent, a.Agents, a.Notes, a.UpdatedBy, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("admission not found")
	}
	return nil
}

// UpdateSummary writes only the recompute-owned fields.
func (r *AdmissionRepository) UpdateSummary(ctx context.Context, a *models.Admission) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE admissions SET
			fees=$1, service_charge=$2, college_payment=$3, payment_summary=$4, agents=$5,
			updated_at=CURRENT_TIMESTAMP
		WHERE id=$6 AND NOT is_deleted`,
		a.Fees, a.ServiceCharge, a.CollegePayment, a.PaymentSummary, a.Agents, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update admission summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("admission not found")
	}
	return nil
}

// SoftDelete marks an admission deleted.
func (r *AdmissionRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE admissions SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("admission not found")
	}
	return nil
}

// isUniqueViolation reports whether err is a PG unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// pageArgs converts a 1-based page and limit to LIMIT/OFFSET, with the
// defaults and cap the API documents.
func pageArgs(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
