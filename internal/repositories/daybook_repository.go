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

type DaybookRepository struct {
	DB *pgxpool.Pool
}

func NewDaybookRepository(db *pgxpool.Pool) *DaybookRepository {
	return &DaybookRepository{DB: db}
}

const daybookColumns = `id, entry_date, branch_id, category, entry_type, amount,
	COALESCE(description, ''), admission_id, payment_id, agent_payment_id, voucher_id,
	COALESCE(payment_mode, ''), COALESCE(party_name, ''), COALESCE(remarks, ''),
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanDaybookEntry(row pgx.Row) (*models.DaybookEntry, error) {
	var e models.DaybookEntry
	err := row.Scan(
		&e.ID, &e.Date, &e.BranchID, &e.Category, &e.Type, &e.Amount,
		&e.Description, &e.AdmissionID, &e.PaymentID, &e.AgentPaymentID, &e.VoucherID,
		&e.PaymentMode, &e.PartyName, &e.Remarks,
		&e.IsDeleted, &e.DeletedAt, &e.DeletedBy, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *DaybookRepository) Create(ctx context.Context, e *models.DaybookEntry) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO daybook_entries (
			entry_date, branch_id, category, entry_type, amount, description,
			admission_id, payment_id, agent_payment_id, voucher_id,
			payment_mode, party_name, remarks, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at, updated_at`,
		e.Date, e.BranchID, e.Category, e.Type, e.Amount, e.Description,
		e.AdmissionID, e.PaymentID, e.AgentPaymentID, e.VoucherID,
		nullIfEmpty(string(e.PaymentMode)), e.PartyName, e.Remarks, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create daybook entry: %w", err)
	}
	return nil
}

func (r *DaybookRepository) Get(ctx context.Context, id int) (*models.DaybookEntry, error) {
	e, err := scanDaybookEntry(r.DB.QueryRow(ctx,
		`SELECT `+daybookColumns+` FROM daybook_entries WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("daybook entry not found")
	}
	return e, err
}

func (r *DaybookRepository) List(ctx context.Context, f *models.DaybookFilter) ([]*models.DaybookEntry, int, error) {
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
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Type != "" {
		add("entry_type = $%d", f.Type)
	}
	if f.StartDate != nil {
		add("entry_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("entry_date <= $%d", endOfDay(*f.EndDate))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM daybook_entries "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageArgs(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM daybook_entries %s ORDER BY entry_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		daybookColumns, where, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*models.DaybookEntry
	for rows.Next() {
		e, err := scanDaybookEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *DaybookRepository) Update(ctx context.Context, e *models.DaybookEntry) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE daybook_entries SET
			entry_date=$1, category=$2, amount=$3, description=$4, remarks=$5,
			updated_by=$6, updated_at=CURRENT_TIMESTAMP
		WHERE id=$7 AND NOT is_deleted`,
		e.Date, e.Category, e.Amount, e.Description, e.Remarks, e.UpdatedBy, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update daybook entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("daybook entry not found")
	}
	return nil
}

func (r *DaybookRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE daybook_entries SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("daybook entry not found")
	}
	return nil
}

// SetVoucherID links the entry to the voucher minted for it.
func (r *DaybookRepository) SetVoucherID(ctx context.Context, entryID, voucherID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE daybook_entries SET voucher_id=$1 WHERE id=$2`, voucherID, entryID)
	return err
}

// SoftDeleteByPayment removes the daybook rows that were generated for a
// payment, keeping the books consistent when the payment is deleted.
func (r *DaybookRepository) SoftDeleteByPayment(ctx context.Context, paymentID, deletedBy int) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE daybook_entries SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE payment_id=$2 AND NOT is_deleted`, deletedBy, paymentID)
	return err
}

// SoftDeleteByAgentPayment removes the daybook rows generated for an
// agent commission payment.
func (r *DaybookRepository) SoftDeleteByAgentPayment(ctx context.Context, agentPaymentID, deletedBy int) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE daybook_entries SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE agent_payment_id=$2 AND NOT is_deleted`, deletedBy, agentPaymentID)
	return err
}

// Summary rolls up income and expense over the filter's branch/period.
func (r *DaybookRepository) Summary(ctx context.Context, f *models.DaybookFilter) (*models.DaybookSummary, error) {
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
	if f.StartDate != nil {
		add("entry_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("entry_date <= $%d", endOfDay(*f.EndDate))
	}

	var s models.DaybookSummary
	err := r.DB.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE entry_type='income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE entry_type='expense'), 0),
			COUNT(*) FILTER (WHERE entry_type='income'),
			COUNT(*) FILTER (WHERE entry_type='expense')
		FROM daybook_entries WHERE `+strings.Join(conditions, " AND "), args...,
	).Scan(&s.TotalIncome, &s.TotalExpense, &s.IncomeCount, &s.ExpenseCount)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize daybook: %w", err)
	}
	s.Net = s.TotalIncome - s.TotalExpense
	return &s, nil
}
