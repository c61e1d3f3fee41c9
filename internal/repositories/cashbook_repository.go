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

type CashbookRepository struct {
	DB *pgxpool.Pool
}

func NewCashbookRepository(db *pgxpool.Pool) *CashbookRepository {
	return &CashbookRepository{DB: db}
}

const cashbookColumns = `id, entry_date, branch_id, COALESCE(category, ''), COALESCE(description, ''),
	credited, debited, running_balance, voucher_id,
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanCashbookEntry(row pgx.Row) (*models.CashbookEntry, error) {
	var e models.CashbookEntry
	err := row.Scan(
		&e.ID, &e.Date, &e.BranchID, &e.Category, &e.Description,
		&e.Credited, &e.Debited, &e.RunningBalance, &e.VoucherID,
		&e.IsDeleted, &e.DeletedAt, &e.DeletedBy, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Append inserts a cash movement and stamps its running balance from the
// branch's latest entry. Concurrent appends to the same branch are
// serialized with an advisory lock so no two entries read the same
// predecessor balance.
func (r *CashbookRepository) Append(ctx context.Context, e *models.CashbookEntry) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		fmt.Sprintf("cashbook:branch:%d", e.BranchID)); err != nil {
		return fmt.Errorf("failed to lock cashbook branch: %w", err)
	}

	var prevBalance float64
	err = tx.QueryRow(ctx, `
		SELECT running_balance FROM cashbook_entries
		WHERE branch_id = $1 AND NOT is_deleted
		ORDER BY entry_date DESC, created_at DESC, id DESC
		LIMIT 1`, e.BranchID).Scan(&prevBalance)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read latest cashbook balance: %w", err)
	}
	e.RunningBalance = prevBalance + e.Credited - e.Debited

	err = tx.QueryRow(ctx, `
		INSERT INTO cashbook_entries (
			entry_date, branch_id, category, description, credited, debited,
			running_balance, voucher_id, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		e.Date, e.BranchID, e.Category, e.Description, e.Credited, e.Debited,
		e.RunningBalance, e.VoucherID, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to append cashbook entry: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *CashbookRepository) Get(ctx context.Context, id int) (*models.CashbookEntry, error) {
	e, err := scanCashbookEntry(r.DB.QueryRow(ctx,
		`SELECT `+cashbookColumns+` FROM cashbook_entries WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("cashbook entry not found")
	}
	return e, err
}

func (r *CashbookRepository) List(ctx context.Context, f *models.CashbookFilter) ([]*models.CashbookEntry, int, error) {
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
	if f.StartDate != nil {
		add("entry_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("entry_date <= $%d", endOfDay(*f.EndDate))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM cashbook_entries "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageArgs(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM cashbook_entries %s ORDER BY entry_date DESC, created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		cashbookColumns, where, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*models.CashbookEntry
	for rows.Next() {
		e, err := scanCashbookEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// UpdateAmounts edits an entry in place and restamps its running balance
// from its immediate predecessor in the ledger ordering. Entries after
// the edited one keep their stored balances.
func (r *CashbookRepository) UpdateAmounts(ctx context.Context, e *models.CashbookEntry) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		fmt.Sprintf("cashbook:branch:%d", e.BranchID)); err != nil {
		return fmt.Errorf("failed to lock cashbook branch: %w", err)
	}

	var prevBalance float64
	err = tx.QueryRow(ctx, `
		SELECT running_balance FROM cashbook_entries
		WHERE branch_id = $1 AND NOT is_deleted
			AND (entry_date, created_at, id) < ($2, $3, $4)
		ORDER BY entry_date DESC, created_at DESC, id DESC
		LIMIT 1`, e.BranchID, e.Date, e.CreatedAt, e.ID).Scan(&prevBalance)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read predecessor balance: %w", err)
	}
	e.RunningBalance = prevBalance + e.Credited - e.Debited

	tag, err := tx.Exec(ctx, `
		UPDATE cashbook_entries SET
			category=$1, description=$2, credited=$3, debited=$4, running_balance=$5,
			updated_by=$6, updated_at=CURRENT_TIMESTAMP
		WHERE id=$7 AND NOT is_deleted`,
		e.Category, e.Description, e.Credited, e.Debited, e.RunningBalance, e.UpdatedBy, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update cashbook entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("cashbook entry not found")
	}

	return tx.Commit(ctx)
}

// RebuildBalances restamps every live entry of a branch in ledger order,
// starting from zero. Repairs the drift left behind by in-place edits,
// which only restamp the edited row.
func (r *CashbookRepository) RebuildBalances(ctx context.Context, branchID int) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		fmt.Sprintf("cashbook:branch:%d", branchID)); err != nil {
		return 0, fmt.Errorf("failed to lock cashbook branch: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE cashbook_entries c SET running_balance = o.balance
		FROM (
			SELECT id, SUM(credited - debited) OVER (
				ORDER BY entry_date, created_at, id
			) AS balance
			FROM cashbook_entries
			WHERE branch_id = $1 AND NOT is_deleted
		) o
		WHERE c.id = o.id`, branchID)
	if err != nil {
		return 0, fmt.Errorf("failed to rebuild cashbook balances: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *CashbookRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE cashbook_entries SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("cashbook entry not found")
	}
	return nil
}

// ClearAll soft-deletes every entry of a branch and returns how many
// rows were affected. BranchID zero clears all branches.
func (r *CashbookRepository) ClearAll(ctx context.Context, branchID, deletedBy int) (int64, error) {
	query := `UPDATE cashbook_entries SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE NOT is_deleted`
	args := []interface{}{deletedBy}
	if branchID != 0 {
		query += " AND branch_id=$2"
		args = append(args, branchID)
	}
	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// HardClearAll permanently removes every entry of a branch, including
// soft-deleted rows. BranchID zero wipes all branches.
func (r *CashbookRepository) HardClearAll(ctx context.Context, branchID int) (int64, error) {
	query := `DELETE FROM cashbook_entries`
	var args []interface{}
	if branchID != 0 {
		query += " WHERE branch_id=$1"
		args = append(args, branchID)
	}
	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Summary totals cash movement over the filter's branch/period and
// reports the branch's current balance.
func (r *CashbookRepository) Summary(ctx context.Context, f *models.CashbookFilter) (*models.CashbookSummary, error) {
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

	var s models.CashbookSummary
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(credited), 0), COALESCE(SUM(debited), 0), COUNT(*)
		FROM cashbook_entries WHERE `+strings.Join(conditions, " AND "), args...,
	).Scan(&s.TotalCredited, &s.TotalDebited, &s.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize cashbook: %w", err)
	}

	balQuery := `SELECT running_balance FROM cashbook_entries WHERE NOT is_deleted`
	var balArgs []interface{}
	if f.BranchID != 0 {
		balQuery += " AND branch_id=$1"
		balArgs = append(balArgs, f.BranchID)
	}
	balQuery += " ORDER BY entry_date DESC, created_at DESC, id DESC LIMIT 1"
	err = r.DB.QueryRow(ctx, balQuery, balArgs...).Scan(&s.CurrentBalance)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read current balance: %w", err)
	}
	return &s, nil
}
