package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"
	"admission-backend/internal/numbering"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VoucherRepository struct {
	DB *pgxpool.Pool
}

func NewVoucherRepository(db *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{DB: db}
}

const voucherColumns = `id, voucher_no, branch_id, voucher_date, voucher_type,
	COALESCE(reference_kind, ''), reference_id, admission_id, amount,
	COALESCE(payment_mode, ''), COALESCE(transaction_ref, ''), COALESCE(description, ''),
	COALESCE(party_name, ''), COALESCE(party_type, ''), COALESCE(notes, ''),
	print_count, last_printed_at, last_printed_by,
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanVoucher(row pgx.Row) (*models.Voucher, error) {
	var v models.Voucher
	err := row.Scan(
		&v.ID, &v.VoucherNo, &v.BranchID, &v.VoucherDate, &v.VoucherType,
		&v.ReferenceKind, &v.ReferenceID, &v.AdmissionID, &v.Amount,
		&v.PaymentMode, &v.TransactionRef, &v.Description,
		&v.PartyName, &v.PartyType, &v.Notes,
		&v.PrintCount, &v.LastPrintedAt, &v.LastPrintedBy,
		&v.IsDeleted, &v.DeletedAt, &v.DeletedBy, &v.CreatedBy, &v.UpdatedBy, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateWithNumber mints the next voucher number for the branch/year
// scope and inserts the voucher in one transaction. The branch code is
// read inside the transaction so the prefix always matches the branch.
func (r *VoucherRepository) CreateWithNumber(ctx context.Context, v *models.Voucher) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var branchCode string
	if err := tx.QueryRow(ctx,
		`SELECT code FROM branches WHERE id = $1`, v.BranchID).Scan(&branchCode); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("branch not found")
		}
		return fmt.Errorf("failed to load branch code: %w", err)
	}

	prefix := numbering.VoucherPrefix(branchCode, v.VoucherDate.Year())
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "voucher_no:"+prefix); err != nil {
		return fmt.Errorf("failed to lock voucher number scope: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM vouchers WHERE voucher_no LIKE $1 || '-%'`, prefix).Scan(&count); err != nil {
		return fmt.Errorf("failed to count voucher numbers: %w", err)
	}
	v.VoucherNo = numbering.VoucherNo(branchCode, v.VoucherDate.Year(), count+1)

	err = tx.QueryRow(ctx, `
		INSERT INTO vouchers (
			voucher_no, branch_id, voucher_date, voucher_type, reference_kind,
			reference_id, admission_id, amount, payment_mode, transaction_ref,
			description, party_name, party_type, notes, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at`,
		v.VoucherNo, v.BranchID, v.VoucherDate, v.VoucherType, nullIfEmpty(string(v.ReferenceKind)),
		v.ReferenceID, v.AdmissionID, v.Amount, nullIfEmpty(string(v.PaymentMode)), nullIfEmpty(v.TransactionRef),
		v.Description, v.PartyName, v.PartyType, v.Notes, v.CreatedBy,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("voucher number %s was taken concurrently", v.VoucherNo)
		}
		return fmt.Errorf("failed to create voucher: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *VoucherRepository) Get(ctx context.Context, id int) (*models.Voucher, error) {
	v, err := scanVoucher(r.DB.QueryRow(ctx,
		`SELECT `+voucherColumns+` FROM vouchers WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("voucher not found")
	}
	return v, err
}

func (r *VoucherRepository) GetByNumber(ctx context.Context, voucherNo string) (*models.Voucher, error) {
	v, err := scanVoucher(r.DB.QueryRow(ctx,
		`SELECT `+voucherColumns+` FROM vouchers WHERE voucher_no = $1 AND NOT is_deleted`, voucherNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("voucher not found")
	}
	return v, err
}

func (r *VoucherRepository) List(ctx context.Context, f *models.VoucherFilter) ([]*models.Voucher, int, error) {
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
	if f.AdmissionID != 0 {
		add("admission_id = $%d", f.AdmissionID)
	}
	if f.VoucherType != "" {
		add("voucher_type = $%d", f.VoucherType)
	}
	if f.StartDate != nil {
		add("voucher_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("voucher_date <= $%d", endOfDay(*f.EndDate))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM vouchers "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageArgs(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM vouchers %s ORDER BY voucher_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		voucherColumns, where, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vouchers []*models.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, 0, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, total, rows.Err()
}

// RecordPrint bumps the print counter and stamps who printed, returning
// the updated audit fields.
func (r *VoucherRepository) RecordPrint(ctx context.Context, id, printedBy int) (*models.Voucher, error) {
	v, err := scanVoucher(r.DB.QueryRow(ctx, `
		UPDATE vouchers SET
			print_count = print_count + 1,
			last_printed_at = CURRENT_TIMESTAMP,
			last_printed_by = $1
		WHERE id = $2 AND NOT is_deleted
		RETURNING `+voucherColumns, printedBy, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("voucher not found")
	}
	return v, err
}

// SoftDelete marks a voucher deleted. Used when the underlying payment
// or daybook entry is deleted.
func (r *VoucherRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE vouchers SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("voucher not found")
	}
	return nil
}
