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

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

const onlineTxColumns = `id, razorpay_order_id, COALESCE(razorpay_payment_id, ''), admission_id,
	branch_id, student_name, student_phone, amount, fee_amount, total_amount, status,
	COALESCE(method, ''), COALESCE(utr_number, ''), COALESCE(failure_reason, ''), payment_id,
	created_at, updated_at`

func scanOnlineTx(row pgx.Row) (*models.OnlineTransaction, error) {
	var t models.OnlineTransaction
	err := row.Scan(
		&t.ID, &t.RazorpayOrderID, &t.RazorpayPaymentID, &t.AdmissionID,
		&t.BranchID, &t.StudentName, &t.StudentPhone, &t.Amount, &t.FeeAmount, &t.TotalAmount, &t.Status,
		&t.Method, &t.UTRNumber, &t.FailureReason, &t.PaymentID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *OnlineTransactionRepository) Create(ctx context.Context, t *models.OnlineTransaction) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO online_transactions (
			razorpay_order_id, admission_id, branch_id, student_name, student_phone,
			amount, fee_amount, total_amount, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, status, created_at, updated_at`,
		t.RazorpayOrderID, t.AdmissionID, t.BranchID, t.StudentName, t.StudentPhone,
		t.Amount, t.FeeAmount, t.TotalAmount, models.OnlineTxStatusCreated,
	).Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create online transaction: %w", err)
	}
	return nil
}

func (r *OnlineTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	t, err := scanOnlineTx(r.DB.QueryRow(ctx,
		`SELECT `+onlineTxColumns+` FROM online_transactions WHERE razorpay_order_id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("online transaction not found")
	}
	return t, err
}

// MarkSuccess records the settled gateway details.
func (r *OnlineTransactionRepository) MarkSuccess(ctx context.Context, orderID, paymentID, method, utr string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE online_transactions SET
			status=$1, razorpay_payment_id=$2, method=$3, utr_number=$4,
			updated_at=CURRENT_TIMESTAMP
		WHERE razorpay_order_id=$5`,
		models.OnlineTxStatusSuccess, paymentID, method, utr, orderID)
	return err
}

// MarkFailed records a gateway failure with its reason.
func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, orderID, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE online_transactions SET status=$1, failure_reason=$2, updated_at=CURRENT_TIMESTAMP
		WHERE razorpay_order_id=$3`,
		models.OnlineTxStatusFailed, reason, orderID)
	return err
}

// LinkPayment points the transaction at the materialized payment row.
func (r *OnlineTransactionRepository) LinkPayment(ctx context.Context, orderID string, paymentID int) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE online_transactions SET payment_id=$1, updated_at=CURRENT_TIMESTAMP
		WHERE razorpay_order_id=$2`, paymentID, orderID)
	return err
}

// ListByAdmission returns an admission's gateway transactions, newest first.
func (r *OnlineTransactionRepository) ListByAdmission(ctx context.Context, admissionID int) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+onlineTxColumns+` FROM online_transactions
		WHERE admission_id = $1 ORDER BY id DESC`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.OnlineTransaction
	for rows.Next() {
		t, err := scanOnlineTx(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
