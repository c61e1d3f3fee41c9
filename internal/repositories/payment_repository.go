package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/finance"
	"admission-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `id, admission_id, branch_id, payer_type, receiver_type, payment_date,
	amount, payment_mode, transaction_ref, COALESCE(notes, ''), attachment, voucher_id,
	is_service_charge_payment, is_agent_collection, is_agent_fee_payment,
	service_charge_deducted, amount_due_to_college, agent_fee_deducted,
	amount_transferred_to_consultancy, collecting_agent_id, agent_id_for_fee_payment,
	paid_to_agent_id, is_deleted, deleted_at, deleted_by, created_by, updated_by,
	created_at, updated_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID, &p.AdmissionID, &p.BranchID, &p.PayerType, &p.ReceiverType, &p.PaymentDate,
		&p.Amount, &p.PaymentMode, &p.TransactionRef, &p.Notes, &p.Attachment, &p.VoucherID,
		&p.IsServiceChargePayment, &p.IsAgentCollection, &p.IsAgentFeePayment,
		&p.ServiceChargeDeducted, &p.AmountDueToCollege, &p.AgentFeeDeducted,
		&p.AmountTransferredToConsultancy, &p.CollectingAgentID, &p.AgentIDForFeePayment,
		&p.PaidToAgentID, &p.IsDeleted, &p.DeletedAt, &p.DeletedBy, &p.CreatedBy, &p.UpdatedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a fully classified payment. A duplicate transaction
// reference among non-deleted payments maps to ConflictError.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO payments (
			admission_id, branch_id, payer_type, receiver_type, payment_date,
			amount, payment_mode, transaction_ref, notes, attachment,
			is_service_charge_payment, is_agent_collection, is_agent_fee_payment,
			service_charge_deducted, amount_due_to_college, agent_fee_deducted,
			amount_transferred_to_consultancy, collecting_agent_id,
			agent_id_for_fee_payment, paid_to_agent_id, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		RETURNING id, created_at, updated_at`,
		p.AdmissionID, p.BranchID, p.PayerType, p.ReceiverType, p.PaymentDate,
		p.Amount, p.PaymentMode, p.TransactionRef, p.Notes, p.Attachment,
		p.IsServiceChargePayment, p.IsAgentCollection, p.IsAgentFeePayment,
		p.ServiceChargeDeducted, p.AmountDueToCollege, p.AgentFeeDeducted,
		p.AmountTransferredToConsultancy, p.CollectingAgentID,
		p.AgentIDForFeePayment, p.PaidToAgentID, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("a payment with this transaction reference already exists")
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Get returns a non-deleted payment.
func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("payment not found")
	}
	return p, err
}

// List returns non-deleted payments matching the filter, newest first.
func (r *PaymentRepository) List(ctx context.Context, f *models.PaymentFilter) ([]*models.Payment, int, error) {
	conditions := []string{"NOT is_deleted"}
	var args []interface{}
	argNum := 1

	add := func(cond string, val interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argNum))
		args = append(args, val)
		argNum++
	}

	if f.AdmissionID != 0 {
		add("admission_id = $%d", f.AdmissionID)
	}
	if f.BranchID != 0 {
		add("branch_id = $%d", f.BranchID)
	}
	if f.PayerType != "" {
		add("payer_type = $%d", f.PayerType)
	}
	if f.ReceiverType != "" {
		add("receiver_type = $%d", f.ReceiverType)
	}
	if f.PaymentMode != "" {
		add("payment_mode = $%d", f.PaymentMode)
	}
	if f.TransactionRef != "" {
		add("transaction_ref = $%d", f.TransactionRef)
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(transaction_ref ILIKE '%%' || $%d || '%%' OR notes ILIKE '%%' || $%d || '%%')`,
			argNum, argNum))
		args = append(args, f.Search)
		argNum++
	}
	if f.StartDate != nil {
		add("payment_date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("payment_date <= $%d", endOfDay(*f.EndDate))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM payments "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageArgs(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY payment_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

// Update persists the editable payment fields.
func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payments SET
			amount=$1, payment_date=$2, payment_mode=$3, transaction_ref=$4, notes=$5,
			updated_by=$6, updated_at=CURRENT_TIMESTAMP
		WHERE id=$7 AND NOT is_deleted`,
		p.Amount, p.PaymentDate, p.PaymentMode, p.TransactionRef, p.Notes, p.UpdatedBy, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("a payment with this transaction reference already exists")
		}
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment not found")
	}
	return nil
}

// SoftDelete marks a payment deleted, freeing its transaction reference
// for reuse.
func (r *PaymentRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payments SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment not found")
	}
	return nil
}

// SetVoucherID links the payment to the voucher minted for it.
func (r *PaymentRepository) SetVoucherID(ctx context.Context, paymentID, voucherID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments SET voucher_id=$1 WHERE id=$2`, voucherID, paymentID)
	return err
}

// SetAttachment stores the uploaded proof's metadata on the payment.
func (r *PaymentRepository) SetAttachment(ctx context.Context, paymentID int, a *models.Attachment) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE payments SET attachment=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2 AND NOT is_deleted`,
		a, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment not found")
	}
	return nil
}

// FindByTransactionRef returns the newest non-deleted payment carrying
// the reference, joined with the admission it belongs to, or nil when
// the reference is unused.
func (r *PaymentRepository) FindByTransactionRef(ctx context.Context, ref string) (*models.PaymentPreview, error) {
	var pv models.PaymentPreview
	err := r.DB.QueryRow(ctx, `
		SELECT p.id, p.amount, p.payment_date,
			COALESCE(a.admission_no, ''),
			COALESCE(a.student->>'firstName', '') || ' ' || COALESCE(a.student->>'lastName', '')
		FROM payments p
		LEFT JOIN admissions a ON a.id = p.admission_id
		WHERE p.transaction_ref = $1 AND NOT p.is_deleted
		ORDER BY p.id DESC LIMIT 1`, ref,
	).Scan(&pv.ID, &pv.Amount, &pv.PaymentDate, &pv.AdmissionNo, &pv.StudentName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	pv.StudentName = strings.TrimSpace(pv.StudentName)
	return &pv, nil
}

// SumFlows aggregates every non-deleted payment of one admission into
// per-flow totals in a single pass, including the legacy agent-payment
// rows. This is the sole input of the summary recompute.
func (r *PaymentRepository) SumFlows(ctx context.Context, admissionID int) (finance.FlowTotals, error) {
	var t finance.FlowTotals
	err := r.DB.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE payer_type='Student' AND receiver_type='Consultancy'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payer_type='Student' AND receiver_type='Agent'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payer_type='Student' AND receiver_type='College'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payer_type='Agent' AND receiver_type='Consultancy'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payer_type='Consultancy' AND receiver_type='College'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payer_type='Consultancy' AND receiver_type='Agent'), 0),
			COALESCE(SUM(amount) FILTER (WHERE payer_type='College' AND receiver_type='Consultancy' AND is_service_charge_payment), 0),
			COALESCE(SUM(service_charge_deducted), 0),
			COALESCE(SUM(agent_fee_deducted), 0),
			COALESCE(SUM(amount_due_to_college), 0)
		FROM payments
		WHERE admission_id = $1 AND NOT is_deleted`, admissionID,
	).Scan(
		&t.StudentToConsultancy, &t.StudentToAgent, &t.StudentToCollege,
		&t.AgentToConsultancy, &t.PaidToCollege, &t.PaidToAgent,
		&t.ServiceChargeFromCollege, &t.ServiceChargeDeducted,
		&t.AgentFeeDeducted, &t.AmountDueToCollege,
	)
	if err != nil {
		return t, fmt.Errorf("failed to sum payment flows: %w", err)
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM agent_payments
		WHERE admission_id = $1 AND NOT is_deleted`, admissionID,
	).Scan(&t.LegacyAgentPaid)
	if err != nil {
		return t, fmt.Errorf("failed to sum agent payments: %w", err)
	}
	return t, nil
}
