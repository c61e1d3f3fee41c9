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

type AgentPaymentRepository struct {
	DB *pgxpool.Pool
}

func NewAgentPaymentRepository(db *pgxpool.Pool) *AgentPaymentRepository {
	return &AgentPaymentRepository{DB: db}
}

const agentPaymentColumns = `id, admission_id, agent_id, branch_id, payment_date, amount,
	payment_mode, COALESCE(transaction_ref, ''), COALESCE(notes, ''), voucher_id,
	is_deleted, deleted_at, deleted_by, created_by, updated_by, created_at, updated_at`

func scanAgentPayment(row pgx.Row) (*models.AgentPayment, error) {
	var p models.AgentPayment
	err := row.Scan(
		&p.ID, &p.AdmissionID, &p.AgentID, &p.BranchID, &p.PaymentDate, &p.Amount,
		&p.PaymentMode, &p.TransactionRef, &p.Notes, &p.VoucherID,
		&p.IsDeleted, &p.DeletedAt, &p.DeletedBy, &p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AgentPaymentRepository) Create(ctx context.Context, p *models.AgentPayment) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO agent_payments (
			admission_id, agent_id, branch_id, payment_date, amount,
			payment_mode, transaction_ref, notes, created_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		p.AdmissionID, p.AgentID, p.BranchID, p.PaymentDate, p.Amount,
		p.PaymentMode, nullIfEmpty(p.TransactionRef), p.Notes, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create agent payment: %w", err)
	}
	return nil
}

func (r *AgentPaymentRepository) Get(ctx context.Context, id int) (*models.AgentPayment, error) {
	p, err := scanAgentPayment(r.DB.QueryRow(ctx,
		`SELECT `+agentPaymentColumns+` FROM agent_payments WHERE id = $1 AND NOT is_deleted`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("agent payment not found")
	}
	return p, err
}

func (r *AgentPaymentRepository) List(ctx context.Context, f *models.AgentPaymentFilter) ([]*models.AgentPayment, int, error) {
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
	if f.AgentID != 0 {
		add("agent_id = $%d", f.AgentID)
	}
	if f.BranchID != 0 {
		add("branch_id = $%d", f.BranchID)
	}
	if f.PaymentMode != "" {
		add("payment_mode = $%d", f.PaymentMode)
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
		"SELECT COUNT(*) FROM agent_payments "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageArgs(f.Page, f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM agent_payments %s ORDER BY payment_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		agentPaymentColumns, where, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []*models.AgentPayment
	for rows.Next() {
		p, err := scanAgentPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

func (r *AgentPaymentRepository) Update(ctx context.Context, p *models.AgentPayment) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE agent_payments SET
			amount=$1, payment_date=$2, payment_mode=$3, transaction_ref=$4, notes=$5,
			updated_by=$6, updated_at=CURRENT_TIMESTAMP
		WHERE id=$7 AND NOT is_deleted`,
		p.Amount, p.PaymentDate, p.PaymentMode, nullIfEmpty(p.TransactionRef), p.Notes, p.UpdatedBy, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update agent payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("agent payment not found")
	}
	return nil
}

func (r *AgentPaymentRepository) SoftDelete(ctx context.Context, id, deletedBy int) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE agent_payments SET is_deleted=TRUE, deleted_at=CURRENT_TIMESTAMP, deleted_by=$1
		WHERE id=$2 AND NOT is_deleted`, deletedBy, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("agent payment not found")
	}
	return nil
}

func (r *AgentPaymentRepository) SetVoucherID(ctx context.Context, paymentID, voucherID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE agent_payments SET voucher_id=$1 WHERE id=$2`, voucherID, paymentID)
	return err
}

// SumByAgent totals non-deleted commission payments per agent for an
// admission, keyed by agent id.
func (r *AgentPaymentRepository) SumByAgent(ctx context.Context, admissionID int) (map[int]float64, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT agent_id, COALESCE(SUM(amount), 0) FROM agent_payments
		WHERE admission_id = $1 AND NOT is_deleted
		GROUP BY agent_id`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[int]float64)
	for rows.Next() {
		var agentID int
		var total float64
		if err := rows.Scan(&agentID, &total); err != nil {
			return nil, err
		}
		sums[agentID] = total
	}
	return sums, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
