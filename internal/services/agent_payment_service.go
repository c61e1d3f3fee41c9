package services

import (
	"context"
	"fmt"
	"log"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/audit"
	"admission-backend/internal/cache"
	"admission-backend/internal/models"
	"admission-backend/internal/timeutil"
)

// AgentPaymentStore is the persistence surface for agent commission rows.
type AgentPaymentStore interface {
	Create(ctx context.Context, p *models.AgentPayment) error
	Get(ctx context.Context, id int) (*models.AgentPayment, error)
	List(ctx context.Context, f *models.AgentPaymentFilter) ([]*models.AgentPayment, int, error)
	Update(ctx context.Context, p *models.AgentPayment) error
	SoftDelete(ctx context.Context, id, deletedBy int) error
	SetVoucherID(ctx context.Context, paymentID, voucherID int) error
}

// AgentPaymentDaybook writes and retires daybook rows for agent payments.
type AgentPaymentDaybook interface {
	Create(ctx context.Context, e *models.DaybookEntry) error
	SoftDeleteByAgentPayment(ctx context.Context, agentPaymentID, deletedBy int) error
}

// AgentGetter resolves the agent a commission is being paid to.
type AgentGetter interface {
	Get(ctx context.Context, id int) (*models.Agent, error)
}

// AgentPaymentService records agent commission payments kept in their own
// table. They always roll into the admission's agentPaid figure.
type AgentPaymentService struct {
	Payments   AgentPaymentStore
	Admissions AdmissionStore
	Agents     AgentGetter
	Vouchers   VoucherMinter
	Daybook    AgentPaymentDaybook
	Cashbook   CashAppender
	Summary    Recomputer
	Audit      *audit.Recorder
}

func NewAgentPaymentService(
	payments AgentPaymentStore,
	admissions AdmissionStore,
	agents AgentGetter,
	vouchers VoucherMinter,
	daybook AgentPaymentDaybook,
	cashbook CashAppender,
	summary Recomputer,
	rec *audit.Recorder,
) *AgentPaymentService {
	return &AgentPaymentService{
		Payments:   payments,
		Admissions: admissions,
		Agents:     agents,
		Vouchers:   vouchers,
		Daybook:    daybook,
		Cashbook:   cashbook,
		Summary:    summary,
		Audit:      rec,
	}
}

func (s *AgentPaymentService) Create(ctx context.Context, req *models.CreateAgentPaymentRequest, actorID int) (*models.AgentPayment, error) {
	e := apperrors.Validation("agent payment validation failed")
	if req.AdmissionID == 0 {
		e = e.WithField("admission_id", "admission is required")
	}
	if req.AgentID == 0 {
		e = e.WithField("agent_id", "agent is required")
	}
	if req.Amount <= 0 {
		e = e.WithField("amount", "must be greater than zero")
	}
	if !models.ValidPaymentModes[req.PaymentMode] {
		e = e.WithField("payment_mode", "unknown payment mode")
	}
	if len(e.FieldErrors) > 0 {
		return nil, e
	}

	a, err := s.Admissions.Get(ctx, req.AdmissionID)
	if err != nil {
		return nil, err
	}
	agent, err := s.Agents.Get(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}

	p := &models.AgentPayment{
		AdmissionID:    req.AdmissionID,
		AgentID:        req.AgentID,
		BranchID:       req.BranchID,
		PaymentDate:    timeutil.Now(),
		Amount:         req.Amount,
		PaymentMode:    req.PaymentMode,
		TransactionRef: req.TransactionRef,
		Notes:          req.Notes,
		CreatedBy:      actorID,
	}
	if req.PaymentDate != nil {
		p.PaymentDate = *req.PaymentDate
	}
	if p.BranchID == 0 {
		p.BranchID = a.BranchID
	}
	if err := s.Payments.Create(ctx, p); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Commission to %s for admission %s (%s)",
		agent.Name, a.AdmissionNo, a.Student.FullName())
	v := &models.Voucher{
		BranchID:       p.BranchID,
		VoucherDate:    p.PaymentDate,
		VoucherType:    models.VoucherAgentPayment,
		ReferenceKind:  models.RefAgentPayment,
		ReferenceID:    &p.ID,
		AdmissionID:    &p.AdmissionID,
		Amount:         p.Amount,
		PaymentMode:    p.PaymentMode,
		TransactionRef: p.TransactionRef,
		Description:    desc,
		PartyName:      agent.Name,
		PartyType:      "Agent",
		CreatedBy:      actorID,
	}
	if err := s.Vouchers.CreateWithNumber(ctx, v); err != nil {
		log.Printf("[AGENT-PAYMENT] voucher mint failed for payment %d: %v", p.ID, err)
	} else {
		p.VoucherID = &v.ID
		if err := s.Payments.SetVoucherID(ctx, p.ID, v.ID); err != nil {
			log.Printf("[AGENT-PAYMENT] voucher link failed for payment %d: %v", p.ID, err)
		}
	}

	d := &models.DaybookEntry{
		Date:           p.PaymentDate,
		BranchID:       p.BranchID,
		Category:       models.CategoryPaidToAgent,
		Type:           models.DaybookExpense,
		Amount:         p.Amount,
		Description:    desc,
		AdmissionID:    &p.AdmissionID,
		AgentPaymentID: &p.ID,
		VoucherID:      p.VoucherID,
		PaymentMode:    p.PaymentMode,
		CreatedBy:      actorID,
	}
	if err := s.Daybook.Create(ctx, d); err != nil {
		log.Printf("[AGENT-PAYMENT] daybook write failed for payment %d: %v", p.ID, err)
	}

	if p.PaymentMode == models.ModeCash {
		c := &models.CashbookEntry{
			Date:        p.PaymentDate,
			BranchID:    p.BranchID,
			Category:    models.CategoryPaidToAgent,
			Description: desc,
			Debited:     p.Amount,
			VoucherID:   p.VoucherID,
			CreatedBy:   actorID,
		}
		if err := s.Cashbook.Append(ctx, c); err != nil {
			log.Printf("[AGENT-PAYMENT] cashbook append failed for payment %d: %v", p.ID, err)
		}
	}

	cache.InvalidatePaymentCaches(ctx, p.BranchID)

	// The payment row is durable; recompute failures stay an
	// aggregation problem.
	if err := s.Summary.Recompute(ctx, p.AdmissionID); err != nil {
		log.Printf("[AGENT-PAYMENT] summary recompute failed for admission %d after payment %d: %v", p.AdmissionID, p.ID, err)
	}
	s.Audit.Record("create", "agent_payment", p.ID, nil, p, actorID)
	return p, nil
}

func (s *AgentPaymentService) Get(ctx context.Context, id int) (*models.AgentPayment, error) {
	return s.Payments.Get(ctx, id)
}

func (s *AgentPaymentService) List(ctx context.Context, f *models.AgentPaymentFilter) ([]*models.AgentPayment, int, error) {
	return s.Payments.List(ctx, f)
}

func (s *AgentPaymentService) Update(ctx context.Context, id int, req *models.UpdateAgentPaymentRequest, actorID int) (*models.AgentPayment, error) {
	p, err := s.Payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *p

	amountChanged := false
	if req.Amount != nil && *req.Amount != p.Amount {
		if *req.Amount <= 0 {
			return nil, apperrors.Validation("amount must be positive").WithField("amount", "must be greater than zero")
		}
		p.Amount = *req.Amount
		amountChanged = true
	}
	if req.PaymentDate != nil {
		p.PaymentDate = *req.PaymentDate
	}
	if req.PaymentMode != nil {
		p.PaymentMode = *req.PaymentMode
	}
	if req.TransactionRef != nil {
		p.TransactionRef = *req.TransactionRef
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	p.UpdatedBy = &actorID

	if err := s.Payments.Update(ctx, p); err != nil {
		return nil, err
	}
	cache.InvalidatePaymentCaches(ctx, p.BranchID)
	if amountChanged {
		if err := s.Summary.Recompute(ctx, p.AdmissionID); err != nil {
			log.Printf("[AGENT-PAYMENT] summary recompute failed for admission %d after payment %d update: %v", p.AdmissionID, id, err)
		}
	}
	s.Audit.Record("update", "agent_payment", id, &before, p, actorID)
	return p, nil
}

func (s *AgentPaymentService) Delete(ctx context.Context, id, actorID int) error {
	p, err := s.Payments.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Payments.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	if p.VoucherID != nil {
		if err := s.Vouchers.SoftDelete(ctx, *p.VoucherID, actorID); err != nil {
			log.Printf("[AGENT-PAYMENT] voucher retire failed for payment %d: %v", id, err)
		}
	}
	if err := s.Daybook.SoftDeleteByAgentPayment(ctx, id, actorID); err != nil {
		log.Printf("[AGENT-PAYMENT] daybook retire failed for payment %d: %v", id, err)
	}
	cache.InvalidatePaymentCaches(ctx, p.BranchID)
	if err := s.Summary.Recompute(ctx, p.AdmissionID); err != nil {
		log.Printf("[AGENT-PAYMENT] summary recompute failed for admission %d after payment %d delete: %v", p.AdmissionID, id, err)
	}
	s.Audit.Record("delete", "agent_payment", id, p, nil, actorID)
	return nil
}
