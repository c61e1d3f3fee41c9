package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/audit"
	"admission-backend/internal/cache"
	"admission-backend/internal/finance"
	"admission-backend/internal/metrics"
	"admission-backend/internal/models"
	"admission-backend/internal/timeutil"
)

// PaymentStore is the persistence surface for payment rows.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id int) (*models.Payment, error)
	List(ctx context.Context, f *models.PaymentFilter) ([]*models.Payment, int, error)
	Update(ctx context.Context, p *models.Payment) error
	SoftDelete(ctx context.Context, id, deletedBy int) error
	SetVoucherID(ctx context.Context, paymentID, voucherID int) error
	FindByTransactionRef(ctx context.Context, ref string) (*models.PaymentPreview, error)
}

// VoucherMinter mints numbered vouchers and retires them.
type VoucherMinter interface {
	CreateWithNumber(ctx context.Context, v *models.Voucher) error
	SoftDelete(ctx context.Context, id, deletedBy int) error
}

// DaybookWriter records the daybook side effects of payments.
type DaybookWriter interface {
	Create(ctx context.Context, e *models.DaybookEntry) error
	SoftDeleteByPayment(ctx context.Context, paymentID, deletedBy int) error
}

// CashAppender feeds the per-branch cash ledger.
type CashAppender interface {
	Append(ctx context.Context, e *models.CashbookEntry) error
}

// Recomputer rebuilds an admission's financial summary.
type Recomputer interface {
	Recompute(ctx context.Context, admissionID int) error
}

// PaymentService records money movements between the four parties. Each
// recorded payment is classified into a flow, gets a voucher, feeds the
// daybook and (for cash) the cashbook, and triggers the owning
// admission's summary recompute.
type PaymentService struct {
	Payments   PaymentStore
	Admissions AdmissionStore
	Vouchers   VoucherMinter
	Daybook    DaybookWriter
	Cashbook   CashAppender
	Summary    Recomputer
	Audit      *audit.Recorder
}

func NewPaymentService(
	payments PaymentStore,
	admissions AdmissionStore,
	vouchers VoucherMinter,
	daybook DaybookWriter,
	cashbook CashAppender,
	summary Recomputer,
	rec *audit.Recorder,
) *PaymentService {
	return &PaymentService{
		Payments:   payments,
		Admissions: admissions,
		Vouchers:   vouchers,
		Daybook:    daybook,
		Cashbook:   cashbook,
		Summary:    summary,
		Audit:      rec,
	}
}

// Create validates, classifies and records a payment, then runs its side
// effects. Voucher, daybook and cashbook failures after the insert are
// logged but do not roll the payment back; the recompute always runs.
func (s *PaymentService) Create(ctx context.Context, req *models.CreatePaymentRequest, actorID int) (*models.Payment, error) {
	if err := validateCreatePayment(req); err != nil {
		return nil, err
	}

	a, err := s.Admissions.Get(ctx, req.AdmissionID)
	if err != nil {
		return nil, err
	}

	ref := strings.TrimSpace(req.TransactionRef)
	if ref != "" {
		existing, err := s.Payments.FindByTransactionRef(ctx, ref)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.Conflict("transaction reference %s is already used by payment %d", ref, existing.ID)
		}
	}

	result := finance.Classify(finance.ClassifyInput{
		PayerType:              req.PayerType,
		ReceiverType:           req.ReceiverType,
		Amount:                 req.Amount,
		IsServiceChargePayment: req.IsServiceChargePayment,
		IsAgentCollection:      req.IsAgentCollection,
		DeductServiceCharge:    req.DeductServiceCharge,
		RequestedServiceCharge: req.ServiceChargeDeducted,
		DeductAgentFee:         req.DeductAgentFee,
		RequestedAgentFee:      req.AgentFeeDeducted,
		ServiceChargeDue:       a.ServiceCharge.Due,
		ServiceChargeAgreed:    a.ServiceCharge.Agreed,
		TotalAgentFee:          finance.TotalAgentFee(a),
		AgentIDForFeePayment:   req.AgentIDForFeePayment,
	})

	p := &models.Payment{
		AdmissionID:  req.AdmissionID,
		BranchID:     req.BranchID,
		PayerType:    req.PayerType,
		ReceiverType: req.ReceiverType,
		PaymentDate:  timeutil.Now(),
		Amount:       req.Amount,
		PaymentMode:  req.PaymentMode,
		Notes:        req.Notes,
		Attachment:   req.Attachment,

		IsServiceChargePayment: req.IsServiceChargePayment,
		IsAgentCollection:      req.IsAgentCollection,
		IsAgentFeePayment:      req.IsAgentFeePayment,

		ServiceChargeDeducted:          result.ServiceChargeDeducted,
		AmountDueToCollege:             result.AmountDueToCollege,
		AgentFeeDeducted:               result.AgentFeeDeducted,
		AmountTransferredToConsultancy: result.AmountTransferredToConsultancy,

		CollectingAgentID:    req.CollectingAgentID,
		AgentIDForFeePayment: req.AgentIDForFeePayment,
		PaidToAgentID:        result.PaidToAgentID,

		CreatedBy: actorID,
	}
	if req.PaymentDate != nil {
		p.PaymentDate = *req.PaymentDate
	}
	if req.BranchID == 0 {
		p.BranchID = a.BranchID
	}
	if ref != "" {
		p.TransactionRef = &ref
	}

	if err := s.Payments.Create(ctx, p); err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues(string(result.Flow)).Inc()

	s.recordSideEffects(ctx, p, a, actorID)
	cache.InvalidatePaymentCaches(ctx, p.BranchID)

	// The payment is durable at this point; a recompute failure is an
	// aggregation problem, not a payment failure.
	if err := s.Summary.Recompute(ctx, p.AdmissionID); err != nil {
		log.Printf("[PAYMENT] summary recompute failed for admission %d after payment %d: %v", p.AdmissionID, p.ID, err)
	}
	s.Audit.Record("create", "payment", p.ID, nil, p, actorID)
	return p, nil
}

// recordSideEffects mints the voucher and writes the daybook/cashbook
// rows for a freshly recorded payment. Every payment gets a voucher;
// only flows that touch the consultancy's own money reach the books.
func (s *PaymentService) recordSideEffects(ctx context.Context, p *models.Payment, a *models.Admission, actorID int) {
	incoming := p.ReceiverType == models.ReceiverConsultancy
	outgoing := p.PayerType == models.PayerConsultancy

	voucherType := models.VoucherReceipt
	partyName := partyFor(p.PayerType, a)
	if outgoing {
		voucherType = models.VoucherPayment
		partyName = partyFor(models.PayerType(p.ReceiverType), a)
	}

	ref := ""
	if p.TransactionRef != nil {
		ref = *p.TransactionRef
	}
	v := &models.Voucher{
		BranchID:       p.BranchID,
		VoucherDate:    p.PaymentDate,
		VoucherType:    voucherType,
		ReferenceKind:  models.RefPayment,
		ReferenceID:    &p.ID,
		AdmissionID:    &p.AdmissionID,
		Amount:         p.Amount,
		PaymentMode:    p.PaymentMode,
		TransactionRef: ref,
		Description:    paymentDescription(p, a),
		PartyName:      partyName,
		PartyType:      string(p.PayerType),
		CreatedBy:      actorID,
	}
	if err := s.Vouchers.CreateWithNumber(ctx, v); err != nil {
		log.Printf("[PAYMENT] voucher mint failed for payment %d: %v", p.ID, err)
	} else {
		metrics.VouchersMinted.WithLabelValues(string(voucherType)).Inc()
		p.VoucherID = &v.ID
		if err := s.Payments.SetVoucherID(ctx, p.ID, v.ID); err != nil {
			log.Printf("[PAYMENT] voucher link failed for payment %d: %v", p.ID, err)
		}
	}

	// Student paying an agent or a college directly never moves the
	// consultancy's money; the voucher alone records it.
	if !incoming && !outgoing {
		return
	}

	category, entryType := daybookCategoryFor(p)
	d := &models.DaybookEntry{
		Date:        p.PaymentDate,
		BranchID:    p.BranchID,
		Category:    category,
		Type:        entryType,
		Amount:      p.Amount,
		Description: paymentDescription(p, a),
		AdmissionID: &p.AdmissionID,
		PaymentID:   &p.ID,
		VoucherID:   p.VoucherID,
		PaymentMode: p.PaymentMode,
		PartyName:   partyName,
		CreatedBy:   actorID,
	}
	if err := s.Daybook.Create(ctx, d); err != nil {
		log.Printf("[PAYMENT] daybook write failed for payment %d: %v", p.ID, err)
	}

	if p.PaymentMode == models.ModeCash {
		c := &models.CashbookEntry{
			Date:        p.PaymentDate,
			BranchID:    p.BranchID,
			Category:    category,
			Description: paymentDescription(p, a),
			VoucherID:   p.VoucherID,
			CreatedBy:   actorID,
		}
		if incoming {
			c.Credited = p.Amount
		} else {
			c.Debited = p.Amount
		}
		if err := s.Cashbook.Append(ctx, c); err != nil {
			log.Printf("[PAYMENT] cashbook append failed for payment %d: %v", p.ID, err)
		}
	}
}

func (s *PaymentService) Get(ctx context.Context, id int) (*models.Payment, error) {
	return s.Payments.Get(ctx, id)
}

func (s *PaymentService) List(ctx context.Context, f *models.PaymentFilter) ([]*models.Payment, int, error) {
	return s.Payments.List(ctx, f)
}

// Update edits the mutable payment fields. The per-payment derived
// amounts from classification are frozen at creation; only the aggregate
// summary is refreshed.
func (s *PaymentService) Update(ctx context.Context, id int, req *models.UpdatePaymentRequest, actorID int) (*models.Payment, error) {
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
		if !models.ValidPaymentModes[*req.PaymentMode] {
			return nil, apperrors.Validation("unknown payment mode").WithField("payment_mode", "unknown payment mode")
		}
		p.PaymentMode = *req.PaymentMode
	}
	if req.TransactionRef != nil {
		ref := strings.TrimSpace(*req.TransactionRef)
		if ref == "" {
			p.TransactionRef = nil
		} else {
			p.TransactionRef = &ref
		}
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
			log.Printf("[PAYMENT] summary recompute failed for admission %d after payment %d update: %v", p.AdmissionID, p.ID, err)
		}
	}
	s.Audit.Record("update", "payment", id, &before, p, actorID)
	return p, nil
}

// Delete soft-deletes a payment, retires its voucher and daybook rows,
// and recomputes the admission so every derived figure forgets it. The
// transaction reference becomes reusable.
func (s *PaymentService) Delete(ctx context.Context, id, actorID int) error {
	p, err := s.Payments.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Payments.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	if p.VoucherID != nil {
		if err := s.Vouchers.SoftDelete(ctx, *p.VoucherID, actorID); err != nil {
			log.Printf("[PAYMENT] voucher retire failed for payment %d: %v", id, err)
		}
	}
	if err := s.Daybook.SoftDeleteByPayment(ctx, id, actorID); err != nil {
		log.Printf("[PAYMENT] daybook retire failed for payment %d: %v", id, err)
	}
	cache.InvalidatePaymentCaches(ctx, p.BranchID)
	if err := s.Summary.Recompute(ctx, p.AdmissionID); err != nil {
		log.Printf("[PAYMENT] summary recompute failed for admission %d after payment %d delete: %v", p.AdmissionID, id, err)
	}
	s.Audit.Record("delete", "payment", id, p, nil, actorID)
	return nil
}

// CheckTransactionRef reports whether a reference is already used by a
// live payment, with enough context for a duplicate warning.
func (s *PaymentService) CheckTransactionRef(ctx context.Context, ref string) (*models.TransactionRefCheck, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.Validation("transaction reference is required")
	}
	preview, err := s.Payments.FindByTransactionRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &models.TransactionRefCheck{Exists: preview != nil, Payment: preview}, nil
}

func validateCreatePayment(req *models.CreatePaymentRequest) error {
	e := apperrors.Validation("payment validation failed")
	if req.AdmissionID == 0 {
		e = e.WithField("admission_id", "admission is required")
	}
	if req.Amount <= 0 {
		e = e.WithField("amount", "must be greater than zero")
	}
	if !models.ValidPayerTypes[req.PayerType] {
		e = e.WithField("payer_type", "unknown payer type")
	}
	if !models.ValidReceiverTypes[req.ReceiverType] {
		e = e.WithField("receiver_type", "unknown receiver type")
	}
	if !models.ValidPaymentModes[req.PaymentMode] {
		e = e.WithField("payment_mode", "unknown payment mode")
	}
	if req.IsAgentCollection && req.CollectingAgentID == nil {
		e = e.WithField("collecting_agent_id", "collecting agent is required for agent collections")
	}
	if len(e.FieldErrors) > 0 {
		return e
	}
	return nil
}

func partyFor(payer models.PayerType, a *models.Admission) string {
	if payer == models.PayerStudent {
		return a.Student.FullName()
	}
	return string(payer)
}

func paymentDescription(p *models.Payment, a *models.Admission) string {
	return fmt.Sprintf("%s to %s for admission %s (%s)",
		p.PayerType, p.ReceiverType, a.AdmissionNo, a.Student.FullName())
}

func daybookCategoryFor(p *models.Payment) (string, models.DaybookType) {
	switch {
	case p.PayerType == models.PayerCollege && p.ReceiverType == models.ReceiverConsultancy && p.IsServiceChargePayment:
		return models.CategoryCollegeServiceCharge, models.DaybookIncome
	case p.ReceiverType == models.ReceiverConsultancy:
		return models.CategoryReceivedFromStudent, models.DaybookIncome
	case p.ReceiverType == models.ReceiverCollege:
		return models.CategoryPaidToCollege, models.DaybookExpense
	default:
		return models.CategoryPaidToAgent, models.DaybookExpense
	}
}
