package services

import (
	"context"
	"log"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/audit"
	"admission-backend/internal/cache"
	"admission-backend/internal/models"
	"admission-backend/internal/timeutil"
)

// DaybookStore is the full persistence surface for daybook entries.
type DaybookStore interface {
	Create(ctx context.Context, e *models.DaybookEntry) error
	Get(ctx context.Context, id int) (*models.DaybookEntry, error)
	List(ctx context.Context, f *models.DaybookFilter) ([]*models.DaybookEntry, int, error)
	Update(ctx context.Context, e *models.DaybookEntry) error
	SetVoucherID(ctx context.Context, entryID, voucherID int) error
	SoftDelete(ctx context.Context, id, deletedBy int) error
	Summary(ctx context.Context, f *models.DaybookFilter) (*models.DaybookSummary, error)
}

// DaybookService manages standalone income/expense entries: office rent,
// salaries, utility bills and miscellaneous cash movements that are not
// tied to a payment. Each standalone entry gets its own voucher and, when
// paid in cash, a cashbook row.
type DaybookService struct {
	Entries  DaybookStore
	Vouchers VoucherMinter
	Cashbook CashAppender
	Audit    *audit.Recorder
}

func NewDaybookService(entries DaybookStore, vouchers VoucherMinter, cashbook CashAppender, rec *audit.Recorder) *DaybookService {
	return &DaybookService{Entries: entries, Vouchers: vouchers, Cashbook: cashbook, Audit: rec}
}

func (s *DaybookService) Create(ctx context.Context, req *models.CreateDaybookRequest, actorID int) (*models.DaybookEntry, error) {
	e := apperrors.Validation("daybook validation failed")
	if req.BranchID == 0 {
		e = e.WithField("branch_id", "branch is required")
	}
	if req.Category == "" {
		e = e.WithField("category", "category is required")
	}
	if req.Type != models.DaybookIncome && req.Type != models.DaybookExpense {
		e = e.WithField("type", "type must be income or expense")
	}
	if req.Amount <= 0 {
		e = e.WithField("amount", "must be greater than zero")
	}
	if len(e.FieldErrors) > 0 {
		return nil, e
	}

	entry := &models.DaybookEntry{
		Date:        timeutil.Now(),
		BranchID:    req.BranchID,
		Category:    req.Category,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		PaymentMode: req.PaymentMode,
		PartyName:   req.PartyName,
		Remarks:     req.Remarks,
		CreatedBy:   actorID,
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	if err := s.Entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	voucherType := models.VoucherExpense
	if entry.Type == models.DaybookIncome {
		voucherType = models.VoucherReceipt
	}
	v := &models.Voucher{
		BranchID:      entry.BranchID,
		VoucherDate:   entry.Date,
		VoucherType:   voucherType,
		ReferenceKind: models.RefDaybook,
		ReferenceID:   &entry.ID,
		Amount:        entry.Amount,
		PaymentMode:   entry.PaymentMode,
		Description:   entry.Description,
		PartyName:     entry.PartyName,
		CreatedBy:     actorID,
	}
	if err := s.Vouchers.CreateWithNumber(ctx, v); err != nil {
		log.Printf("[DAYBOOK] voucher mint failed for entry %d: %v", entry.ID, err)
	} else {
		entry.VoucherID = &v.ID
		if err := s.Entries.SetVoucherID(ctx, entry.ID, v.ID); err != nil {
			log.Printf("[DAYBOOK] voucher link failed for entry %d: %v", entry.ID, err)
		}
	}

	if entry.PaymentMode == models.ModeCash {
		c := &models.CashbookEntry{
			Date:        entry.Date,
			BranchID:    entry.BranchID,
			Category:    entry.Category,
			Description: entry.Description,
			VoucherID:   entry.VoucherID,
			CreatedBy:   actorID,
		}
		if entry.Type == models.DaybookIncome {
			c.Credited = entry.Amount
		} else {
			c.Debited = entry.Amount
		}
		if err := s.Cashbook.Append(ctx, c); err != nil {
			log.Printf("[DAYBOOK] cashbook append failed for entry %d: %v", entry.ID, err)
		} else {
			cache.InvalidateCashbookCaches(ctx, entry.BranchID)
		}
	}

	s.Audit.Record("create", "daybook_entry", entry.ID, nil, entry, actorID)
	return entry, nil
}

func (s *DaybookService) Get(ctx context.Context, id int) (*models.DaybookEntry, error) {
	return s.Entries.Get(ctx, id)
}

func (s *DaybookService) List(ctx context.Context, f *models.DaybookFilter) ([]*models.DaybookEntry, int, error) {
	return s.Entries.List(ctx, f)
}

func (s *DaybookService) Summary(ctx context.Context, f *models.DaybookFilter) (*models.DaybookSummary, error) {
	return s.Entries.Summary(ctx, f)
}

// Update edits a standalone entry. Entries generated from payments are
// corrected by editing the payment, not the daybook row.
func (s *DaybookService) Update(ctx context.Context, id int, req *models.UpdateDaybookRequest, actorID int) (*models.DaybookEntry, error) {
	entry, err := s.Entries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.PaymentID != nil || entry.AgentPaymentID != nil {
		return nil, apperrors.Forbidden("payment-generated entries are edited through the payment")
	}
	before := *entry

	if req.Date != nil {
		entry.Date = *req.Date
	}
	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, apperrors.Validation("amount must be positive").WithField("amount", "must be greater than zero")
		}
		entry.Amount = *req.Amount
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Remarks != nil {
		entry.Remarks = *req.Remarks
	}
	entry.UpdatedBy = &actorID

	if err := s.Entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.Audit.Record("update", "daybook_entry", id, &before, entry, actorID)
	return entry, nil
}

func (s *DaybookService) Delete(ctx context.Context, id, actorID int) error {
	entry, err := s.Entries.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry.PaymentID != nil || entry.AgentPaymentID != nil {
		return apperrors.Forbidden("payment-generated entries are removed through the payment")
	}
	if err := s.Entries.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	if entry.VoucherID != nil {
		if err := s.Vouchers.SoftDelete(ctx, *entry.VoucherID, actorID); err != nil {
			log.Printf("[DAYBOOK] voucher retire failed for entry %d: %v", id, err)
		}
	}
	s.Audit.Record("delete", "daybook_entry", id, entry, nil, actorID)
	return nil
}
