package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/audit"
	"admission-backend/internal/cache"
	"admission-backend/internal/models"
	"admission-backend/internal/timeutil"
)

// CashbookStore is the full persistence surface for the cash ledger.
type CashbookStore interface {
	Append(ctx context.Context, e *models.CashbookEntry) error
	Get(ctx context.Context, id int) (*models.CashbookEntry, error)
	List(ctx context.Context, f *models.CashbookFilter) ([]*models.CashbookEntry, int, error)
	UpdateAmounts(ctx context.Context, e *models.CashbookEntry) error
	SoftDelete(ctx context.Context, id, deletedBy int) error
	ClearAll(ctx context.Context, branchID, deletedBy int) (int64, error)
	HardClearAll(ctx context.Context, branchID int) (int64, error)
	RebuildBalances(ctx context.Context, branchID int) (int64, error)
	Summary(ctx context.Context, f *models.CashbookFilter) (*models.CashbookSummary, error)
}

// CashbookService manages the per-branch running-balance cash ledger.
// Payment and daybook services append to it; this service covers manual
// entries, corrections and the period summary.
type CashbookService struct {
	Entries CashbookStore
	Audit   *audit.Recorder
}

func NewCashbookService(entries CashbookStore, rec *audit.Recorder) *CashbookService {
	return &CashbookService{Entries: entries, Audit: rec}
}

func (s *CashbookService) Create(ctx context.Context, req *models.CreateCashbookRequest, actorID int) (*models.CashbookEntry, error) {
	e := apperrors.Validation("cashbook validation failed")
	if req.BranchID == 0 {
		e = e.WithField("branch_id", "branch is required")
	}
	if req.Credited < 0 || req.Debited < 0 {
		e = e.WithField("amount", "credited and debited cannot be negative")
	}
	if req.Credited == 0 && req.Debited == 0 {
		e = e.WithField("amount", "either credited or debited must be set")
	}
	if req.Credited > 0 && req.Debited > 0 {
		e = e.WithField("amount", "an entry is either a credit or a debit, not both")
	}
	if len(e.FieldErrors) > 0 {
		return nil, e
	}

	entry := &models.CashbookEntry{
		Date:        timeutil.Now(),
		BranchID:    req.BranchID,
		Category:    req.Category,
		Description: req.Description,
		Credited:    req.Credited,
		Debited:     req.Debited,
		VoucherID:   req.VoucherID,
		CreatedBy:   actorID,
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	if err := s.Entries.Append(ctx, entry); err != nil {
		return nil, err
	}
	cache.InvalidateCashbookCaches(ctx, entry.BranchID)
	s.Audit.Record("create", "cashbook_entry", entry.ID, nil, entry, actorID)
	return entry, nil
}

func (s *CashbookService) Get(ctx context.Context, id int) (*models.CashbookEntry, error) {
	return s.Entries.Get(ctx, id)
}

func (s *CashbookService) List(ctx context.Context, f *models.CashbookFilter) ([]*models.CashbookEntry, int, error) {
	return s.Entries.List(ctx, f)
}

// Summary reads the period rollup, serving the unfiltered per-branch
// variant from cache when Redis is up.
func (s *CashbookService) Summary(ctx context.Context, f *models.CashbookFilter) (*models.CashbookSummary, error) {
	cacheable := f.StartDate == nil && f.EndDate == nil && f.Category == ""
	key := fmt.Sprintf(cache.CashbookBalanceKeyFmt, f.BranchID)
	if cacheable {
		if data, ok := cache.GetCached(ctx, key); ok {
			var cached models.CashbookSummary
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.Entries.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if data, err := json.Marshal(summary); err == nil {
			cache.SetCached(ctx, key, data, 5*time.Minute)
		}
	}
	return summary, nil
}

// Update corrects a past entry's amounts; its running balance is restamped
// from its predecessor while later entries keep their stored balances.
func (s *CashbookService) Update(ctx context.Context, id int, req *models.UpdateCashbookRequest, actorID int) (*models.CashbookEntry, error) {
	entry, err := s.Entries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *entry

	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Credited != nil {
		if *req.Credited < 0 {
			return nil, apperrors.Validation("credited cannot be negative").WithField("credited", "cannot be negative")
		}
		entry.Credited = *req.Credited
	}
	if req.Debited != nil {
		if *req.Debited < 0 {
			return nil, apperrors.Validation("debited cannot be negative").WithField("debited", "cannot be negative")
		}
		entry.Debited = *req.Debited
	}
	entry.UpdatedBy = &actorID

	if err := s.Entries.UpdateAmounts(ctx, entry); err != nil {
		return nil, err
	}
	cache.InvalidateCashbookCaches(ctx, entry.BranchID)
	s.Audit.Record("update", "cashbook_entry", id, &before, entry, actorID)
	return entry, nil
}

func (s *CashbookService) Delete(ctx context.Context, id, actorID int) error {
	entry, err := s.Entries.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Entries.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	cache.InvalidateCashbookCaches(ctx, entry.BranchID)
	s.Audit.Record("delete", "cashbook_entry", id, entry, nil, actorID)
	return nil
}

// ClearAll soft-deletes a branch's ledger (all branches when branchID is
// zero) and returns the affected row count.
func (s *CashbookService) ClearAll(ctx context.Context, branchID, actorID int) (int64, error) {
	n, err := s.Entries.ClearAll(ctx, branchID, actorID)
	if err != nil {
		return 0, err
	}
	cache.InvalidateCashbookCaches(ctx, branchID)
	s.Audit.Record("delete", "cashbook", branchID, nil, nil, actorID)
	return n, nil
}

// RebuildBalances restamps a branch's running balances from scratch.
// The repair path for ledgers that drifted through in-place edits.
func (s *CashbookService) RebuildBalances(ctx context.Context, branchID, actorID int) (int64, error) {
	if branchID == 0 {
		return 0, apperrors.Validation("branch is required").WithField("branch_id", "branch is required")
	}
	n, err := s.Entries.RebuildBalances(ctx, branchID)
	if err != nil {
		return 0, err
	}
	cache.InvalidateCashbookCaches(ctx, branchID)
	s.Audit.Record("update", "cashbook", branchID, nil, nil, actorID)
	return n, nil
}

// HardClearAll permanently wipes the ledger including soft-deleted rows.
// Restricted to super admins at the routing layer.
func (s *CashbookService) HardClearAll(ctx context.Context, branchID, actorID int) (int64, error) {
	n, err := s.Entries.HardClearAll(ctx, branchID)
	if err != nil {
		return 0, err
	}
	cache.InvalidateCashbookCaches(ctx, branchID)
	s.Audit.Record("delete", "cashbook", branchID, nil, nil, actorID)
	return n, nil
}
