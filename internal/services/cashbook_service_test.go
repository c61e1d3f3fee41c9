package services

import (
	"context"
	"testing"
	"time"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"
)

type fakeCashbookStore struct {
	nextID  int
	entries map[int]*models.CashbookEntry
	balance float64
	deleted []int
	cleared []int
	summary *models.CashbookSummary
}

func newFakeCashbookStore() *fakeCashbookStore {
	return &fakeCashbookStore{entries: make(map[int]*models.CashbookEntry)}
}

func (f *fakeCashbookStore) Append(ctx context.Context, e *models.CashbookEntry) error {
	f.nextID++
	e.ID = f.nextID
	f.balance += e.Credited - e.Debited
	e.RunningBalance = f.balance
	f.entries[e.ID] = e
	return nil
}

func (f *fakeCashbookStore) Get(ctx context.Context, id int) (*models.CashbookEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, apperrors.NotFound("cashbook entry %d not found", id)
	}
	copied := *e
	return &copied, nil
}

func (f *fakeCashbookStore) List(ctx context.Context, fl *models.CashbookFilter) ([]*models.CashbookEntry, int, error) {
	return nil, 0, nil
}

func (f *fakeCashbookStore) UpdateAmounts(ctx context.Context, e *models.CashbookEntry) error {
	f.entries[e.ID] = e
	return nil
}

func (f *fakeCashbookStore) SoftDelete(ctx context.Context, id, deletedBy int) error {
	f.deleted = append(f.deleted, id)
	delete(f.entries, id)
	return nil
}

func (f *fakeCashbookStore) ClearAll(ctx context.Context, branchID, deletedBy int) (int64, error) {
	f.cleared = append(f.cleared, branchID)
	n := int64(len(f.entries))
	f.entries = make(map[int]*models.CashbookEntry)
	return n, nil
}

func (f *fakeCashbookStore) HardClearAll(ctx context.Context, branchID int) (int64, error) {
	n := int64(len(f.entries))
	f.entries = make(map[int]*models.CashbookEntry)
	return n, nil
}

func (f *fakeCashbookStore) RebuildBalances(ctx context.Context, branchID int) (int64, error) {
	bal := 0.0
	for id := 1; id <= f.nextID; id++ {
		e, ok := f.entries[id]
		if !ok {
			continue
		}
		bal += e.Credited - e.Debited
		e.RunningBalance = bal
	}
	f.balance = bal
	return int64(len(f.entries)), nil
}

func (f *fakeCashbookStore) Summary(ctx context.Context, fl *models.CashbookFilter) (*models.CashbookSummary, error) {
	return f.summary, nil
}

func TestCashbookCreateValidation(t *testing.T) {
	svc := NewCashbookService(newFakeCashbookStore(), nil)

	tests := []struct {
		name string
		req  *models.CreateCashbookRequest
	}{
		{"missing branch", &models.CreateCashbookRequest{Credited: 100}},
		{"nothing set", &models.CreateCashbookRequest{BranchID: 1}},
		{"both set", &models.CreateCashbookRequest{BranchID: 1, Credited: 100, Debited: 50}},
		{"negative credit", &models.CreateCashbookRequest{BranchID: 1, Credited: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req, 1)
			if !apperrors.IsKind(err, apperrors.KindValidation) {
				t.Errorf("err = %v, want validation", err)
			}
		})
	}
}

func TestCashbookRunningBalance(t *testing.T) {
	store := newFakeCashbookStore()
	svc := NewCashbookService(store, nil)

	first, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Credited: 1000, Description: "opening cash",
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.RunningBalance != 1000 {
		t.Errorf("balance after credit = %v, want 1000", first.RunningBalance)
	}

	second, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Debited: 300, Description: "office expense",
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.RunningBalance != 700 {
		t.Errorf("balance after debit = %v, want 700", second.RunningBalance)
	}
}

func TestCashbookCreateHonorsGivenDate(t *testing.T) {
	store := newFakeCashbookStore()
	svc := NewCashbookService(store, nil)

	backdated := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	entry, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Credited: 50, Date: &backdated,
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !entry.Date.Equal(backdated) {
		t.Errorf("date = %v, want %v", entry.Date, backdated)
	}
}

func TestCashbookUpdate(t *testing.T) {
	store := newFakeCashbookStore()
	svc := NewCashbookService(store, nil)

	entry, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Credited: 100,
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	credited := 250.0
	desc := "corrected amount"
	updated, err := svc.Update(context.Background(), entry.ID, &models.UpdateCashbookRequest{
		Credited:    &credited,
		Description: &desc,
	}, 2)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Credited != 250 || updated.Description != "corrected amount" {
		t.Errorf("updated entry = %+v", updated)
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != 2 {
		t.Errorf("updated_by not stamped")
	}

	negative := -1.0
	if _, err := svc.Update(context.Background(), entry.ID, &models.UpdateCashbookRequest{Debited: &negative}, 2); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("negative debit: err = %v, want validation", err)
	}
}

func TestCashbookDeleteAndClear(t *testing.T) {
	store := newFakeCashbookStore()
	svc := NewCashbookService(store, nil)

	entry, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Credited: 100,
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Debited: 40,
	}, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), entry.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != entry.ID {
		t.Errorf("deleted = %v, want [%d]", store.deleted, entry.ID)
	}

	if err := svc.Delete(context.Background(), 999, 1); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Errorf("missing entry: err = %v, want not found", err)
	}

	n, err := svc.ClearAll(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if n != 1 {
		t.Errorf("cleared %d rows, want 1", n)
	}
}

func TestCashbookRebuildBalances(t *testing.T) {
	store := newFakeCashbookStore()
	svc := NewCashbookService(store, nil)

	first, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Credited: 1000,
	}, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), &models.CreateCashbookRequest{
		BranchID: 1, Debited: 300,
	}, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// An in-place edit leaves the later entry's stored balance stale.
	credited := 500.0
	if _, err := svc.Update(context.Background(), first.ID, &models.UpdateCashbookRequest{Credited: &credited}, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}

	n, err := svc.RebuildBalances(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("RebuildBalances: %v", err)
	}
	if n != 2 {
		t.Errorf("rebuilt %d rows, want 2", n)
	}
	last, err := svc.Get(context.Background(), first.ID+1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if last.RunningBalance != 200 {
		t.Errorf("rebuilt balance = %v, want 200", last.RunningBalance)
	}

	if _, err := svc.RebuildBalances(context.Background(), 0, 1); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("missing branch: err = %v, want validation", err)
	}
}

func TestCashbookSummaryPassthrough(t *testing.T) {
	store := newFakeCashbookStore()
	store.summary = &models.CashbookSummary{TotalCredited: 500, TotalDebited: 200, CurrentBalance: 300}
	svc := NewCashbookService(store, nil)

	start := time.Now()
	got, err := svc.Summary(context.Background(), &models.CashbookFilter{BranchID: 1, StartDate: &start})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.CurrentBalance != 300 {
		t.Errorf("current balance = %v, want 300", got.CurrentBalance)
	}
}
