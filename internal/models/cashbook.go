package models

import "time"

// CashbookEntry is one row in the append-only per-branch cash ledger.
// Ordered by (date, created_at), each running balance equals the previous
// balance plus credited minus debited.
type CashbookEntry struct {
	ID             int       `json:"id"`
	Date           time.Time `json:"date"`
	BranchID       int       `json:"branch_id"`
	Category       string    `json:"category,omitempty"`
	Description    string    `json:"description,omitempty"`
	Credited       float64   `json:"credited"`
	Debited        float64   `json:"debited"`
	RunningBalance float64   `json:"running_balance"`
	VoucherID      *int      `json:"voucher_id,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int       `json:"deleted_by,omitempty"`
	CreatedBy int        `json:"created_by"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateCashbookRequest appends a manual cash movement for a branch.
type CreateCashbookRequest struct {
	Date        *time.Time `json:"date"`
	BranchID    int        `json:"branch_id"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Credited    float64    `json:"credited"`
	Debited     float64    `json:"debited"`
	VoucherID   *int       `json:"voucher_id"`
}

// UpdateCashbookRequest edits a past entry's amounts. The edited entry's
// running balance is recomputed from its immediate predecessor; later
// entries are not cascaded.
type UpdateCashbookRequest struct {
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Credited    *float64 `json:"credited"`
	Debited     *float64 `json:"debited"`
}

// CashbookFilter narrows cashbook listings.
type CashbookFilter struct {
	BranchID  int
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// CashbookSummary rolls up cash movement over a period.
type CashbookSummary struct {
	TotalCredited  float64 `json:"total_credited"`
	TotalDebited   float64 `json:"total_debited"`
	Transactions   int     `json:"transactions"`
	CurrentBalance float64 `json:"current_balance"`
}
