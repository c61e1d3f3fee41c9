package models

import "time"

// DaybookEntry is one categorized income/expense record feeding branch P&L.
type DaybookEntry struct {
	ID             int         `json:"id"`
	Date           time.Time   `json:"date"`
	BranchID       int         `json:"branch_id"`
	Category       string      `json:"category"`
	Type           DaybookType `json:"type"`
	Amount         float64     `json:"amount"`
	Description    string      `json:"description,omitempty"`
	AdmissionID    *int        `json:"admission_id,omitempty"`
	PaymentID      *int        `json:"payment_id,omitempty"`
	AgentPaymentID *int        `json:"agent_payment_id,omitempty"`
	VoucherID      *int        `json:"voucher_id,omitempty"`
	PaymentMode    PaymentMode `json:"payment_mode,omitempty"`
	PartyName      string      `json:"party_name,omitempty"`
	Remarks        string      `json:"remarks,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int       `json:"deleted_by,omitempty"`
	CreatedBy int        `json:"created_by"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateDaybookRequest records a standalone income/expense entry. The
// service mints a voucher for it and feeds the cashbook when paid in cash.
type CreateDaybookRequest struct {
	Date        *time.Time  `json:"date"`
	BranchID    int         `json:"branch_id"`
	Category    string      `json:"category"`
	Type        DaybookType `json:"type"`
	Amount      float64     `json:"amount"`
	Description string      `json:"description"`
	PaymentMode PaymentMode `json:"payment_mode"`
	PartyName   string      `json:"party_name"`
	Remarks     string      `json:"remarks"`
}

// UpdateDaybookRequest carries explicit edits to an entry.
type UpdateDaybookRequest struct {
	Date        *time.Time `json:"date"`
	Category    *string    `json:"category"`
	Amount      *float64   `json:"amount"`
	Description *string    `json:"description"`
	Remarks     *string    `json:"remarks"`
}

// DaybookFilter narrows daybook listings.
type DaybookFilter struct {
	BranchID  int
	Category  string
	Type      DaybookType
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// DaybookSummary is the branch P&L rollup over a period.
type DaybookSummary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
	IncomeCount  int     `json:"income_count"`
	ExpenseCount int     `json:"expense_count"`
}
