package models

import "time"

// Voucher is an immutable printable financial document referencing exactly
// one payment, agent payment, or daybook entry. Only the print-audit fields
// change after creation, and only through the record-print operation.
type Voucher struct {
	ID            int           `json:"id"`
	VoucherNo     string        `json:"voucher_no"`
	BranchID      int           `json:"branch_id"`
	VoucherDate   time.Time     `json:"voucher_date"`
	VoucherType   VoucherType   `json:"voucher_type"`
	ReferenceKind ReferenceKind `json:"reference_kind,omitempty"`
	ReferenceID   *int          `json:"reference_id,omitempty"`
	AdmissionID   *int          `json:"admission_id,omitempty"`
	Amount        float64       `json:"amount"`
	PaymentMode   PaymentMode   `json:"payment_mode,omitempty"`
	TransactionRef string       `json:"transaction_ref,omitempty"`
	Description   string        `json:"description,omitempty"`
	PartyName     string        `json:"party_name,omitempty"`
	PartyType     string        `json:"party_type,omitempty"`
	Notes         string        `json:"notes,omitempty"`

	PrintCount    int        `json:"print_count"`
	LastPrintedAt *time.Time `json:"last_printed_at,omitempty"`
	LastPrintedBy *int       `json:"last_printed_by,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int       `json:"deleted_by,omitempty"`
	CreatedBy int        `json:"created_by"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// VoucherFilter narrows voucher listings.
type VoucherFilter struct {
	BranchID    int
	AdmissionID int
	VoucherType VoucherType
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
}
