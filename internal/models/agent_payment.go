package models

import "time"

// AgentPayment is the legacy record of a consultancy-to-agent commission
// payment. It always counts into the admission's agentPaid rollup.
type AgentPayment struct {
	ID             int         `json:"id"`
	AdmissionID    int         `json:"admission_id"`
	AgentID        int         `json:"agent_id"`
	BranchID       int         `json:"branch_id"`
	PaymentDate    time.Time   `json:"payment_date"`
	Amount         float64     `json:"amount"`
	PaymentMode    PaymentMode `json:"payment_mode"`
	TransactionRef string      `json:"transaction_ref,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	VoucherID      *int        `json:"voucher_id,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int       `json:"deleted_by,omitempty"`
	CreatedBy int        `json:"created_by"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateAgentPaymentRequest is the client payload for an agent commission payment.
type CreateAgentPaymentRequest struct {
	AdmissionID    int         `json:"admission_id"`
	AgentID        int         `json:"agent_id"`
	BranchID       int         `json:"branch_id"`
	PaymentDate    *time.Time  `json:"payment_date"`
	Amount         float64     `json:"amount"`
	PaymentMode    PaymentMode `json:"payment_mode"`
	TransactionRef string      `json:"transaction_ref"`
	Notes          string      `json:"notes"`
}

// UpdateAgentPaymentRequest carries edits; an amount change re-triggers recompute.
type UpdateAgentPaymentRequest struct {
	Amount         *float64     `json:"amount"`
	PaymentDate    *time.Time   `json:"payment_date"`
	PaymentMode    *PaymentMode `json:"payment_mode"`
	TransactionRef *string      `json:"transaction_ref"`
	Notes          *string      `json:"notes"`
}

// AgentPaymentFilter narrows agent payment listings.
type AgentPaymentFilter struct {
	AdmissionID int
	AgentID     int
	BranchID    int
	PaymentMode PaymentMode
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	Limit       int
}
