package models

import "time"

// Attachment is opaque file metadata for a payment receipt/proof.
// The core never interprets file contents.
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName,omitempty"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// Payment is one money movement between two of the four parties.
// The derived fields (ServiceChargeDeducted, AmountDueToCollege,
// AgentFeeDeducted, AmountTransferredToConsultancy, PaidToAgentID) are
// computed by the flow classifier at creation time.
type Payment struct {
	ID           int          `json:"id"`
	AdmissionID  int          `json:"admission_id"`
	BranchID     int          `json:"branch_id"`
	PayerType    PayerType    `json:"payer_type"`
	ReceiverType ReceiverType `json:"receiver_type"`
	PaymentDate  time.Time    `json:"payment_date"`
	Amount       float64      `json:"amount"`
	PaymentMode  PaymentMode  `json:"payment_mode"`
	TransactionRef *string    `json:"transaction_ref,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
	VoucherID    *int         `json:"voucher_id,omitempty"`

	IsServiceChargePayment bool `json:"is_service_charge_payment"`
	IsAgentCollection      bool `json:"is_agent_collection"`
	IsAgentFeePayment      bool `json:"is_agent_fee_payment"`

	ServiceChargeDeducted          float64 `json:"service_charge_deducted"`
	AmountDueToCollege             float64 `json:"amount_due_to_college"`
	AgentFeeDeducted               float64 `json:"agent_fee_deducted"`
	AmountTransferredToConsultancy float64 `json:"amount_transferred_to_consultancy"`

	CollectingAgentID    *int `json:"collecting_agent_id,omitempty"`
	AgentIDForFeePayment *int `json:"agent_id_for_fee_payment,omitempty"`
	PaidToAgentID        *int `json:"paid_to_agent_id,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int       `json:"deleted_by,omitempty"`
	CreatedBy int        `json:"created_by"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreatePaymentRequest is the client payload for recording a payment.
type CreatePaymentRequest struct {
	AdmissionID  int          `json:"admission_id"`
	BranchID     int          `json:"branch_id"`
	PayerType    PayerType    `json:"payer_type"`
	ReceiverType ReceiverType `json:"receiver_type"`
	PaymentDate  *time.Time   `json:"payment_date"`
	Amount       float64      `json:"amount"`
	PaymentMode  PaymentMode  `json:"payment_mode"`
	TransactionRef string     `json:"transaction_ref"`
	Notes        string       `json:"notes"`
	Attachment   *Attachment  `json:"attachment"`

	IsServiceChargePayment bool    `json:"is_service_charge_payment"`
	IsAgentCollection      bool    `json:"is_agent_collection"`
	DeductServiceCharge    bool    `json:"deduct_service_charge"`
	ServiceChargeDeducted  float64 `json:"service_charge_deducted"` // requested cap, optional
	DeductAgentFee         bool    `json:"deduct_agent_fee"`
	AgentFeeDeducted       float64 `json:"agent_fee_deducted"` // requested, Agent->Consultancy only
	IsAgentFeePayment      bool    `json:"is_agent_fee_payment"`
	CollectingAgentID      *int    `json:"collecting_agent_id"`
	AgentIDForFeePayment   *int    `json:"agent_id_for_fee_payment"`
}

// UpdatePaymentRequest carries edits to an existing payment. An amount
// change re-triggers the admission recompute.
type UpdatePaymentRequest struct {
	Amount         *float64     `json:"amount"`
	PaymentDate    *time.Time   `json:"payment_date"`
	PaymentMode    *PaymentMode `json:"payment_mode"`
	TransactionRef *string      `json:"transaction_ref"`
	Notes          *string      `json:"notes"`
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	AdmissionID  int
	BranchID     int
	PayerType    PayerType
	ReceiverType ReceiverType
	PaymentMode  PaymentMode
	TransactionRef string
	Search       string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	Limit        int
}

// TransactionRefCheck is the duplicate-lookup result for a reference.
type TransactionRefCheck struct {
	Exists  bool            `json:"exists"`
	Payment *PaymentPreview `json:"payment,omitempty"`
}

// PaymentPreview is the slim payment shown in a duplicate warning.
type PaymentPreview struct {
	ID          int       `json:"id"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	AdmissionNo string    `json:"admission_no,omitempty"`
	StudentName string    `json:"student_name,omitempty"`
}
