package models

import "time"

// Online transaction statuses
const (
	OnlineTxStatusCreated = "created"
	OnlineTxStatusSuccess = "success"
	OnlineTxStatusFailed  = "failed"
)

// OnlineTransaction tracks one Razorpay order from creation to settlement.
// A successful transaction is materialized as a regular student payment
// with the gateway payment id as its transaction reference.
type OnlineTransaction struct {
	ID                int     `json:"id"`
	RazorpayOrderID   string  `json:"razorpay_order_id"`
	RazorpayPaymentID string  `json:"razorpay_payment_id,omitempty"`
	AdmissionID       int     `json:"admission_id"`
	BranchID          int     `json:"branch_id"`
	StudentName       string  `json:"student_name"`
	StudentPhone      string  `json:"student_phone"`
	Amount            float64 `json:"amount"`
	FeeAmount         float64 `json:"fee_amount"`
	TotalAmount       float64 `json:"total_amount"`
	Status            string  `json:"status"`
	Method            string  `json:"method,omitempty"`
	UTRNumber         string  `json:"utr_number,omitempty"`
	FailureReason     string  `json:"failure_reason,omitempty"`
	PaymentID         *int    `json:"payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateOnlineOrderRequest starts a gateway payment against an admission.
type CreateOnlineOrderRequest struct {
	AdmissionID int     `json:"admission_id"`
	Amount      float64 `json:"amount"`
}

// CreateOrderResponse carries everything the checkout widget needs.
type CreateOrderResponse struct {
	OrderID     string  `json:"order_id"`
	Amount      int     `json:"amount"`       // paise
	FeeAmount   int     `json:"fee_amount"`   // paise
	TotalAmount int     `json:"total_amount"` // paise
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
	FeePercent  float64 `json:"fee_percent"`
}

// VerifyOnlinePaymentRequest is the callback payload from checkout.
type VerifyOnlinePaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
