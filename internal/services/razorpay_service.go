package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"time"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/models"
	"admission-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

// OnlinePaymentService handles student fee payments through Razorpay. A
// settled order becomes an ordinary Student-to-Consultancy payment, with
// the gateway payment id as the transaction reference, so all downstream
// bookkeeping (voucher, daybook, recompute) runs the normal path.
type OnlinePaymentService struct {
	transactions *repositories.OnlineTransactionRepository
	settings     *repositories.SystemSettingRepository
	admissions   AdmissionStore
	payments     *PaymentService

	envKeyID         string
	envKeySecret     string
	envWebhookSecret string
}

func NewOnlinePaymentService(
	keyID, keySecret, webhookSecret string,
	transactions *repositories.OnlineTransactionRepository,
	settings *repositories.SystemSettingRepository,
	admissions AdmissionStore,
	payments *PaymentService,
) *OnlinePaymentService {
	return &OnlinePaymentService{
		transactions:     transactions,
		settings:         settings,
		admissions:       admissions,
		payments:         payments,
		envKeyID:         keyID,
		envKeySecret:     keySecret,
		envWebhookSecret: webhookSecret,
	}
}

// getCredentials returns the Razorpay credentials, DB settings first with
// environment fallback.
func (s *OnlinePaymentService) getCredentials(ctx context.Context) (keyID, keySecret, webhookSecret string) {
	if setting, err := s.settings.Get(ctx, "razorpay_key_id"); err == nil && setting.SettingValue != "" {
		keyID = setting.SettingValue
	}
	if setting, err := s.settings.Get(ctx, "razorpay_key_secret"); err == nil && setting.SettingValue != "" {
		keySecret = setting.SettingValue
	}
	if setting, err := s.settings.Get(ctx, "razorpay_webhook_secret"); err == nil && setting.SettingValue != "" {
		webhookSecret = setting.SettingValue
	}
	if keyID == "" {
		keyID = s.envKeyID
	}
	if keySecret == "" {
		keySecret = s.envKeySecret
	}
	if webhookSecret == "" {
		webhookSecret = s.envWebhookSecret
	}
	return keyID, keySecret, webhookSecret
}

func (s *OnlinePaymentService) getClient(ctx context.Context) *razorpay.Client {
	keyID, keySecret, _ := s.getCredentials(ctx)
	if keyID == "" || keySecret == "" {
		return nil
	}
	return razorpay.NewClient(keyID, keySecret)
}

// IsEnabled checks the online payment toggle in system settings.
func (s *OnlinePaymentService) IsEnabled(ctx context.Context) bool {
	setting, err := s.settings.Get(ctx, "online_payment_enabled")
	if err != nil {
		return false
	}
	return setting.SettingValue == "true"
}

// GetFeePercent returns the configured convenience fee percentage.
func (s *OnlinePaymentService) GetFeePercent(ctx context.Context) float64 {
	setting, err := s.settings.Get(ctx, "online_payment_fee_percent")
	if err != nil {
		return 2.5
	}
	fee, err := strconv.ParseFloat(setting.SettingValue, 64)
	if err != nil {
		return 2.5
	}
	return fee
}

// CalculateFee rounds the convenience fee to paise.
func (s *OnlinePaymentService) CalculateFee(amount, feePercent float64) float64 {
	return float64(int((amount*feePercent/100)*100+0.5)) / 100
}

// CreateOrder opens a Razorpay order for a student fee payment.
func (s *OnlinePaymentService) CreateOrder(ctx context.Context, req *models.CreateOnlineOrderRequest) (*models.CreateOrderResponse, error) {
	if !s.IsEnabled(ctx) {
		return nil, apperrors.Forbidden("online payments are currently disabled")
	}
	if req.Amount <= 0 {
		return nil, apperrors.Validation("amount must be positive").WithField("amount", "must be greater than zero")
	}

	a, err := s.admissions.Get(ctx, req.AdmissionID)
	if err != nil {
		return nil, err
	}

	client := s.getClient(ctx)
	if client == nil {
		return nil, fmt.Errorf("razorpay client not configured")
	}

	feePercent := s.GetFeePercent(ctx)
	feeAmount := s.CalculateFee(req.Amount, feePercent)
	totalAmount := req.Amount + feeAmount
	amountPaise := int(totalAmount * 100)

	order, err := client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("adm_%d_%d", a.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"admission_id":  a.ID,
			"admission_no":  a.AdmissionNo,
			"student_phone": a.Student.Phone,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID := order["id"].(string)

	tx := &models.OnlineTransaction{
		RazorpayOrderID: orderID,
		AdmissionID:     a.ID,
		BranchID:        a.BranchID,
		StudentName:     a.Student.FullName(),
		StudentPhone:    a.Student.Phone,
		Amount:          req.Amount,
		FeeAmount:       feeAmount,
		TotalAmount:     totalAmount,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	keyID, _, _ := s.getCredentials(ctx)
	return &models.CreateOrderResponse{
		OrderID:     orderID,
		Amount:      int(req.Amount * 100),
		FeeAmount:   int(feeAmount * 100),
		TotalAmount: amountPaise,
		Currency:    "INR",
		KeyID:       keyID,
		FeePercent:  feePercent,
	}, nil
}

// VerifyPayment checks the checkout signature, marks the transaction and
// materializes the student payment. Verification is idempotent.
func (s *OnlinePaymentService) VerifyPayment(ctx context.Context, req *models.VerifyOnlinePaymentRequest) (*models.OnlineTransaction, error) {
	if !s.verifySignature(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		_ = s.transactions.MarkFailed(ctx, req.RazorpayOrderID, "invalid signature")
		return nil, apperrors.Forbidden("invalid payment signature")
	}

	tx, err := s.transactions.GetByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if tx.Status == models.OnlineTxStatusSuccess {
		return tx, nil
	}

	method := ""
	utr := ""
	if client := s.getClient(ctx); client != nil {
		if payment, err := client.Payment.Fetch(req.RazorpayPaymentID, nil, nil); err == nil {
			if m, ok := payment["method"].(string); ok {
				method = m
			}
			if acq, ok := payment["acquirer_data"].(map[string]interface{}); ok {
				for _, field := range []string{"upi_transaction_id", "bank_transaction_id", "rrn"} {
					if u, ok := acq[field].(string); ok && u != "" {
						utr = u
						break
					}
				}
			}
		} else {
			log.Printf("[RAZORPAY] payment fetch failed for %s: %v", req.RazorpayPaymentID, err)
		}
	}

	if err := s.transactions.MarkSuccess(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, method, utr); err != nil {
		return nil, err
	}

	if err := s.materializePayment(ctx, tx, req.RazorpayPaymentID, method, utr); err != nil {
		// The gateway has the money; surface in logs and leave the
		// transaction unlinked for reconciliation.
		log.Printf("[RAZORPAY] payment materialization failed for order %s: %v", req.RazorpayOrderID, err)
	}

	return s.transactions.GetByOrderID(ctx, req.RazorpayOrderID)
}

// materializePayment records the settled order as a student payment.
func (s *OnlinePaymentService) materializePayment(ctx context.Context, tx *models.OnlineTransaction, gatewayPaymentID, method, utr string) error {
	notes := fmt.Sprintf("Online payment via Razorpay, order %s", tx.RazorpayOrderID)
	if utr != "" {
		notes += ", UTR " + utr
	}
	p, err := s.payments.Create(ctx, &models.CreatePaymentRequest{
		AdmissionID:    tx.AdmissionID,
		BranchID:       tx.BranchID,
		PayerType:      models.PayerStudent,
		ReceiverType:   models.ReceiverConsultancy,
		Amount:         tx.Amount,
		PaymentMode:    paymentModeFor(method),
		TransactionRef: gatewayPaymentID,
		Notes:          notes,
	}, 0)
	if err != nil {
		return err
	}
	return s.transactions.LinkPayment(ctx, tx.RazorpayOrderID, p.ID)
}

func (s *OnlinePaymentService) verifySignature(ctx context.Context, orderID, paymentID, signature string) bool {
	_, keySecret, _ := s.getCredentials(ctx)
	if keySecret == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature verifies the webhook body signature.
func (s *OnlinePaymentService) VerifyWebhookSignature(ctx context.Context, body []byte, signature string) bool {
	_, _, webhookSecret := s.getCredentials(ctx)
	if webhookSecret == "" {
		return true
	}
	h := hmac.New(sha256.New, []byte(webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook handles gateway callbacks for captured and failed payments.
func (s *OnlinePaymentService) ProcessWebhook(ctx context.Context, event string, payload map[string]interface{}) error {
	entity := webhookEntity(payload)
	orderID, _ := entity["order_id"].(string)
	if orderID == "" {
		return fmt.Errorf("missing order_id in webhook")
	}

	switch event {
	case "payment.captured":
		tx, err := s.transactions.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if tx.Status == models.OnlineTxStatusSuccess {
			return nil
		}
		paymentID, _ := entity["id"].(string)
		method, _ := entity["method"].(string)
		utr := ""
		if acq, ok := entity["acquirer_data"].(map[string]interface{}); ok {
			for _, field := range []string{"upi_transaction_id", "bank_transaction_id", "rrn"} {
				if u, ok := acq[field].(string); ok && u != "" {
					utr = u
					break
				}
			}
		}
		if err := s.transactions.MarkSuccess(ctx, orderID, paymentID, method, utr); err != nil {
			return err
		}
		return s.materializePayment(ctx, tx, paymentID, method, utr)

	case "payment.failed":
		reason := "payment failed"
		if desc, ok := entity["error_description"].(string); ok && desc != "" {
			reason = desc
		}
		return s.transactions.MarkFailed(ctx, orderID, reason)
	}

	log.Printf("[RAZORPAY] unhandled webhook event: %s", event)
	return nil
}

// ListByAdmission returns an admission's gateway transaction history.
func (s *OnlinePaymentService) ListByAdmission(ctx context.Context, admissionID int) ([]*models.OnlineTransaction, error) {
	return s.transactions.ListByAdmission(ctx, admissionID)
}

func webhookEntity(payload map[string]interface{}) map[string]interface{} {
	if p, ok := payload["payment"].(map[string]interface{}); ok {
		payload = p
	}
	if e, ok := payload["entity"].(map[string]interface{}); ok {
		return e
	}
	return payload
}

func paymentModeFor(method string) models.PaymentMode {
	switch method {
	case "upi":
		return models.ModeUPI
	case "card":
		return models.ModeCard
	default:
		return models.ModeBankTransfer
	}
}
