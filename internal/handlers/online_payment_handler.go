package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

// OnlinePaymentHandler fronts the payment gateway integration.
type OnlinePaymentHandler struct {
	Service *services.OnlinePaymentService
}

func NewOnlinePaymentHandler(service *services.OnlinePaymentService) *OnlinePaymentHandler {
	return &OnlinePaymentHandler{Service: service}
}

// Status tells the frontend whether online collection is switched on and
// what convenience fee applies.
func (h *OnlinePaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	enabled := h.Service.IsEnabled(r.Context())
	resp := map[string]any{
		"success": true,
		"enabled": enabled,
	}
	if enabled {
		resp["fee_percent"] = h.Service.GetFeePercent(r.Context())
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *OnlinePaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.Service.IsEnabled(r.Context()) {
		utils.Message(w, http.StatusServiceUnavailable, "Online payments are disabled")
		return
	}
	var req models.CreateOnlineOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

func (h *OnlinePaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOnlinePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.Service.VerifyPayment(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Payment verified",
		"transaction": tx,
	})
}

// Webhook receives gateway callbacks. The signature check covers the raw
// body, so it is read before decoding.
func (h *OnlinePaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "Unable to read request body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Service.VerifyWebhookSignature(r.Context(), body, signature) {
		utils.Message(w, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	var event struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if err := h.Service.ProcessWebhook(r.Context(), event.Event, event.Payload); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Webhook processed")
}

func (h *OnlinePaymentHandler) ListByAdmission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid admission ID")
		return
	}
	txs, err := h.Service.ListByAdmission(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "transactions": txs})
}
