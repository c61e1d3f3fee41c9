package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: service}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	p, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	f := &models.PaymentFilter{
		AdmissionID:    queryInt(r, "admission_id"),
		BranchID:       queryInt(r, "branch_id"),
		PayerType:      models.PayerType(r.URL.Query().Get("payer_type")),
		ReceiverType:   models.ReceiverType(r.URL.Query().Get("receiver_type")),
		PaymentMode:    models.PaymentMode(r.URL.Query().Get("payment_mode")),
		TransactionRef: r.URL.Query().Get("transaction_ref"),
		Search:         r.URL.Query().Get("search"),
		StartDate:      queryDate(r, "start_date"),
		EndDate:        queryDate(r, "end_date"),
		Page:           queryInt(r, "page"),
		Limit:          queryInt(r, "limit"),
	}
	if branchID, ok := middleware.StaffBranchScope(r.Context()); ok {
		f.BranchID = branchID
	}

	payments, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, "payments", payments, total, f.Page, f.Limit)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	var req models.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	p, err := h.Service.Update(r.Context(), id, &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Payment deleted")
}

// CheckTransactionRef pre-warns the client about a duplicate reference
// before they submit the payment form.
func (h *PaymentHandler) CheckTransactionRef(w http.ResponseWriter, r *http.Request) {
	check, err := h.Service.CheckTransactionRef(r.Context(), r.URL.Query().Get("ref"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, check)
}
