package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

type AgentPaymentHandler struct {
	Service *services.AgentPaymentService
}

func NewAgentPaymentHandler(service *services.AgentPaymentService) *AgentPaymentHandler {
	return &AgentPaymentHandler{Service: service}
}

func (h *AgentPaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAgentPaymentRequest
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

func (h *AgentPaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid agent payment ID")
		return
	}
	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

func (h *AgentPaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	f := &models.AgentPaymentFilter{
		AdmissionID: queryInt(r, "admission_id"),
		AgentID:     queryInt(r, "agent_id"),
		BranchID:    queryInt(r, "branch_id"),
		PaymentMode: models.PaymentMode(r.URL.Query().Get("payment_mode")),
		StartDate:   queryDate(r, "start_date"),
		EndDate:     queryDate(r, "end_date"),
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
	}
	if branchID, ok := middleware.StaffBranchScope(r.Context()); ok {
		f.BranchID = branchID
	}

	payments, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, "agent_payments", payments, total, f.Page, f.Limit)
}

func (h *AgentPaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid agent payment ID")
		return
	}
	var req models.UpdateAgentPaymentRequest
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

func (h *AgentPaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid agent payment ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Agent payment deleted")
}
