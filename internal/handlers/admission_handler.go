package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/apperrors"
	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

type AdmissionHandler struct {
	Service       *services.AdmissionService
	Payments      *services.PaymentService
	AgentPayments *services.AgentPaymentService
}

func NewAdmissionHandler(service *services.AdmissionService, payments *services.PaymentService, agentPayments *services.AgentPaymentService) *AdmissionHandler {
	return &AdmissionHandler{Service: service, Payments: payments, AgentPayments: agentPayments}
}

func (h *AdmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	a, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, a)
}

// isStaff reports whether the requester holds the staff role. Staff never
// see or edit the consultancy's service-charge margin.
func isStaff(r *http.Request) bool {
	role, _ := middleware.GetRoleFromContext(r.Context())
	return role == models.RoleStaff
}

func redactForStaff(a *models.Admission) *models.Admission {
	redacted := *a
	redacted.ServiceCharge = models.ServiceCharge{}
	return &redacted
}

func (h *AdmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid admission ID")
		return
	}
	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if isStaff(r) {
		a = redactForStaff(a)
	}
	utils.JSON(w, http.StatusOK, a)
}

func (h *AdmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	f := &models.AdmissionFilter{
		Search:       r.URL.Query().Get("search"),
		BranchID:     queryInt(r, "branch_id"),
		CollegeID:    queryInt(r, "college_id"),
		CourseID:     queryInt(r, "course_id"),
		Status:       r.URL.Query().Get("status"),
		AcademicYear: r.URL.Query().Get("academic_year"),
		StartDate:    queryDate(r, "start_date"),
		EndDate:      queryDate(r, "end_date"),
		Page:         queryInt(r, "page"),
		Limit:        queryInt(r, "limit"),
	}
	// Staff only see their own branch
	if branchID, ok := middleware.StaffBranchScope(r.Context()); ok {
		f.BranchID = branchID
	}

	admissions, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if isStaff(r) {
		for i, a := range admissions {
			admissions[i] = redactForStaff(a)
		}
	}
	utils.List(w, "admissions", admissions, total, f.Page, f.Limit)
}

func (h *AdmissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid admission ID")
		return
	}
	var req models.UpdateAdmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if isStaff(r) && req.ServiceCharge != nil {
		utils.Error(w, apperrors.Forbidden("staff cannot modify service charges"))
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	a, err := h.Service.Update(r.Context(), id, &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}

func (h *AdmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid admission ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Admission deleted")
}

// Details returns the admission with its full payment history attached,
// the screen the front office works from.
func (h *AdmissionHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid admission ID")
		return
	}
	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	payments, _, err := h.Payments.List(r.Context(), &models.PaymentFilter{AdmissionID: id})
	if err != nil {
		utils.Error(w, err)
		return
	}
	agentPayments, _, err := h.AgentPayments.List(r.Context(), &models.AgentPaymentFilter{AdmissionID: id})
	if err != nil {
		utils.Error(w, err)
		return
	}
	if isStaff(r) {
		a = redactForStaff(a)
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"admission":      a,
		"payments":       payments,
		"agent_payments": agentPayments,
	})
}

// Recompute forces a summary rebuild from payment history, for repairing
// drifted admissions.
func (h *AdmissionHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid admission ID")
		return
	}
	if err := h.Service.Recompute(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	a, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}
