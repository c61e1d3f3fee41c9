package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

type CashbookHandler struct {
	Service *services.CashbookService
}

func NewCashbookHandler(service *services.CashbookService) *CashbookHandler {
	return &CashbookHandler{Service: service}
}

func (h *CashbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCashbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	e, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, e)
}

func (h *CashbookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid cashbook entry ID")
		return
	}
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func cashbookFilter(r *http.Request) *models.CashbookFilter {
	f := &models.CashbookFilter{
		BranchID:  queryInt(r, "branch_id"),
		Category:  r.URL.Query().Get("category"),
		StartDate: queryDate(r, "start_date"),
		EndDate:   queryDate(r, "end_date"),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
	}
	if branchID, ok := middleware.StaffBranchScope(r.Context()); ok {
		f.BranchID = branchID
	}
	return f
}

func (h *CashbookHandler) List(w http.ResponseWriter, r *http.Request) {
	f := cashbookFilter(r)
	entries, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, "entries", entries, total, f.Page, f.Limit)
}

func (h *CashbookHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), cashbookFilter(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *CashbookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid cashbook entry ID")
		return
	}
	var req models.UpdateCashbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	e, err := h.Service.Update(r.Context(), id, &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func (h *CashbookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid cashbook entry ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Cashbook entry deleted")
}

// ClearAll soft-deletes every entry for a branch. Admin only.
func (h *CashbookHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	branchID := queryInt(r, "branch_id")
	if branchID == 0 {
		utils.Message(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	n, err := h.Service.ClearAll(r.Context(), branchID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cashbook cleared",
		"deleted": n,
	})
}

// RebuildBalances restamps a branch's running balances in ledger order.
// Admin only.
func (h *CashbookHandler) RebuildBalances(w http.ResponseWriter, r *http.Request) {
	branchID := queryInt(r, "branch_id")
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	n, err := h.Service.RebuildBalances(r.Context(), branchID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cashbook balances rebuilt",
		"updated": n,
	})
}

// HardClearAll permanently wipes the branch ledger. Super admin only.
func (h *CashbookHandler) HardClearAll(w http.ResponseWriter, r *http.Request) {
	branchID := queryInt(r, "branch_id")
	if branchID == 0 {
		utils.Message(w, http.StatusBadRequest, "branch_id is required")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	n, err := h.Service.HardClearAll(r.Context(), branchID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cashbook permanently cleared",
		"deleted": n,
	})
}
