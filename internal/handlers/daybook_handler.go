package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

type DaybookHandler struct {
	Service *services.DaybookService
}

func NewDaybookHandler(service *services.DaybookService) *DaybookHandler {
	return &DaybookHandler{Service: service}
}

func (h *DaybookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDaybookRequest
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

func (h *DaybookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid daybook entry ID")
		return
	}
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func daybookFilter(r *http.Request) *models.DaybookFilter {
	f := &models.DaybookFilter{
		BranchID:  queryInt(r, "branch_id"),
		Category:  r.URL.Query().Get("category"),
		Type:      models.DaybookType(r.URL.Query().Get("type")),
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

func (h *DaybookHandler) List(w http.ResponseWriter, r *http.Request) {
	f := daybookFilter(r)
	entries, total, err := h.Service.List(r.Context(), f)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, "entries", entries, total, f.Page, f.Limit)
}

func (h *DaybookHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), daybookFilter(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *DaybookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid daybook entry ID")
		return
	}
	var req models.UpdateDaybookRequest
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

func (h *DaybookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid daybook entry ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Daybook entry deleted")
}
