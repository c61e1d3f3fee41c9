package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

// MasterDataHandler serves the reference entities admissions hang off of.
type MasterDataHandler struct {
	Service *services.MasterDataService
}

func NewMasterDataHandler(service *services.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{Service: service}
}

// Branches

func (h *MasterDataHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var b models.Branch
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.CreateBranch(r.Context(), &b, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, b)
}

func (h *MasterDataHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid branch ID")
		return
	}
	b, err := h.Service.GetBranch(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

func (h *MasterDataHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Service.ListBranches(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "branches": branches})
}

func (h *MasterDataHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid branch ID")
		return
	}
	var b models.Branch
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	updated, err := h.Service.UpdateBranch(r.Context(), id, &b, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

func (h *MasterDataHandler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid branch ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.DeleteBranch(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Branch deleted")
}

// Colleges

func (h *MasterDataHandler) CreateCollege(w http.ResponseWriter, r *http.Request) {
	var c models.College
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.CreateCollege(r.Context(), &c, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *MasterDataHandler) GetCollege(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid college ID")
		return
	}
	c, err := h.Service.GetCollege(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *MasterDataHandler) ListColleges(w http.ResponseWriter, r *http.Request) {
	colleges, err := h.Service.ListColleges(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "colleges": colleges})
}

func (h *MasterDataHandler) UpdateCollege(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid college ID")
		return
	}
	var c models.College
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	updated, err := h.Service.UpdateCollege(r.Context(), id, &c, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

func (h *MasterDataHandler) DeleteCollege(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid college ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.DeleteCollege(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "College deleted")
}

// Courses

func (h *MasterDataHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var c models.Course
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.CreateCourse(r.Context(), &c, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *MasterDataHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid course ID")
		return
	}
	c, err := h.Service.GetCourse(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *MasterDataHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Service.ListCourses(r.Context(), queryInt(r, "college_id"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "courses": courses})
}

func (h *MasterDataHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid course ID")
		return
	}
	var c models.Course
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	updated, err := h.Service.UpdateCourse(r.Context(), id, &c, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

func (h *MasterDataHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid course ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.DeleteCourse(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Course deleted")
}

// Agents

func (h *MasterDataHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var a models.Agent
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.CreateAgent(r.Context(), &a, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, a)
}

func (h *MasterDataHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}
	a, err := h.Service.GetAgent(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, a)
}

func (h *MasterDataHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Service.ListAgents(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "agents": agents})
}

func (h *MasterDataHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}
	var a models.Agent
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	updated, err := h.Service.UpdateAgent(r.Context(), id, &a, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

func (h *MasterDataHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid agent ID")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.DeleteAgent(r.Context(), id, userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Agent deleted")
}
