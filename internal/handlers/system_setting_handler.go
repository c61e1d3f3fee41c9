package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/repositories"
	"admission-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// SystemSettingHandler exposes the key/value runtime configuration.
// Admin only at the routing layer.
type SystemSettingHandler struct {
	Settings *repositories.SystemSettingRepository
}

func NewSystemSettingHandler(settings *repositories.SystemSettingRepository) *SystemSettingHandler {
	return &SystemSettingHandler{Settings: settings}
}

func (h *SystemSettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	setting, err := h.Settings.Get(r.Context(), key)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, setting)
}

func (h *SystemSettingHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "settings": settings})
}

func (h *SystemSettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	var req models.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Settings.Upsert(r.Context(), key, req.SettingValue, "", userID); err != nil {
		utils.Error(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Setting updated")
}
