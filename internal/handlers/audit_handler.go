package handlers

import (
	"net/http"

	"admission-backend/internal/repositories"
	"admission-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// AuditHandler exposes the change history of a single record.
type AuditHandler struct {
	Logs *repositories.AuditLogRepository
}

func NewAuditHandler(logs *repositories.AuditLogRepository) *AuditHandler {
	return &AuditHandler{Logs: logs}
}

var auditableEntities = map[string]bool{
	"admission":      true,
	"payment":        true,
	"agent_payment":  true,
	"voucher":        true,
	"daybook_entry":  true,
	"cashbook_entry": true,
	"branch":         true,
	"college":        true,
	"course":         true,
	"agent":          true,
	"user":           true,
}

func (h *AuditHandler) History(w http.ResponseWriter, r *http.Request) {
	entityType := mux.Vars(r)["entity"]
	if !auditableEntities[entityType] {
		utils.Message(w, http.StatusBadRequest, "Unknown entity type")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		utils.Message(w, http.StatusBadRequest, "Invalid entity ID")
		return
	}
	limit := queryInt(r, "limit")
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	events, err := h.Logs.ListByEntity(r.Context(), entityType, id, limit)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "events": events})
}
