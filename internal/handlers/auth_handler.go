package handlers

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/middleware"
	"admission-backend/internal/models"
	"admission-backend/internal/services"
	"admission-backend/pkg/utils"
)

type AuthHandler struct {
	Users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Users.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   resp.Token,
		"user":    resp.User,
	})
}

// Me returns the authenticated user as the middleware resolved it.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Message(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
