package utils

import (
	"encoding/json"
	"net/http"

	"admission-backend/internal/apperrors"
)

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Message writes a {success, message} envelope.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]interface{}{
		"success": status < 400,
		"message": message,
	})
}

// Error maps service errors onto HTTP responses. Known kinds keep their
// message and field errors; anything else becomes an opaque 500.
func Error(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.As(err); ok {
		body := map[string]interface{}{
			"success": false,
			"message": appErr.Message,
		}
		if len(appErr.FieldErrors) > 0 {
			body["fieldErrors"] = appErr.FieldErrors
		}
		JSON(w, appErr.HTTPStatus(), body)
		return
	}
	JSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"message": "Internal server error",
	})
}

// List writes a paginated collection under a named key.
func List(w http.ResponseWriter, key string, items interface{}, total, page, limit int) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		key:       items,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
