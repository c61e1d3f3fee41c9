package models

import "time"

// APIRequestLog is one row of the async request log.
type APIRequestLog struct {
	Time         time.Time `json:"time"`
	Method       string    `json:"method"`
	Path         string    `json:"path"`
	StatusCode   int       `json:"status_code"`
	DurationMs   float64   `json:"duration_ms"`
	RequestSize  int       `json:"request_size"`
	ResponseSize int       `json:"response_size"`
	UserID       *int      `json:"user_id,omitempty"`
	UserEmail    *string   `json:"user_email,omitempty"`
	UserRole     *string   `json:"user_role,omitempty"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}
