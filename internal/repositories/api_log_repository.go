package repositories

import (
	"context"
	"fmt"

	"admission-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type APILogRepository struct {
	DB *pgxpool.Pool
}

func NewAPILogRepository(db *pgxpool.Pool) *APILogRepository {
	return &APILogRepository{DB: db}
}

func (r *APILogRepository) InsertAPILog(ctx context.Context, l *models.APIRequestLog) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO api_request_logs (time, method, path, status_code, duration_ms,
			request_size, response_size, user_id, user_email, user_role,
			ip_address, user_agent, error_message)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		l.Time, l.Method, l.Path, l.StatusCode, l.DurationMs,
		l.RequestSize, l.ResponseSize, l.UserID, l.UserEmail, l.UserRole,
		l.IPAddress, l.UserAgent, l.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to write api log: %w", err)
	}
	return nil
}
