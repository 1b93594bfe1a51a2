package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/auth-service/internal/model"
)

// HistoryRepo appends and reads rows of the append-only 'logins_history'
// table. Rows are never updated or deleted here; cleanup, if any, is an
// operational concern.
type HistoryRepo struct{ DB *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{DB: db} }

// Append records one successful login.
func (r *HistoryRepo) Append(ctx context.Context, h *model.LoginHistory) error {
	h.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO logins_history (id, user_id, source, login_time) VALUES (?,?,?,?)",
		h.ID, h.UserID, h.Source, h.LoginTime)
	return err
}

// ListByUser returns a page of login records in chronological order.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.LoginHistory, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, source, login_time, created_at
		 FROM logins_history WHERE user_id=?
		 ORDER BY created_at LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LoginHistory
	for rows.Next() {
		var h model.LoginHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Source, &h.LoginTime, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
