package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/auth-service/internal/model"
)

// UserRepo persists rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user record. The caller supplies the bcrypt hash in
// u.Password; this layer never sees plain text. The generated UUID is
// written back into u.ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password, first_name, last_name, disabled) VALUES (?,?,?,?,?,?)",
		u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.Disabled)
	if err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by email. Returns ErrNotFound when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.get(ctx,
		"SELECT id,email,password,first_name,last_name,disabled,created_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id. Returns ErrNotFound when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.get(ctx,
		"SELECT id,email,password,first_name,last_name,disabled,created_at FROM users WHERE id=? LIMIT 1",
		id)
}

// UpdateCredentials rewrites email and password hash for a user.
func (r *UserRepo) UpdateCredentials(ctx context.Context, id, email, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=?, password=? WHERE id=?",
		email, passwordHash, id)
	if err != nil && isDuplicate(err) {
		return ErrUserExists
	}
	return err
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Disabled, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
