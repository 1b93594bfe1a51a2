package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/auth-service/internal/model"
)

// RoleRepo persists rows of 'roles' and the one-per-user assignments in
// 'users_roles'.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// Create inserts a role. The generated UUID is written back into ro.ID.
func (r *RoleRepo) Create(ctx context.Context, ro *model.Role) error {
	ro.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO roles (id, title, permissions) VALUES (?,?,?)",
		ro.ID, ro.Title, int(ro.Permissions))
	if err != nil {
		if isDuplicate(err) {
			return ErrRoleExists
		}
		return err
	}
	return nil
}

// GetByID fetches a role. Returns ErrRoleNotFound when no row matches.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (model.Role, error) {
	var ro model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,permissions,created_at FROM roles WHERE id=? LIMIT 1",
		id).Scan(&ro.ID, &ro.Title, &ro.Permissions, &ro.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, ErrRoleNotFound
	}
	return ro, err
}

// List returns all roles ordered by creation time.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,permissions,created_at FROM roles ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var ro model.Role
		if err := rows.Scan(&ro.ID, &ro.Title, &ro.Permissions, &ro.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, ro)
	}
	return roles, rows.Err()
}

// Update rewrites title and permissions of an existing role. The role is
// read first so a missing id yields ErrRoleNotFound rather than a silent
// zero-row update.
func (r *RoleRepo) Update(ctx context.Context, id, title string, permissions model.Permission) (model.Role, error) {
	ro, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Role{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE roles SET title=?, permissions=? WHERE id=?",
		title, int(permissions), id)
	if err != nil {
		if isDuplicate(err) {
			return model.Role{}, ErrRoleExists
		}
		return model.Role{}, err
	}
	ro.Title = title
	ro.Permissions = permissions
	return ro, nil
}

// Delete removes a role. The ON DELETE CASCADE constraint on users_roles
// clears any assignment still pointing at it.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM roles WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// RoleOfUser resolves the single active assignment of a user to its role.
// Returns ErrNotFound when the user has no assignment.
func (r *RoleRepo) RoleOfUser(ctx context.Context, userID string) (model.Role, error) {
	var ro model.Role
	err := r.DB.QueryRowContext(ctx,
		`SELECT r.id, r.title, r.permissions, r.created_at
		 FROM roles r JOIN users_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id=? LIMIT 1`,
		userID).Scan(&ro.ID, &ro.Title, &ro.Permissions, &ro.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, ErrNotFound
	}
	return ro, err
}

// Assign gives userID the role roleID. An existing assignment is updated in
// place so that a user never holds two roles at once.
func (r *RoleRepo) Assign(ctx context.Context, userID, roleID string) error {
	var existing string
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users_roles WHERE user_id=? LIMIT 1", userID).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = r.DB.ExecContext(ctx,
			"INSERT INTO users_roles (id, user_id, role_id) VALUES (?,?,?)",
			uuid.NewString(), userID, roleID)
		return err
	case err != nil:
		return err
	default:
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users_roles SET role_id=? WHERE id=?", roleID, existing)
		return err
	}
}

// Unassign removes the assignment of a user. Removing a non-existent
// assignment is not an error.
func (r *RoleRepo) Unassign(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users_roles WHERE user_id=?", userID)
	return err
}
