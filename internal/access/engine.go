package access

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/utils"
)

// Engine bundles the repositories behind user and role operations.  All
// dependencies are injected; the engine holds no global state and is safe
// for concurrent use because the stores provide their own atomicity.
type Engine struct {
	users      *repository.UserRepo
	roles      *repository.RoleRepo
	history    *repository.HistoryRepo
	bcryptCost int
}

func NewEngine(users *repository.UserRepo, roles *repository.RoleRepo, history *repository.HistoryRepo, bcryptCost int) *Engine {
	return &Engine{users: users, roles: roles, history: history, bcryptCost: bcryptCost}
}

// Signup registers a new account.  The password is hashed before it ever
// reaches the repository.  A colliding email yields repository.ErrUserExists.
func (e *Engine) Signup(ctx context.Context, email, password, firstName, lastName string) (model.User, error) {
	hash, err := utils.HashPassword(password, e.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := e.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate verifies email and password and appends a login history row.
// Unknown email, wrong password and a disabled account all return
// ErrWrongCredentials.  This is the only path that should lead to token
// issuance; the history write happens before the caller ever sees the user.
func (e *Engine) Authenticate(ctx context.Context, email, password, source string) (model.User, error) {
	u, err := e.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrWrongCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.Password, password) {
		return model.User{}, ErrWrongCredentials
	}
	if u.Disabled {
		return model.User{}, ErrWrongCredentials
	}
	h := model.LoginHistory{UserID: u.ID, Source: source, LoginTime: time.Now().UTC()}
	if err := e.history.Append(ctx, &h); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpdateCredentials re-authenticates with the old email/password before
// rewriting both.  No history row is appended; this is not a login.
func (e *Engine) UpdateCredentials(ctx context.Context, email, password, newEmail, newPassword string) (model.User, error) {
	u, err := e.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrWrongCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.Password, password) {
		return model.User{}, ErrWrongCredentials
	}
	hash, err := utils.HashPassword(newPassword, e.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	if err := e.users.UpdateCredentials(ctx, u.ID, newEmail, hash); err != nil {
		return model.User{}, err
	}
	u.Email = newEmail
	u.Password = hash
	return u, nil
}

// AuthorizeSelf enforces the ownership rule of the user-facing endpoints:
// the caller may only touch their own roles and history.
func (e *Engine) AuthorizeSelf(callerID, targetID string) error {
	if callerID != targetID {
		return ErrPermissionDenied
	}
	return nil
}

// ResolveRole returns the user's current role, or nil when unassigned.
// Absence of an assignment is a normal state, not an error.
func (e *Engine) ResolveRole(ctx context.Context, userID string) (*model.Role, error) {
	ro, err := e.roles.RoleOfUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

// GrantRole assigns a role to a user, overwriting any prior assignment in
// place.  The role must exist; repository.ErrRoleNotFound otherwise.
func (e *Engine) GrantRole(ctx context.Context, userID, roleID string) error {
	if _, err := e.roles.GetByID(ctx, roleID); err != nil {
		return err
	}
	return e.roles.Assign(ctx, userID, roleID)
}

// RevokeRole clears the user's assignment.  Revoking when nothing is
// assigned succeeds and leaves no assignment.
func (e *Engine) RevokeRole(ctx context.Context, userID string) error {
	return e.roles.Unassign(ctx, userID)
}

// CreateRole adds a role with the given title and permission mask.
func (e *Engine) CreateRole(ctx context.Context, title string, permissions model.Permission) (model.Role, error) {
	ro := model.Role{Title: title, Permissions: permissions}
	if err := e.roles.Create(ctx, &ro); err != nil {
		return model.Role{}, err
	}
	return ro, nil
}

// UpdateRole rewrites title and permissions of an existing role.
func (e *Engine) UpdateRole(ctx context.Context, roleID, title string, permissions model.Permission) (model.Role, error) {
	return e.roles.Update(ctx, roleID, title, permissions)
}

// DeleteRole removes a role.  Assignments still pointing at it are
// cascade-cleared by the schema, so affected users simply become unassigned.
func (e *Engine) DeleteRole(ctx context.Context, roleID string) error {
	return e.roles.Delete(ctx, roleID)
}

// ListRoles returns every role.
func (e *Engine) ListRoles(ctx context.Context) ([]model.Role, error) {
	return e.roles.List(ctx)
}

// History returns one page of the user's login records, oldest first.
func (e *Engine) History(ctx context.Context, userID string, page, size int) ([]model.LoginHistory, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return e.history.ListByUser(ctx, userID, size, (page-1)*size)
}
