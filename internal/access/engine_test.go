package access

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/auth-service/internal/repository"
)

func newTestEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	e := NewEngine(
		repository.NewUserRepo(db),
		repository.NewRoleRepo(db),
		repository.NewHistoryRepo(db),
		bcrypt.MinCost,
	)
	return e, mock
}

var userColumns = []string{"id", "email", "password", "first_name", "last_name", "disabled", "created_at"}

func userRow(t *testing.T, id, email, password string, disabled bool) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return sqlmock.NewRows(userColumns).
		AddRow(id, email, string(hash), "Ada", "Lovelace", disabled, time.Now())
}

func TestAuthenticateSuccessAppendsHistory(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("a@x.com").
		WillReturnRows(userRow(t, "u1", "a@x.com", "Passw0rd1", false))
	mock.ExpectExec("INSERT INTO logins_history").
		WithArgs(sqlmock.AnyArg(), "u1", "cli", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := e.Authenticate(context.Background(), "a@x.com", "Passw0rd1", "cli")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("expected user u1, got %q", u.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("history row not written: %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("a@x.com").
		WillReturnRows(userRow(t, "u1", "a@x.com", "Passw0rd1", false))

	if _, err := e.Authenticate(context.Background(), "a@x.com", "wrong", "cli"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	if _, err := e.Authenticate(context.Background(), "ghost@x.com", "whatever", "cli"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials, got %v", err)
	}
}

func TestAuthenticateDisabledUserFailsDespiteCorrectPassword(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("a@x.com").
		WillReturnRows(userRow(t, "u1", "a@x.com", "Passw0rd1", true))

	if _, err := e.Authenticate(context.Background(), "a@x.com", "Passw0rd1", "cli"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials for disabled user, got %v", err)
	}
}

func TestAuthorizeSelf(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.AuthorizeSelf("u1", "u1"); err != nil {
		t.Fatalf("self access should pass: %v", err)
	}
	if err := e.AuthorizeSelf("u1", "u2"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestGrantRoleUnknownRole(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT id,title,permissions").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	if err := e.GrantRole(context.Background(), "u1", "nope"); !errors.Is(err, repository.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestResolveRoleUnassignedIsNil(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT r.id, r.title, r.permissions").
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	role, err := e.ResolveRole(context.Background(), "u1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if role != nil {
		t.Fatalf("expected nil role, got %+v", role)
	}
}

func TestUpdateCredentialsReauthenticates(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("a@x.com").
		WillReturnRows(userRow(t, "u1", "a@x.com", "Passw0rd1", false))
	mock.ExpectExec("UPDATE users SET email").
		WithArgs("b@x.com", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := e.UpdateCredentials(context.Background(), "a@x.com", "Passw0rd1", "b@x.com", "NewPassw0rd1")
	if err != nil {
		t.Fatalf("update credentials failed: %v", err)
	}
	if u.Email != "b@x.com" {
		t.Fatalf("expected new email, got %q", u.Email)
	}
}

func TestUpdateCredentialsWrongOldPassword(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("a@x.com").
		WillReturnRows(userRow(t, "u1", "a@x.com", "Passw0rd1", false))

	if _, err := e.UpdateCredentials(context.Background(), "a@x.com", "wrong", "b@x.com", "NewPassw0rd1"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials, got %v", err)
	}
}
