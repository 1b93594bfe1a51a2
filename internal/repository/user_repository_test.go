package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/auth-service/internal/model"
)

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestUserCreateAssignsID(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "a@x.com", sqlmock.AnyArg(), "Ada", "Lovelace", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := model.User{Email: "a@x.com", Password: "$2a$04$hash", FirstName: "Ada", LastName: "Lovelace"}
	if err := repo.Create(context.Background(), &u); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'users.email'"))

	u := model.User{Email: "a@x.com", Password: "$2a$04$hash"}
	if err := repo.Create(context.Background(), &u); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserGetByEmailMissing(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByEmail(context.Background(), "ghost@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
