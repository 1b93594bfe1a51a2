package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/auth-service/internal/access"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/router"
	"github.com/iliyamo/auth-service/internal/token"
)

// newStack builds the full handler stack over sqlmock and miniredis, wired
// through the real router so tests exercise the same paths as production.
func newStack(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, *token.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens := token.NewEngine(token.NewStore(rdb), "access-secret", "refresh-secret",
		15*time.Minute, 7*24*time.Hour)
	acl := access.NewEngine(
		repository.NewUserRepo(db),
		repository.NewRoleRepo(db),
		repository.NewHistoryRepo(db),
		bcrypt.MinCost,
	)

	e := echo.New()
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	router.RegisterAuth(e, handler.NewAuthHandler(acl, tokens), passthrough)
	router.RegisterUsers(e, handler.NewUserHandler(acl), tokens)
	router.RegisterRoles(e, handler.NewRoleHandler(acl), tokens)
	return e, mock, tokens
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignupCreatedThenDuplicate(t *testing.T) {
	e, mock, _ := newStack(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec := postJSON(e, "/auth/signup",
		`{"email":"a@x.com","password":"Passw0rd1","first_name":"Ada","last_name":"Lovelace"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if _, ok := resp["password"]; ok {
		t.Fatal("response must not echo the password")
	}

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com'"))
	rec = postJSON(e, "/auth/signup",
		`{"email":"a@x.com","password":"Passw0rd1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for duplicate email, got %d", rec.Code)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	e, mock, _ := newStack(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd1"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "password", "first_name", "last_name", "disabled", "created_at"}).
			AddRow("u1", "a@x.com", string(hash), "Ada", "Lovelace", false, time.Now()))
	mock.ExpectExec("INSERT INTO logins_history").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := postForm(e, "/auth/login", url.Values{"username": {"a@x.com"}, "password": {"Passw0rd1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var pair token.Pair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.TokenType != "bearer" {
		t.Fatalf("incomplete pair: %+v", pair)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e, mock, _ := newStack(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd1"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT id,email,password").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "password", "first_name", "last_name", "disabled", "created_at"}).
			AddRow("u1", "a@x.com", string(hash), "Ada", "Lovelace", false, time.Now()))

	rec := postForm(e, "/auth/login", url.Values{"username": {"a@x.com"}, "password": {"nope"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRefreshRotatesExactlyOnce(t *testing.T) {
	e, _, tokens := newStack(t)

	pair, err := tokens.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := postJSON(e, "/auth/refresh", `{"token":"`+pair.RefreshToken+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = postJSON(e, "/auth/refresh", `{"token":"`+pair.RefreshToken+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on reuse, got %d", rec.Code)
	}
}

func TestLogoutDeniesAccessToken(t *testing.T) {
	e, _, tokens := newStack(t)

	pair, err := tokens.Issue(context.Background(), "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	if _, err := tokens.VerifyAccess(context.Background(), pair.AccessToken); !errors.Is(err, token.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestUserRoutesRejectOtherUsers(t *testing.T) {
	e, _, tokens := newStack(t)

	pair, err := tokens.Issue(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/user-b/roles", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	e, _, _ := newStack(t)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
