package handler

import (
	"context"  // context with cancellation for store calls
	"errors"   // sentinel comparisons
	"net/http" // HTTP status codes and primitives
	"strings"  // string trimming
	"time"     // timeouts for store calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/auth-service/internal/access"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	queue_publisher "github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/token"
)

// AuthHandler bundles the two engines behind the /auth endpoints.
type AuthHandler struct {
	Access *access.Engine
	Tokens *token.Engine
}

func NewAuthHandler(a *access.Engine, t *token.Engine) *AuthHandler {
	return &AuthHandler{Access: a, Tokens: t}
}

// ----- DTOs -----

type signupReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
type tokenReq struct {
	Token string `json:"token"`
}

type userResp struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Disabled  bool   `json:"disabled"`
}

func toUserResp(u model.User) userResp {
	return userResp{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Disabled: u.Disabled}
}

// Signup creates a new account and returns the record without any token.
// A duplicate email answers 401 for wire compatibility with the original
// service, not the usual 409.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password (min 8 chars) required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Access.Signup(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user with this email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Login verifies form credentials (username holds the email) and returns a
// fresh token pair.  A history row is appended and a login event published
// on success.
func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	source := c.Request().UserAgent()
	u, err := h.Access.Authenticate(ctx, email, password, source)
	if err != nil {
		if errors.Is(err, access.ErrWrongCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	pair, err := h.Tokens.Issue(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	// Best-effort event publish; a broker outage must not fail the login.
	_ = queue_publisher.PublishLogin(ctx, queue.LoginEvent{
		UserID:  u.ID,
		Email:   u.Email,
		Source:  source,
		LoginAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, pair)
}

// Logout puts the presented access token on the deny-list for the rest of
// its natural lifetime.  The token comes from the Authorization header, the
// `token` query parameter or the JSON body.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := middleware.BearerToken(c)
	if raw == "" {
		var req tokenReq
		_ = c.Bind(&req)
		raw = strings.TrimSpace(req.Token)
	}
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The token must still verify before it can be revoked; revoking a
	// tampered or already denied token is rejected like any other use.
	if _, err := h.Tokens.VerifyAccess(ctx, raw); err != nil {
		switch err {
		case token.ErrUnauthenticated, token.ErrTokenExpired:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	if err := h.Tokens.RevokeAccess(ctx, raw); err != nil {
		if errors.Is(err, token.ErrCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "logged out"})
}

// Refresh redeems a refresh token for a new pair.  Whether the token had a
// bad signature, was already consumed, revoked or expired, the client is told the same
// thing: log in again.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Tokens.Rotate(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		if errors.Is(err, token.ErrMustRelogin) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "credentials expired, please login again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	return c.JSON(http.StatusOK, pair)
}
