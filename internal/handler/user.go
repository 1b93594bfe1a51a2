package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/access"
	"github.com/iliyamo/auth-service/internal/repository"
)

// UserHandler exposes the self-service endpoints: credentials update, role
// assignment and login history.  Every /users/:id route checks that the
// token subject equals :id before touching anything.
type UserHandler struct {
	Access *access.Engine
}

func NewUserHandler(a *access.Engine) *UserHandler { return &UserHandler{Access: a} }

type updateCredentialsReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NewEmail    string `json:"new_email"`
	NewPassword string `json:"new_password"`
}

type assignRoleReq struct {
	RoleID string `json:"role_id"`
}

type historyResp struct {
	UserID    string    `json:"user_id"`
	Source    string    `json:"source"`
	LoginTime time.Time `json:"login_time"`
}

// callerID reads the subject stored by the JWT middleware.
func callerID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}

// authorizeOwner aborts with 403 unless the token subject equals the :id
// path parameter.
func (h *UserHandler) authorizeOwner(c echo.Context) (string, error) {
	target := c.Param("id")
	if err := h.Access.AuthorizeSelf(callerID(c), target); err != nil {
		return "", c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}
	return target, nil
}

// UpdateCredentials re-authenticates with the old email/password before
// rewriting both.  Wrong old credentials answer 401.
func (h *UserHandler) UpdateCredentials(c echo.Context) error {
	var req updateCredentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.NewEmail = strings.TrimSpace(req.NewEmail)
	if req.Email == "" || req.Password == "" || req.NewEmail == "" || len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password, new_email and new_password (min 8 chars) required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Access.UpdateCredentials(ctx, req.Email, req.Password, req.NewEmail, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrWrongCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect username or password"})
		case errors.Is(err, repository.ErrUserExists):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user with this email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update credentials failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// GetRole returns the user's current role, or null when unassigned.
func (h *UserHandler) GetRole(c echo.Context) error {
	target, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Access.ResolveRole(ctx, target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve role failed"})
	}
	if role == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, toRoleResp(*role))
}

// AssignRole grants the user a role, replacing any prior assignment.
func (h *UserHandler) AssignRole(c echo.Context) error {
	target, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}
	var req assignRoleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RoleID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Access.GrantRole(ctx, target, strings.TrimSpace(req.RoleID)); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign role failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveRole clears the user's assignment; removing nothing is still 204.
func (h *UserHandler) RemoveRole(c echo.Context) error {
	target, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Access.RevokeRole(ctx, target); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove role failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AuthHistory returns a page of the user's login records, oldest first.
// Query parameters: page (1-based) and size.
func (h *UserHandler) AuthHistory(c echo.Context) error {
	target, err := h.authorizeOwner(c)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Access.History(ctx, target, page, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load history failed"})
	}
	out := make([]historyResp, 0, len(items))
	for _, it := range items {
		out = append(out, historyResp{UserID: it.UserID, Source: it.Source, LoginTime: it.LoginTime})
	}
	return c.JSON(http.StatusOK, out)
}
