package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/access"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
)

// RoleHandler exposes role CRUD.  Every route sits behind the JWT
// middleware; any authenticated user may manage roles in this design.
type RoleHandler struct {
	Access *access.Engine
}

func NewRoleHandler(a *access.Engine) *RoleHandler { return &RoleHandler{Access: a} }

type roleReq struct {
	Title       string `json:"title"`
	Permissions int    `json:"permissions"`
}

type roleResp struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Permissions int    `json:"permissions"`
}

func toRoleResp(r model.Role) roleResp {
	return roleResp{ID: r.ID, Title: r.Title, Permissions: int(r.Permissions)}
}

// List returns every role.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	roles, err := h.Access.ListRoles(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list roles failed"})
	}
	out := make([]roleResp, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a role; a duplicate title answers 409.
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Access.CreateRole(ctx, strings.TrimSpace(req.Title), model.Permission(req.Permissions))
	if err != nil {
		if errors.Is(err, repository.ErrRoleExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "role already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create role failed"})
	}
	return c.JSON(http.StatusCreated, toRoleResp(r))
}

// Update rewrites a role; an unknown id answers 404.
func (h *RoleHandler) Update(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Access.UpdateRole(ctx, c.Param("id"), strings.TrimSpace(req.Title), model.Permission(req.Permissions))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		case errors.Is(err, repository.ErrRoleExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "role already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	return c.JSON(http.StatusOK, toRoleResp(r))
}

// Delete removes a role; assignments pointing at it are cascade-cleared.
func (h *RoleHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Access.DeleteRole(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete role failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
