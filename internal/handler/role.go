package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/permission"
	"github.com/fly24/backoffice/internal/repository"
)

// RoleHandler serves the role editor. Routes are fenced to Admin by the
// router; the repository additionally refuses edits to the Admin role.
type RoleHandler struct {
	Roles *repository.RoleRepo
	Cache *permission.DefinitionCache
}

func NewRoleHandler(r *repository.RoleRepo, cache *permission.DefinitionCache) *RoleHandler {
	return &RoleHandler{Roles: r, Cache: cache}
}

// List returns every role definition with its permission document.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	defs, err := h.Cache.ListDefinitions(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load roles failed"})
	}
	if defs == nil {
		defs = []model.RoleDefinition{}
	}
	return c.JSON(http.StatusOK, echo.Map{"roles": defs})
}

// Update replaces a role's permission document and drops the cached
// definitions so the next load cycle sees the change.
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
	}

	var perms model.PermissionSet
	if err := c.Bind(&perms); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	def, err := h.Roles.UpdateDefinition(ctx, id, perms)
	if err != nil {
		return writeStoreErr(c, err)
	}
	h.Cache.Invalidate(ctx)
	return c.JSON(http.StatusOK, def)
}
