package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/handler"
	"github.com/fly24/backoffice/internal/middleware"
	"github.com/fly24/backoffice/internal/model"
)

// RegisterAdmin registers the role editor, fenced to the Admin role.
// The repository additionally refuses edits to the Admin role itself.
func RegisterAdmin(e *echo.Echo, r *handler.RoleHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/roles", r.List)
	g.PUT("/roles/:id", r.Update)
}
