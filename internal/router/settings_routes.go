package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/handler"
)

// RegisterSettings registers the settings surfaces. Fine-grained
// settings permissions are enforced in the store, so any authenticated
// role may reach these routes.
func RegisterSettings(e *echo.Echo, s *handler.SettingsHandler, jwtSecret string) {
	g := protected(e, jwtSecret)

	// ---- Airlines ----
	g.GET("/settings/airlines", s.ListAirlines)
	g.POST("/settings/airlines", s.CreateAirline)
	g.PUT("/settings/airlines/:id", s.UpdateAirline)
	g.DELETE("/settings/airlines/:id", s.DeleteAirline)

	// ---- Agencies ----
	g.GET("/settings/agencies", s.ListAgencies)
	g.POST("/settings/agencies", s.CreateAgency)
	g.PUT("/settings/agencies/:id", s.UpdateAgency)
	g.DELETE("/settings/agencies/:id", s.DeleteAgency)

	// ---- Pricing ----
	g.GET("/settings/pricing", s.GetPricing)
	g.PUT("/settings/pricing", s.PutPricing)

	// ---- Managed users ----
	g.GET("/settings/users", s.ListManagedUsers)
	g.POST("/settings/users", s.CreateManagedUser)
}
