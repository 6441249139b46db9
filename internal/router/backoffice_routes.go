package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/handler"
	"github.com/fly24/backoffice/internal/middleware"
)

// protected returns a /v1 group guarded by JWT auth.
func protected(e *echo.Echo, jwtSecret string) *echo.Group {
	return e.Group("/v1", middleware.JWTAuth(jwtSecret))
}

// RegisterBackOffice registers the flight, passenger, search, activity
// and document endpoints. cache is applied to the read-heavy list
// routes; pass nil to serve them uncached.
func RegisterBackOffice(
	e *echo.Echo,
	f *handler.FlightHandler,
	p *handler.PassengerHandler,
	s *handler.SearchHandler,
	act *handler.ActivityHandler,
	gen *handler.GenerateHandler,
	jwtSecret string,
	cache echo.MiddlewareFunc,
) {
	g := protected(e, jwtSecret)

	reads := []echo.MiddlewareFunc{}
	if cache != nil {
		reads = append(reads, cache)
	}

	// ---- Flights ----
	g.GET("/flights", f.List, reads...)
	g.GET("/flights/:id", f.Get)
	g.POST("/flights", f.Create)
	g.PUT("/flights/:id", f.Update)
	g.PATCH("/flights/:id", f.Update)
	g.DELETE("/flights/:id", f.Delete)

	// ---- Passengers ----
	g.PUT("/flights/:id/passengers", p.Upsert)
	g.DELETE("/flights/:id/passengers/:pid", p.Remove)

	// ---- Search ----
	g.GET("/search/flights", s.Flights, reads...)

	// ---- Activity ----
	g.GET("/activity", act.List, reads...)

	// ---- Documents ----
	g.POST("/flights/:id/documents", gen.Documents)
}
