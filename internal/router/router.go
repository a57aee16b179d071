package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/client-reservations/internal/handler"
	"github.com/iliyamo/client-reservations/internal/middleware"
	"github.com/iliyamo/client-reservations/internal/session"
)

// Deps bundles everything the route groups need.  RateLimit and Cache may
// be pass-through middlewares when Redis is unavailable.
type Deps struct {
	Store        *session.Store
	Secret       string
	Sessions     *handler.SessionHandler
	Reservations *handler.ReservationHandler
	Form         *handler.FormHandler
	RateLimit    echo.MiddlewareFunc
	Cache        echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require a session.
func RegisterRoutes(e *echo.Echo) {
	// Liveness check for load balancers.
	e.GET("/healthz", handler.Health)
}

// RegisterSession registers every /v1 route.  Opening a session is the
// only call that does not need a Bearer token.
func RegisterSession(e *echo.Echo, d Deps) {
	rl := orPass(d.RateLimit)
	e.POST("/v1/sessions", d.Sessions.Create, rl)

	g := e.Group("/v1", middleware.SessionAuth(d.Secret, d.Store), rl)
	g.DELETE("/sessions", d.Sessions.End)

	// ---- Reservations ----
	// The list is cached per session; every add or delete invalidates it.
	cache := orPass(d.Cache)
	g.GET("/reservations", d.Reservations.List, cache)
	g.GET("/reservations/rows", d.Reservations.Rows)
	g.GET("/reservations/:id", d.Reservations.Get)
	g.POST("/reservations", d.Reservations.Create)
	g.DELETE("/reservations/:id", d.Reservations.Delete)

	// ---- Form ----
	g.GET("/form", d.Form.Get)
	g.PATCH("/form", d.Form.Patch)
	g.POST("/form/open", d.Form.Open)
	g.POST("/form/cancel", d.Form.Cancel)
	g.POST("/form/date-picker", d.Form.ShowDatePicker)
	g.PUT("/form/date", d.Form.PickDate)
	g.POST("/form/submit", d.Form.Submit)
}

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}
