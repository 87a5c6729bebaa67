package handler

import (
	"github.com/labstack/echo/v4"

	"clinic-api/internal/middleware"
	"clinic-api/internal/model"
)

// Register mounts every route on e. Signup and login share limiter rl.
func (h *Handler) Register(e *echo.Echo, secret string, rl *middleware.RateLimiter) {
	e.GET("/", h.Root)
	e.GET("/healthz", h.Health)

	authn := middleware.Auth(secret)
	api := e.Group("/api")

	a := api.Group("/auth")
	a.POST("/signup", h.Signup, middleware.RateLimit(rl))
	a.POST("/login", h.Login, middleware.RateLimit(rl))
	a.POST("/logout", h.Logout, authn)

	api.POST("/appointments", h.Book, authn, middleware.RequireRole(model.RolePatient))

	p := api.Group("/patient", authn, middleware.RequireRole(model.RolePatient))
	p.GET("/doctors", h.ListDoctors)
	h.profileRoutes(p)

	d := api.Group("/doctor", authn, middleware.RequireRole(model.RoleDoctor))
	d.GET("/patients", h.ConfirmedPatients)
	d.GET("/appointments/pending", h.PendingAppointments)
	d.POST("/appointments/:appointmentId/respond", h.Respond)
	h.profileRoutes(d)
}

func (h *Handler) profileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/profile/fields", h.AddField)
	g.PUT("/profile/fields/:fieldId", h.UpdateField)
	g.DELETE("/profile/fields/:fieldId", h.DeleteField)
}
