package routes

import (
	"encoding/json"
	"net/http"

	"github.com/appointly/appointly-api/internal/api/handlers"
	"github.com/appointly/appointly-api/internal/api/middleware"
	"github.com/appointly/appointly-api/internal/infrastructure/observability"
)

// Router wires HTTP routes to handlers
type Router struct {
	providerHandler     *handlers.ProviderHandler
	availabilityHandler *handlers.AvailabilityHandler
	appointmentHandler  *handlers.AppointmentHandler
	scheduleHandler     *handlers.ScheduleHandler
	adminHandler        *handlers.AdminHandler
	metrics             *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	providerHandler *handlers.ProviderHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	appointmentHandler *handlers.AppointmentHandler,
	scheduleHandler *handlers.ScheduleHandler,
	adminHandler *handlers.AdminHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		providerHandler:     providerHandler,
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		scheduleHandler:     scheduleHandler,
		adminHandler:        adminHandler,
		metrics:             metrics,
	}
}

// SetupRoutes configures all API routes and middleware
func (rt *Router) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Provider catalog
	mux.HandleFunc("GET /api/providers", rt.providerHandler.List)
	mux.HandleFunc("GET /api/providers/search", rt.providerHandler.Search)
	mux.HandleFunc("GET /api/providers/{id}", rt.providerHandler.Get)
	mux.HandleFunc("GET /api/providers/{id}/services", rt.providerHandler.ListServices)

	// Availability
	mux.HandleFunc("GET /api/providers/{id}/availability", rt.availabilityHandler.GetWeek)
	mux.HandleFunc("GET /api/providers/{id}/slots", rt.availabilityHandler.GetDay)

	// Appointments
	mux.HandleFunc("POST /api/appointments", rt.appointmentHandler.Create)
	mux.HandleFunc("GET /api/appointments", rt.appointmentHandler.List)
	mux.HandleFunc("GET /api/appointments/{id}", rt.appointmentHandler.Get)
	mux.HandleFunc("POST /api/appointments/{id}/cancel", rt.appointmentHandler.Cancel)
	mux.HandleFunc("PATCH /api/appointments/{id}/status", rt.appointmentHandler.UpdateStatus)

	// Working hours
	mux.HandleFunc("POST /api/providers/{id}/schedules", rt.scheduleHandler.Create)
	mux.HandleFunc("POST /api/providers/{id}/schedules/copy", rt.scheduleHandler.Copy)
	mux.HandleFunc("GET /api/providers/{id}/schedules", rt.scheduleHandler.ListWeek)
	mux.HandleFunc("PUT /api/schedules/{id}", rt.scheduleHandler.Update)
	mux.HandleFunc("DELETE /api/schedules/{id}", rt.scheduleHandler.Delete)

	// Admin oversight
	mux.HandleFunc("GET /api/admin/audit", rt.adminHandler.AuditTrail)
	mux.HandleFunc("GET /api/admin/notifications/pending", rt.adminHandler.PendingNotifications)

	var handler http.Handler = mux
	handler = middleware.ActorMiddleware(handler)
	if rt.metrics != nil {
		handler = middleware.ObservabilityMiddleware(rt.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
