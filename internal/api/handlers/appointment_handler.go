package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/appointly/appointly-api/internal/api/middleware"
	"github.com/appointly/appointly-api/internal/application/services"
	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/infrastructure/observability"
	"github.com/appointly/appointly-api/internal/scheduling"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

// BookingService admits new appointments
type BookingService interface {
	Book(ctx context.Context, actor entities.Actor, req services.BookingRequest) (*entities.Appointment, error)
}

// AppointmentService manages existing appointments
type AppointmentService interface {
	Get(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error)
	List(ctx context.Context, actor entities.Actor) ([]*entities.Appointment, error)
	Cancel(ctx context.Context, actor entities.Actor, id, reason string) (*entities.Appointment, error)
	SetStatus(ctx context.Context, actor entities.Actor, id, newStatus string) (*entities.Appointment, error)
}

// AppointmentHandler handles booking lifecycle HTTP requests
type AppointmentHandler struct {
	bookingService     BookingService
	appointmentService AppointmentService
	metrics            *observability.Metrics
}

// NewAppointmentHandler creates a new appointment handler. metrics may be nil.
func NewAppointmentHandler(bookingService BookingService, appointmentService AppointmentService, metrics *observability.Metrics) *AppointmentHandler {
	return &AppointmentHandler{
		bookingService:     bookingService,
		appointmentService: appointmentService,
		metrics:            metrics,
	}
}

type createAppointmentRequest struct {
	ProviderID string `json:"provider_id"`
	ServiceID  string `json:"service_id"`
	StartTime  string `json:"start_time"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes"`
}

// startTime accepts either an RFC 3339 timestamp or a separate date and
// wall-clock time pair in the server's location.
func (req *createAppointmentRequest) startTime() (time.Time, error) {
	if req.StartTime != "" {
		return time.Parse(time.RFC3339, req.StartTime)
	}
	day, err := scheduling.ParseISODate(req.Date, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	mins, err := scheduling.ToMinutes(req.Time)
	if err != nil {
		return time.Time{}, err
	}
	return scheduling.At(day, mins), nil
}

// Create handles POST /api/appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := req.startTime()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid start time")
		return
	}

	appointment, err := h.bookingService.Book(r.Context(), actor, services.BookingRequest{
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		StartTime:  start,
		Notes:      req.Notes,
	})
	if err != nil {
		// Internal failures are not admission rejections
		if h.metrics != nil && apperrors.TypeOf(err) != apperrors.ErrorTypeInternal {
			observability.RecordBookingOutcome(r.Context(), h.metrics, req.ProviderID, false)
		}
		respondWithServiceError(w, err)
		return
	}

	if h.metrics != nil {
		observability.RecordBookingOutcome(r.Context(), h.metrics, req.ProviderID, true)
	}
	respondWithJSON(w, http.StatusCreated, appointment)
}

// List handles GET /api/appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentService.List(r.Context(), actor)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// Get handles GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	appointment, err := h.appointmentService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req cancelAppointmentRequest
	if r.Body != nil {
		// An empty body is allowed; a reason is only mandatory for providers
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	appointment, err := h.appointmentService.Cancel(r.Context(), actor, r.PathValue("id"), req.Reason)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/appointments/{id}/status
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appointment, err := h.appointmentService.SetStatus(r.Context(), actor, r.PathValue("id"), req.Status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// requireActor rejects anonymous requests on authenticated routes
func requireActor(w http.ResponseWriter, r *http.Request) (entities.Actor, bool) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.IsZero() {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return entities.Actor{}, false
	}
	return actor, true
}
