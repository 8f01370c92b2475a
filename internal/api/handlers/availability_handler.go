package handlers

import (
	"context"
	"net/http"

	"github.com/appointly/appointly-api/internal/api/middleware"
	"github.com/appointly/appointly-api/internal/domain/entities"
)

// AvailabilityService computes slot views for the availability endpoints
type AvailabilityService interface {
	ComputeWeek(ctx context.Context, providerID, weekStart, viewerID string) (*entities.WeekSlots, error)
	ComputeDay(ctx context.Context, providerID, date, viewerID string) (*entities.DaySlots, error)
}

// AvailabilityHandler serves slot availability views
type AvailabilityHandler struct {
	availabilityService AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availabilityService AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// GetWeek handles GET /api/providers/{id}/availability
//
// The optional week parameter is any date inside the requested week; it
// defaults to the current week. A viewer identity, when present, marks that
// viewer's own bookings distinctly.
func (h *AvailabilityHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	week := r.URL.Query().Get("week")
	viewer := middleware.ActorFromContext(r.Context())

	weekSlots, err := h.availabilityService.ComputeWeek(r.Context(), providerID, week, viewer.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, weekSlots)
}

// GetDay handles GET /api/providers/{id}/slots
func (h *AvailabilityHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date parameter is required")
		return
	}
	viewer := middleware.ActorFromContext(r.Context())

	daySlots, err := h.availabilityService.ComputeDay(r.Context(), providerID, date, viewer.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, daySlots)
}
