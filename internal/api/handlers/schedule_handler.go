package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// ScheduleService manages provider working hours
type ScheduleService interface {
	Create(ctx context.Context, actor entities.Actor, providerID, date, openTime, closeTime string) (*entities.WorkingHours, error)
	CopyToDates(ctx context.Context, actor entities.Actor, providerID string, dates []string, openTime, closeTime string) (int, error)
	Update(ctx context.Context, actor entities.Actor, scheduleID, openTime, closeTime string) (*entities.WorkingHours, error)
	Delete(ctx context.Context, actor entities.Actor, scheduleID string) error
	ListWeek(ctx context.Context, actor entities.Actor, providerID, weekStart string) ([]*entities.WorkingHours, error)
}

// ScheduleHandler handles working-hours management HTTP requests
type ScheduleHandler struct {
	scheduleService ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

type createScheduleRequest struct {
	Date      string `json:"date"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// Create handles POST /api/providers/{id}/schedules
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schedule, err := h.scheduleService.Create(r.Context(), actor, r.PathValue("id"), req.Date, req.OpenTime, req.CloseTime)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, schedule)
}

type copySchedulesRequest struct {
	Dates     []string `json:"dates"`
	OpenTime  string   `json:"open_time"`
	CloseTime string   `json:"close_time"`
}

// Copy handles POST /api/providers/{id}/schedules/copy
func (h *ScheduleHandler) Copy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req copySchedulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.scheduleService.CopyToDates(r.Context(), actor, r.PathValue("id"), req.Dates, req.OpenTime, req.CloseTime)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"created": created})
}

// ListWeek handles GET /api/providers/{id}/schedules
func (h *ScheduleHandler) ListWeek(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	schedules, err := h.scheduleService.ListWeek(r.Context(), actor, r.PathValue("id"), r.URL.Query().Get("week"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

type updateScheduleRequest struct {
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// Update handles PUT /api/schedules/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req updateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schedule, err := h.scheduleService.Update(r.Context(), actor, r.PathValue("id"), req.OpenTime, req.CloseTime)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, schedule)
}

// Delete handles DELETE /api/schedules/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
