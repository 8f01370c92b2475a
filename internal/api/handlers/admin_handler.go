package handlers

import (
	"context"
	"net/http"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// AuditLog reads the audit trail
type AuditLog interface {
	ListForEntity(ctx context.Context, entityType, entityID string, limit int) ([]*entities.AuditRecord, error)
}

// NotificationQueue reads undelivered notifications
type NotificationQueue interface {
	ListPending(ctx context.Context, limit int) ([]*entities.AppointmentNotification, error)
}

// AdminHandler exposes oversight endpoints. All routes require the admin
// role; the appointment listing for admins lives on the shared appointments
// endpoint.
type AdminHandler struct {
	auditLog      AuditLog
	notifications NotificationQueue
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(auditLog AuditLog, notifications NotificationQueue) *AdminHandler {
	return &AdminHandler{
		auditLog:      auditLog,
		notifications: notifications,
	}
}

// AuditTrail handles GET /api/admin/audit
func (h *AdminHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "admin role required")
		return
	}

	entityType := r.URL.Query().Get("entity_type")
	entityID := r.URL.Query().Get("entity_id")
	if entityType == "" || entityID == "" {
		respondWithError(w, http.StatusBadRequest, "entity_type and entity_id parameters are required")
		return
	}
	limit := queryInt(r, "limit", 50)

	records, err := h.auditLog.ListForEntity(r.Context(), entityType, entityID, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// PendingNotifications handles GET /api/admin/notifications/pending
func (h *AdminHandler) PendingNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "admin role required")
		return
	}

	limit := queryInt(r, "limit", 50)
	notifications, err := h.notifications.ListPending(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}
