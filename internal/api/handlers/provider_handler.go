package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/appointly/appointly-api/internal/domain/entities"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

// ProviderService is the catalog surface the handler depends on
type ProviderService interface {
	GetByID(ctx context.Context, id string) (*entities.Provider, error)
	List(ctx context.Context, category string, limit, offset int) ([]*entities.Provider, error)
	Search(ctx context.Context, query, category string, limit int) ([]*entities.Provider, error)
	ListServices(ctx context.Context, providerID string) ([]*entities.Service, error)
}

// ProviderHandler handles provider catalog HTTP requests
type ProviderHandler struct {
	providerService ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(providerService ProviderService) *ProviderHandler {
	return &ProviderHandler{providerService: providerService}
}

// List handles GET /api/providers
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	providers, err := h.providerService.List(r.Context(), category, limit, offset)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// Search handles GET /api/providers/search
func (h *ProviderHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	limit := queryInt(r, "limit", 20)

	providers, err := h.providerService.Search(r.Context(), query, category, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": providers,
		"count":     len(providers),
	})
}

// Get handles GET /api/providers/{id}
func (h *ProviderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.providerService.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}

// ListServices handles GET /api/providers/{id}/services
func (h *ProviderHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	serviceList, err := h.providerService.ListServices(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"services": serviceList,
		"count":    len(serviceList),
	})
}

// queryInt reads an integer query parameter with a default
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// respondWithServiceError maps an application error to an HTTP response
func respondWithServiceError(w http.ResponseWriter, err error) {
	var status int
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypeConflict:
		status = http.StatusConflict
	case apperrors.ErrorTypeForbidden:
		status = http.StatusForbidden
	case apperrors.ErrorTypeLocked:
		status = http.StatusLocked
	case apperrors.ErrorTypeExternal:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		respondWithError(w, status, "internal server error")
		return
	}

	var appErr *apperrors.AppError
	message := err.Error()
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	respondWithError(w, status, message)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
