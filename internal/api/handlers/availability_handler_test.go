package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appointly/appointly-api/internal/api/handlers"
	"github.com/appointly/appointly-api/internal/domain/entities"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) ComputeWeek(ctx context.Context, providerID, weekStart, viewerID string) (*entities.WeekSlots, error) {
	args := m.Called(ctx, providerID, weekStart, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WeekSlots), args.Error(1)
}

func (m *MockAvailabilityService) ComputeDay(ctx context.Context, providerID, date, viewerID string) (*entities.DaySlots, error) {
	args := m.Called(ctx, providerID, date, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DaySlots), args.Error(1)
}

func TestAvailabilityHandler_GetWeek_PassesViewer(t *testing.T) {
	mockService := new(MockAvailabilityService)
	handler := handlers.NewAvailabilityHandler(mockService)

	week := &entities.WeekSlots{ProviderID: "prov-1", WeekStart: "2026-03-09"}
	mockService.On("ComputeWeek", mock.Anything, "prov-1", "2026-03-09", "cust-1").
		Return(week, nil)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/availability?week=2026-03-09", nil))
	req.SetPathValue("id", "prov-1")

	rec := serve(handler.GetWeek, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entities.WeekSlots
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2026-03-09", got.WeekStart)
	mockService.AssertExpectations(t)
}

func TestAvailabilityHandler_GetWeek_AnonymousViewerAllowed(t *testing.T) {
	mockService := new(MockAvailabilityService)
	handler := handlers.NewAvailabilityHandler(mockService)

	mockService.On("ComputeWeek", mock.Anything, "prov-1", "", "").
		Return(&entities.WeekSlots{ProviderID: "prov-1"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/availability", nil)
	req.SetPathValue("id", "prov-1")

	rec := serve(handler.GetWeek, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestAvailabilityHandler_GetWeek_PastWeekConflict(t *testing.T) {
	mockService := new(MockAvailabilityService)
	handler := handlers.NewAvailabilityHandler(mockService)

	mockService.On("ComputeWeek", mock.Anything, "prov-1", "2020-01-06", "").
		Return(nil, apperrors.NewConflictError("requested week is in the past"))

	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/availability?week=2020-01-06", nil)
	req.SetPathValue("id", "prov-1")

	rec := serve(handler.GetWeek, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAvailabilityHandler_GetDay_RequiresDate(t *testing.T) {
	handler := handlers.NewAvailabilityHandler(new(MockAvailabilityService))

	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/slots", nil)
	req.SetPathValue("id", "prov-1")

	rec := serve(handler.GetDay, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityHandler_GetDay(t *testing.T) {
	mockService := new(MockAvailabilityService)
	handler := handlers.NewAvailabilityHandler(mockService)

	day := &entities.DaySlots{
		Date:      "2026-03-11",
		DayOfWeek: "Wednesday",
		Slots: []entities.Slot{
			{Time: "09:00", Status: entities.SlotStatusAvailable},
			{Time: "09:30", Status: entities.SlotStatusBooked},
		},
	}
	mockService.On("ComputeDay", mock.Anything, "prov-1", "2026-03-11", "").
		Return(day, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/prov-1/slots?date=2026-03-11", nil)
	req.SetPathValue("id", "prov-1")

	rec := serve(handler.GetDay, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entities.DaySlots
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Slots, 2)
	assert.Equal(t, entities.SlotStatusBooked, got.Slots[1].Status)
}
