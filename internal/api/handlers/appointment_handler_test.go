package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appointly/appointly-api/internal/api/handlers"
	"github.com/appointly/appointly-api/internal/api/middleware"
	"github.com/appointly/appointly-api/internal/application/services"
	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/infrastructure/observability"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Book(ctx context.Context, actor entities.Actor, req services.BookingRequest) (*entities.Appointment, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Get(ctx context.Context, actor entities.Actor, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) List(ctx context.Context, actor entities.Actor) ([]*entities.Appointment, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Cancel(ctx context.Context, actor entities.Actor, id, reason string) (*entities.Appointment, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) SetStatus(ctx context.Context, actor entities.Actor, id, newStatus string) (*entities.Appointment, error) {
	args := m.Called(ctx, actor, id, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

// serve runs a handler behind the actor middleware the way the router does
func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.ActorMiddleware(handler).ServeHTTP(rec, req)
	return rec
}

func asCustomer(req *http.Request) *http.Request {
	req.Header.Set("X-User-ID", "cust-1")
	req.Header.Set("X-User-Role", entities.RoleCustomer)
	return req
}

func TestAppointmentHandler_Create(t *testing.T) {
	booking := new(MockBookingService)
	handler := handlers.NewAppointmentHandler(booking, new(MockAppointmentService), nil)

	start := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	created := &entities.Appointment{
		ID:         "appt-1",
		ProviderID: "prov-1",
		ServiceID:  "svc-1",
		CustomerID: "cust-1",
		StartTime:  start,
		Status:     entities.AppointmentStatusPending,
	}
	booking.On("Book", mock.Anything,
		entities.Actor{ID: "cust-1", Role: entities.RoleCustomer},
		mock.MatchedBy(func(r services.BookingRequest) bool {
			return r.ProviderID == "prov-1" && r.ServiceID == "svc-1" && r.StartTime.Equal(start)
		}),
	).Return(created, nil)

	body, _ := json.Marshal(map[string]string{
		"provider_id": "prov-1",
		"service_id":  "svc-1",
		"start_time":  start.Format(time.RFC3339),
	})
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body)))

	rec := serve(handler.Create, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got entities.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "appt-1", got.ID)
	booking.AssertExpectations(t)
}

func TestAppointmentHandler_Create_DateTimePair(t *testing.T) {
	booking := new(MockBookingService)
	handler := handlers.NewAppointmentHandler(booking, new(MockAppointmentService), nil)

	booking.On("Book", mock.Anything, mock.Anything,
		mock.MatchedBy(func(r services.BookingRequest) bool {
			return r.StartTime.Hour() == 14 && r.StartTime.Minute() == 30 &&
				r.StartTime.Day() == 11
		}),
	).Return(&entities.Appointment{ID: "appt-2"}, nil)

	body, _ := json.Marshal(map[string]string{
		"provider_id": "prov-1",
		"service_id":  "svc-1",
		"date":        "2026-03-11",
		"time":        "14:30",
	})
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body)))

	rec := serve(handler.Create, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	booking.AssertExpectations(t)
}

func TestAppointmentHandler_Create_Anonymous(t *testing.T) {
	handler := handlers.NewAppointmentHandler(new(MockBookingService), new(MockAppointmentService), nil)

	body, _ := json.Marshal(map[string]string{"provider_id": "prov-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body))

	rec := serve(handler.Create, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAppointmentHandler_Create_InvalidStartTime(t *testing.T) {
	handler := handlers.NewAppointmentHandler(new(MockBookingService), new(MockAppointmentService), nil)

	body, _ := json.Marshal(map[string]string{
		"provider_id": "prov-1",
		"service_id":  "svc-1",
		"date":        "not-a-date",
		"time":        "14:30",
	})
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body)))

	rec := serve(handler.Create, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointmentHandler_Create_ConflictMapsTo409(t *testing.T) {
	booking := new(MockBookingService)
	handler := handlers.NewAppointmentHandler(booking, new(MockAppointmentService), nil)

	booking.On("Book", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("time slot overlaps an existing booking"))

	body, _ := json.Marshal(map[string]string{
		"provider_id": "prov-1",
		"service_id":  "svc-1",
		"start_time":  "2026-03-11T10:00:00Z",
	})
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body)))

	rec := serve(handler.Create, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "time slot overlaps an existing booking", resp["error"])
}

func TestAppointmentHandler_Create_CountsBookingOutcomes(t *testing.T) {
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	booking := new(MockBookingService)
	handler := handlers.NewAppointmentHandler(booking, new(MockAppointmentService), metrics)

	booking.On("Book", mock.Anything, mock.Anything, mock.MatchedBy(func(r services.BookingRequest) bool {
		return r.ProviderID == "prov-open"
	})).Return(&entities.Appointment{ID: "appt-1", Status: entities.AppointmentStatusPending}, nil)
	booking.On("Book", mock.Anything, mock.Anything, mock.MatchedBy(func(r services.BookingRequest) bool {
		return r.ProviderID == "prov-full"
	})).Return(nil, apperrors.NewConflictError("the requested slot is already taken"))

	// Both the admitted and the rejected branches must record their outcome
	// counter and still return the normal response.
	body, _ := json.Marshal(map[string]string{
		"provider_id": "prov-open",
		"service_id":  "svc-1",
		"start_time":  "2026-03-11T10:00:00Z",
	})
	rec := serve(handler.Create, asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body))))
	assert.Equal(t, http.StatusCreated, rec.Code)

	body, _ = json.Marshal(map[string]string{
		"provider_id": "prov-full",
		"service_id":  "svc-1",
		"start_time":  "2026-03-11T10:00:00Z",
	})
	rec = serve(handler.Create, asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body))))
	assert.Equal(t, http.StatusConflict, rec.Code)
	booking.AssertExpectations(t)
}

func TestAppointmentHandler_Cancel_PassesReason(t *testing.T) {
	appointmentSvc := new(MockAppointmentService)
	handler := handlers.NewAppointmentHandler(new(MockBookingService), appointmentSvc, nil)

	cancelled := &entities.Appointment{ID: "appt-1", Status: entities.AppointmentStatusCancelled}
	appointmentSvc.On("Cancel", mock.Anything, mock.Anything, "appt-1", "overbooked").
		Return(cancelled, nil)

	body, _ := json.Marshal(map[string]string{"reason": "overbooked"})
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments/appt-1/cancel", bytes.NewReader(body)))
	req.SetPathValue("id", "appt-1")

	rec := serve(handler.Cancel, req)

	require.Equal(t, http.StatusOK, rec.Code)
	appointmentSvc.AssertExpectations(t)
}

func TestAppointmentHandler_Cancel_EmptyBodyAllowed(t *testing.T) {
	appointmentSvc := new(MockAppointmentService)
	handler := handlers.NewAppointmentHandler(new(MockBookingService), appointmentSvc, nil)

	appointmentSvc.On("Cancel", mock.Anything, mock.Anything, "appt-1", "").
		Return(&entities.Appointment{ID: "appt-1", Status: entities.AppointmentStatusCancelled}, nil)

	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/appointments/appt-1/cancel", nil))
	req.SetPathValue("id", "appt-1")

	rec := serve(handler.Cancel, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppointmentHandler_UpdateStatus(t *testing.T) {
	appointmentSvc := new(MockAppointmentService)
	handler := handlers.NewAppointmentHandler(new(MockBookingService), appointmentSvc, nil)

	confirmed := &entities.Appointment{ID: "appt-1", Status: entities.AppointmentStatusConfirmed}
	appointmentSvc.On("SetStatus", mock.Anything, mock.Anything, "appt-1", "confirmed").
		Return(confirmed, nil)

	body, _ := json.Marshal(map[string]string{"status": "confirmed"})
	req := httptest.NewRequest(http.MethodPatch, "/api/appointments/appt-1/status", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "owner-1")
	req.Header.Set("X-User-Role", entities.RoleProvider)
	req.SetPathValue("id", "appt-1")

	rec := serve(handler.UpdateStatus, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entities.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, entities.AppointmentStatusConfirmed, got.Status)
}

func TestAppointmentHandler_Get_ForbiddenMapsTo403(t *testing.T) {
	appointmentSvc := new(MockAppointmentService)
	handler := handlers.NewAppointmentHandler(new(MockBookingService), appointmentSvc, nil)

	appointmentSvc.On("Get", mock.Anything, mock.Anything, "appt-9").
		Return(nil, apperrors.NewForbiddenError("appointment belongs to another customer"))

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/appointments/appt-9", nil))
	req.SetPathValue("id", "appt-9")

	rec := serve(handler.Get, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAppointmentHandler_List(t *testing.T) {
	appointmentSvc := new(MockAppointmentService)
	handler := handlers.NewAppointmentHandler(new(MockBookingService), appointmentSvc, nil)

	appointmentSvc.On("List", mock.Anything, entities.Actor{ID: "cust-1", Role: entities.RoleCustomer}).
		Return([]*entities.Appointment{{ID: "a1"}, {ID: "a2"}}, nil)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/appointments", nil))

	rec := serve(handler.List, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Appointments []*entities.Appointment `json:"appointments"`
		Count        int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}
