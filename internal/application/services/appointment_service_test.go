package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appointly/appointly-api/internal/application/services"
	"github.com/appointly/appointly-api/internal/domain/entities"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

type appointmentFixture struct {
	appointmentRepo *MockAppointmentRepository
	providerRepo    *MockProviderRepository
	eventBus        *MockEventBus
	svc             *services.AppointmentService
}

func newAppointmentFixture() *appointmentFixture {
	f := &appointmentFixture{
		appointmentRepo: NewMockAppointmentRepository(),
		providerRepo:    &MockProviderRepository{},
		eventBus:        &MockEventBus{},
	}
	f.svc = services.NewAppointmentService(
		f.appointmentRepo, f.providerRepo, f.eventBus, nil, nil, fixedClock, zerolog.Nop())
	return f
}

func pendingAppointment(start time.Time) *entities.Appointment {
	return &entities.Appointment{
		ID:              "appt-1",
		CustomerID:      "cust-1",
		ProviderID:      "prov-1",
		ServiceID:       "svc-1",
		StartTime:       start,
		DurationMinutes: 60,
		Status:          entities.AppointmentStatusPending,
	}
}

func TestCancel_CustomerOutsideLeadTime(t *testing.T) {
	f := newAppointmentFixture()
	// 30 hours of notice against a 24-hour window.
	appt := pendingAppointment(availNow.Add(30 * time.Hour))
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)
	f.providerRepo.On("GetByID", mock.Anything, "prov-1").Return(availProvider(), nil)
	f.appointmentRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	cancelled, err := f.svc.Cancel(context.Background(), customer, "appt-1", "")
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusCancelled, cancelled.Status)
}

func TestCancel_CustomerBoundaryIsAllowed(t *testing.T) {
	f := newAppointmentFixture()
	// Exactly 24 hours of notice.
	appt := pendingAppointment(availNow.Add(24 * time.Hour))
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)
	f.providerRepo.On("GetByID", mock.Anything, "prov-1").Return(availProvider(), nil)
	f.appointmentRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Cancel(context.Background(), customer, "appt-1", "")
	assert.NoError(t, err)
}

func TestCancel_CustomerInsideLeadTimeForbidden(t *testing.T) {
	f := newAppointmentFixture()
	appt := pendingAppointment(availNow.Add(23 * time.Hour))
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)
	f.providerRepo.On("GetByID", mock.Anything, "prov-1").Return(availProvider(), nil)

	_, err := f.svc.Cancel(context.Background(), customer, "appt-1", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	f.appointmentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCancel_CustomerCannotCancelOthers(t *testing.T) {
	f := newAppointmentFixture()
	appt := pendingAppointment(availNow.Add(48 * time.Hour))
	appt.CustomerID = "someone-else"
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)
	f.providerRepo.On("GetByID", mock.Anything, "prov-1").Return(availProvider(), nil)

	_, err := f.svc.Cancel(context.Background(), customer, "appt-1", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}

func TestCancel_ProviderRequiresReason(t *testing.T) {
	f := newAppointmentFixture()
	owner := entities.Actor{ID: "owner-1", Role: entities.RoleProvider}
	appt := pendingAppointment(availNow.Add(2 * time.Hour))
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)
	f.providerRepo.On("GetByID", mock.Anything, "prov-1").Return(availProvider(), nil)

	_, err := f.svc.Cancel(context.Background(), owner, "appt-1", "   ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	// With a reason, the provider may cancel even inside the customer
	// lead-time window.
	f.appointmentRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.Anything, mock.Anything).Return(nil)
	cancelled, err := f.svc.Cancel(context.Background(), owner, "appt-1", "staff illness")
	require.NoError(t, err)
	assert.Equal(t, "staff illness", cancelled.CancellationReason)
}

func TestCancel_AlreadyCancelledConflicts(t *testing.T) {
	f := newAppointmentFixture()
	appt := pendingAppointment(availNow.Add(48 * time.Hour))
	appt.Status = entities.AppointmentStatusCancelled
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)

	admin := entities.Actor{ID: "admin-1", Role: entities.RoleAdmin}
	_, err := f.svc.Cancel(context.Background(), admin, "appt-1", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestSetStatus_PermittedEdges(t *testing.T) {
	f := newAppointmentFixture()
	owner := entities.Actor{ID: "owner-1", Role: entities.RoleProvider}
	appt := pendingAppointment(availNow.Add(48 * time.Hour))
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)
	f.providerRepo.On("GetByID", mock.Anything, "prov-1").Return(availProvider(), nil)
	f.appointmentRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	updated, err := f.svc.SetStatus(context.Background(), owner, "appt-1", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusConfirmed, updated.Status)

	// The fixture appointment is shared, so it is now confirmed; completing
	// it is the next permitted edge.
	updated, err = f.svc.SetStatus(context.Background(), owner, "appt-1", "completed")
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusCompleted, updated.Status)
}

func TestSetStatus_InvalidEdgeConflicts(t *testing.T) {
	f := newAppointmentFixture()
	owner := entities.Actor{ID: "owner-1", Role: entities.RoleProvider}
	appt := pendingAppointment(availNow.Add(48 * time.Hour))
	appt.Status = entities.AppointmentStatusCompleted
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)
	f.providerRepo.On("GetByID", mock.Anything, "prov-1").Return(availProvider(), nil)

	_, err := f.svc.SetStatus(context.Background(), owner, "appt-1", "confirmed")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestSetStatus_UnknownStatusIsValidationError(t *testing.T) {
	f := newAppointmentFixture()
	_, err := f.svc.SetStatus(context.Background(), customer, "appt-1", "postponed")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = f.svc.SetStatus(context.Background(), customer, "appt-1", "pending")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSetStatus_StrangerForbidden(t *testing.T) {
	f := newAppointmentFixture()
	stranger := entities.Actor{ID: "other", Role: entities.RoleCustomer}
	appt := pendingAppointment(availNow.Add(48 * time.Hour))
	f.appointmentRepo.On("GetByID", mock.Anything, "appt-1").Return(appt, nil)

	_, err := f.svc.SetStatus(context.Background(), stranger, "appt-1", "confirmed")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}

func TestList_ByRole(t *testing.T) {
	f := newAppointmentFixture()
	appts := []*entities.Appointment{pendingAppointment(availNow.Add(time.Hour))}

	f.appointmentRepo.On("ListByCustomer", mock.Anything, "cust-1").Return(appts, nil)
	got, err := f.svc.List(context.Background(), customer)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	f.providerRepo.On("GetByOwnerID", mock.Anything, "owner-1").Return(availProvider(), nil)
	f.appointmentRepo.On("ListByProvider", mock.Anything, "prov-1").Return(appts, nil)
	got, err = f.svc.List(context.Background(), entities.Actor{ID: "owner-1", Role: entities.RoleProvider})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	f.appointmentRepo.On("ListAll", mock.Anything).Return(appts, nil)
	got, err = f.svc.List(context.Background(), entities.Actor{ID: "a", Role: entities.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
