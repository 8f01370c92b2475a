package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/repositories"
)

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) GetByOwnerID(ctx context.Context, ownerID string) (*entities.Provider, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) List(ctx context.Context, category string, limit, offset int) ([]*entities.Provider, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) SearchByName(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *entities.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *MockProviderRepository) Update(ctx context.Context, provider *entities.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Service), args.Error(1)
}

func (m *MockServiceRepository) ListByProvider(ctx context.Context, providerID string) ([]*entities.Service, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Service), args.Error(1)
}

func (m *MockServiceRepository) Create(ctx context.Context, service *entities.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockServiceRepository) Update(ctx context.Context, service *entities.Service) error {
	return m.Called(ctx, service).Error(0)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id string) (*entities.WorkingHours, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WorkingHours), args.Error(1)
}

func (m *MockScheduleRepository) GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*entities.WorkingHours, error) {
	args := m.Called(ctx, providerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WorkingHours), args.Error(1)
}

func (m *MockScheduleRepository) ListByProviderRange(ctx context.Context, providerID string, from, to time.Time) ([]*entities.WorkingHours, error) {
	args := m.Called(ctx, providerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WorkingHours), args.Error(1)
}

func (m *MockScheduleRepository) Create(ctx context.Context, hours *entities.WorkingHours) error {
	return m.Called(ctx, hours).Error(0)
}

func (m *MockScheduleRepository) Update(ctx context.Context, hours *entities.WorkingHours) error {
	return m.Called(ctx, hours).Error(0)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockAppointmentTx is the transactional view handed to callbacks by
// MockAppointmentRepository.InProviderDayLock.
type MockAppointmentTx struct {
	mock.Mock
}

func (m *MockAppointmentTx) ListActiveForDay(ctx context.Context, providerID string, day time.Time) ([]*entities.Appointment, error) {
	args := m.Called(ctx, providerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentTx) Insert(ctx context.Context, appointment *entities.Appointment) error {
	return m.Called(ctx, appointment).Error(0)
}

type MockAppointmentRepository struct {
	mock.Mock
	// Tx backs InProviderDayLock callbacks.
	Tx *MockAppointmentTx
}

func NewMockAppointmentRepository() *MockAppointmentRepository {
	return &MockAppointmentRepository{Tx: &MockAppointmentTx{}}
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListActiveForDay(ctx context.Context, providerID string, day time.Time) ([]*entities.Appointment, error) {
	args := m.Called(ctx, providerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByCustomer(ctx context.Context, customerID string) ([]*entities.Appointment, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByProvider(ctx context.Context, providerID string) ([]*entities.Appointment, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appointment *entities.Appointment) error {
	return m.Called(ctx, appointment).Error(0)
}

func (m *MockAppointmentRepository) CountActiveForDay(ctx context.Context, providerID string, day time.Time) (int, error) {
	args := m.Called(ctx, providerID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockAppointmentRepository) InProviderDayLock(ctx context.Context, providerID string, day time.Time, fn func(ctx context.Context, tx repositories.AppointmentTx) error) error {
	if args := m.Called(ctx, providerID, day); args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m.Tx)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event *entities.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, eventType string, handler func(ctx context.Context, event *entities.BookingEvent) error) error {
	return m.Called(ctx, eventType, handler).Error(0)
}

func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}

type MockSearchProvider struct {
	mock.Mock
}

func (m *MockSearchProvider) InitSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSearchProvider) IndexProvider(ctx context.Context, provider *entities.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *MockSearchProvider) DeleteProvider(ctx context.Context, providerID string) error {
	return m.Called(ctx, providerID).Error(0)
}

func (m *MockSearchProvider) Search(ctx context.Context, query string, category string, limit int) ([]*entities.Provider, error) {
	args := m.Called(ctx, query, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Provider), args.Error(1)
}
