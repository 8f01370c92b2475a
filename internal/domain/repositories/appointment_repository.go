package repositories

import (
	"context"
	"time"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// AppointmentTx is the narrow view of the appointment store available inside
// a provider-day lock. Implementations run all calls on the locked
// transaction so the check-then-insert sequence is atomic.
type AppointmentTx interface {
	// ListActiveForDay returns pending and confirmed appointments whose
	// start time falls on the given calendar day.
	ListActiveForDay(ctx context.Context, providerID string, day time.Time) ([]*entities.Appointment, error)
	// Insert persists a new appointment inside the transaction.
	Insert(ctx context.Context, appointment *entities.Appointment) error
}

// AppointmentRepository defines the interface for appointment persistence.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)
	ListActiveForDay(ctx context.Context, providerID string, day time.Time) ([]*entities.Appointment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entities.Appointment, error)
	ListByProvider(ctx context.Context, providerID string) ([]*entities.Appointment, error)
	ListAll(ctx context.Context) ([]*entities.Appointment, error)
	Update(ctx context.Context, appointment *entities.Appointment) error
	CountActiveForDay(ctx context.Context, providerID string, day time.Time) (int, error)

	// InProviderDayLock runs fn inside a transaction that holds an exclusive
	// advisory lock on the (provider, day) pair. Concurrent admission
	// attempts for the same provider-day serialize here; attempts for other
	// days or providers proceed in parallel.
	InProviderDayLock(ctx context.Context, providerID string, day time.Time, fn func(ctx context.Context, tx AppointmentTx) error) error
}
