package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/repositories"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/postgres"
	"github.com/appointly/appointly-api/internal/scheduling"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

var activeStatuses = []entities.AppointmentStatus{
	entities.AppointmentStatusPending,
	entities.AppointmentStatusConfirmed,
}

var appointmentColumns = []any{
	"id", "customer_id", "provider_id", "service_id", "start_time",
	"duration_minutes", "status", "notes", "cancellation_reason",
	"created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}
	return appointment, nil
}

// ListActiveForDay returns pending and confirmed appointments starting on
// the given calendar day.
func (a *AppointmentAdapter) ListActiveForDay(ctx context.Context, providerID string, day time.Time) ([]*entities.Appointment, error) {
	query, args, err := activeForDayQuery(a.db, providerID, day)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryAppointments(ctx, a.client.DB(), query, args)
}

// ListByCustomer returns all appointments of one customer, newest first.
func (a *AppointmentAdapter) ListByCustomer(ctx context.Context, customerID string) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"customer_id": customerID}).
		Order(goqu.C("start_time").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryAppointments(ctx, a.client.DB(), query, args)
}

// ListByProvider returns all appointments of one provider, newest first.
func (a *AppointmentAdapter) ListByProvider(ctx context.Context, providerID string) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"provider_id": providerID}).
		Order(goqu.C("start_time").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryAppointments(ctx, a.client.DB(), query, args)
}

// ListAll returns every appointment, newest first. Admin oversight only.
func (a *AppointmentAdapter) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Order(goqu.C("start_time").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryAppointments(ctx, a.client.DB(), query, args)
}

// Update updates an appointment's mutable fields
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"status":              appointment.Status,
		"notes":               appointment.Notes,
		"cancellation_reason": appointment.CancellationReason,
		"updated_at":          appointment.UpdatedAt,
	}

	query, args, err := a.db.Update("appointments").
		Set(record).
		Where(goqu.Ex{"id": appointment.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update appointment", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", appointment.ID))
	}
	return nil
}

// CountActiveForDay counts pending and confirmed appointments on one day.
func (a *AppointmentAdapter) CountActiveForDay(ctx context.Context, providerID string, day time.Time) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("appointments").
		Where(
			goqu.Ex{"provider_id": providerID},
			goqu.Ex{"status": activeStatuses},
			goqu.C("start_time").Gte(scheduling.DayOf(day)),
			goqu.C("start_time").Lt(scheduling.DayOf(day).AddDate(0, 0, 1)),
		).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count appointments", err)
	}
	return count, nil
}

// InProviderDayLock runs fn inside a transaction holding an advisory lock on
// the (provider, day) pair. pg_advisory_xact_lock blocks until the lock is
// granted and releases it automatically at commit or rollback, so all
// admission attempts for one provider-day execute strictly one at a time.
func (a *AppointmentAdapter) InProviderDayLock(ctx context.Context, providerID string, day time.Time, fn func(ctx context.Context, tx repositories.AppointmentTx) error) error {
	sqlTx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}

	lockKey := fmt.Sprintf("%s:%s", providerID, scheduling.ISODate(day))
	if _, err := sqlTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKey); err != nil {
		sqlTx.Rollback()
		return apperrors.NewInternalError("failed to acquire provider-day lock", err)
	}

	if err := fn(ctx, &appointmentTx{db: a.db, tx: sqlTx}); err != nil {
		sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit booking transaction", err)
	}
	return nil
}

// appointmentTx is the locked-transaction view handed to InProviderDayLock
// callbacks.
type appointmentTx struct {
	db *goqu.Database
	tx *sql.Tx
}

func (t *appointmentTx) ListActiveForDay(ctx context.Context, providerID string, day time.Time) ([]*entities.Appointment, error) {
	query, args, err := activeForDayQuery(t.db, providerID, day)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (t *appointmentTx) Insert(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":                  appointment.ID,
		"customer_id":         appointment.CustomerID,
		"provider_id":         appointment.ProviderID,
		"service_id":          appointment.ServiceID,
		"start_time":          appointment.StartTime,
		"duration_minutes":    appointment.DurationMinutes,
		"status":              appointment.Status,
		"notes":               appointment.Notes,
		"cancellation_reason": appointment.CancellationReason,
		"created_at":          appointment.CreatedAt,
		"updated_at":          appointment.UpdatedAt,
	}

	query, args, err := t.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to insert appointment", err)
	}
	return nil
}

func activeForDayQuery(db *goqu.Database, providerID string, day time.Time) (string, []any, error) {
	dayStart := scheduling.DayOf(day)
	return db.Select(appointmentColumns...).
		From("appointments").
		Where(
			goqu.Ex{"provider_id": providerID},
			goqu.Ex{"status": activeStatuses},
			goqu.C("start_time").Gte(dayStart),
			goqu.C("start_time").Lt(dayStart.AddDate(0, 0, 1)),
		).
		Order(goqu.C("start_time").Asc()).
		ToSQL()
}

func (a *AppointmentAdapter) queryAppointments(ctx context.Context, db *sql.DB, query string, args []any) ([]*entities.Appointment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var notes, cancellationReason sql.NullString

	err := row.Scan(
		&appointment.ID,
		&appointment.CustomerID,
		&appointment.ProviderID,
		&appointment.ServiceID,
		&appointment.StartTime,
		&appointment.DurationMinutes,
		&appointment.Status,
		&notes,
		&cancellationReason,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.Notes = notes.String
	appointment.CancellationReason = cancellationReason.String
	return appointment, nil
}

func scanAppointments(rows *sql.Rows) ([]*entities.Appointment, error) {
	appointments := []*entities.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}
	return appointments, nil
}
