package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/repositories"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/postgres"
	"github.com/appointly/appointly-api/internal/scheduling"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

var workingHoursColumns = []any{
	"id", "provider_id", "date", "open_time", "close_time",
	"created_at", "updated_at",
}

// ScheduleAdapter implements the ScheduleRepository interface. The
// working_hours table carries a unique constraint on (provider_id, date);
// Create surfaces its violation as a conflict.
type ScheduleAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewScheduleAdapter creates a new schedule adapter
func NewScheduleAdapter(client *postgres.Client) repositories.ScheduleRepository {
	return &ScheduleAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a working-hours row by ID
func (a *ScheduleAdapter) GetByID(ctx context.Context, id string) (*entities.WorkingHours, error) {
	query, args, err := a.db.Select(workingHoursColumns...).
		From("working_hours").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	hours, err := scanWorkingHours(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("working hours with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get working hours", err)
	}
	return hours, nil
}

// GetByProviderAndDate retrieves the working-hours row for one provider-day.
func (a *ScheduleAdapter) GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*entities.WorkingHours, error) {
	query, args, err := a.db.Select(workingHoursColumns...).
		From("working_hours").
		Where(goqu.Ex{
			"provider_id": providerID,
			"date":        scheduling.DayOf(date),
		}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	hours, err := scanWorkingHours(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf(
			"no working hours for provider %s on %s", providerID, scheduling.ISODate(date)))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get working hours", err)
	}
	return hours, nil
}

// ListByProviderRange returns working-hours rows with from <= date < to.
func (a *ScheduleAdapter) ListByProviderRange(ctx context.Context, providerID string, from, to time.Time) ([]*entities.WorkingHours, error) {
	query, args, err := a.db.Select(workingHoursColumns...).
		From("working_hours").
		Where(
			goqu.Ex{"provider_id": providerID},
			goqu.C("date").Gte(scheduling.DayOf(from)),
			goqu.C("date").Lt(scheduling.DayOf(to)),
		).
		Order(goqu.C("date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list working hours", err)
	}
	defer rows.Close()

	result := []*entities.WorkingHours{}
	for rows.Next() {
		hours, err := scanWorkingHours(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan working hours", err)
		}
		result = append(result, hours)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate working hours", err)
	}
	return result, nil
}

// Create inserts a new working-hours row
func (a *ScheduleAdapter) Create(ctx context.Context, hours *entities.WorkingHours) error {
	record := goqu.Record{
		"id":          hours.ID,
		"provider_id": hours.ProviderID,
		"date":        scheduling.DayOf(hours.Date),
		"open_time":   hours.OpenTime,
		"close_time":  hours.CloseTime,
		"created_at":  hours.CreatedAt,
		"updated_at":  hours.UpdatedAt,
	}

	query, args, err := a.db.Insert("working_hours").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf(
				"working hours already exist for provider %s on %s",
				hours.ProviderID, scheduling.ISODate(hours.Date)))
		}
		return apperrors.NewInternalError("failed to create working hours", err)
	}
	return nil
}

// Update updates the open/close window of a working-hours row
func (a *ScheduleAdapter) Update(ctx context.Context, hours *entities.WorkingHours) error {
	record := goqu.Record{
		"open_time":  hours.OpenTime,
		"close_time": hours.CloseTime,
		"updated_at": hours.UpdatedAt,
	}

	query, args, err := a.db.Update("working_hours").
		Set(record).
		Where(goqu.Ex{"id": hours.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update working hours", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("working hours with id %s not found", hours.ID))
	}
	return nil
}

// Delete removes a working-hours row
func (a *ScheduleAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("working_hours").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete working hours", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("working hours with id %s not found", id))
	}
	return nil
}

func scanWorkingHours(row rowScanner) (*entities.WorkingHours, error) {
	hours := &entities.WorkingHours{}
	err := row.Scan(
		&hours.ID,
		&hours.ProviderID,
		&hours.Date,
		&hours.OpenTime,
		&hours.CloseTime,
		&hours.CreatedAt,
		&hours.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return hours, nil
}

// isUniqueViolation matches the Postgres unique_violation error class.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
