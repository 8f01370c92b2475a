package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/repositories"
	"github.com/appointly/appointly-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

var serviceColumns = []any{
	"id", "provider_id", "name", "description", "duration_minutes",
	"price", "is_active", "created_at", "updated_at",
}

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a service by ID
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From("services").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service, err := scanService(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}
	return service, nil
}

// ListByProvider returns the active services of one provider.
func (a *ServiceAdapter) ListByProvider(ctx context.Context, providerID string) ([]*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From("services").
		Where(goqu.Ex{
			"provider_id": providerID,
			"is_active":   true,
		}).
		Order(goqu.C("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	services := []*entities.Service{}
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate services", err)
	}
	return services, nil
}

// Create inserts a new service
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	record := goqu.Record{
		"id":               service.ID,
		"provider_id":      service.ProviderID,
		"name":             service.Name,
		"description":      service.Description,
		"duration_minutes": service.DurationMinutes,
		"price":            service.Price,
		"is_active":        service.IsActive,
		"created_at":       service.CreatedAt,
		"updated_at":       service.UpdatedAt,
	}

	query, args, err := a.db.Insert("services").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create service", err)
	}
	return nil
}

// Update updates a service
func (a *ServiceAdapter) Update(ctx context.Context, service *entities.Service) error {
	record := goqu.Record{
		"name":             service.Name,
		"description":      service.Description,
		"duration_minutes": service.DurationMinutes,
		"price":            service.Price,
		"is_active":        service.IsActive,
		"updated_at":       service.UpdatedAt,
	}

	query, args, err := a.db.Update("services").
		Set(record).
		Where(goqu.Ex{"id": service.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update service", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", service.ID))
	}
	return nil
}

func scanService(row rowScanner) (*entities.Service, error) {
	service := &entities.Service{}
	var description sql.NullString

	err := row.Scan(
		&service.ID,
		&service.ProviderID,
		&service.Name,
		&description,
		&service.DurationMinutes,
		&service.Price,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.Description = description.String
	return service, nil
}
