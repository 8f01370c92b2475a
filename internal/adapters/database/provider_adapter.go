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

var providerColumns = []any{
	"id", "owner_id", "name", "description", "category", "address", "phone",
	"slot_interval", "booking_window_weeks", "cancellation_hours",
	"rating", "review_count", "is_active", "created_at", "updated_at",
}

// ProviderAdapter implements the ProviderRepository interface
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a provider by ID
func (a *ProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("provider with id %s not found", id))
}

// GetByOwnerID retrieves the provider owned by one user account.
func (a *ProviderAdapter) GetByOwnerID(ctx context.Context, ownerID string) (*entities.Provider, error) {
	return a.getOne(ctx, goqu.Ex{"owner_id": ownerID}, fmt.Sprintf("no provider owned by user %s", ownerID))
}

func (a *ProviderAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	provider, err := scanProvider(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}
	return provider, nil
}

// List returns active providers ordered by rating, optionally filtered by
// category.
func (a *ProviderAdapter) List(ctx context.Context, category string, limit, offset int) ([]*entities.Provider, error) {
	ds := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{"is_active": true})
	if category != "" {
		ds = ds.Where(goqu.Ex{"category": category})
	}
	query, args, err := ds.
		Order(goqu.C("rating").Desc(), goqu.C("review_count").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryProviders(ctx, query, args)
}

// SearchByName is the database fallback for provider search: a simple
// case-insensitive substring match on the name.
func (a *ProviderAdapter) SearchByName(ctx context.Context, search string, limit int) ([]*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(
			goqu.Ex{"is_active": true},
			goqu.C("name").ILike("%"+search+"%"),
		).
		Order(goqu.C("rating").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryProviders(ctx, query, args)
}

// Create inserts a new provider
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	record := goqu.Record{
		"id":                   provider.ID,
		"owner_id":             provider.OwnerID,
		"name":                 provider.Name,
		"description":          provider.Description,
		"category":             provider.Category,
		"address":              provider.Address,
		"phone":                provider.Phone,
		"slot_interval":        provider.SlotInterval,
		"booking_window_weeks": provider.BookingWindowWeeks,
		"cancellation_hours":   provider.CancellationHours,
		"rating":               provider.Rating,
		"review_count":         provider.ReviewCount,
		"is_active":            provider.IsActive,
		"created_at":           provider.CreatedAt,
		"updated_at":           provider.UpdatedAt,
	}

	query, args, err := a.db.Insert("providers").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create provider", err)
	}
	return nil
}

// Update updates a provider
func (a *ProviderAdapter) Update(ctx context.Context, provider *entities.Provider) error {
	record := goqu.Record{
		"name":                 provider.Name,
		"description":          provider.Description,
		"category":             provider.Category,
		"address":              provider.Address,
		"phone":                provider.Phone,
		"slot_interval":        provider.SlotInterval,
		"booking_window_weeks": provider.BookingWindowWeeks,
		"cancellation_hours":   provider.CancellationHours,
		"rating":               provider.Rating,
		"review_count":         provider.ReviewCount,
		"is_active":            provider.IsActive,
		"updated_at":           provider.UpdatedAt,
	}

	query, args, err := a.db.Update("providers").
		Set(record).
		Where(goqu.Ex{"id": provider.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update provider", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", provider.ID))
	}
	return nil
}

func (a *ProviderAdapter) queryProviders(ctx context.Context, query string, args []any) ([]*entities.Provider, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err)
	}
	defer rows.Close()

	providers := []*entities.Provider{}
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, provider)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate providers", err)
	}
	return providers, nil
}

func scanProvider(row rowScanner) (*entities.Provider, error) {
	provider := &entities.Provider{}
	var description, category, address, phone sql.NullString

	err := row.Scan(
		&provider.ID,
		&provider.OwnerID,
		&provider.Name,
		&description,
		&category,
		&address,
		&phone,
		&provider.SlotInterval,
		&provider.BookingWindowWeeks,
		&provider.CancellationHours,
		&provider.Rating,
		&provider.ReviewCount,
		&provider.IsActive,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	provider.Description = description.String
	provider.Category = category.String
	provider.Address = address.String
	provider.Phone = phone.String
	return provider, nil
}
