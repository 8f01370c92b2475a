package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/providers"
	tsclient "github.com/appointly/appointly-api/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements provider search using Typesense. The index
// carries only catalog fields for discovery; booking configuration always
// comes from the database.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.SearchProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the providers collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: tsclient.ProvidersCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "address", Type: "string", Optional: pointer.True()},
			{Name: "is_active", Type: "bool"},
			{Name: "rating", Type: "float"},
			{Name: "review_count", Type: "int32"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("rating"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// IndexProvider upserts one provider document
func (a *TypesenseAdapter) IndexProvider(ctx context.Context, provider *entities.Provider) error {
	document := map[string]interface{}{
		"id":           provider.ID,
		"name":         provider.Name,
		"description":  provider.Description,
		"category":     provider.Category,
		"address":      provider.Address,
		"is_active":    provider.IsActive,
		"rating":       provider.Rating,
		"review_count": provider.ReviewCount,
		"created_at":   provider.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index provider: %w", err)
	}

	return nil
}

// DeleteProvider removes a provider from the index
func (a *TypesenseAdapter) DeleteProvider(ctx context.Context, providerID string) error {
	_, err := a.client.Client().Collection(tsclient.ProvidersCollection).Document(providerID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete provider from index: %w", err)
	}
	return nil
}

// Search queries the provider catalog by name and description, optionally
// filtered by category.
func (a *TypesenseAdapter) Search(ctx context.Context, query string, category string, limit int) ([]*entities.Provider, error) {
	if query == "" {
		query = "*"
	}
	filterBy := "is_active:=true"
	if category != "" {
		filterBy = fmt.Sprintf("%s && category:=%s", filterBy, category)
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,description"),
		FilterBy: pointer.String(filterBy),
		SortBy:   pointer.String("_text_match:desc,rating:desc"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	matches := []*entities.Provider{}
	if result.Hits == nil {
		return matches, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		provider := &entities.Provider{
			ID:       docString(doc, "id"),
			Name:     docString(doc, "name"),
			Category: docString(doc, "category"),
			Address:  docString(doc, "address"),
			IsActive: true,
		}
		provider.Description = docString(doc, "description")
		if rating, ok := doc["rating"].(float64); ok {
			provider.Rating = rating
		}
		if reviews, ok := doc["review_count"].(float64); ok {
			provider.ReviewCount = int(reviews)
		}
		matches = append(matches, provider)
	}

	return matches, nil
}

func docString(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
