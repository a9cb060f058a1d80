package documents

import (
	"context"
	"fmt"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
)

type CategoryRepository struct {
	store docstore.Store
}

func NewCategoryRepository(store docstore.Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func categoriesPath(restaurantID string) string {
	return docstore.Join(models.CollectionRestaurants, restaurantID, models.CollectionCategories)
}

func (r *CategoryRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Category, error) {
	docs, err := r.store.Query(ctx, categoriesPath(restaurantID), nil)
	if err != nil {
		return nil, fmt.Errorf("list categories of %s: %w", restaurantID, err)
	}
	categories := make([]*models.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, DecodeCategory(doc))
	}
	return categories, nil
}

func (r *CategoryRepository) UpdateItemCount(ctx context.Context, restaurantID, categoryID string, count int) error {
	path := docstore.Join(categoriesPath(restaurantID), categoryID)
	return r.store.Update(ctx, path, map[string]interface{}{"itemCount": count})
}
