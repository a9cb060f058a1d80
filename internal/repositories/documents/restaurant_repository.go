// Package documents implements the repositories over a docstore.Store,
// decoding both the legacy and the enterprise record shapes on read.
package documents

import (
	"context"
	"fmt"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
)

type RestaurantRepository struct {
	store docstore.Reader
}

func NewRestaurantRepository(store docstore.Reader) *RestaurantRepository {
	return &RestaurantRepository{store: store}
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	doc, err := r.store.Get(ctx, models.CollectionRestaurants, id)
	if err != nil {
		return nil, err
	}
	return DecodeRestaurant(doc)
}

func (r *RestaurantRepository) FindBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	docs, err := r.store.Query(ctx, models.CollectionRestaurants, []docstore.Predicate{docstore.Eq("restaurantId", slug)})
	if err != nil {
		return nil, fmt.Errorf("find restaurant %s: %w", slug, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("restaurant %s: %w", slug, docstore.ErrNotFound)
	}
	return DecodeRestaurant(docs[0])
}

func (r *RestaurantRepository) GetAll(ctx context.Context) ([]*models.Restaurant, error) {
	docs, err := r.store.Query(ctx, models.CollectionRestaurants, nil)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	restaurants := make([]*models.Restaurant, 0, len(docs))
	for _, doc := range docs {
		restaurant, err := DecodeRestaurant(doc)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}
