package repositories

import (
	"context"

	"github.com/chrisdamba/menuar/internal/models"
)

type RestaurantRepository interface {
	// GetByID looks a restaurant up by its document id.
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	// FindBySlug queries the restaurantId field; used for records keyed by an auto id.
	FindBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	GetAll(ctx context.Context) ([]*models.Restaurant, error)
}

type CategoryRepository interface {
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Category, error)
	UpdateItemCount(ctx context.Context, restaurantID, categoryID string, count int) error
}

type MenuItemRepository interface {
	// GetByRestaurantID returns every item of a tenant in the enterprise shape.
	// Items without a stored currency take defaultCurrency.
	GetByRestaurantID(ctx context.Context, restaurantID, defaultCurrency string) ([]*models.MenuItem, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (string, error)
	Get(ctx context.Context, restaurantID, orderID string) (*models.Order, error)
	Update(ctx context.Context, restaurantID, orderID string, fields map[string]interface{}) error
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Order, error)
}
