package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
)

type OrderRepository struct {
	store docstore.Store
}

func NewOrderRepository(store docstore.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func ordersPath(restaurantID string) string {
	return docstore.Join(models.CollectionRestaurants, restaurantID, models.CollectionOrders)
}

// Create stores the order under an id assigned by the store.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (string, error) {
	data, err := toMap(order)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	delete(data, "id")
	id, err := r.store.Add(ctx, ordersPath(order.RestaurantID), data)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

func decodeOrder(doc *docstore.Document) (*models.Order, error) {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", doc.Path, err)
	}
	order.ID = doc.ID
	return &order, nil
}

func (r *OrderRepository) Get(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	doc, err := r.store.Get(ctx, ordersPath(restaurantID), orderID)
	if err != nil {
		return nil, err
	}
	return decodeOrder(doc)
}

func (r *OrderRepository) Update(ctx context.Context, restaurantID, orderID string, fields map[string]interface{}) error {
	return r.store.Update(ctx, docstore.Join(ordersPath(restaurantID), orderID), fields)
}

// GetByRestaurantID returns the tenant's orders, newest first.
func (r *OrderRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Order, error) {
	docs, err := r.store.Query(ctx, ordersPath(restaurantID), nil, docstore.OrderBy{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list orders of %s: %w", restaurantID, err)
	}
	orders := make([]*models.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := decodeOrder(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
