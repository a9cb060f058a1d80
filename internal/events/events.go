// Package events publishes order lifecycle messages for kitchen displays and
// analytics consumers.
package events

import (
	"context"
	"time"

	"github.com/chrisdamba/menuar/internal/models"
)

const TypeOrderPlaced = "order.placed"

type OrderPlaced struct {
	Type         string             `json:"type"`
	OrderID      string             `json:"orderId"`
	OrderNumber  string             `json:"orderNumber"`
	RestaurantID string             `json:"restaurantId"`
	TableNumber  string             `json:"tableNumber,omitempty"`
	Items        []models.OrderItem `json:"items"`
	TotalAmount  int64              `json:"totalAmount"`
	Currency     string             `json:"currency,omitempty"`
	PlacedAt     time.Time          `json:"placedAt"`
}

// NewOrderPlaced builds the event for a persisted order.
func NewOrderPlaced(o *models.Order) OrderPlaced {
	return OrderPlaced{
		Type:         TypeOrderPlaced,
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		RestaurantID: o.RestaurantID,
		TableNumber:  o.Customer.TableNumber,
		Items:        o.Items,
		TotalAmount:  o.TotalAmount,
		Currency:     o.Currency,
		PlacedAt:     o.CreatedAt,
	}
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
	Close() error
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (NopPublisher) Close() error                                          { return nil }
