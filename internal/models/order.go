package models

import "time"

// CartItem is one cart line. ID identifies the line, not the menu item, and
// Price/Name/ImageURL are snapshots taken when the line was added.
type CartItem struct {
	ID                  string `json:"id"`
	MenuItemID          string `json:"menuItemId"`
	Name                string `json:"name"`
	Price               int64  `json:"price"` // minor currency units
	Currency            string `json:"currency,omitempty"`
	Quantity            int    `json:"quantity"`
	ImageURL            string `json:"imageUrl,omitempty"`
	Category            string `json:"category,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type Customer struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	TableNumber string `json:"tableNumber,omitempty"`
}

type OrderItem struct {
	ID                  string `json:"id" validate:"required"`
	MenuItemID          string `json:"menuItemId"`
	Name                string `json:"name" validate:"required"`
	Price               int64  `json:"price" validate:"gte=0"`
	Quantity            int    `json:"quantity" validate:"gte=1"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
	ImageURL            string `json:"imageUrl,omitempty"`
}

// OrderSubmission is the checkout payload handed to the order persistence layer.
type OrderSubmission struct {
	RestaurantID string      `json:"restaurantId" validate:"required"`
	OrderNumber  string      `json:"orderNumber,omitempty"`
	Customer     Customer    `json:"customer"`
	Items        []OrderItem `json:"items" validate:"min=1,dive"`
	TotalAmount  int64       `json:"totalAmount" validate:"gte=0"`
	Currency     string      `json:"currency,omitempty"`
	SpecialNotes string      `json:"specialNotes,omitempty"`
}

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	RestaurantID  string      `json:"restaurantId"`
	Customer      Customer    `json:"customer"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int64       `json:"totalAmount"`
	Currency      string      `json:"currency,omitempty"`
	Status        string      `json:"status"`
	OrderType     string      `json:"orderType"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentMethod string      `json:"paymentMethod"`
	SpecialNotes  string      `json:"specialNotes,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	ConfirmedAt   *time.Time  `json:"confirmedAt,omitempty"`
	ReadyAt       *time.Time  `json:"readyAt,omitempty"`
	DeliveredAt   *time.Time  `json:"deliveredAt,omitempty"`
}

type OrderStats struct {
	Today        DayOrderStats    `json:"today"`
	ThisWeek     PeriodOrderStats `json:"thisWeek"`
	PopularItems []PopularItem    `json:"popularItems"`
}

type DayOrderStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Revenue  int64          `json:"revenue"`
}

type PeriodOrderStats struct {
	Total         int   `json:"total"`
	Revenue       int64 `json:"revenue"`
	AvgOrderValue int64 `json:"avgOrderValue"`
}

type PopularItem struct {
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Revenue    int64  `json:"revenue"`
}
