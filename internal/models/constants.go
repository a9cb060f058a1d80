package models

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	OrderTypeDineIn = "dine-in"

	PaymentStatusPending  = "pending"
	PaymentMethodAtVenue  = "pay-at-restaurant"
	DefaultOrderNotes     = "Payment to be collected at restaurant"
	CurrencyINR           = "INR"
	CurrencyUSD           = "USD"
	DefaultPrimaryColor   = "#FF6B35"
	DefaultAccentColor    = "#4ECDC4"
	DefaultCategory       = "Main Course"
	DefaultRestaurantType = "restaurant"

	CollectionRestaurants = "restaurants"
	CollectionCategories  = "categories"
	CollectionMenuItems   = "menuItems"
	CollectionOrders      = "orders"
)

// ValidOrderStatuses lists the statuses an order may move to.
var ValidOrderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusConfirmed: true,
	OrderStatusPreparing: true,
	OrderStatusReady:     true,
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
}
