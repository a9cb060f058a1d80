// Package cart holds a diner's in-session selection and projects it into an
// order submission at checkout.
package cart

import (
	"strings"
	"sync"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/menuar/internal/models"
)

type Totals struct {
	ItemCount int   `json:"itemCount"`
	Amount    int64 `json:"amount"`
}

// Cart keeps lines in insertion order. Prices are snapshots taken on add.
type Cart struct {
	mu    sync.Mutex
	lines []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// NewLineID returns a fresh cart-line identity.
func NewLineID() string {
	return cuid.New()
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem appends line, or bumps the quantity by one when a line with the
// same ID already exists. The existing snapshot is kept.
func (c *Cart) AddItem(line models.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line.ID == "" {
		line.ID = NewLineID()
	}
	if i := c.index(line.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	c.lines = append(c.lines, line)
}

func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

func (c *Cart) remove(id string) {
	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// SetQuantity removes the line when n <= 0. Unknown ids are ignored.
func (c *Cart) SetQuantity(id string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		c.remove(id)
		return
	}
	if i := c.index(id); i >= 0 {
		c.lines[i].Quantity = n
	}
}

func (c *Cart) SetInstructions(id, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.lines[i].SpecialInstructions = strings.TrimSpace(text)
	}
}

func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totals(c.lines)
}

func totals(lines []models.CartItem) Totals {
	var t Totals
	for _, l := range lines {
		t.ItemCount += l.Quantity
		t.Amount += l.Price * int64(l.Quantity)
	}
	return t
}

// Items returns a copy of the lines.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// ToOrderPayload builds the checkout submission without touching the cart.
// Empty notes fall back to the pay-at-restaurant note. The currency is taken
// from the first line.
func (c *Cart) ToOrderPayload(restaurantID string, customer models.Customer, notes string) models.OrderSubmission {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(notes) == "" {
		notes = models.DefaultOrderNotes
	}
	sub := models.OrderSubmission{
		RestaurantID: restaurantID,
		Customer:     customer,
		Items:        make([]models.OrderItem, 0, len(c.lines)),
		TotalAmount:  totals(c.lines).Amount,
		SpecialNotes: notes,
	}
	for _, l := range c.lines {
		if sub.Currency == "" {
			sub.Currency = l.Currency
		}
		sub.Items = append(sub.Items, models.OrderItem{
			ID:                  l.ID,
			MenuItemID:          l.MenuItemID,
			Name:                l.Name,
			Price:               l.Price,
			Quantity:            l.Quantity,
			SpecialInstructions: l.SpecialInstructions,
			ImageURL:            l.ImageURL,
		})
	}
	return sub
}

// LineFromItem snapshots a menu item into a new cart line.
func LineFromItem(item *models.MenuItem) models.CartItem {
	image := item.Media.Thumbnail
	if image == "" {
		image = item.Media.PrimaryImage
	}
	return models.CartItem{
		ID:         NewLineID(),
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Pricing.BasePrice,
		Currency:   item.Pricing.Currency,
		Quantity:   1,
		ImageURL:   image,
		Category:   item.Category.Primary,
	}
}
