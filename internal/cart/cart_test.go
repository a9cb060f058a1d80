package cart

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/menuar/internal/models"
)

func line(id string, price int64) models.CartItem {
	return models.CartItem{ID: id, MenuItemID: "m-" + id, Name: "dish " + id, Price: price, Currency: models.CurrencyINR, Quantity: 1}
}

func TestAddItem_MergesOnSameID(t *testing.T) {
	c := New()
	c.AddItem(line("a", 25000))
	second := line("a", 99999)
	second.Name = "renamed"
	c.AddItem(second)
	c.AddItem(line("a", 1))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, int64(25000), items[0].Price)
	assert.Equal(t, "dish a", items[0].Name)
}

func TestAddItem_DistinctIDsStaySeparate(t *testing.T) {
	c := New()
	first := line("a", 25000)
	second := line("b", 25000)
	second.MenuItemID = first.MenuItemID
	c.AddItem(first)
	c.AddItem(second)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, Totals{ItemCount: 2, Amount: 50000}, c.Totals())
}

func TestAddItem_AssignsMissingID(t *testing.T) {
	c := New()
	c.AddItem(models.CartItem{Name: "Lassi", Price: 8000})
	items := c.Items()
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	c := New()
	c.AddItem(line("a", 10000))
	c.AddItem(line("b", 5000))

	c.SetQuantity("a", 4)
	assert.Equal(t, Totals{ItemCount: 5, Amount: 45000}, c.Totals())

	c.SetQuantity("a", 0)
	assert.Equal(t, 1, c.Len())
	c.SetQuantity("b", -2)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Totals{}, c.Totals())

	c.SetQuantity("missing", 3)
	assert.Equal(t, 0, c.Len())
}

func TestTotalsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := New()
	ids := []string{"a", "b", "c", "d"}
	prices := map[string]int64{"a": 12000, "b": 35050, "c": 999, "d": 0}

	for step := 0; step < 500; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(3) {
		case 0:
			c.AddItem(line(id, prices[id]))
		case 1:
			c.SetQuantity(id, rng.Intn(6)-1)
		case 2:
			c.RemoveItem(id)
		}

		var want Totals
		for _, l := range c.Items() {
			require.GreaterOrEqual(t, l.Quantity, 1)
			want.ItemCount += l.Quantity
			want.Amount += l.Price * int64(l.Quantity)
		}
		require.Equal(t, want, c.Totals(), "step %d", step)
	}
}

func TestSnapshotIgnoresLaterPriceChanges(t *testing.T) {
	item := &models.MenuItem{ID: "m1", Name: "Biryani", Pricing: models.Pricing{BasePrice: 30000, Currency: models.CurrencyINR}}
	c := New()
	l := LineFromItem(item)
	c.AddItem(l)

	item.Pricing.BasePrice = 45000
	c.AddItem(l)

	assert.Equal(t, Totals{ItemCount: 2, Amount: 60000}, c.Totals())
}

func TestSetInstructions(t *testing.T) {
	c := New()
	c.AddItem(line("a", 100))
	c.SetInstructions("a", "  no onions ")
	assert.Equal(t, "no onions", c.Items()[0].SpecialInstructions)
}

func TestToOrderPayload(t *testing.T) {
	c := New()
	c.AddItem(line("a", 25000))
	c.AddItem(line("a", 25000))
	c.AddItem(line("b", 12050))
	before := c.Items()

	customer := models.Customer{Name: "Asha", Phone: "+91 98765 43210", TableNumber: "7"}
	sub := c.ToOrderPayload("spice-garden", customer, "")

	assert.Equal(t, "spice-garden", sub.RestaurantID)
	assert.Equal(t, customer, sub.Customer)
	assert.Equal(t, models.DefaultOrderNotes, sub.SpecialNotes)
	assert.Equal(t, models.CurrencyINR, sub.Currency)
	assert.Equal(t, int64(62050), sub.TotalAmount)
	require.Len(t, sub.Items, 2)
	assert.Equal(t, 2, sub.Items[0].Quantity)

	var sum int64
	for _, it := range sub.Items {
		sum += it.Price * int64(it.Quantity)
	}
	assert.Equal(t, sub.TotalAmount, sum)

	sub.Items[0].Quantity = 99
	assert.Equal(t, before, c.Items())

	withNotes := c.ToOrderPayload("spice-garden", customer, "extra napkins")
	assert.Equal(t, "extra napkins", withNotes.SpecialNotes)
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(line("a", 100))
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.ToOrderPayload("r", models.Customer{}, "").Items)
}

func TestConcurrentAdds(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddItem(line("a", 100))
		}()
	}
	wg.Wait()
	assert.Equal(t, Totals{ItemCount: 50, Amount: 5000}, c.Totals())
}
