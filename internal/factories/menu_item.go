package factories

import (
	"fmt"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/menuar/internal/models"
)

var menuCategories = []string{"Starters", "Main Course", "Breads", "Rice & Biryani", "Desserts", "Beverages"}

var dishes = map[string][]string{
	"Starters":       {"Paneer Tikka", "Chicken 65", "Veg Spring Rolls", "Hara Bhara Kebab", "Crispy Corn"},
	"Main Course":    {"Butter Chicken", "Dal Makhani", "Palak Paneer", "Spicy Lamb Vindaloo", "Vegetable Curry"},
	"Breads":         {"Butter Naan", "Garlic Naan", "Tandoori Roti", "Lachha Paratha"},
	"Rice & Biryani": {"Chicken Biryani", "Veg Pulao", "Jeera Rice", "Mutton Biryani"},
	"Desserts":       {"Gulab Jamun", "Rasmalai", "Chocolate Brownie", "Kulfi"},
	"Beverages":      {"Mango Lassi", "Masala Chai", "Fresh Lime Soda", "Cold Coffee"},
}

type MenuItemFactory struct {
	gen *Generator
}

// CreateCategories returns the category records of one restaurant. ref is the
// value stored in restaurantId, either the slug or the restaurant's doc id.
func (mf *MenuItemFactory) CreateCategories(ref string) []Record {
	out := make([]Record, 0, len(menuCategories))
	for i, name := range menuCategories {
		out = append(out, Record{
			ID: cuid.New(),
			Data: map[string]interface{}{
				"restaurantId": ref,
				"categoryId":   slugify(name),
				"name":         name,
				"description":  mf.gen.fake.Lorem().Sentence(6),
				"displayOrder": i + 1,
				"isActive":     true,
			},
		})
	}
	return out
}

// CreateMenuItem alternates between the legacy string-priced layout and the
// structured pricing layout.
func (mf *MenuItemFactory) CreateMenuItem(ref, currency string, n int) Record {
	fake := mf.gen.fake
	category := fake.RandomStringElement(menuCategories)
	name := fake.RandomStringElement(dishes[category])
	minor := int64(fake.IntBetween(60, 900)) * 100
	if fake.Bool() {
		minor += 50
	}
	itemID := fmt.Sprintf("item-%03d", n)
	image := fmt.Sprintf("menu/%s/%s.jpg", ref, itemID)

	data := map[string]interface{}{
		"restaurantId": ref,
		"itemId":       itemID,
		"name":         name,
		"description":  fake.Lorem().Sentence(14),
	}
	if n%2 == 0 {
		data["price"] = formatSourcePrice(minor, currency)
		data["category"] = category
		data["imageSrc"] = image
		data["modelSrc"] = fmt.Sprintf("models/%s/%s.glb", ref, itemID)
	} else {
		data["pricing"] = map[string]interface{}{
			"basePrice":   minor,
			"currency":    currency,
			"taxIncluded": true,
		}
		data["category"] = map[string]interface{}{
			"primary": category,
			"tags":    []interface{}{slugify(category)},
		}
		data["media"] = map[string]interface{}{
			"primaryImage": image,
		}
		data["dietary"] = map[string]interface{}{
			"isVegetarian": fake.Bool(),
			"spiceLevel":   fake.IntBetween(0, models.MaxSpiceLevel),
		}
	}
	if fake.IntBetween(0, 9) == 0 {
		data["isAvailable"] = false
	}
	return Record{ID: cuid.New(), Data: data}
}

// formatSourcePrice renders minor units the way hand-entered menus did.
func formatSourcePrice(minor int64, currency string) string {
	symbol := "$"
	if currency == models.CurrencyINR {
		symbol = "₹"
	}
	if minor%100 == 0 {
		return fmt.Sprintf("%s%d", symbol, minor/100)
	}
	return fmt.Sprintf("%s%d.%02d", symbol, minor/100, minor%100)
}
