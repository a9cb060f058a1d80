package factories

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/menuar/internal/models"
)

var cuisines = []string{"Indian", "Italian", "Chinese", "Japanese", "Mexican", "Thai", "American", "Mediterranean", "Cafe"}

var restaurantSuffixes = []string{"Kitchen", "Bistro", "Dhaba", "Trattoria", "Grill", "House", "Cafe"}

type RestaurantFactory struct {
	gen       *Generator
	slugCache sync.Map // to track used slugs
}

// CreateRestaurant returns a flat restaurants record. Every other record uses
// the nested branding/businessInfo layout so both decode paths are exercised.
func (rf *RestaurantFactory) CreateRestaurant(n int) Record {
	fake := rf.gen.fake
	name := fake.Person().LastName() + "'s " + fake.RandomStringElement(restaurantSuffixes)
	slug := rf.createUniqueSlug(name)
	currency := models.CurrencyINR
	if fake.IntBetween(0, 3) == 0 {
		currency = models.CurrencyUSD
	}

	data := map[string]interface{}{
		"restaurantId": slug,
		"name":         name,
		"description":  fake.Lorem().Sentence(12),
		"currency":     currency,
		"isActive":     true,
	}
	logo := fake.Internet().URL() + "/logo.png"
	if n%2 == 0 {
		data["logo"] = logo
		data["primaryColor"] = models.DefaultPrimaryColor
		data["accentColor"] = models.DefaultAccentColor
	} else {
		data["branding"] = map[string]interface{}{
			"logo":         logo,
			"primaryColor": fake.Color().Hex(),
			"accentColor":  fake.Color().Hex(),
		}
		data["businessInfo"] = map[string]interface{}{
			"type":       models.DefaultRestaurantType,
			"cuisine":    []interface{}{fake.RandomStringElement(cuisines)},
			"priceRange": "$$",
		}
		data["settings"] = map[string]interface{}{
			"currency": currency,
			"taxRate":  0.05,
		}
	}
	return Record{ID: cuid.New(), Data: data}
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	counter := 1

	for {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}
