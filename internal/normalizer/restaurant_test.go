package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/menuar/internal/models"
)

func TestRestaurantToEnterprise(t *testing.T) {
	legacy := models.LegacyRestaurant{
		ID:          "spice-route",
		Name:        "Spice Route",
		Description: "North Indian kitchen",
		Logo:        "logos/spice.png",
		Items: []models.LegacyMenuItem{
			{ID: "a", Name: "Chicken Biryani", Price: "₹320", Category: "Main Course"},
			{ID: "b", Name: "Gulab Jamun", Price: "₹120", Category: "Desserts"},
		},
	}

	r := RestaurantToEnterprise(legacy)

	assert.Equal(t, "spice-route", r.RestaurantID)
	assert.Equal(t, models.DefaultPrimaryColor, r.Branding.PrimaryColor)
	assert.Equal(t, models.DefaultAccentColor, r.Branding.AccentColor)
	assert.Equal(t, "logos/spice.png", r.Branding.CoverImage)
	assert.Equal(t, []string{"Indian"}, r.BusinessInfo.Cuisine)
	assert.Equal(t, "$$$$", r.BusinessInfo.PriceRange)
	assert.Equal(t, "INR", r.Settings.Currency)
	assert.Len(t, r.Operations.OpeningHours, 7)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "spice-route", r.Items[0].RestaurantID)
}

func TestRestaurantRoundTrip(t *testing.T) {
	legacy := models.LegacyRestaurant{
		ID:           "diner",
		Name:         "Diner",
		Description:  "All day breakfast",
		Logo:         "https://cdn/diner.png",
		PrimaryColor: "#000000",
		AccentColor:  "#ffffff",
		Items: []models.LegacyMenuItem{
			{ID: "p", Name: "Pancakes", Description: "maple", Price: "$8.50", Category: "Breakfast"},
		},
	}

	back := RestaurantToLegacy(RestaurantToEnterprise(legacy))

	assert.Equal(t, legacy.ID, back.ID)
	assert.Equal(t, legacy.Name, back.Name)
	assert.Equal(t, legacy.PrimaryColor, back.PrimaryColor)
	assert.Equal(t, legacy.AccentColor, back.AccentColor)
	assert.Equal(t, legacy.Logo, back.Logo)
	require.Len(t, back.Items, 1)
	assert.Equal(t, "$8.50", back.Items[0].Price)
}
