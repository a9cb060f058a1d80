package normalizer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/menuar/internal/models"
)

func TestToEnterprise(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	legacy := models.LegacyMenuItem{
		ID:          "paneer-tikka",
		Name:        "Paneer Tikka",
		Description: "Spicy grilled cottage cheese with onion",
		Price:       "₹1,250",
		ImageSrc:    "images/paneer.jpg",
		ModelSrc:    "https://cdn.example.com/paneer.glb",
		Category:    "Appetizer",
	}

	item := ToEnterprise(legacy, "spice-route")

	assert.Equal(t, "spice-route", item.RestaurantID)
	assert.Equal(t, int64(125000), item.Pricing.BasePrice)
	assert.Equal(t, "INR", item.Pricing.Currency)
	assert.True(t, item.Pricing.TaxIncluded)
	assert.True(t, item.Dietary.IsVegetarian)
	assert.False(t, item.Dietary.IsVegan)
	assert.Equal(t, 3, item.Dietary.SpiceLevel)
	assert.Equal(t, []string{"spicy"}, item.Category.Tags)
	assert.Equal(t, []string{"cheese", "onion"}, item.Ingredients)
	assert.Equal(t, 10, item.Availability.PreparationTime)
	require.NotNil(t, item.Availability.IsAvailable)
	assert.True(t, *item.Availability.IsAvailable)
	assert.Equal(t, fixed, item.Metadata.CreatedAt)
	assert.Equal(t, models.ShapeLegacy, item.SourceShape)
}

func TestToEnterpriseDefaults(t *testing.T) {
	item := ToEnterprise(models.LegacyMenuItem{ID: "x", Price: "free"}, "r")

	assert.Equal(t, models.DefaultCategory, item.Category.Primary)
	assert.Equal(t, int64(0), item.Pricing.BasePrice)
	assert.Equal(t, "USD", item.Pricing.Currency)
	assert.Equal(t, 15, item.Availability.PreparationTime)
	assert.Empty(t, item.Category.Tags)
}

func TestShortDescriptionTruncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	item := ToEnterprise(models.LegacyMenuItem{Description: long}, "r")
	assert.Equal(t, strings.Repeat("a", 100)+"...", item.ShortDescription)

	item = ToEnterprise(models.LegacyMenuItem{Description: "short"}, "r")
	assert.Equal(t, "short", item.ShortDescription)
}

func TestLegacyRoundTrip(t *testing.T) {
	items := []models.LegacyMenuItem{
		{ID: "1", Name: "Dal", Description: "lentils", Price: "₹180", ImageSrc: "a.jpg", ModelSrc: "a.glb", Category: "Main Course"},
		{ID: "2", Name: "Burger", Description: "beef", Price: "$12.99", ImageSrc: "https://x/b.jpg", Category: "Mains"},
		{ID: "3", Name: "Thali", Description: "", Price: "₹1,499.50", Category: "Specials"},
		{ID: "4", Name: "Tea", Description: "masala", Price: "$0", Category: "Beverages"},
		{ID: "5", Name: "Soup", Description: "of the day", Price: "Rs. 85.5", Category: "Soups"},
	}

	for _, original := range items {
		t.Run(original.Name, func(t *testing.T) {
			back := ToLegacy(ToEnterprise(original, "tenant"))

			assert.Equal(t, original.ID, back.ID)
			assert.Equal(t, original.Name, back.Name)
			assert.Equal(t, original.Description, back.Description)
			assert.Equal(t, original.Category, back.Category)
			assert.Equal(t, original.ImageSrc, back.ImageSrc)
			assert.Equal(t, original.ModelSrc, back.ModelSrc)
			assert.Equal(t, ParsePrice(original.Price).Amount, ParsePrice(back.Price).Amount)
		})
	}
}
