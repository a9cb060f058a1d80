package normalizer

import (
	"time"

	"github.com/chrisdamba/menuar/internal/models"
)

const shortDescriptionLen = 100

// now stamps metadata on converted items.
var now = time.Now

// ToEnterprise converts a flat legacy item into the enterprise shape. Fields
// the legacy shape cannot hold are defaulted or derived from the text
// heuristics in this package.
func ToEnterprise(legacy models.LegacyMenuItem, restaurantID string) models.MenuItem {
	price := ParsePrice(legacy.Price)
	category := legacy.Category
	if category == "" {
		category = models.DefaultCategory
	}
	available := true
	ts := now().UTC()

	return models.MenuItem{
		ID:               legacy.ID,
		RestaurantID:     restaurantID,
		Name:             legacy.Name,
		Description:      legacy.Description,
		ShortDescription: shorten(legacy.Description),
		Pricing: models.Pricing{
			BasePrice:   price.Amount,
			Currency:    price.Currency,
			TaxIncluded: true,
		},
		Media: models.Media{
			PrimaryImage: legacy.ImageSrc,
			Thumbnail:    legacy.ImageSrc,
			ARModel:      legacy.ModelSrc,
		},
		Dietary: models.DietaryInfo{
			IsVegetarian: IsVegetarian(legacy.Name, legacy.Description),
			IsVegan:      IsVegan(legacy.Name, legacy.Description),
			SpiceLevel:   SpiceLevel(legacy.Name, legacy.Description),
		},
		Ingredients: ExtractIngredients(legacy.Description),
		Category: models.ItemCategory{
			Primary: category,
			Tags:    ExtractTags(legacy.Name, legacy.Description),
		},
		Availability: models.Availability{
			IsAvailable:     &available,
			PreparationTime: EstimatePreparationTime(legacy.Category),
		},
		Metadata: models.ItemMetadata{
			IsSignature: IsSignatureDish(legacy.Name),
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		SourceShape: models.ShapeLegacy,
	}
}

// ToLegacy renders an enterprise item in the flat storefront shape.
func ToLegacy(item models.MenuItem) models.LegacyMenuItem {
	return models.LegacyMenuItem{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       FormatPrice(item.Pricing.BasePrice, item.Pricing.Currency),
		ImageSrc:    item.Media.PrimaryImage,
		ModelSrc:    item.Media.ARModel,
		Category:    item.Category.Primary,
	}
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= shortDescriptionLen {
		return s
	}
	return string(r[:shortDescriptionLen]) + "..."
}
