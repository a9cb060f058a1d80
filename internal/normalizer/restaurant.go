package normalizer

import (
	"github.com/chrisdamba/menuar/internal/models"
)

const (
	defaultTagline         = "Experience Food in Augmented Reality"
	defaultAvgDeliveryTime = 30
	defaultMinimumOrder    = 20000
	defaultOpen            = "11:00"
	defaultClose           = "23:00"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func defaultOpeningHours() map[string]models.DayHours {
	hours := make(map[string]models.DayHours, len(weekdays))
	for _, day := range weekdays {
		hours[day] = models.DayHours{IsOpen: true, Open: defaultOpen, Close: defaultClose}
	}
	return hours
}

// RestaurantToEnterprise lifts a flat restaurant and its items into the
// enterprise shape. Cuisine and price range are inferred from the menu.
func RestaurantToEnterprise(legacy models.LegacyRestaurant) models.Restaurant {
	items := make([]models.MenuItem, 0, len(legacy.Items))
	currency := models.CurrencyUSD
	for i, li := range legacy.Items {
		item := ToEnterprise(li, legacy.ID)
		if i == 0 {
			currency = item.Pricing.Currency
		}
		items = append(items, item)
	}

	primary := legacy.PrimaryColor
	if primary == "" {
		primary = models.DefaultPrimaryColor
	}
	accent := legacy.AccentColor
	if accent == "" {
		accent = models.DefaultAccentColor
	}

	return models.Restaurant{
		RestaurantID: legacy.ID,
		Name:         legacy.Name,
		Description:  legacy.Description,
		Tagline:      defaultTagline,
		BusinessInfo: models.BusinessInfo{
			Type:       models.DefaultRestaurantType,
			Cuisine:    DetectCuisine(legacy.Items),
			PriceRange: DetectPriceRange(legacy.Items),
		},
		Branding: models.Branding{
			Logo:         legacy.Logo,
			CoverImage:   legacy.Logo,
			PrimaryColor: primary,
			AccentColor:  accent,
		},
		Operations: models.Operations{
			IsActive:        true,
			OpeningHours:    defaultOpeningHours(),
			AvgDeliveryTime: defaultAvgDeliveryTime,
			MinimumOrder:    defaultMinimumOrder,
		},
		Settings:    models.Settings{Currency: currency},
		IsActive:    true,
		Items:       items,
		SourceShape: models.ShapeLegacy,
	}
}

func RestaurantToLegacy(r models.Restaurant) models.LegacyRestaurant {
	items := make([]models.LegacyMenuItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ToLegacy(item))
	}
	return models.LegacyRestaurant{
		ID:           r.RestaurantID,
		Name:         r.Name,
		Description:  r.Description,
		Logo:         r.Branding.Logo,
		PrimaryColor: r.Branding.PrimaryColor,
		AccentColor:  r.Branding.AccentColor,
		Items:        items,
	}
}
