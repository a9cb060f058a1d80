package documents

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
	"github.com/chrisdamba/menuar/internal/normalizer"
)

// decodeInto maps a loosely typed document body onto a model using its json tags.
func decodeInto(input interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// toMap converts a model into a document body.
func toMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func lookupString(data map[string]interface{}, fields ...string) string {
	for _, f := range fields {
		if v, ok := docstore.Lookup(data, f); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func lookupNumber(data map[string]interface{}, fields ...string) (float64, bool) {
	for _, f := range fields {
		v, ok := docstore.Lookup(data, f)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}

func lookupBool(data map[string]interface{}, field string) (bool, bool) {
	v, ok := docstore.Lookup(data, field)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// ItemShape tags a stored menu item: a structured pricing map marks the
// enterprise shape, anything else is read as legacy.
func ItemShape(data map[string]interface{}) models.Shape {
	if _, ok := data["pricing"].(map[string]interface{}); ok {
		return models.ShapeEnterprise
	}
	return models.ShapeLegacy
}

// availability folds the availability flags a record may carry. Any explicit
// false wins; no flag at all leaves IsAvailable nil.
func availability(data map[string]interface{}) *bool {
	var seen, available bool
	for _, field := range []string{"isAvailable", "availability.isAvailable", "isActive"} {
		v, ok := lookupBool(data, field)
		if !ok {
			continue
		}
		if !v {
			return &v
		}
		seen, available = true, true
	}
	if !seen {
		return nil
	}
	return &available
}

func clampSpice(level int) int {
	if level < 0 {
		return 0
	}
	if level > models.MaxSpiceLevel {
		return models.MaxSpiceLevel
	}
	return level
}

func stringList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		switch t := e.(type) {
		case string:
			if t != "" {
				out = append(out, t)
			}
		case map[string]interface{}:
			if name := lookupString(t, "name", "ingredient"); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// DecodeMenuItem normalizes a stored menu item of either shape.
func DecodeMenuItem(doc *docstore.Document, restaurantID, defaultCurrency string) (*models.MenuItem, error) {
	var item models.MenuItem
	switch ItemShape(doc.Data) {
	case models.ShapeEnterprise:
		decoded, err := decodeEnterpriseItem(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("decode menu item %s: %w", doc.Path, err)
		}
		item = decoded
	default:
		item = decodeLegacyItem(doc.Data, restaurantID)
	}

	item.ID = doc.ID
	item.RestaurantID = restaurantID
	if item.Pricing.Currency == "" {
		item.Pricing.Currency = defaultCurrency
	}
	if item.Pricing.Currency == "" {
		item.Pricing.Currency = models.CurrencyUSD
	}
	if item.Category.Primary == "" {
		item.Category.Primary = models.DefaultCategory
	}
	item.Availability.IsAvailable = availability(doc.Data)
	if soldOut, ok := lookupBool(doc.Data, "soldOut"); ok {
		item.Availability.SoldOut = soldOut
	}
	if soldOut, ok := lookupBool(doc.Data, "availability.soldOut"); ok && soldOut {
		item.Availability.SoldOut = true
	}
	item.Dietary.SpiceLevel = clampSpice(item.Dietary.SpiceLevel)
	return &item, nil
}

func decodeEnterpriseItem(data map[string]interface{}) (models.MenuItem, error) {
	body := make(map[string]interface{}, len(data))
	for k, v := range data {
		body[k] = v
	}

	// fields whose stored form differs from the model are filled in below
	for _, k := range []string{"category", "ingredients", "media", "metadata", "availability", "createdAt", "updatedAt"} {
		delete(body, k)
	}

	var item models.MenuItem
	if err := decodeInto(body, &item); err != nil {
		return item, err
	}

	if base, ok := lookupNumber(data, "pricing.basePrice"); ok {
		item.Pricing.BasePrice = int64(math.Round(base))
	}

	switch c := data["category"].(type) {
	case string:
		item.Category.Primary = c
	case map[string]interface{}:
		item.Category.Primary = lookupString(c, "primary", "name")
		item.Category.Secondary = lookupString(c, "secondary")
		item.Category.Tags = stringList(c["tags"])
	}
	if item.Category.Primary == "" {
		item.Category.Primary = lookupString(data, "categoryId")
	}
	if item.Category.Tags == nil {
		item.Category.Tags = stringList(data["tags"])
	}

	item.Media = models.Media{
		PrimaryImage: lookupString(data, "media.primaryImage", "media.images.primary", "imageUrl", "imageSrc"),
		Thumbnail:    lookupString(data, "media.thumbnail", "media.images.thumbnail"),
		ARModel:      lookupString(data, "media.arModel", "media.models.ar", "arModel.modelUrl", "modelSrc"),
	}

	if ingredients, ok := data["ingredients"].(map[string]interface{}); ok {
		item.Ingredients = stringList(ingredients["primary"])
		if info, ok := ingredients["dietaryInfo"].(map[string]interface{}); ok {
			if err := decodeInto(info, &item.Dietary); err != nil {
				return item, err
			}
		}
	} else {
		item.Ingredients = stringList(data["ingredients"])
	}
	if veg, ok := lookupBool(data, "dietary.vegetarian"); ok {
		item.Dietary.IsVegetarian = veg
	}

	if minutes, ok := lookupNumber(data, "availability.preparationTime", "preparation.cookingTime", "preparationTime"); ok {
		item.Availability.PreparationTime = int(minutes)
	}

	item.Metadata.IsSignature, _ = lookupBool(data, "metadata.isSignature")
	item.Metadata.IsSeasonal, _ = lookupBool(data, "metadata.isSeasonal")
	item.Metadata.CreatedAt = parseTime(lookupString(data, "metadata.createdAt", "createdAt"))
	item.Metadata.UpdatedAt = parseTime(lookupString(data, "metadata.updatedAt", "updatedAt"))

	item.SourceShape = models.ShapeEnterprise
	return item, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// decodeLegacyItem runs a flat record through the normalizer. A numeric price
// is taken to be minor units already; a string price is parsed.
func decodeLegacyItem(data map[string]interface{}, restaurantID string) models.MenuItem {
	legacy := models.LegacyMenuItem{
		Name:        lookupString(data, "name"),
		Description: lookupString(data, "description"),
		ImageSrc:    lookupString(data, "imageSrc", "imageUrl", "image"),
		ModelSrc:    lookupString(data, "modelSrc", "arModel.modelUrl", "modelUrl"),
		Category:    lookupString(data, "category", "categoryId"),
	}
	price, numeric := lookupNumber(data, "price")
	if !numeric {
		legacy.Price, _ = data["price"].(string)
	}

	item := normalizer.ToEnterprise(legacy, restaurantID)
	if numeric {
		item.Pricing.BasePrice = int64(math.Round(price))
		item.Pricing.Currency = strings.ToUpper(lookupString(data, "currency"))
	}
	if veg, ok := lookupBool(data, "isVegetarian"); ok {
		item.Dietary.IsVegetarian = veg
	}
	if level, ok := lookupNumber(data, "spiceLevel"); ok {
		item.Dietary.SpiceLevel = int(level)
	}
	return item
}

// RestaurantShape tags a stored restaurant by where its branding lives.
func RestaurantShape(data map[string]interface{}) models.Shape {
	_, branding := data["branding"].(map[string]interface{})
	_, info := data["businessInfo"].(map[string]interface{})
	if branding || info {
		return models.ShapeEnterprise
	}
	return models.ShapeLegacy
}

func DecodeRestaurant(doc *docstore.Document) (*models.Restaurant, error) {
	var r models.Restaurant
	switch RestaurantShape(doc.Data) {
	case models.ShapeEnterprise:
		body := make(map[string]interface{}, len(doc.Data))
		for k, v := range doc.Data {
			if k == "items" || k == "createdAt" || k == "updatedAt" || k == "metadata" {
				continue
			}
			body[k] = v
		}
		if err := decodeInto(body, &r); err != nil {
			return nil, fmt.Errorf("decode restaurant %s: %w", doc.Path, err)
		}
		if r.Branding.PrimaryColor == "" {
			r.Branding.PrimaryColor = models.DefaultPrimaryColor
		}
		if r.Branding.AccentColor == "" {
			r.Branding.AccentColor = models.DefaultAccentColor
		}
		r.SourceShape = models.ShapeEnterprise
	default:
		r = normalizer.RestaurantToEnterprise(models.LegacyRestaurant{
			ID:           doc.ID,
			Name:         lookupString(doc.Data, "name"),
			Description:  lookupString(doc.Data, "description"),
			Logo:         lookupString(doc.Data, "logo"),
			PrimaryColor: lookupString(doc.Data, "primaryColor"),
			AccentColor:  lookupString(doc.Data, "accentColor"),
		})
		if currency := lookupString(doc.Data, "currency", "settings.currency"); currency != "" {
			r.Settings.Currency = currency
		}
	}

	r.DocID = doc.ID
	r.RestaurantID = RestaurantSlug(doc)
	if active, ok := lookupBool(doc.Data, "isActive"); ok {
		r.IsActive = active
	} else if _, ok := doc.Data["isActive"]; !ok {
		r.IsActive = true
	}
	return &r, nil
}

// RestaurantSlug returns the tenant namespace of a restaurant document: its
// restaurantId field, or the document id when the field is absent.
func RestaurantSlug(doc *docstore.Document) string {
	if slug := doc.String("restaurantId"); slug != "" {
		return slug
	}
	return doc.ID
}

func DecodeCategory(doc *docstore.Document) *models.Category {
	c := &models.Category{
		CategoryID:  lookupString(doc.Data, "categoryId"),
		Name:        lookupString(doc.Data, "name"),
		Description: lookupString(doc.Data, "description"),
		IsActive:    true,
	}
	if c.CategoryID == "" {
		c.CategoryID = doc.ID
	}
	if c.Name == "" {
		c.Name = c.CategoryID
	}
	if order, ok := lookupNumber(doc.Data, "displayOrder", "order"); ok && order > 0 {
		c.DisplayOrder = int(order)
	}
	if active, ok := lookupBool(doc.Data, "isActive"); ok {
		c.IsActive = active
	}
	if count, ok := lookupNumber(doc.Data, "itemCount"); ok {
		c.ItemCount = int(count)
	}
	return c
}
