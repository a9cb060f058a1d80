package models

import "time"

// Shape tags which stored representation a record was decoded from.
type Shape string

const (
	ShapeLegacy     Shape = "legacy"
	ShapeEnterprise Shape = "enterprise"
)

// MaxSpiceLevel is the ceiling of the spice ordinal (0 = not spicy).
const MaxSpiceLevel = 4

type Pricing struct {
	BasePrice   int64  `json:"basePrice"` // minor currency units
	Currency    string `json:"currency"`
	TaxIncluded bool   `json:"taxIncluded"`
}

type Media struct {
	PrimaryImage string `json:"primaryImage"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	ARModel      string `json:"arModel,omitempty"`
}

type DietaryInfo struct {
	IsVegetarian bool `json:"isVegetarian"`
	IsVegan      bool `json:"isVegan"`
	IsGlutenFree bool `json:"isGlutenFree"`
	IsHalal      bool `json:"isHalal"`
	SpiceLevel   int  `json:"spiceLevel"`
}

type ItemCategory struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary,omitempty"`
	Tags      []string `json:"tags"`
}

type Availability struct {
	// IsAvailable is nil when the stored record carries no flag; absent means available.
	IsAvailable     *bool `json:"isAvailable,omitempty"`
	SoldOut         bool  `json:"soldOut,omitempty"`
	PreparationTime int   `json:"preparationTime"` // minutes
}

type ItemMetadata struct {
	IsSignature bool      `json:"isSignature"`
	IsSeasonal  bool      `json:"isSeasonal"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MenuItem is the enterprise (nested, integer-priced) menu item.
type MenuItem struct {
	ID               string       `json:"id"`
	RestaurantID     string       `json:"restaurantId"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	ShortDescription string       `json:"shortDescription,omitempty"`
	Pricing          Pricing      `json:"pricing"`
	Media            Media        `json:"media"`
	Dietary          DietaryInfo  `json:"dietary"`
	Ingredients      []string     `json:"ingredients,omitempty"`
	Category         ItemCategory `json:"category"`
	Availability     Availability `json:"availability"`
	Metadata         ItemMetadata `json:"metadata"`
	SourceShape      Shape        `json:"sourceShape,omitempty"`
}

// Available reports whether the item should be shown by default: only an
// explicit false or a sold-out flag hides it.
func (m *MenuItem) Available() bool {
	if m.Availability.SoldOut {
		return false
	}
	return m.Availability.IsAvailable == nil || *m.Availability.IsAvailable
}

// LegacyMenuItem is the flat, string-priced shape rendered by the storefront.
type LegacyMenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageSrc    string `json:"imageSrc"`
	ModelSrc    string `json:"modelSrc"`
	Category    string `json:"category"`
}
