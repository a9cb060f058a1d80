package models

type BusinessInfo struct {
	Type            string   `json:"type"`
	Cuisine         []string `json:"cuisine"`
	PriceRange      string   `json:"priceRange"`
	EstablishedYear int      `json:"establishedYear,omitempty"`
}

type Branding struct {
	Logo         string `json:"logo"`
	CoverImage   string `json:"coverImage,omitempty"`
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
}

type DayHours struct {
	IsOpen bool   `json:"isOpen"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
}

type Operations struct {
	IsActive        bool                `json:"isActive"`
	OpeningHours    map[string]DayHours `json:"openingHours,omitempty"`
	AvgDeliveryTime int                 `json:"avgDeliveryTime,omitempty"`
	MinimumOrder    int64               `json:"minimumOrder,omitempty"` // minor units
}

type Settings struct {
	Currency string  `json:"currency"`
	TaxRate  float64 `json:"taxRate"`
	Timezone string  `json:"timezone,omitempty"`
}

// Restaurant is the enterprise tenant record. RestaurantID is the URL slug and
// the namespace its categories and menu items live under.
type Restaurant struct {
	DocID        string       `json:"docId,omitempty"`
	RestaurantID string       `json:"restaurantId"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Tagline      string       `json:"tagline,omitempty"`
	BusinessInfo BusinessInfo `json:"businessInfo"`
	Branding     Branding     `json:"branding"`
	Operations   Operations   `json:"operations"`
	Settings     Settings     `json:"settings"`
	IsActive     bool         `json:"isActive"`
	IsVerified   bool         `json:"isVerified"`
	Items        []MenuItem   `json:"items,omitempty"`
	SourceShape  Shape        `json:"sourceShape,omitempty"`
}

// LegacyRestaurant is the flat restaurant shape with branding as top-level strings.
type LegacyRestaurant struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Logo         string           `json:"logo"`
	PrimaryColor string           `json:"primaryColor"`
	AccentColor  string           `json:"accentColor"`
	Items        []LegacyMenuItem `json:"items"`
}
