package catalog

import (
	"strings"

	"github.com/chrisdamba/menuar/internal/models"
)

// IsAvailable reports whether an item is shown by default. Only an explicit
// false (or a sold-out flag) hides an item.
func IsAvailable(item *models.MenuItem) bool {
	return item.Available()
}

func FilterAvailable(items []*models.MenuItem) []*models.MenuItem {
	out := make([]*models.MenuItem, 0, len(items))
	for _, item := range items {
		if IsAvailable(item) {
			out = append(out, item)
		}
	}
	return out
}

// PriceBracket is a range of minor-unit prices. NoUpper makes it unbounded above.
type PriceBracket struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Min          int64  `json:"min"`
	MinInclusive bool   `json:"minInclusive"`
	Max          int64  `json:"max,omitempty"`
	MaxInclusive bool   `json:"maxInclusive"`
	NoUpper      bool   `json:"noUpper,omitempty"`
}

func (b PriceBracket) Contains(amount int64) bool {
	if amount < b.Min || (amount == b.Min && !b.MinInclusive) {
		return false
	}
	if b.NoUpper {
		return true
	}
	return amount < b.Max || (amount == b.Max && b.MaxInclusive)
}

// DefaultBrackets partition the non-negative prices: every amount falls in
// exactly one of them. The boundaries 200 and 400 fall in "200-400" and 600
// falls in "400-600".
var DefaultBrackets = []PriceBracket{
	{Key: "under-200", Label: "Under 200", Min: 0, MinInclusive: true, Max: 20000},
	{Key: "200-400", Label: "200 to 400", Min: 20000, MinInclusive: true, Max: 40000, MaxInclusive: true},
	{Key: "400-600", Label: "400 to 600", Min: 40000, Max: 60000, MaxInclusive: true},
	{Key: "above-600", Label: "Above 600", Min: 60000, NoUpper: true},
}

func BracketByKey(key string) (PriceBracket, bool) {
	for _, b := range DefaultBrackets {
		if b.Key == key {
			return b, true
		}
	}
	return PriceBracket{}, false
}

// Criteria narrows a list of items. Zero fields do not filter.
type Criteria struct {
	// Text matches name or description, case-insensitively.
	Text     string
	Category string
	Bracket  *PriceBracket
}

func (c Criteria) matches(item *models.MenuItem) bool {
	if c.Text != "" {
		text := strings.ToLower(c.Text)
		if !strings.Contains(strings.ToLower(item.Name), text) &&
			!strings.Contains(strings.ToLower(item.Description), text) {
			return false
		}
	}
	if c.Category != "" && !strings.EqualFold(item.Category.Primary, c.Category) {
		return false
	}
	if c.Bracket != nil && !c.Bracket.Contains(item.Pricing.BasePrice) {
		return false
	}
	return true
}

// Filter returns the items matching every set criterion, in input order.
func Filter(items []*models.MenuItem, c Criteria) []*models.MenuItem {
	out := make([]*models.MenuItem, 0, len(items))
	for _, item := range items {
		if c.matches(item) {
			out = append(out, item)
		}
	}
	return out
}
