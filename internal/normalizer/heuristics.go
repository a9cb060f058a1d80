package normalizer

import (
	"strings"

	"github.com/chrisdamba/menuar/internal/models"
)

var (
	meatKeywords     = []string{"chicken", "beef", "pork", "fish", "salmon", "shrimp", "meat", "bacon"}
	nonVeganKeywords = append(append([]string{}, meatKeywords...), "cheese", "cream", "butter", "milk", "egg")

	hotKeywords  = []string{"spicy", "hot", "chili"}
	mildKeywords = []string{"mild", "curry"}

	commonIngredients = []string{
		"chicken", "beef", "pork", "fish", "salmon", "shrimp",
		"rice", "pasta", "bread", "cheese", "tomato", "onion",
		"garlic", "herbs", "spices", "vegetables", "lettuce",
		"avocado", "mushroom", "pepper", "cream", "butter",
	}

	signatureKeywords = []string{"signature", "special", "chef"}

	prepTimes = map[string]int{
		"appetizer":   10,
		"salad":       8,
		"soup":        12,
		"main course": 20,
		"dessert":     15,
		"beverage":    5,
	}
)

const (
	defaultPrepTime   = 15
	defaultIngredient = "fresh ingredients"
	defaultCuisine    = "International"
)

type tagRule struct {
	tag      string
	keywords []string
}

var tagRules = []tagRule{
	{"popular", []string{"popular", "classic"}},
	{"premium", []string{"premium", "gourmet"}},
	{"spicy", []string{"spicy", "hot"}},
	{"creamy", []string{"creamy", "rich"}},
}

type cuisineRule struct {
	cuisine  string
	keywords []string
}

var cuisineRules = []cuisineRule{
	{"Indian", []string{"curry", "biryani", "tandoor", "masala", "dal"}},
	{"Italian", []string{"pizza", "pasta", "risotto", "gelato"}},
	{"American", []string{"burger", "fries", "bbq", "wings"}},
	{"Chinese", []string{"noodles", "dim sum", "wok", "fried rice"}},
	{"Mexican", []string{"taco", "burrito", "quesadilla", "salsa"}},
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func itemText(name, description string) string {
	return strings.ToLower(name + " " + description)
}

// IsVegetarian is a default, not a dietary guarantee.
func IsVegetarian(name, description string) bool {
	return !containsAny(itemText(name, description), meatKeywords)
}

func IsVegan(name, description string) bool {
	return !containsAny(itemText(name, description), nonVeganKeywords)
}

// SpiceLevel returns 3 for hot dishes, 1 for mild ones and 0 otherwise.
func SpiceLevel(name, description string) int {
	text := itemText(name, description)
	switch {
	case containsAny(text, hotKeywords):
		return 3
	case containsAny(text, mildKeywords):
		return 1
	}
	return 0
}

func ExtractTags(name, description string) []string {
	text := itemText(name, description)
	tags := []string{}
	for _, rule := range tagRules {
		if containsAny(text, rule.keywords) {
			tags = append(tags, rule.tag)
		}
	}
	return tags
}

func ExtractIngredients(description string) []string {
	text := strings.ToLower(description)
	var found []string
	for _, ingredient := range commonIngredients {
		if strings.Contains(text, ingredient) {
			found = append(found, ingredient)
		}
	}
	if len(found) == 0 {
		return []string{defaultIngredient}
	}
	return found
}

func EstimatePreparationTime(category string) int {
	if minutes, ok := prepTimes[strings.ToLower(category)]; ok {
		return minutes
	}
	return defaultPrepTime
}

func IsSignatureDish(name string) bool {
	return containsAny(strings.ToLower(name), signatureKeywords)
}

// DetectCuisine scans every item's name and description and returns the
// matching cuisines in a fixed order, or International when none match.
func DetectCuisine(items []models.LegacyMenuItem) []string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.Name)
		b.WriteString(" ")
		b.WriteString(item.Description)
		b.WriteString(" ")
	}
	text := strings.ToLower(b.String())

	var cuisines []string
	for _, rule := range cuisineRules {
		if containsAny(text, rule.keywords) {
			cuisines = append(cuisines, rule.cuisine)
		}
	}
	if len(cuisines) == 0 {
		return []string{defaultCuisine}
	}
	return cuisines
}

// DetectPriceRange buckets the average display price in major units. An empty
// menu is "$".
func DetectPriceRange(items []models.LegacyMenuItem) string {
	if len(items) == 0 {
		return "$"
	}
	var total int64
	for _, item := range items {
		total += ParsePrice(item.Price).Amount
	}
	avg := float64(total) / float64(len(items)) / 100

	switch {
	case avg < 10:
		return "$"
	case avg < 25:
		return "$$"
	case avg < 50:
		return "$$$"
	}
	return "$$$$"
}
