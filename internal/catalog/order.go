package catalog

import (
	"sort"

	"github.com/chrisdamba/menuar/internal/models"
)

// DefaultCategoryOrder is the canonical display sequence for known categories.
var DefaultCategoryOrder = []string{
	"Appetizers",
	"Starters",
	"North Indian",
	"South Indian",
	"Chinese",
	"Italian",
	"Main Course",
	"Pizzas",
	"Pastas",
	"Breads",
	"Beverages",
	"Desserts",
	"Other",
}

// OrderCategories sorts category names for display: names in preferred come
// first in list order, the rest follow lexically. Duplicates are dropped.
func OrderCategories(names []string, preferred []string) []string {
	rank := make(map[string]int, len(preferred))
	for i, name := range preferred {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}

	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i]]
		rj, jok := rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		}
		return out[i] < out[j]
	})
	return out
}

type CategoryGroup struct {
	Name  string             `json:"name"`
	Items []*models.MenuItem `json:"items"`
}

// GroupByCategory buckets items by primary category, groups in display order
// and items in input order within a group.
func GroupByCategory(items []*models.MenuItem, preferred []string) []CategoryGroup {
	byName := make(map[string][]*models.MenuItem)
	var names []string
	for _, item := range items {
		name := item.Category.Primary
		if _, ok := byName[name]; !ok {
			names = append(names, name)
		}
		byName[name] = append(byName[name], item)
	}

	groups := make([]CategoryGroup, 0, len(names))
	for _, name := range OrderCategories(names, preferred) {
		groups = append(groups, CategoryGroup{Name: name, Items: byName[name]})
	}
	return groups
}

// SortCategories orders category records by display order, then name, then id.
func SortCategories(categories []*models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CategoryID < b.CategoryID
	})
}
