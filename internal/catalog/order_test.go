package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chrisdamba/menuar/internal/models"
)

func TestOrderCategories(t *testing.T) {
	got := OrderCategories(
		[]string{"Desserts", "Main Course", "Mystery Category"},
		[]string{"Main Course", "Breads", "Desserts"},
	)
	assert.Equal(t, []string{"Main Course", "Desserts", "Mystery Category"}, got)
}

func TestOrderCategoriesUnlistedAreLexical(t *testing.T) {
	got := OrderCategories(
		[]string{"Zebra", "Beverages", "Apple", "Starters", "Apple"},
		DefaultCategoryOrder,
	)
	assert.Equal(t, []string{"Starters", "Beverages", "Apple", "Zebra"}, got)
	assert.Empty(t, OrderCategories(nil, DefaultCategoryOrder))
}

func TestGroupByCategory(t *testing.T) {
	items := []*models.MenuItem{
		{ID: "1", Category: models.ItemCategory{Primary: "Desserts"}},
		{ID: "2", Category: models.ItemCategory{Primary: "Mystery Category"}},
		{ID: "3", Category: models.ItemCategory{Primary: "Main Course"}},
		{ID: "4", Category: models.ItemCategory{Primary: "Desserts"}},
	}

	groups := GroupByCategory(items, DefaultCategoryOrder)

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Main Course", "Desserts", "Mystery Category"}, names)
	assert.Equal(t, []string{"1", "4"}, ids(groups[1].Items))
}

func TestSortCategories(t *testing.T) {
	categories := []*models.Category{
		{CategoryID: "c", Name: "Desserts", DisplayOrder: 3},
		{CategoryID: "b", Name: "Mains", DisplayOrder: 1},
		{CategoryID: "a", Name: "Breads", DisplayOrder: 1},
	}
	SortCategories(categories)
	assert.Equal(t, "a", categories[0].CategoryID)
	assert.Equal(t, "b", categories[1].CategoryID)
	assert.Equal(t, "c", categories[2].CategoryID)
}
