// Package factories generates demo tenants in the flat pre-migration layout.
package factories

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
)

const writeBatchSize = 400

type Record struct {
	ID   string
	Data map[string]interface{}
}

type SeedSet struct {
	Restaurants []Record
	Categories  []Record
	MenuItems   []Record
}

func (s SeedSet) Len() int {
	return len(s.Restaurants) + len(s.Categories) + len(s.MenuItems)
}

type Generator struct {
	fake        faker.Faker
	restaurants *RestaurantFactory
	items       *MenuItemFactory
}

// NewGenerator returns a generator; a non-zero seed makes the output
// reproducible apart from record ids.
func NewGenerator(seed int64) *Generator {
	var fake faker.Faker
	if seed != 0 {
		fake = faker.NewWithSeed(rand.NewSource(seed))
	} else {
		fake = faker.New()
	}
	g := &Generator{fake: fake}
	g.restaurants = &RestaurantFactory{gen: g}
	g.items = &MenuItemFactory{gen: g}
	return g
}

// Generate builds the flat records. Children of odd restaurants reference the
// restaurant by doc id, the rest by slug.
func (g *Generator) Generate(cfg models.SeedConfig) SeedSet {
	var set SeedSet
	for i := 0; i < cfg.Restaurants; i++ {
		r := g.restaurants.CreateRestaurant(i)
		set.Restaurants = append(set.Restaurants, r)

		ref := r.Data["restaurantId"].(string)
		if i%2 == 1 {
			ref = r.ID
		}
		currency, _ := r.Data["currency"].(string)

		set.Categories = append(set.Categories, g.items.CreateCategories(ref)...)
		for n := 0; n < cfg.ItemsPerRestaurant; n++ {
			set.MenuItems = append(set.MenuItems, g.items.CreateMenuItem(ref, currency, n))
		}
	}
	return set
}

// Write stores the set in the flat collections in batches.
func Write(ctx context.Context, store docstore.Store, set SeedSet) error {
	groups := []struct {
		collection string
		records    []Record
	}{
		{models.CollectionRestaurants, set.Restaurants},
		{models.CollectionCategories, set.Categories},
		{models.CollectionMenuItems, set.MenuItems},
	}

	batch := store.Batch()
	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("commit seed batch: %w", err)
		}
		batch = store.Batch()
		return nil
	}
	for _, g := range groups {
		for _, rec := range g.records {
			batch.Set(docstore.Join(g.collection, rec.ID), rec.Data)
			if batch.Len() >= writeBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), "-")
}
