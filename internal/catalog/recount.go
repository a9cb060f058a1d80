package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// RecountItems recomputes every category's itemCount from the tenant's
// current items and writes the counts that changed. Items are matched to a
// category by id or, case-insensitively, by name. It returns the new counts
// keyed by category id.
func (e *Engine) RecountItems(ctx context.Context, tenantID string) (map[string]int, error) {
	restaurant, err := e.ResolveTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	slug := restaurant.RestaurantID

	categories, err := e.categories.GetByRestaurantID(ctx, slug)
	if err != nil {
		return nil, err
	}
	items, err := e.items.GetByRestaurantID(ctx, slug, restaurant.Settings.Currency)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.CategoryID] = 0
	}
	for _, item := range items {
		for _, c := range categories {
			if item.Category.Primary == c.CategoryID || strings.EqualFold(item.Category.Primary, c.Name) {
				counts[c.CategoryID]++
				break
			}
		}
	}

	changed := 0
	for _, c := range categories {
		if c.ItemCount == counts[c.CategoryID] {
			continue
		}
		if err := e.categories.UpdateItemCount(ctx, slug, c.CategoryID, counts[c.CategoryID]); err != nil {
			return nil, fmt.Errorf("update item count of %s: %w", c.CategoryID, err)
		}
		changed++
	}

	if changed > 0 {
		if err := e.Invalidate(ctx, tenantID); err != nil {
			e.log.WithError(err).WithField("tenant", tenantID).Warn("catalog cache invalidation failed")
		}
	}
	e.log.WithFields(logrus.Fields{"tenant": slug, "categories": len(categories), "changed": changed}).Info("item counts recomputed")
	return counts, nil
}
