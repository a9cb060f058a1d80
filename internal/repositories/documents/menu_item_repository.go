package documents

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
)

type MenuItemRepository struct {
	store docstore.Reader
	log   logrus.FieldLogger
}

func NewMenuItemRepository(store docstore.Reader, log logrus.FieldLogger) *MenuItemRepository {
	return &MenuItemRepository{store: store, log: log}
}

func menuItemsPath(restaurantID string) string {
	return docstore.Join(models.CollectionRestaurants, restaurantID, models.CollectionMenuItems)
}

// GetByRestaurantID decodes every item of the tenant. A record that cannot be
// decoded is logged and skipped so one bad document does not hide the menu.
func (r *MenuItemRepository) GetByRestaurantID(ctx context.Context, restaurantID, defaultCurrency string) ([]*models.MenuItem, error) {
	docs, err := r.store.Query(ctx, menuItemsPath(restaurantID), nil, docstore.OrderBy{Field: "name"})
	if err != nil {
		return nil, fmt.Errorf("list menu items of %s: %w", restaurantID, err)
	}
	items := make([]*models.MenuItem, 0, len(docs))
	for _, doc := range docs {
		item, err := DecodeMenuItem(doc, restaurantID, defaultCurrency)
		if err != nil {
			r.log.WithError(err).WithField("path", doc.Path).Warn("skipping undecodable menu item")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
