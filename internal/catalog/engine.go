// Package catalog loads a tenant's menu from the document store and derives
// the filtered, grouped views the storefront renders.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
	"github.com/chrisdamba/menuar/internal/normalizer"
	"github.com/chrisdamba/menuar/internal/objectstore"
	"github.com/chrisdamba/menuar/internal/repositories"
)

// Catalog is one tenant's menu. Categories are in display order.
type Catalog struct {
	Restaurant *models.Restaurant `json:"restaurant"`
	Categories []*models.Category `json:"categories"`
	Items      []*models.MenuItem `json:"items"`
}

// Legacy renders the catalog in the flat storefront shape.
func (c *Catalog) Legacy() models.LegacyRestaurant {
	r := *c.Restaurant
	r.Items = make([]models.MenuItem, 0, len(c.Items))
	for _, item := range c.Items {
		r.Items = append(r.Items, *item)
	}
	return normalizer.RestaurantToLegacy(r)
}

// Cache stores fully loaded catalogs, unavailable items included.
type Cache interface {
	Get(ctx context.Context, tenantID string) (*Catalog, bool, error)
	Set(ctx context.Context, tenantID string, c *Catalog) error
	Invalidate(ctx context.Context, tenantID string) error
}

type LoadOptions struct {
	// IncludeUnavailable returns items that are switched off or sold out.
	IncludeUnavailable bool
}

type Engine struct {
	restaurants repositories.RestaurantRepository
	categories  repositories.CategoryRepository
	items       repositories.MenuItemRepository
	resolver    objectstore.Resolver
	cache       Cache
	preferred   []string
	log         logrus.FieldLogger
	mu          sync.Mutex
}

type Option func(*Engine)

func WithCache(c Cache) Option {
	return func(e *Engine) { e.cache = c }
}

func WithResolver(r objectstore.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithCategoryOrder replaces DefaultCategoryOrder.
func WithCategoryOrder(order []string) Option {
	return func(e *Engine) {
		if len(order) > 0 {
			e.preferred = order
		}
	}
}

func NewEngine(
	restaurants repositories.RestaurantRepository,
	categories repositories.CategoryRepository,
	items repositories.MenuItemRepository,
	log logrus.FieldLogger,
	opts ...Option,
) *Engine {
	e := &Engine{
		restaurants: restaurants,
		categories:  categories,
		items:       items,
		resolver:    objectstore.Passthrough{},
		preferred:   DefaultCategoryOrder,
		log:         log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) CategoryOrder() []string {
	return e.preferred
}

// Group buckets items by category in the engine's display order.
func (e *Engine) Group(items []*models.MenuItem) []CategoryGroup {
	return GroupByCategory(items, e.preferred)
}

// LoadCatalog resolves the tenant and loads its categories and items. A
// missing tenant is a *NotFoundError; an existing tenant with no items is an
// empty catalog.
func (e *Engine) LoadCatalog(ctx context.Context, tenantID string, opts LoadOptions) (*Catalog, error) {
	full, err := e.loadCached(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if opts.IncludeUnavailable {
		return full, nil
	}
	return &Catalog{
		Restaurant: full.Restaurant,
		Categories: full.Categories,
		Items:      FilterAvailable(full.Items),
	}, nil
}

func (e *Engine) cacheGet(ctx context.Context, tenantID string) *Catalog {
	if e.cache == nil {
		return nil
	}
	c, ok, err := e.cache.Get(ctx, tenantID)
	if err != nil {
		e.log.WithError(err).WithField("tenant", tenantID).Warn("catalog cache read failed")
		return nil
	}
	if !ok {
		return nil
	}
	return c
}

func (e *Engine) loadCached(ctx context.Context, tenantID string) (*Catalog, error) {
	if c := e.cacheGet(ctx, tenantID); c != nil {
		return c, nil
	}
	if e.cache == nil {
		return e.load(ctx, tenantID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// another caller may have filled the cache while we waited
	if c := e.cacheGet(ctx, tenantID); c != nil {
		return c, nil
	}
	c, err := e.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, tenantID, c); err != nil {
		e.log.WithError(err).WithField("tenant", tenantID).Warn("catalog cache write failed")
	}
	return c, nil
}

// ResolveTenant looks the restaurant up by document id first and by its
// restaurantId field second.
func (e *Engine) ResolveTenant(ctx context.Context, tenantID string) (*models.Restaurant, error) {
	r, err := e.restaurants.GetByID(ctx, tenantID)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("get restaurant %s: %w", tenantID, err)
	}

	r, err = e.restaurants.FindBySlug(ctx, tenantID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, &NotFoundError{Kind: "restaurant", ID: tenantID}
	}
	if err != nil {
		return nil, fmt.Errorf("find restaurant %s: %w", tenantID, err)
	}
	return r, nil
}

func (e *Engine) load(ctx context.Context, tenantID string) (*Catalog, error) {
	restaurant, err := e.ResolveTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	slug := restaurant.RestaurantID

	categories, err := e.categories.GetByRestaurantID(ctx, slug)
	if err != nil {
		return nil, err
	}
	SortCategories(categories)

	items, err := e.items.GetByRestaurantID(ctx, slug, restaurant.Settings.Currency)
	if err != nil {
		return nil, err
	}

	restaurant.Branding.Logo = e.resolve(ctx, restaurant.Branding.Logo)
	restaurant.Branding.CoverImage = e.resolve(ctx, restaurant.Branding.CoverImage)
	for _, item := range items {
		item.Media.PrimaryImage = e.resolve(ctx, item.Media.PrimaryImage)
		item.Media.Thumbnail = e.resolve(ctx, item.Media.Thumbnail)
		item.Media.ARModel = e.resolve(ctx, item.Media.ARModel)
	}

	e.log.WithFields(logrus.Fields{
		"tenant":     slug,
		"categories": len(categories),
		"items":      len(items),
	}).Debug("catalog loaded")

	return &Catalog{Restaurant: restaurant, Categories: categories, Items: items}, nil
}

// resolve turns a storage path into a download URL. On failure the stored
// reference is kept so the item still renders.
func (e *Engine) resolve(ctx context.Context, ref string) string {
	if ref == "" || objectstore.IsAbsoluteURL(ref) {
		return ref
	}
	u, err := e.resolver.ResolveURL(ctx, ref)
	if err != nil {
		e.log.WithError(err).WithField("ref", ref).Warn("media reference not resolved")
		return ref
	}
	return u
}

// Invalidate drops a tenant's cached catalog. A tenant can be loaded by its
// document id or its slug, so both keys are dropped.
func (e *Engine) Invalidate(ctx context.Context, tenantID string) error {
	if e.cache == nil {
		return nil
	}
	keys := []string{tenantID}
	restaurant, err := e.ResolveTenant(ctx, tenantID)
	switch {
	case err == nil:
		keys = append(keys, restaurant.DocID, restaurant.RestaurantID)
	case !errors.Is(err, docstore.ErrNotFound):
		return err
	}

	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if err := e.cache.Invalidate(ctx, key); err != nil {
			return fmt.Errorf("invalidate %s: %w", key, err)
		}
	}
	return nil
}
