// Package migrator relocates categories and menu items from the flat
// top-level collections into per-restaurant subcollections.
package migrator

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/menuar/internal/docstore"
	"github.com/chrisdamba/menuar/internal/models"
)

// DefaultBatchLimit keeps every commit well under docstore.MaxBatchOps.
const DefaultBatchLimit = 400

// SourceCollections holds the flat records to migrate.
type SourceCollections struct {
	Restaurants []*docstore.Document
	Categories  []*docstore.Document
	MenuItems   []*docstore.Document
}

// Orphan is a child record whose restaurantId matches no known restaurant.
type Orphan struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurantId"`
}

type Report struct {
	Restaurants      int      `json:"restaurants"`
	Categories       int      `json:"categories"`
	MenuItems        int      `json:"menuItems"`
	Batches          int      `json:"batches"`
	OrphanCategories []Orphan `json:"orphanCategories"`
	OrphanMenuItems  []Orphan `json:"orphanMenuItems"`
	Deleted          int      `json:"deleted"`
	DryRun           bool     `json:"dryRun"`
}

type Options struct {
	// BatchLimit is clamped to [1, DefaultBatchLimit]; zero means the default.
	BatchLimit int
	// DryRun plans the migration and reports it without writing.
	DryRun bool
	// Progress receives a progress bar over batch commits. Nil disables it.
	Progress io.Writer
}

type Migrator struct {
	store docstore.Store
	log   logrus.FieldLogger
	opts  Options
}

func New(store docstore.Store, log logrus.FieldLogger, opts Options) *Migrator {
	opts.BatchLimit = ClampBatchLimit(opts.BatchLimit)
	return &Migrator{store: store, log: log, opts: opts}
}

func ClampBatchLimit(n int) int {
	if n <= 0 || n > DefaultBatchLimit {
		return DefaultBatchLimit
	}
	return n
}

// write is one planned document set or, with nil data, a delete.
type write struct {
	path string
	data map[string]interface{}
}

// Load reads the three flat collections.
func (m *Migrator) Load(ctx context.Context) (SourceCollections, error) {
	var src SourceCollections
	var err error
	if src.Restaurants, err = m.store.Query(ctx, models.CollectionRestaurants, nil); err != nil {
		return src, fmt.Errorf("load restaurants: %w", err)
	}
	if src.Categories, err = m.store.Query(ctx, models.CollectionCategories, nil); err != nil {
		return src, fmt.Errorf("load categories: %w", err)
	}
	if src.MenuItems, err = m.store.Query(ctx, models.CollectionMenuItems, nil); err != nil {
		return src, fmt.Errorf("load menu items: %w", err)
	}
	m.log.WithFields(logrus.Fields{
		"restaurants": len(src.Restaurants),
		"categories":  len(src.Categories),
		"menuItems":   len(src.MenuItems),
	}).Info("loaded source collections")
	return src, nil
}

// Run loads the flat collections, migrates them and, when cleanup is set,
// deletes the migrated flat documents afterwards.
func (m *Migrator) Run(ctx context.Context, cleanup bool) (*Report, error) {
	src, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	report, err := m.Migrate(ctx, src)
	if err != nil {
		return report, err
	}
	if cleanup && !m.opts.DryRun {
		deleted, err := m.Cleanup(ctx, src)
		report.Deleted = deleted
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// Migrate writes every category and menu item of a known restaurant under
// restaurants/{restaurantId}. Restaurant documents are never written, and
// records pointing at an unknown restaurant are reported instead.
func (m *Migrator) Migrate(ctx context.Context, src SourceCollections) (*Report, error) {
	writes, report := plan(src)
	report.DryRun = m.opts.DryRun

	chunks := chunk(writes, m.opts.BatchLimit)
	report.Batches = len(chunks)

	for _, o := range report.OrphanCategories {
		m.log.WithFields(logrus.Fields{"categoryId": o.ID, "restaurantId": o.RestaurantID}).Warn("orphan category")
	}
	for _, o := range report.OrphanMenuItems {
		m.log.WithFields(logrus.Fields{"menuItemId": o.ID, "restaurantId": o.RestaurantID}).Warn("orphan menu item")
	}

	if m.opts.DryRun {
		m.logReport(report, "migration planned")
		return report, nil
	}

	if err := m.commit(ctx, chunks, "migrating"); err != nil {
		return report, err
	}
	m.logReport(report, "migration complete")
	return report, nil
}

// Cleanup deletes the flat category and menu item documents that Migrate
// relocated. Orphans and restaurant documents are left in place.
func (m *Migrator) Cleanup(ctx context.Context, src SourceCollections) (int, error) {
	known := knownRestaurants(src.Restaurants)
	var deletes []write
	for _, doc := range src.Categories {
		if _, ok := known[doc.String("restaurantId")]; ok {
			deletes = append(deletes, write{path: doc.Path})
		}
	}
	for _, doc := range src.MenuItems {
		if _, ok := known[doc.String("restaurantId")]; ok {
			deletes = append(deletes, write{path: doc.Path})
		}
	}

	chunks := chunk(deletes, m.opts.BatchLimit)
	if err := m.commit(ctx, chunks, "cleaning up"); err != nil {
		return 0, err
	}
	m.log.WithField("deleted", len(deletes)).Info("cleanup complete")
	return len(deletes), nil
}

// commit applies the chunks one after another. A failure stops the run;
// batches committed before it stay committed.
func (m *Migrator) commit(ctx context.Context, chunks [][]write, description string) error {
	bar := progressbar.DefaultSilent(int64(len(chunks)), description)
	if m.opts.Progress != nil {
		bar = progressbar.NewOptions(len(chunks),
			progressbar.OptionSetWriter(m.opts.Progress),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	defer bar.Finish()

	for i, ops := range chunks {
		batch := m.store.Batch()
		for _, w := range ops {
			if w.data == nil {
				batch.Delete(w.path)
			} else {
				batch.Set(w.path, w.data)
			}
		}
		if err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("commit batch %d of %d: %w", i+1, len(chunks), err)
		}
		m.log.WithFields(logrus.Fields{"batch": i + 1, "of": len(chunks), "ops": len(ops)}).Debug("batch committed")
		_ = bar.Add(1)
	}
	return nil
}

func (m *Migrator) logReport(r *Report, msg string) {
	m.log.WithFields(logrus.Fields{
		"restaurants":      r.Restaurants,
		"categories":       r.Categories,
		"menuItems":        r.MenuItems,
		"batches":          r.Batches,
		"orphanCategories": len(r.OrphanCategories),
		"orphanMenuItems":  len(r.OrphanMenuItems),
		"dryRun":           r.DryRun,
	}).Info(msg)
}

// knownRestaurants maps both the restaurantId slug and the document id of
// each restaurant to the slug its children are written under.
func knownRestaurants(restaurants []*docstore.Document) map[string]string {
	known := make(map[string]string, len(restaurants)*2)
	for _, doc := range restaurants {
		slug := doc.String("restaurantId")
		if slug == "" {
			slug = doc.ID
		}
		known[doc.ID] = slug
	}
	// slugs win over document ids that happen to collide with another slug
	for _, doc := range restaurants {
		if slug := doc.String("restaurantId"); slug != "" {
			known[slug] = slug
		}
	}
	return known
}

// childKey returns the identity a child keeps under its restaurant.
func childKey(doc *docstore.Document, idField string) string {
	if key := doc.String(idField); key != "" {
		return key
	}
	if key := doc.String("id"); key != "" {
		return key
	}
	return doc.ID
}

// childPayload drops the fields the nested path makes redundant.
func childPayload(doc *docstore.Document) map[string]interface{} {
	out := make(map[string]interface{}, len(doc.Data))
	for k, v := range doc.Data {
		if k == "restaurantId" || k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// plan computes the writes for a migration and the report describing them
// without touching a store. Output order is deterministic.
func plan(src SourceCollections) ([]write, *Report) {
	known := knownRestaurants(src.Restaurants)
	report := &Report{
		OrphanCategories: []Orphan{},
		OrphanMenuItems:  []Orphan{},
	}

	slugs := make(map[string]bool)
	for _, slug := range known {
		slugs[slug] = true
	}
	report.Restaurants = len(slugs)

	type children struct {
		categories []write
		items      []write
	}
	grouped := make(map[string]*children)
	group := func(slug string) *children {
		if grouped[slug] == nil {
			grouped[slug] = &children{}
		}
		return grouped[slug]
	}

	for _, doc := range sortedByID(src.Categories) {
		rid := doc.String("restaurantId")
		slug, ok := known[rid]
		if !ok {
			report.OrphanCategories = append(report.OrphanCategories, Orphan{ID: doc.ID, RestaurantID: rid})
			continue
		}
		path := docstore.Join(models.CollectionRestaurants, slug, models.CollectionCategories, childKey(doc, "categoryId"))
		g := group(slug)
		g.categories = append(g.categories, write{path: path, data: childPayload(doc)})
		report.Categories++
	}

	for _, doc := range sortedByID(src.MenuItems) {
		rid := doc.String("restaurantId")
		slug, ok := known[rid]
		if !ok {
			report.OrphanMenuItems = append(report.OrphanMenuItems, Orphan{ID: doc.ID, RestaurantID: rid})
			continue
		}
		path := docstore.Join(models.CollectionRestaurants, slug, models.CollectionMenuItems, childKey(doc, "itemId"))
		g := group(slug)
		g.items = append(g.items, write{path: path, data: childPayload(doc)})
		report.MenuItems++
	}

	order := make([]string, 0, len(grouped))
	for slug := range grouped {
		order = append(order, slug)
	}
	sort.Strings(order)

	var writes []write
	for _, slug := range order {
		writes = append(writes, grouped[slug].categories...)
		writes = append(writes, grouped[slug].items...)
	}
	return writes, report
}

func sortedByID(docs []*docstore.Document) []*docstore.Document {
	out := append([]*docstore.Document(nil), docs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// chunk splits writes into batches of at most limit operations.
func chunk(writes []write, limit int) [][]write {
	var chunks [][]write
	for start := 0; start < len(writes); start += limit {
		end := start + limit
		if end > len(writes) {
			end = len(writes)
		}
		chunks = append(chunks, writes[start:end])
	}
	return chunks
}
