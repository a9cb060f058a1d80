package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/chrisdamba/menuar/internal/catalog"
	"github.com/chrisdamba/menuar/internal/cloudwriter"
	"github.com/chrisdamba/menuar/internal/models"
)

func sampleCatalog() *catalog.Catalog {
	off := false
	return &catalog.Catalog{
		Restaurant: &models.Restaurant{RestaurantID: "spice-garden"},
		Items: []*models.MenuItem{
			{
				ID:       "i1",
				Name:     "Paneer Tikka",
				Pricing:  models.Pricing{BasePrice: 25000, Currency: models.CurrencyINR},
				Category: models.ItemCategory{Primary: "Starters", Tags: []string{"grilled", "paneer"}},
				Dietary:  models.DietaryInfo{IsVegetarian: true, SpiceLevel: 2},
			},
			{
				ID:           "i2",
				Name:         "Chicken Biryani",
				Pricing:      models.Pricing{BasePrice: 32000, Currency: models.CurrencyINR},
				Availability: models.Availability{IsAvailable: &off},
				SourceShape:  models.ShapeLegacy,
			},
		},
	}
}

func TestExportLocal(t *testing.T) {
	dir := t.TempDir()
	log, _ := test.NewNullLogger()

	target, err := NewLocalExporter(dir, log).Export(context.Background(), sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "restaurant=spice-garden", "menu_items.parquet"), target)

	fr, err := local.NewLocalFileReader(target)
	require.NoError(t, err)
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(MenuItemRow), 4)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(2), pr.GetNumRows())
	rows := make([]MenuItemRow, 2)
	require.NoError(t, pr.Read(&rows))

	assert.Equal(t, "i1", rows[0].ItemID)
	assert.Equal(t, int64(25000), rows[0].BasePrice)
	assert.Equal(t, "grilled,paneer", rows[0].Tags)
	assert.True(t, rows[0].IsVegetarian)
	assert.Equal(t, int32(2), rows[0].SpiceLevel)
	assert.True(t, rows[0].Available)

	assert.False(t, rows[1].Available)
	assert.Equal(t, "legacy", rows[1].SourceShape)
}

type memoryWriter struct {
	bytes.Buffer
	closed bool
}

func (m *memoryWriter) Close() error {
	m.closed = true
	return nil
}

type memoryFactory struct {
	bucket, key string
	w           *memoryWriter
}

func (f *memoryFactory) NewWriter(_ context.Context, bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	f.bucket, f.key = bucket, objectPath
	f.w = &memoryWriter{}
	return f.w, nil
}

func TestExportCloud(t *testing.T) {
	log, _ := test.NewNullLogger()
	factory := &memoryFactory{}

	target, err := NewCloudExporter(factory, "menus", "exports", log).Export(context.Background(), sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, "exports/restaurant=spice-garden/menu_items.parquet", target)
	assert.Equal(t, "menus", factory.bucket)
	assert.Equal(t, target, factory.key)
	require.True(t, factory.w.closed)

	body := factory.w.Bytes()
	require.Greater(t, len(body), 8)
	assert.Equal(t, "PAR1", string(body[:4]))
	assert.Equal(t, "PAR1", string(body[len(body)-4:]))
}

func TestCloudParquetFileSeek(t *testing.T) {
	f := NewCloudParquetFile(&memoryWriter{})
	_, err := f.Write([]byte("abc"))
	require.NoError(t, err)
	off, err := f.Seek(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), off)
	_, err = f.Seek(0, 2)
	assert.Error(t, err)
	_, err = f.Read(make([]byte, 1))
	assert.Error(t, err)
}
