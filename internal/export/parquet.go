// Package export writes a tenant's normalized menu to Parquet, locally or to
// object storage, so it can be archived before a destructive cleanup.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/menuar/internal/catalog"
	"github.com/chrisdamba/menuar/internal/cloudwriter"
	"github.com/chrisdamba/menuar/internal/models"
)

const fileName = "menu_items.parquet"

type MenuItemRow struct {
	RestaurantID    string `parquet:"name=restaurant_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ItemID          string `parquet:"name=item_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name            string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Description     string `parquet:"name=description, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category        string `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Tags            string `parquet:"name=tags, type=BYTE_ARRAY, convertedtype=UTF8"`
	BasePrice       int64  `parquet:"name=base_price, type=INT64"`
	Currency        string `parquet:"name=currency, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	IsVegetarian    bool   `parquet:"name=is_vegetarian, type=BOOLEAN"`
	IsVegan         bool   `parquet:"name=is_vegan, type=BOOLEAN"`
	SpiceLevel      int32  `parquet:"name=spice_level, type=INT32"`
	Available       bool   `parquet:"name=available, type=BOOLEAN"`
	PreparationTime int32  `parquet:"name=preparation_time, type=INT32"`
	PrimaryImage    string `parquet:"name=primary_image, type=BYTE_ARRAY, convertedtype=UTF8"`
	ARModel         string `parquet:"name=ar_model, type=BYTE_ARRAY, convertedtype=UTF8"`
	SourceShape     string `parquet:"name=source_shape, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

func RowFromItem(restaurantID string, item *models.MenuItem) MenuItemRow {
	return MenuItemRow{
		RestaurantID:    restaurantID,
		ItemID:          item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Category:        item.Category.Primary,
		Tags:            strings.Join(item.Category.Tags, ","),
		BasePrice:       item.Pricing.BasePrice,
		Currency:        item.Pricing.Currency,
		IsVegetarian:    item.Dietary.IsVegetarian,
		IsVegan:         item.Dietary.IsVegan,
		SpiceLevel:      int32(item.Dietary.SpiceLevel),
		Available:       item.Available(),
		PreparationTime: int32(item.Availability.PreparationTime),
		PrimaryImage:    item.Media.PrimaryImage,
		ARModel:         item.Media.ARModel,
		SourceShape:     string(item.SourceShape),
	}
}

// Exporter writes one file per tenant under <folder>/restaurant=<id>/.
// With a cloud factory set the object goes to bucket instead of disk.
type Exporter struct {
	folder  string
	factory cloudwriter.CloudWriterFactory
	bucket  string
	log     logrus.FieldLogger
}

func NewLocalExporter(folder string, log logrus.FieldLogger) *Exporter {
	return &Exporter{folder: folder, log: log}
}

func NewCloudExporter(factory cloudwriter.CloudWriterFactory, bucket, folder string, log logrus.FieldLogger) *Exporter {
	return &Exporter{folder: folder, factory: factory, bucket: bucket, log: log}
}

func (e *Exporter) target(restaurantID string) string {
	dir := "restaurant=" + restaurantID
	if e.factory != nil {
		return path.Join(e.folder, dir, fileName)
	}
	return filepath.Join(e.folder, dir, fileName)
}

func (e *Exporter) open(ctx context.Context, target string) (source.ParquetFile, error) {
	if e.factory != nil {
		cw, err := e.factory.NewWriter(ctx, e.bucket, target)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer: %w", err)
		}
		return NewCloudParquetFile(cw), nil
	}
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return nil, err
	}
	return local.NewLocalFileWriter(target)
}

// Export writes every item of cat and returns the written location.
func (e *Exporter) Export(ctx context.Context, cat *catalog.Catalog) (string, error) {
	rid := cat.Restaurant.RestaurantID
	target := e.target(rid)

	fw, err := e.open(ctx, target)
	if err != nil {
		return "", err
	}
	pw, err := writer.NewParquetWriter(fw, new(MenuItemRow), 4)
	if err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to create parquet writer: %w", err)
	}
	for _, item := range cat.Items {
		if err := pw.Write(RowFromItem(rid, item)); err != nil {
			fw.Close()
			return "", fmt.Errorf("failed to write item %s: %w", item.ID, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", target, err)
	}

	e.log.WithFields(logrus.Fields{
		"restaurant": rid,
		"items":      len(cat.Items),
		"target":     target,
	}).Info("menu exported")
	return target, nil
}

// CloudParquetFile adapts a write-only CloudWriter to source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cw cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cw}
}

func (c *CloudParquetFile) Open(string) (source.ParquetFile, error)   { return c, nil }
func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
