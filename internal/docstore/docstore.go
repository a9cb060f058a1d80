// Package docstore abstracts the hierarchical document database the menu data
// lives in. Collections are addressed by slash separated paths such as
// "restaurants/spice-route/menuItems" and documents by the collection path
// plus the document id.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxBatchOps is the hard ceiling on writes in a single batch commit.
const MaxBatchOps = 500

var (
	ErrNotFound      = errors.New("document not found")
	ErrBatchTooLarge = fmt.Errorf("batch exceeds %d operations", MaxBatchOps)
	ErrInvalidPath   = errors.New("invalid document path")
)

type Document struct {
	ID   string
	Path string
	Data map[string]interface{}
}

// String returns the field value when it is a non-empty string.
func (d *Document) String(field string) string {
	s, _ := d.Data[field].(string)
	return s
}

type Op string

const (
	OpEq  Op = "=="
	OpNeq Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// Predicate filters on a field. Nested fields use dots: "pricing.basePrice".
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

type OrderBy struct {
	Field string
	Desc  bool
}

type Reader interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, preds []Predicate, order ...OrderBy) ([]*Document, error)
}

type Writer interface {
	Set(ctx context.Context, docPath string, data map[string]interface{}) error
	// Add stores data under a generated id and returns it.
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Update merges top-level fields into an existing document.
	Update(ctx context.Context, docPath string, fields map[string]interface{}) error
	Delete(ctx context.Context, docPath string) error
	Batch() Batch
}

// Batch collects writes that commit atomically. A failed commit leaves the
// store as it was before the batch.
type Batch interface {
	Set(docPath string, data map[string]interface{})
	Delete(docPath string)
	Len() int
	Commit(ctx context.Context) error
}

type Store interface {
	Reader
	Writer
	Close(ctx context.Context) error
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Split separates a document path into its collection path and id.
func Split(docPath string) (collection, id string, err error) {
	docPath = strings.Trim(docPath, "/")
	i := strings.LastIndex(docPath, "/")
	if i <= 0 || i == len(docPath)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, docPath)
	}
	if strings.Count(docPath, "/")%2 == 0 {
		return "", "", fmt.Errorf("%w: %q names a collection", ErrInvalidPath, docPath)
	}
	return docPath[:i], docPath[i+1:], nil
}

// Lookup resolves a dotted field path inside a document body.
func Lookup(data map[string]interface{}, field string) (interface{}, bool) {
	var cur interface{} = data
	for _, part := range strings.Split(field, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
