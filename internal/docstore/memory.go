package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/lucsky/cuid"
)

// Memory is an in-process Store. Documents are held as their JSON form so
// values read back have the same types the SQL and Mongo backends produce.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]map[string]interface{} // collection -> id -> body
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]map[string]interface{})}
}

func normalize(data map[string]interface{}) (map[string]interface{}, error) {
	if data == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.docs[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return m.document(collection, id, body)
}

func (m *Memory) document(collection, id string, body map[string]interface{}) (*Document, error) {
	data, err := normalize(body)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Path: Join(collection, id), Data: data}, nil
}

func (m *Memory) Query(ctx context.Context, collection string, preds []Predicate, order ...OrderBy) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Document
	for id, body := range m.docs[collection] {
		if !matchAll(body, preds) {
			continue
		}
		doc, err := m.document(collection, id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	SortDocuments(out, order)
	return out, nil
}

func (m *Memory) Set(ctx context.Context, docPath string, data map[string]interface{}) error {
	b := m.Batch()
	b.Set(docPath, data)
	return b.Commit(ctx)
}

func (m *Memory) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := cuid.New()
	if err := m.Set(ctx, Join(collection, id), data); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) Update(ctx context.Context, docPath string, fields map[string]interface{}) error {
	collection, id, err := Split(docPath)
	if err != nil {
		return err
	}
	patch, err := normalize(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	body, ok := m.docs[collection][id]
	if !ok {
		return fmt.Errorf("%s: %w", docPath, ErrNotFound)
	}
	for k, v := range patch {
		body[k] = v
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, docPath string) error {
	b := m.Batch()
	b.Delete(docPath)
	return b.Commit(ctx)
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}

// Len returns the number of documents stored in a collection.
func (m *Memory) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[collection])
}

// Snapshot returns a copy of every stored document keyed by document path.
func (m *Memory) Snapshot() map[string]map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]map[string]interface{})
	for collection, docs := range m.docs {
		for id, body := range docs {
			data, _ := normalize(body)
			out[Join(collection, id)] = data
		}
	}
	return out
}

type memoryOp struct {
	collection string
	id         string
	data       map[string]interface{} // nil for deletes
	err        error
}

type memoryBatch struct {
	store *Memory
	ops   []memoryOp
}

func (b *memoryBatch) Set(docPath string, data map[string]interface{}) {
	op := memoryOp{}
	op.collection, op.id, op.err = Split(docPath)
	if op.err == nil {
		op.data, op.err = normalize(data)
	}
	b.ops = append(b.ops, op)
}

func (b *memoryBatch) Delete(docPath string) {
	op := memoryOp{}
	op.collection, op.id, op.err = Split(docPath)
	b.ops = append(b.ops, op)
}

func (b *memoryBatch) Len() int {
	return len(b.ops)
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	if len(b.ops) > MaxBatchOps {
		return ErrBatchTooLarge
	}
	for _, op := range b.ops {
		if op.err != nil {
			return op.err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := b.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range b.ops {
		if op.data == nil {
			delete(m.docs[op.collection], op.id)
			continue
		}
		if m.docs[op.collection] == nil {
			m.docs[op.collection] = make(map[string]map[string]interface{})
		}
		m.docs[op.collection][op.id] = op.data
	}
	b.ops = nil
	return nil
}

func matchAll(body map[string]interface{}, preds []Predicate) bool {
	for _, p := range preds {
		if !match(body, p) {
			return false
		}
	}
	return true
}

func match(body map[string]interface{}, p Predicate) bool {
	got, ok := Lookup(body, p.Field)
	if !ok {
		return p.Op == OpNeq
	}
	want := p.Value
	if w, ok := toFloat(want); ok {
		want = w
	}
	c, comparable := compareValues(got, want)
	switch p.Op {
	case OpEq:
		return comparable && c == 0
	case OpNeq:
		return !comparable || c != 0
	case OpLt:
		return comparable && c < 0
	case OpLte:
		return comparable && c <= 0
	case OpGt:
		return comparable && c > 0
	case OpGte:
		return comparable && c >= 0
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// compareValues orders two scalar values. The second result is false when the
// values have different kinds.
func compareValues(a, b interface{}) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	case nil:
		return 0, b == nil
	}
	return 0, false
}

// kindRank orders values of different kinds: missing, null, bool, number, string.
func kindRank(v interface{}, present bool) int {
	if !present {
		return 0
	}
	switch v.(type) {
	case nil:
		return 1
	case bool:
		return 2
	case float64, float32, int, int32, int64:
		return 3
	case string:
		return 4
	}
	return 5
}

// SortDocuments orders documents by the given fields, then by id, so the
// result is deterministic.
func SortDocuments(docs []*Document, order []OrderBy) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range order {
			a, aok := Lookup(docs[i].Data, o.Field)
			b, bok := Lookup(docs[j].Data, o.Field)
			c, comparable := compareValues(a, b)
			if !aok || !bok || !comparable {
				c = kindRank(a, aok) - kindRank(b, bok)
			}
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return docs[i].ID < docs[j].ID
	})
}
