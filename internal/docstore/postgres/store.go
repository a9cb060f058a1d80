// Package postgres stores documents as JSONB rows keyed by collection path and id.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lucsky/cuid"

	"github.com/chrisdamba/menuar/internal/docstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, id)
)`

const upsertQuery = `
INSERT INTO documents (collection, id, data, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

const deleteQuery = `DELETE FROM documents WHERE collection = $1 AND id = $2`

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewWithPool(pool), nil
}

func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the documents table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var data map[string]interface{}
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &docstore.Document{ID: id, Path: docstore.Join(collection, id), Data: data}, nil
}

func (s *Store) Query(ctx context.Context, collection string, preds []docstore.Predicate, order ...docstore.OrderBy) ([]*docstore.Document, error) {
	query, args, err := buildQuery(collection, preds, order)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []*docstore.Document
	for rows.Next() {
		var id string
		var data map[string]interface{}
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, &docstore.Document{ID: id, Path: docstore.Join(collection, id), Data: data})
	}
	return docs, rows.Err()
}

var sqlOps = map[docstore.Op]string{
	docstore.OpEq:  "=",
	docstore.OpLt:  "<",
	docstore.OpLte: "<=",
	docstore.OpGt:  ">",
	docstore.OpGte: ">=",
}

// buildQuery renders a collection query. Field paths and values are bound as
// parameters; values compare as JSONB.
func buildQuery(collection string, preds []docstore.Predicate, order []docstore.OrderBy) (string, []interface{}, error) {
	var b strings.Builder
	args := []interface{}{collection}
	b.WriteString("SELECT id, data FROM documents WHERE collection = $1")

	for _, p := range preds {
		value, err := json.Marshal(p.Value)
		if err != nil {
			return "", nil, fmt.Errorf("encode predicate %s: %w", p.Field, err)
		}
		args = append(args, strings.Split(p.Field, "."), string(value))
		field, param := len(args)-1, len(args)

		if p.Op == docstore.OpNeq {
			fmt.Fprintf(&b, " AND data #> $%d::text[] IS DISTINCT FROM $%d::jsonb", field, param)
			continue
		}
		op, ok := sqlOps[p.Op]
		if !ok {
			return "", nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
		fmt.Fprintf(&b, " AND data #> $%d::text[] %s $%d::jsonb", field, op, param)
	}

	b.WriteString(" ORDER BY ")
	for _, o := range order {
		args = append(args, strings.Split(o.Field, "."))
		dir := "ASC NULLS FIRST"
		if o.Desc {
			dir = "DESC NULLS LAST"
		}
		fmt.Fprintf(&b, "data #> $%d::text[] %s, ", len(args), dir)
	}
	b.WriteString("id ASC")
	return b.String(), args, nil
}

func encode(data map[string]interface{}) (string, error) {
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(raw), nil
}

func (s *Store) Set(ctx context.Context, docPath string, data map[string]interface{}) error {
	collection, id, err := docstore.Split(docPath)
	if err != nil {
		return err
	}
	body, err := encode(data)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, upsertQuery, collection, id, body); err != nil {
		return fmt.Errorf("set %s: %w", docPath, err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := cuid.New()
	if err := s.Set(ctx, docstore.Join(collection, id), data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, docPath string, fields map[string]interface{}) error {
	collection, id, err := docstore.Split(docPath)
	if err != nil {
		return err
	}
	patch, err := encode(fields)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET data = data || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`,
		collection, id, patch,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", docPath, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", docPath, docstore.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, docPath string) error {
	collection, id, err := docstore.Split(docPath)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, deleteQuery, collection, id); err != nil {
		return fmt.Errorf("delete %s: %w", docPath, err)
	}
	return nil
}

func (s *Store) Batch() docstore.Batch {
	return &batch{pool: s.pool}
}

func (s *Store) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

type batch struct {
	pool  *pgxpool.Pool
	queue pgx.Batch
	err   error
}

func (b *batch) Set(docPath string, data map[string]interface{}) {
	collection, id, err := docstore.Split(docPath)
	if err == nil {
		var body string
		body, err = encode(data)
		if err == nil {
			b.queue.Queue(upsertQuery, collection, id, body)
			return
		}
	}
	if b.err == nil {
		b.err = err
	}
}

func (b *batch) Delete(docPath string) {
	collection, id, err := docstore.Split(docPath)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return
	}
	b.queue.Queue(deleteQuery, collection, id)
}

func (b *batch) Len() int {
	return b.queue.Len()
}

// Commit sends the queued statements in one round trip inside a transaction.
func (b *batch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if b.queue.Len() > docstore.MaxBatchOps {
		return docstore.ErrBatchTooLarge
	}

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, &b.queue).Close(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	b.queue = pgx.Batch{}
	return nil
}
