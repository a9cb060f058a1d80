// Package mongodb maps the document hierarchy onto MongoDB. Each leaf
// collection name ("menuItems", "orders") is one Mongo collection; the full
// document path is the _id and the parent collection path is kept in _parent.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lucsky/cuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chrisdamba/menuar/internal/docstore"
)

const (
	fieldID     = "_id"
	fieldParent = "_parent"
	fieldKey    = "_key"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// collectionName returns the Mongo collection backing a collection path.
func collectionName(collection string) string {
	collection = strings.Trim(collection, "/")
	if i := strings.LastIndex(collection, "/"); i >= 0 {
		return collection[i+1:]
	}
	return collection
}

func (s *Store) coll(collection string) *mongo.Collection {
	return s.db.Collection(collectionName(collection))
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	path := docstore.Join(collection, id)
	var raw bson.M
	err := s.coll(collection).FindOne(ctx, bson.M{fieldID: path}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", path, docstore.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return toDocument(raw), nil
}

func (s *Store) Query(ctx context.Context, collection string, preds []docstore.Predicate, order ...docstore.OrderBy) ([]*docstore.Document, error) {
	filter, err := buildFilter(collection, preds)
	if err != nil {
		return nil, err
	}
	cur, err := s.coll(collection).Find(ctx, filter, options.Find().SetSort(buildSort(order)))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var docs []*docstore.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		docs = append(docs, toDocument(raw))
	}
	return docs, cur.Err()
}

var mongoOps = map[docstore.Op]string{
	docstore.OpEq:  "$eq",
	docstore.OpNeq: "$ne",
	docstore.OpLt:  "$lt",
	docstore.OpLte: "$lte",
	docstore.OpGt:  "$gt",
	docstore.OpGte: "$gte",
}

func buildFilter(collection string, preds []docstore.Predicate) (bson.D, error) {
	filter := bson.D{{Key: fieldParent, Value: strings.Trim(collection, "/")}}
	for _, p := range preds {
		op, ok := mongoOps[p.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
		filter = append(filter, bson.E{Key: p.Field, Value: bson.D{{Key: op, Value: p.Value}}})
	}
	return filter, nil
}

func buildSort(order []docstore.OrderBy) bson.D {
	sort := bson.D{}
	for _, o := range order {
		dir := 1
		if o.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: o.Field, Value: dir})
	}
	return append(sort, bson.E{Key: fieldKey, Value: 1})
}

// body adds the bookkeeping fields to a document payload.
func body(collection, id string, data map[string]interface{}) bson.M {
	doc := bson.M{}
	for k, v := range data {
		doc[k] = v
	}
	doc[fieldID] = docstore.Join(collection, id)
	doc[fieldParent] = collection
	doc[fieldKey] = id
	return doc
}

func toDocument(raw bson.M) *docstore.Document {
	path, _ := raw[fieldID].(string)
	id, _ := raw[fieldKey].(string)
	data := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == fieldID || k == fieldParent || k == fieldKey {
			continue
		}
		data[k] = normalize(v)
	}
	return &docstore.Document{ID: id, Path: path, Data: data}
}

// normalize converts BSON values to the plain JSON shapes the other backends return.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case primitive.DateTime:
		return t.Time().UTC().Format("2006-01-02T15:04:05.999999999Z07:00")
	case primitive.ObjectID:
		return t.Hex()
	}
	return v
}

func (s *Store) Set(ctx context.Context, docPath string, data map[string]interface{}) error {
	collection, id, err := docstore.Split(docPath)
	if err != nil {
		return err
	}
	_, err = s.coll(collection).ReplaceOne(ctx,
		bson.M{fieldID: docPath},
		body(collection, id, data),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
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
	collection, _, err := docstore.Split(docPath)
	if err != nil {
		return err
	}
	res, err := s.coll(collection).UpdateOne(ctx, bson.M{fieldID: docPath}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s: %w", docPath, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", docPath, docstore.ErrNotFound)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, docPath string) error {
	collection, _, err := docstore.Split(docPath)
	if err != nil {
		return err
	}
	if _, err := s.coll(collection).DeleteOne(ctx, bson.M{fieldID: docPath}); err != nil {
		return fmt.Errorf("delete %s: %w", docPath, err)
	}
	return nil
}

func (s *Store) Batch() docstore.Batch {
	return &batch{store: s, models: make(map[string][]mongo.WriteModel)}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type batch struct {
	store  *Store
	models map[string][]mongo.WriteModel // mongo collection -> writes, in order
	order  []string
	n      int
	err    error
}

func (b *batch) add(collection string, model mongo.WriteModel) {
	name := collectionName(collection)
	if _, ok := b.models[name]; !ok {
		b.order = append(b.order, name)
	}
	b.models[name] = append(b.models[name], model)
	b.n++
}

func (b *batch) Set(docPath string, data map[string]interface{}) {
	collection, id, err := docstore.Split(docPath)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return
	}
	b.add(collection, mongo.NewReplaceOneModel().
		SetFilter(bson.M{fieldID: docPath}).
		SetReplacement(body(collection, id, data)).
		SetUpsert(true))
}

func (b *batch) Delete(docPath string) {
	collection, _, err := docstore.Split(docPath)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return
	}
	b.add(collection, mongo.NewDeleteOneModel().SetFilter(bson.M{fieldID: docPath}))
}

func (b *batch) Len() int {
	return b.n
}

// Commit applies the writes inside a multi-document transaction. The server
// must run as a replica set.
func (b *batch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if b.n > docstore.MaxBatchOps {
		return docstore.ErrBatchTooLarge
	}
	if b.n == 0 {
		return nil
	}

	sess, err := b.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, name := range b.order {
			opts := options.BulkWrite().SetOrdered(true)
			if _, err := b.store.db.Collection(name).BulkWrite(sc, b.models[name], opts); err != nil {
				return nil, fmt.Errorf("bulk write %s: %w", name, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	b.models = make(map[string][]mongo.WriteModel)
	b.order = nil
	b.n = 0
	return nil
}
