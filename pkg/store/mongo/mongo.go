// Package mongo implements batch storage on MongoDB.
package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
	"github.com/hetenyib/qiskit-qec/pkg/store"
)

// Store persists batches in a MongoDB collection, keyed by batch ID.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to MongoDB at uri and uses the given database and
// collection. The connection is verified with a ping before returning.
func New(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "connect to %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "ping %s", uri)
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Put stores or replaces a batch.
func (s *Store) Put(ctx context.Context, b store.Batch) error {
	if b.ID == "" {
		return qecerrors.New(qecerrors.ErrCodeInvalidInput, "batch has no ID")
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": b.ID}, b, opts); err != nil {
		return qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "put batch %s", b.ID)
	}
	return nil
}

// Get retrieves a batch by ID.
func (s *Store) Get(ctx context.Context, id string) (store.Batch, error) {
	var b store.Batch
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Batch{}, qecerrors.New(qecerrors.ErrCodeNotFound, "batch %s not found", id)
	}
	if err != nil {
		return store.Batch{}, qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "get batch %s", id)
	}
	return b, nil
}

// List returns all batches, most recent first.
func (s *Store) List(ctx context.Context) ([]store.Batch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "list batches")
	}
	var out []store.Batch
	if err := cur.All(ctx, &out); err != nil {
		return nil, qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "decode batches")
	}
	return out, nil
}

// Delete removes a batch by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return qecerrors.Wrap(qecerrors.ErrCodeStorage, err, "delete batch %s", id)
	}
	if res.DeletedCount == 0 {
		return qecerrors.New(qecerrors.ErrCodeNotFound, "batch %s not found", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
