package store

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/statmap/pkg/errors"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "statmap"
	DefaultCollection = "results"
)

const connectTimeout = 10 * time.Second

// MongoStore keeps records in a MongoDB collection, one document per record
// keyed by ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to uri and verifies the connection. The database
// is taken from the URI path when present.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return NewMongoStoreFromClient(client, databaseFromURI(uri), DefaultCollection), nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}
}

func (s *MongoStore) Save(ctx context.Context, r *Record) error {
	if err := validID(r.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save result %s", r.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var r Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "result %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "get result %s", id)
	}
	return &r, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list results")
	}
	var out []*Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list results")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete result %s", id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// databaseFromURI returns the path component of a MongoDB URI, if any.
func databaseFromURI(uri string) string {
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return ""
	}
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	db, _, _ := strings.Cut(path, "?")
	return db
}
