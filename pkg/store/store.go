// Package store persists pipeline results.
//
// A [Record] is the durable form of a [pipeline.Result]: run metadata plus
// the classified map as JSON. Two backends are provided:
//
//   - [MemoryStore]: process-local, used by tests and a single API instance
//   - [MongoStore]: MongoDB collection shared by API replicas
//
// [Open] picks a backend from a URL so the CLI can take it as a flag.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/pipeline"
	"github.com/matzehuels/statmap/pkg/thematic"
)

// Store saves and retrieves records.
type Store interface {
	// Save inserts or replaces a record by ID.
	Save(ctx context.Context, r *Record) error

	// Get returns a record. A missing ID is a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Record is one stored pipeline run.
type Record struct {
	ID        string                          `json:"id" bson:"_id"`
	MapType   string                          `json:"map_type" bson:"map_type"`
	MapHash   string                          `json:"map_hash" bson:"map_hash"`
	Regions   int                             `json:"regions" bson:"regions"`
	NoData    int                             `json:"no_data" bson:"no_data"`
	Datasets  map[string]pipeline.DatasetInfo `json:"datasets" bson:"datasets"`
	Map       json.RawMessage                 `json:"map" bson:"map"`
	CreatedAt time.Time                       `json:"created_at" bson:"created_at"`
}

// NewRecord converts a pipeline result.
func NewRecord(res *pipeline.Result) (*Record, error) {
	if res == nil || res.Map == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "result has no map")
	}
	data, err := json.Marshal(res.Map)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode map")
	}
	return &Record{
		ID:        res.ID,
		MapType:   string(res.Map.MapType),
		MapHash:   res.MapHash,
		Regions:   res.Stats.Regions,
		NoData:    res.Stats.NoData,
		Datasets:  res.Datasets,
		Map:       data,
		CreatedAt: res.CreatedAt,
	}, nil
}

// Result decodes the stored map.
func (r *Record) Result() (*thematic.Result, error) {
	var m thematic.Result
	if err := json.Unmarshal(r.Map, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode map %s", r.ID)
	}
	return &m, nil
}

// Open returns a store for a URL. "" and "memory" use [MemoryStore];
// mongodb:// and mongodb+srv:// URLs use [MongoStore].
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case url == "" || url == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return NewMongoStore(ctx, url)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported store %q (want memory or mongodb://)", url)
}

func validID(id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record id is empty")
	}
	return nil
}
