package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	DocumentStore
	CollectionLister
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FindOptions holds the cursor options of a find call. Nil Sort and
// Projection leave the store defaults in place.
type FindOptions struct {
	Sort       bson.D
	Projection bson.D
	Skip       int64
	Limit      int64
}

// UpdateResult is the store outcome of an update.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedID    any
}

// DeleteResult is the store outcome of a delete.
type DeleteResult struct {
	DeletedCount int64
}

// Cursor iterates the results of a find call.
type Cursor interface {
	Next(ctx context.Context) bool
	// Decode decodes the current document.
	Decode() (bson.D, error)
	Err() error
	Close(ctx context.Context) error
}

// DocumentStore provides single-collection document operations.
type DocumentStore interface {
	FindOne(ctx context.Context, collection string, filter bson.D) (bson.D, error)
	Find(ctx context.Context, collection string, filter bson.D, opts FindOptions) (Cursor, error)
	CountDocuments(ctx context.Context, collection string, filter bson.D) (int64, error)
	InsertOne(ctx context.Context, collection string, doc bson.D) (any, error)
	UpdateOne(ctx context.Context, collection string, filter, update bson.D) (UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter bson.D) (DeleteResult, error)
}

// CollectionLister enumerates the collections of the database.
type CollectionLister interface {
	ListCollectionNames(ctx context.Context) ([]string, error)
}
