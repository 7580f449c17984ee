package document

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docgate/internal/db"
	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
	logpkg "github.com/kailas-cloud/docgate/internal/logger"
)

// store is the consumer interface for documents (ISP).
type store interface {
	FindOne(ctx context.Context, collection string, filter bson.D) (bson.D, error)
	Find(ctx context.Context, collection string, filter bson.D, opts db.FindOptions) (db.Cursor, error)
	CountDocuments(ctx context.Context, collection string, filter bson.D) (int64, error)
	InsertOne(ctx context.Context, collection string, doc bson.D) (any, error)
	UpdateOne(ctx context.Context, collection string, filter, update bson.D) (db.UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter bson.D) (db.DeleteResult, error)
}

// DropCounter counts documents skipped while listing.
type DropCounter interface {
	Dropped(collection, reason string)
}

type nopDropCounter struct{}

func (nopDropCounter) Dropped(string, string) {}

// Drop reasons.
const (
	DropDecode = "decode"
	DropCursor = "cursor"
)

// Repo implements usecase/document.Repository.
type Repo struct {
	store   store
	dropped DropCounter
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s, dropped: nopDropCounter{}}
}

// WithDropCounter reports skipped documents to c.
func (r *Repo) WithDropCounter(c DropCounter) *Repo {
	if c != nil {
		r.dropped = c
	}
	return r
}

// FindOne returns the document matching filter or domain.ErrNotFound.
func (r *Repo) FindOne(ctx context.Context, collection string, filter bson.D) (bson.D, error) {
	doc, err := r.store.FindOne(ctx, collection, filter)
	if err != nil {
		if errors.Is(err, db.ErrNoDocument) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find one in %s: %w", collection, err)
	}
	return doc, nil
}

// Find opens a cursor for spec and returns its documents as a lazy sequence.
// Documents that fail to decode, and a cursor failure mid-iteration, are
// dropped from the sequence: they are logged and counted but never surfaced.
// The cursor is closed when iteration ends, so the sequence must be ranged over once.
func (r *Repo) Find(ctx context.Context, collection string, spec query.Spec) (iter.Seq[bson.D], error) {
	cur, err := r.store.Find(ctx, collection, spec.Filter(), db.FindOptions{
		Sort:       spec.Sort(),
		Projection: spec.Projection(),
		Skip:       spec.Skip(),
		Limit:      spec.Limit(),
	})
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}

	return func(yield func(bson.D) bool) {
		log := logpkg.FromContext(ctx)
		defer func() {
			if err := cur.Close(ctx); err != nil {
				log.Warn("close cursor", zap.String("collection", collection), zap.Error(err))
			}
		}()

		for cur.Next(ctx) {
			doc, err := cur.Decode()
			if err != nil {
				r.dropped.Dropped(collection, DropDecode)
				log.Warn("dropped undecodable document", zap.String("collection", collection), zap.Error(err))
				continue
			}
			if !yield(doc) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			r.dropped.Dropped(collection, DropCursor)
			log.Warn("cursor failed mid-listing", zap.String("collection", collection), zap.Error(err))
		}
	}, nil
}

// Count returns the number of documents matching filter.
func (r *Repo) Count(ctx context.Context, collection string, filter bson.D) (int64, error) {
	n, err := r.store.CountDocuments(ctx, collection, filter)
	if err != nil {
		return 0, fmt.Errorf("count in %s: %w", collection, err)
	}
	return n, nil
}

// Insert stores doc and returns the store-assigned identifier.
func (r *Repo) Insert(ctx context.Context, collection string, doc bson.D) (any, error) {
	id, err := r.store.InsertOne(ctx, collection, doc)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Update applies update to the first document matching filter.
func (r *Repo) Update(ctx context.Context, collection string, filter, update bson.D) (domdoc.UpdateResult, error) {
	res, err := r.store.UpdateOne(ctx, collection, filter, update)
	if err != nil {
		return domdoc.UpdateResult{}, fmt.Errorf("update in %s: %w", collection, err)
	}
	return domdoc.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    domdoc.EncodeID(res.UpsertedID),
	}, nil
}

// Delete removes the first document matching filter.
func (r *Repo) Delete(ctx context.Context, collection string, filter bson.D) (domdoc.DeleteResult, error) {
	res, err := r.store.DeleteOne(ctx, collection, filter)
	if err != nil {
		return domdoc.DeleteResult{}, fmt.Errorf("delete in %s: %w", collection, err)
	}
	return domdoc.DeleteResult{DeletedCount: res.DeletedCount}, nil
}
