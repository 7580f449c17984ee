package mongo

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/docgate/internal/db"
)

// FindOne returns the first document matching filter.
func (s *Store) FindOne(ctx context.Context, collection string, filter bson.D) (bson.D, error) {
	start := time.Now()
	var doc bson.D
	err := s.db.Collection(collection).FindOne(ctx, orEmpty(filter)).Decode(&doc)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		observe(db.OpFindOne, start, nil)
		return nil, db.ErrNoDocument
	}
	observe(db.OpFindOne, start, err)
	if err != nil {
		return nil, &db.Error{Op: db.OpFindOne, Err: err}
	}
	return doc, nil
}

// Find opens a cursor over the documents matching filter.
func (s *Store) Find(ctx context.Context, collection string, filter bson.D, o db.FindOptions) (db.Cursor, error) {
	start := time.Now()
	opts := options.Find().SetSkip(o.Skip).SetLimit(o.Limit)
	if o.Sort != nil {
		opts.SetSort(o.Sort)
	}
	if o.Projection != nil {
		opts.SetProjection(o.Projection)
	}

	cur, err := s.db.Collection(collection).Find(ctx, orEmpty(filter), opts)
	observe(db.OpFind, start, err)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return &cursor{cur: cur}, nil
}

// CountDocuments counts the documents matching filter.
func (s *Store) CountDocuments(ctx context.Context, collection string, filter bson.D) (int64, error) {
	start := time.Now()
	n, err := s.db.Collection(collection).CountDocuments(ctx, orEmpty(filter))
	observe(db.OpCountDocuments, start, err)
	if err != nil {
		return 0, &db.Error{Op: db.OpCountDocuments, Err: err}
	}
	return n, nil
}

// InsertOne inserts doc and returns its identifier.
func (s *Store) InsertOne(ctx context.Context, collection string, doc bson.D) (any, error) {
	start := time.Now()
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	observe(db.OpInsertOne, start, err)
	if err != nil {
		return nil, &db.Error{Op: db.OpInsertOne, Err: err}
	}
	return res.InsertedID, nil
}

// UpdateOne applies update to the first document matching filter.
func (s *Store) UpdateOne(ctx context.Context, collection string, filter, update bson.D) (db.UpdateResult, error) {
	start := time.Now()
	res, err := s.db.Collection(collection).UpdateOne(ctx, orEmpty(filter), update)
	observe(db.OpUpdateOne, start, err)
	if err != nil {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: err}
	}
	return db.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

// DeleteOne removes the first document matching filter.
func (s *Store) DeleteOne(ctx context.Context, collection string, filter bson.D) (db.DeleteResult, error) {
	start := time.Now()
	res, err := s.db.Collection(collection).DeleteOne(ctx, orEmpty(filter))
	observe(db.OpDeleteOne, start, err)
	if err != nil {
		return db.DeleteResult{}, &db.Error{Op: db.OpDeleteOne, Err: err}
	}
	return db.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// ListCollectionNames returns the collection names of the database in lexical order.
func (s *Store) ListCollectionNames(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	observe(db.OpListCollections, start, err)
	if err != nil {
		return nil, &db.Error{Op: db.OpListCollections, Err: err}
	}
	sort.Strings(names)
	return names, nil
}

// cursor adapts a driver cursor to db.Cursor.
type cursor struct {
	cur *mongodrv.Cursor
}

func (c *cursor) Next(ctx context.Context) bool { return c.cur.Next(ctx) }

func (c *cursor) Decode() (bson.D, error) {
	var doc bson.D
	if err := c.cur.Decode(&doc); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return doc, nil
}

func (c *cursor) Err() error {
	if err := c.cur.Err(); err != nil {
		return &db.Error{Op: db.OpFind, Err: err}
	}
	return nil
}

func (c *cursor) Close(ctx context.Context) error {
	if err := c.cur.Close(ctx); err != nil {
		return &db.Error{Op: db.OpFind, Err: err}
	}
	return nil
}

// orEmpty substitutes an empty document for a nil filter, which the driver rejects.
func orEmpty(filter bson.D) bson.D {
	if filter == nil {
		return bson.D{}
	}
	return filter
}
