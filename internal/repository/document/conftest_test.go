package document

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/docgate/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findOneFn func(ctx context.Context, collection string, filter bson.D) (bson.D, error)
	findFn    func(ctx context.Context, collection string, filter bson.D, opts db.FindOptions) (db.Cursor, error)
	countFn   func(ctx context.Context, collection string, filter bson.D) (int64, error)
	insertFn  func(ctx context.Context, collection string, doc bson.D) (any, error)
	updateFn  func(ctx context.Context, collection string, filter, update bson.D) (db.UpdateResult, error)
	deleteFn  func(ctx context.Context, collection string, filter bson.D) (db.DeleteResult, error)
}

func (m *mockStore) FindOne(ctx context.Context, collection string, filter bson.D) (bson.D, error) {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, collection, filter)
	}
	return nil, db.ErrNoDocument
}

func (m *mockStore) Find(
	ctx context.Context, collection string, filter bson.D, opts db.FindOptions,
) (db.Cursor, error) {
	if m.findFn != nil {
		return m.findFn(ctx, collection, filter, opts)
	}
	return &mockCursor{}, nil
}

func (m *mockStore) CountDocuments(ctx context.Context, collection string, filter bson.D) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, collection, filter)
	}
	return 0, nil
}

func (m *mockStore) InsertOne(ctx context.Context, collection string, doc bson.D) (any, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, collection, doc)
	}
	return nil, nil
}

func (m *mockStore) UpdateOne(ctx context.Context, collection string, filter, update bson.D) (db.UpdateResult, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, collection, filter, update)
	}
	return db.UpdateResult{}, nil
}

func (m *mockStore) DeleteOne(ctx context.Context, collection string, filter bson.D) (db.DeleteResult, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collection, filter)
	}
	return db.DeleteResult{}, nil
}

// cursorItem is one cursor position: a document or a decode failure.
type cursorItem struct {
	doc bson.D
	err error
}

// mockCursor replays items and then reports err.
type mockCursor struct {
	items  []cursorItem
	err    error
	pos    int
	closed bool
}

func (c *mockCursor) Next(context.Context) bool {
	if c.pos >= len(c.items) {
		return false
	}
	c.pos++
	return true
}

func (c *mockCursor) Decode() (bson.D, error) {
	item := c.items[c.pos-1]
	return item.doc, item.err
}

func (c *mockCursor) Err() error { return c.err }

func (c *mockCursor) Close(context.Context) error {
	c.closed = true
	return nil
}

// recordingDrops records every dropped document.
type recordingDrops struct {
	reasons []string
}

func (r *recordingDrops) Dropped(_, reason string) { r.reasons = append(r.reasons, reason) }

var errDecode = errors.New("corrupt bson")
