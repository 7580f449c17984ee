package document

import (
	"context"
	"iter"
	"slices"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	findOneFn func(ctx context.Context, collection string, filter bson.D) (bson.D, error)
	findFn    func(ctx context.Context, collection string, spec query.Spec) (iter.Seq[bson.D], error)
	countFn   func(ctx context.Context, collection string, filter bson.D) (int64, error)
	insertFn  func(ctx context.Context, collection string, doc bson.D) (any, error)
	updateFn  func(ctx context.Context, collection string, filter, update bson.D) (domdoc.UpdateResult, error)
	deleteFn  func(ctx context.Context, collection string, filter bson.D) (domdoc.DeleteResult, error)

	calls []string
}

func (m *mockRepo) FindOne(ctx context.Context, collection string, filter bson.D) (bson.D, error) {
	m.calls = append(m.calls, "findOne")
	if m.findOneFn != nil {
		return m.findOneFn(ctx, collection, filter)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRepo) Find(ctx context.Context, collection string, spec query.Spec) (iter.Seq[bson.D], error) {
	m.calls = append(m.calls, "find")
	if m.findFn != nil {
		return m.findFn(ctx, collection, spec)
	}
	return slices.Values([]bson.D(nil)), nil
}

func (m *mockRepo) Count(ctx context.Context, collection string, filter bson.D) (int64, error) {
	m.calls = append(m.calls, "count")
	if m.countFn != nil {
		return m.countFn(ctx, collection, filter)
	}
	return 0, nil
}

func (m *mockRepo) Insert(ctx context.Context, collection string, doc bson.D) (any, error) {
	m.calls = append(m.calls, "insert")
	if m.insertFn != nil {
		return m.insertFn(ctx, collection, doc)
	}
	return nil, nil
}

func (m *mockRepo) Update(
	ctx context.Context, collection string, filter, update bson.D,
) (domdoc.UpdateResult, error) {
	m.calls = append(m.calls, "update")
	if m.updateFn != nil {
		return m.updateFn(ctx, collection, filter, update)
	}
	return domdoc.UpdateResult{}, nil
}

func (m *mockRepo) Delete(ctx context.Context, collection string, filter bson.D) (domdoc.DeleteResult, error) {
	m.calls = append(m.calls, "delete")
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collection, filter)
	}
	return domdoc.DeleteResult{}, nil
}
