package chi

import (
	"context"
	"iter"
	"slices"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
	collectionuc "github.com/kailas-cloud/docgate/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docgate/internal/usecase/health"
)

// fakeDocuments implements documentuc.Repository and records the last call.
type fakeDocuments struct {
	findOneFn func(filter bson.D) (bson.D, error)
	docs      []bson.D
	findErr   error
	count     int64
	countErr  error
	insertID  any
	insertErr error
	updateRes domdoc.UpdateResult
	updateErr error
	deleteRes domdoc.DeleteResult
	deleteErr error

	collection string
	filter     bson.D
	update     bson.D
	inserted   bson.D
	spec       query.Spec
}

func (f *fakeDocuments) FindOne(_ context.Context, collection string, filter bson.D) (bson.D, error) {
	f.collection, f.filter = collection, filter
	if f.findOneFn != nil {
		return f.findOneFn(filter)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDocuments) Find(_ context.Context, collection string, spec query.Spec) (iter.Seq[bson.D], error) {
	f.collection, f.spec = collection, spec
	if f.findErr != nil {
		return nil, f.findErr
	}
	return slices.Values(f.docs), nil
}

func (f *fakeDocuments) Count(_ context.Context, _ string, filter bson.D) (int64, error) {
	f.filter = filter
	return f.count, f.countErr
}

func (f *fakeDocuments) Insert(_ context.Context, collection string, doc bson.D) (any, error) {
	f.collection, f.inserted = collection, doc
	return f.insertID, f.insertErr
}

func (f *fakeDocuments) Update(_ context.Context, _ string, filter, update bson.D) (domdoc.UpdateResult, error) {
	f.filter, f.update = filter, update
	return f.updateRes, f.updateErr
}

func (f *fakeDocuments) Delete(_ context.Context, _ string, filter bson.D) (domdoc.DeleteResult, error) {
	f.filter = filter
	return f.deleteRes, f.deleteErr
}

type fakeCollections struct {
	names []string
	err   error
}

func (f *fakeCollections) List(context.Context) ([]string, error) { return f.names, f.err }

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

var testNow = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	docs   *fakeDocuments
	colls  *fakeCollections
	pinger *fakePinger
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		docs:   &fakeDocuments{},
		colls:  &fakeCollections{},
		pinger: &fakePinger{},
	}
	server := NewServer(
		documentuc.New(env.docs).WithClock(func() time.Time { return testNow }),
		collectionuc.New(env.colls),
		healthuc.New(env.pinger, "test"),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	server.Routes(r)
	env.router = r
	return env
}
