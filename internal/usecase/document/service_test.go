package document

import (
	"context"
	"errors"
	"iter"
	"net/url"
	"reflect"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
)

const validID = "5f1a2b3c4d5e6f7a8b9c0d1e"

var fixedNow = time.Date(2020, 7, 23, 10, 0, 0, 0, time.UTC)

func mustOID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("ObjectIDFromHex: %v", err)
	}
	return oid
}

func mustSpec(t *testing.T, values url.Values) query.Spec {
	t.Helper()
	spec, err := query.Parse(values)
	if err != nil {
		t.Fatalf("query.Parse: %v", err)
	}
	return spec
}

func TestGet_NormalizesDocument(t *testing.T) {
	oid := mustOID(t, validID)
	var gotFilter bson.D
	repo := &mockRepo{
		findOneFn: func(_ context.Context, _ string, filter bson.D) (bson.D, error) {
			gotFilter = filter
			return bson.D{
				{Key: "_id", Value: oid},
				{Key: "name", Value: "Ann"},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(fixedNow)},
			}, nil
		},
	}

	doc, err := New(repo).Get(context.Background(), "users", validID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(gotFilter, bson.D{{Key: "_id", Value: oid}}) {
		t.Errorf("filter = %v", gotFilter)
	}
	want := bson.D{
		{Key: "objectId", Value: validID},
		{Key: "name", Value: "Ann"},
		{Key: "createdAt", Value: "2020-07-23T10:00:00.000Z"},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("doc = %v, want %v", doc, want)
	}
}

func TestGet_MalformedIdentifierSkipsStore(t *testing.T) {
	repo := &mockRepo{}
	_, err := New(repo).Get(context.Background(), "users", "not-an-id")
	if !errors.Is(err, domain.ErrMalformedIdentifier) {
		t.Fatalf("expected ErrMalformedIdentifier, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Errorf("store was called: %v", repo.calls)
	}
}

func TestGet_NotFoundNamesIdentifier(t *testing.T) {
	_, err := New(&mockRepo{}).Get(context.Background(), "users", validID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.ID != validID {
		t.Errorf("expected NotFoundError for %s, got %v", validID, err)
	}
}

func TestGet_StoreFailureIsUnavailable(t *testing.T) {
	repo := &mockRepo{
		findOneFn: func(context.Context, string, bson.D) (bson.D, error) { return nil, errors.New("timeout") },
	}
	_, err := New(repo).Get(context.Background(), "users", validID)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestList_CountBeforeFind(t *testing.T) {
	var countFilter bson.D
	repo := &mockRepo{
		countFn: func(_ context.Context, _ string, filter bson.D) (int64, error) {
			countFilter = filter
			return 2, nil
		},
		findFn: func(context.Context, string, query.Spec) (iter.Seq[bson.D], error) {
			return slices.Values([]bson.D{
				{{Key: "_id", Value: "a"}},
				{{Key: "_id", Value: "b"}},
			}), nil
		},
	}

	spec := mustSpec(t, url.Values{"where": {`{"age":{"$gte":18}}`}, "count": {"1"}})
	res, err := New(repo).List(context.Background(), "users", spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(repo.calls, []string{"count", "find"}) {
		t.Errorf("calls = %v", repo.calls)
	}
	if !reflect.DeepEqual(countFilter, spec.Filter()) {
		t.Errorf("count filter = %v, want %v", countFilter, spec.Filter())
	}
	if res.Count == nil || *res.Count != 2 {
		t.Errorf("Count = %v, want 2", res.Count)
	}
	want := []bson.D{{{Key: "objectId", Value: "a"}}, {{Key: "objectId", Value: "b"}}}
	if !reflect.DeepEqual(res.Documents, want) {
		t.Errorf("documents = %v", res.Documents)
	}
}

func TestList_NoCountUnlessRequested(t *testing.T) {
	repo := &mockRepo{}
	res, err := New(repo).List(context.Background(), "users", mustSpec(t, url.Values{"count": {"true"}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != nil {
		t.Errorf("Count = %d, want nil", *res.Count)
	}
	if res.Documents == nil || len(res.Documents) != 0 {
		t.Errorf("expected empty non-nil documents, got %#v", res.Documents)
	}
	if !reflect.DeepEqual(repo.calls, []string{"find"}) {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestList_StoreFailures(t *testing.T) {
	tests := []struct {
		name string
		repo *mockRepo
		vals url.Values
	}{
		{
			name: "count",
			repo: &mockRepo{countFn: func(context.Context, string, bson.D) (int64, error) {
				return 0, errors.New("down")
			}},
			vals: url.Values{"count": {"1"}},
		},
		{
			name: "find",
			repo: &mockRepo{findFn: func(context.Context, string, query.Spec) (iter.Seq[bson.D], error) {
				return nil, errors.New("down")
			}},
			vals: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.repo).List(context.Background(), "users", mustSpec(t, tt.vals))
			if !errors.Is(err, domain.ErrStoreUnavailable) {
				t.Errorf("expected ErrStoreUnavailable, got %v", err)
			}
		})
	}
}

func TestInsert_StampsCreatedAt(t *testing.T) {
	oid := mustOID(t, validID)
	var stored bson.D
	repo := &mockRepo{
		insertFn: func(_ context.Context, _ string, doc bson.D) (any, error) {
			stored = doc
			return oid, nil
		},
	}

	body := bson.D{{Key: "name", Value: "Ann"}, {Key: "createdAt", Value: "yesterday"}}
	res, err := New(repo).WithClock(func() time.Time { return fixedNow }).Insert(context.Background(), "users", body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.ObjectID != validID || res.CreatedAt != "2020-07-23T10:00:00.000Z" {
		t.Errorf("result = %+v", res)
	}
	want := bson.D{
		{Key: "name", Value: "Ann"},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(fixedNow)},
	}
	if !reflect.DeepEqual(stored, want) {
		t.Errorf("stored = %v, want %v", stored, want)
	}
}

func TestInsert_RejectsNonObject(t *testing.T) {
	repo := &mockRepo{}
	for _, body := range []any{bson.A{int64(1)}, "text", nil} {
		if _, err := New(repo).Insert(context.Background(), "users", body); !errors.Is(err, domain.ErrBodyNotObject) {
			t.Errorf("Insert(%v): expected ErrBodyNotObject, got %v", body, err)
		}
	}
	if len(repo.calls) != 0 {
		t.Errorf("store was called: %v", repo.calls)
	}
}

func TestInsert_StoreFailureIsInternal(t *testing.T) {
	repo := &mockRepo{
		insertFn: func(context.Context, string, bson.D) (any, error) { return nil, errors.New("duplicate key") },
	}
	_, err := New(repo).Insert(context.Background(), "users", bson.D{})
	if !errors.Is(err, domain.ErrStoreInternal) {
		t.Fatalf("expected ErrStoreInternal, got %v", err)
	}
}

func TestReplace_BuildsSetUpdate(t *testing.T) {
	oid := mustOID(t, validID)
	var gotFilter, gotUpdate bson.D
	repo := &mockRepo{
		updateFn: func(_ context.Context, _ string, filter, update bson.D) (domdoc.UpdateResult, error) {
			gotFilter, gotUpdate = filter, update
			return domdoc.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}

	body := bson.D{{Key: "name", Value: "Bo"}}
	res, err := New(repo).Replace(context.Background(), "users", validID, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.MatchedCount != 1 || res.ModifiedCount != 1 {
		t.Errorf("result = %+v", res)
	}
	if !reflect.DeepEqual(gotFilter, bson.D{{Key: "_id", Value: oid}}) {
		t.Errorf("filter = %v", gotFilter)
	}
	want := bson.D{
		{Key: "$set", Value: body},
		{Key: "$currentDate", Value: bson.D{{Key: "updatedAt", Value: true}}},
	}
	if !reflect.DeepEqual(gotUpdate, want) {
		t.Errorf("update = %v, want %v", gotUpdate, want)
	}
}

func TestModify_AddsUpdatedAt(t *testing.T) {
	tests := []struct {
		name string
		body bson.D
		want bson.D
	}{
		{
			name: "operators only",
			body: bson.D{{Key: "$inc", Value: bson.D{{Key: "n", Value: int64(1)}}}},
			want: bson.D{
				{Key: "$inc", Value: bson.D{{Key: "n", Value: int64(1)}}},
				{Key: "$currentDate", Value: bson.D{{Key: "updatedAt", Value: true}}},
			},
		},
		{
			name: "merges existing currentDate",
			body: bson.D{
				{Key: "$currentDate", Value: bson.D{{Key: "seenAt", Value: true}}},
				{Key: "$set", Value: bson.D{{Key: "a", Value: int64(1)}}},
			},
			want: bson.D{
				{Key: "$currentDate", Value: bson.D{{Key: "seenAt", Value: true}, {Key: "updatedAt", Value: true}}},
				{Key: "$set", Value: bson.D{{Key: "a", Value: int64(1)}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bson.D
			repo := &mockRepo{
				updateFn: func(_ context.Context, _ string, _, update bson.D) (domdoc.UpdateResult, error) {
					got = update
					return domdoc.UpdateResult{}, nil
				},
			}
			if _, err := New(repo).Modify(context.Background(), "users", validID, tt.body); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("update = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdate_Errors(t *testing.T) {
	failing := &mockRepo{
		updateFn: func(context.Context, string, bson.D, bson.D) (domdoc.UpdateResult, error) {
			return domdoc.UpdateResult{}, errors.New("write conflict")
		},
	}
	svc := New(failing)

	if _, err := svc.Replace(context.Background(), "users", validID, bson.D{}); !errors.Is(err, domain.ErrStoreInternal) {
		t.Errorf("Replace: expected ErrStoreInternal, got %v", err)
	}
	if _, err := svc.Modify(context.Background(), "users", "xyz", bson.D{}); !errors.Is(err, domain.ErrMalformedIdentifier) {
		t.Errorf("Modify: expected ErrMalformedIdentifier, got %v", err)
	}
	if _, err := svc.Replace(context.Background(), "users", validID, bson.A{}); !errors.Is(err, domain.ErrBodyNotObject) {
		t.Errorf("Replace: expected ErrBodyNotObject, got %v", err)
	}
}

func TestDelete_MergesWhere(t *testing.T) {
	oid := mustOID(t, validID)
	var gotFilter bson.D
	repo := &mockRepo{
		deleteFn: func(_ context.Context, _ string, filter bson.D) (domdoc.DeleteResult, error) {
			gotFilter = filter
			return domdoc.DeleteResult{DeletedCount: 1}, nil
		},
	}

	where := bson.D{{Key: "owner", Value: "ann"}}
	res, err := New(repo).Delete(context.Background(), "users", validID, where)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DeletedCount != 1 {
		t.Errorf("DeletedCount = %d", res.DeletedCount)
	}
	want := bson.D{{Key: "_id", Value: oid}, {Key: "owner", Value: "ann"}}
	if !reflect.DeepEqual(gotFilter, want) {
		t.Errorf("filter = %v, want %v", gotFilter, want)
	}
}

func TestDelete_StoreFailureIsInternal(t *testing.T) {
	repo := &mockRepo{
		deleteFn: func(context.Context, string, bson.D) (domdoc.DeleteResult, error) {
			return domdoc.DeleteResult{}, errors.New("down")
		},
	}
	if _, err := New(repo).Delete(context.Background(), "users", validID, nil); !errors.Is(err, domain.ErrStoreInternal) {
		t.Fatalf("expected ErrStoreInternal, got %v", err)
	}
}
