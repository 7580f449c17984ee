package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/docgate/internal/domain"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
)

// ListResult is one page of normalized documents.
// Count is set only when the total was requested.
type ListResult struct {
	Documents []bson.D
	Count     *int64
}

// Service handles document CRUD over arbitrary collections.
// Read-path store failures surface as domain.ErrStoreUnavailable,
// write-path failures as domain.ErrStoreInternal.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to stamp createdAt.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns the normalized document with the given hex identifier.
func (s *Service) Get(ctx context.Context, collection, id string) (bson.D, error) {
	oid, err := domdoc.ParseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindOne(ctx, collection, idFilter(oid))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound(id)
		}
		return nil, fmt.Errorf("get %s/%s: %w: %w", collection, id, domain.ErrStoreUnavailable, err)
	}
	return domdoc.ToClientView(doc), nil
}

// List returns the normalized documents matching spec. When a count is
// requested it is taken before the find, over the same filter.
func (s *Service) List(ctx context.Context, collection string, spec query.Spec) (ListResult, error) {
	var res ListResult

	if spec.CountRequested() {
		n, err := s.repo.Count(ctx, collection, spec.Filter())
		if err != nil {
			return ListResult{}, fmt.Errorf("count %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
		}
		res.Count = &n
	}

	docs, err := s.repo.Find(ctx, collection, spec)
	if err != nil {
		return ListResult{}, fmt.Errorf("list %s: %w: %w", collection, domain.ErrStoreUnavailable, err)
	}

	res.Documents = make([]bson.D, 0)
	for doc := range docs {
		res.Documents = append(res.Documents, domdoc.ToClientView(doc))
	}
	return res, nil
}

// Insert stores body with a createdAt stamp and returns its client identity.
// A createdAt supplied by the client is overwritten.
func (s *Service) Insert(ctx context.Context, collection string, body any) (domdoc.InsertResult, error) {
	doc, err := domdoc.ToStoreView(body)
	if err != nil {
		return domdoc.InsertResult{}, err
	}

	now := s.now()
	doc = domdoc.Set(doc, domdoc.FieldCreatedAt, primitive.NewDateTimeFromTime(now))

	id, err := s.repo.Insert(ctx, collection, doc)
	if err != nil {
		return domdoc.InsertResult{}, fmt.Errorf("insert into %s: %w: %w", collection, domain.ErrStoreInternal, err)
	}
	return domdoc.InsertResult{
		ObjectID:  domdoc.EncodeID(id),
		CreatedAt: domdoc.FormatTimestamp(now),
	}, nil
}

// Replace sets the fields of body on the document and refreshes updatedAt.
func (s *Service) Replace(ctx context.Context, collection, id string, body any) (domdoc.UpdateResult, error) {
	oid, err := domdoc.ParseID(id)
	if err != nil {
		return domdoc.UpdateResult{}, err
	}
	fields, err := domdoc.ToStoreView(body)
	if err != nil {
		return domdoc.UpdateResult{}, err
	}

	update := bson.D{
		{Key: "$set", Value: fields},
		{Key: "$currentDate", Value: bson.D{{Key: domdoc.FieldUpdatedAt, Value: true}}},
	}
	return s.update(ctx, collection, id, idFilter(oid), update)
}

// Modify applies body as an update document (operators such as $set, $inc,
// $unset) and refreshes updatedAt.
func (s *Service) Modify(ctx context.Context, collection, id string, body any) (domdoc.UpdateResult, error) {
	oid, err := domdoc.ParseID(id)
	if err != nil {
		return domdoc.UpdateResult{}, err
	}
	update, err := domdoc.ToStoreView(body)
	if err != nil {
		return domdoc.UpdateResult{}, err
	}

	return s.update(ctx, collection, id, idFilter(oid), withCurrentDate(update))
}

// Delete removes the document with the given identifier that also matches where.
func (s *Service) Delete(ctx context.Context, collection, id string, where bson.D) (domdoc.DeleteResult, error) {
	oid, err := domdoc.ParseID(id)
	if err != nil {
		return domdoc.DeleteResult{}, err
	}

	filter := query.MergeFilter(idFilter(oid), where)
	res, err := s.repo.Delete(ctx, collection, filter)
	if err != nil {
		return domdoc.DeleteResult{}, fmt.Errorf("delete %s/%s: %w: %w", collection, id, domain.ErrStoreInternal, err)
	}
	return res, nil
}

func (s *Service) update(
	ctx context.Context, collection, id string, filter, update bson.D,
) (domdoc.UpdateResult, error) {
	res, err := s.repo.Update(ctx, collection, filter, update)
	if err != nil {
		return domdoc.UpdateResult{}, fmt.Errorf("update %s/%s: %w: %w", collection, id, domain.ErrStoreInternal, err)
	}
	return res, nil
}

func idFilter(oid primitive.ObjectID) bson.D {
	return bson.D{{Key: domdoc.FieldID, Value: oid}}
}

// withCurrentDate adds updatedAt to the $currentDate operator of update,
// keeping any other fields the client asked to refresh.
func withCurrentDate(update bson.D) bson.D {
	current := bson.D{}
	if v, ok := domdoc.Lookup(update, "$currentDate"); ok {
		if d, ok := v.(bson.D); ok {
			current = append(current, d...)
		}
	}
	current = domdoc.Set(current, domdoc.FieldUpdatedAt, true)
	return domdoc.Set(update, "$currentDate", current)
}
