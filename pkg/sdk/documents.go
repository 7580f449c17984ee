package docgate

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
)

// DocumentService manages documents within a single collection.
type DocumentService struct {
	collection string
	svc        documentUseCase
	obs        *observer
}

// Get retrieves a document by its 24-character hex identifier.
func (s *DocumentService) Get(ctx context.Context, id string) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.get", s.collection, start, err) }()

	d, err := s.svc.Get(ctx, s.collection, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// List returns the documents matching q.
func (s *DocumentService) List(ctx context.Context, q Query) (_ ListResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.list", s.collection, start, err) }()

	spec, err := query.Parse(queryValues(q))
	if err != nil {
		return ListResult{}, fmt.Errorf("list documents: %w", err)
	}
	res, err := s.svc.List(ctx, s.collection, spec)
	if err != nil {
		return ListResult{}, fmt.Errorf("list documents: %w", err)
	}
	return ListResult{Documents: res.Documents, Count: res.Count}, nil
}

// Insert stores doc stamped with createdAt.
func (s *DocumentService) Insert(ctx context.Context, doc Document) (_ InsertResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.insert", s.collection, start, err) }()

	res, err := s.svc.Insert(ctx, s.collection, doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert document: %w", err)
	}
	return InsertResult{ObjectID: res.ObjectID, CreatedAt: res.CreatedAt}, nil
}

// InsertJSON stores a JSON object, keeping its field order.
func (s *DocumentService) InsertJSON(ctx context.Context, data []byte) (InsertResult, error) {
	v, err := domdoc.DecodeJSON(data)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert document: %w", err)
	}
	doc, err := domdoc.ToStoreView(v)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert document: %w", err)
	}
	return s.Insert(ctx, doc)
}

// Replace sets the fields of doc on the document with the given identifier.
func (s *DocumentService) Replace(ctx context.Context, id string, doc Document) (_ UpdateResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.replace", s.collection, start, err) }()

	res, err := s.svc.Replace(ctx, s.collection, id, doc)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("replace document: %w", err)
	}
	return fromUpdateResult(res), nil
}

// Modify applies an update document of operators ($set, $inc, $unset, ...).
func (s *DocumentService) Modify(ctx context.Context, id string, update Document) (_ UpdateResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.modify", s.collection, start, err) }()

	res, err := s.svc.Modify(ctx, s.collection, id, update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("modify document: %w", err)
	}
	return fromUpdateResult(res), nil
}

// Delete removes the document with the given identifier. A non-empty where
// must also match. Returns the number of deleted documents.
func (s *DocumentService) Delete(ctx context.Context, id string, where Document) (_ int64, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.delete", s.collection, start, err) }()

	res, err := s.svc.Delete(ctx, s.collection, id, where)
	if err != nil {
		return 0, fmt.Errorf("delete document: %w", err)
	}
	return res.DeletedCount, nil
}

func fromUpdateResult(r domdoc.UpdateResult) UpdateResult {
	return UpdateResult{
		MatchedCount:  r.MatchedCount,
		ModifiedCount: r.ModifiedCount,
		UpsertedID:    r.UpsertedID,
	}
}
