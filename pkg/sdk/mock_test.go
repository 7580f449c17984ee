package docgate

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docgate/internal/usecase/health"
)

// --- documentUseCase mock ---

type mockDocumentUC struct {
	getFn     func(ctx context.Context, col, id string) (bson.D, error)
	listFn    func(ctx context.Context, col string, spec query.Spec) (documentuc.ListResult, error)
	insertFn  func(ctx context.Context, col string, body any) (domdoc.InsertResult, error)
	replaceFn func(ctx context.Context, col, id string, body any) (domdoc.UpdateResult, error)
	modifyFn  func(ctx context.Context, col, id string, body any) (domdoc.UpdateResult, error)
	deleteFn  func(ctx context.Context, col, id string, where bson.D) (domdoc.DeleteResult, error)
}

func (m *mockDocumentUC) Get(ctx context.Context, col, id string) (bson.D, error) {
	return m.getFn(ctx, col, id)
}

func (m *mockDocumentUC) List(ctx context.Context, col string, spec query.Spec) (documentuc.ListResult, error) {
	return m.listFn(ctx, col, spec)
}

func (m *mockDocumentUC) Insert(ctx context.Context, col string, body any) (domdoc.InsertResult, error) {
	return m.insertFn(ctx, col, body)
}

func (m *mockDocumentUC) Replace(ctx context.Context, col, id string, body any) (domdoc.UpdateResult, error) {
	return m.replaceFn(ctx, col, id, body)
}

func (m *mockDocumentUC) Modify(ctx context.Context, col, id string, body any) (domdoc.UpdateResult, error) {
	return m.modifyFn(ctx, col, id, body)
}

func (m *mockDocumentUC) Delete(
	ctx context.Context, col, id string, where bson.D,
) (domdoc.DeleteResult, error) {
	return m.deleteFn(ctx, col, id, where)
}

// --- collectionUseCase mock ---

type mockCollectionUC struct {
	listFn func(ctx context.Context) ([]string, error)
}

func (m *mockCollectionUC) List(ctx context.Context) ([]string, error) {
	return m.listFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(docSvc documentUseCase, collSvc collectionUseCase, healthSvc healthUseCase) *Client {
	return &Client{
		docSvc:    docSvc,
		collSvc:   collSvc,
		healthSvc: healthSvc,
	}
}
