package document

import (
	"context"
	"iter"

	"go.mongodb.org/mongo-driver/bson"

	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
)

// Repository defines the storage contract for documents.
type Repository interface {
	FindOne(ctx context.Context, collection string, filter bson.D) (bson.D, error)
	Find(ctx context.Context, collection string, spec query.Spec) (iter.Seq[bson.D], error)
	Count(ctx context.Context, collection string, filter bson.D) (int64, error)
	Insert(ctx context.Context, collection string, doc bson.D) (any, error)
	Update(ctx context.Context, collection string, filter, update bson.D) (domdoc.UpdateResult, error)
	Delete(ctx context.Context, collection string, filter bson.D) (domdoc.DeleteResult, error)
}
