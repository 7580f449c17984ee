package docgate

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/docgate/internal/db"
	dbMongo "github.com/kailas-cloud/docgate/internal/db/mongo"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
	collectionrepo "github.com/kailas-cloud/docgate/internal/repository/collection"
	documentrepo "github.com/kailas-cloud/docgate/internal/repository/document"
	collectionuc "github.com/kailas-cloud/docgate/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docgate/internal/usecase/health"
	"github.com/kailas-cloud/docgate/internal/version"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the use cases.
type documentUseCase interface {
	Get(ctx context.Context, collection, id string) (bson.D, error)
	List(ctx context.Context, collection string, spec query.Spec) (documentuc.ListResult, error)
	Insert(ctx context.Context, collection string, body any) (domdoc.InsertResult, error)
	Replace(ctx context.Context, collection, id string, body any) (domdoc.UpdateResult, error)
	Modify(ctx context.Context, collection, id string, body any) (domdoc.UpdateResult, error)
	Delete(ctx context.Context, collection, id string, where bson.D) (domdoc.DeleteResult, error)
}

type collectionUseCase interface {
	List(ctx context.Context) ([]string, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the docgate SDK entry point.
type Client struct {
	store     db.Store
	docSvc    documentUseCase
	collSvc   collectionUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a docgate Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.uri == "" || cfg.database == "" {
		return nil, errors.New("docgate: connection string and database required (use WithMongo)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbMongo.NewStore(dbMongo.Config{
		URI:            cfg.uri,
		Database:       cfg.database,
		ConnectTimeout: cfg.connectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("docgate: create mongo store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docgate: database not ready: %w", err)
	}

	return wireClient(store, obs), nil
}

func wireClient(store db.Store, obs *observer) *Client {
	return &Client{
		store:     store,
		docSvc:    documentuc.New(documentrepo.New(store)),
		collSvc:   collectionuc.New(collectionrepo.New(store)),
		healthSvc: healthuc.New(store, version.Version),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health reports the store health.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:  string(report.Status),
		Version: report.Version,
		Checks:  checks,
	}
}

// Collections returns the names of the user collections, sorted.
func (c *Client) Collections(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collection.list", "", start, err) }()

	names, err := c.collSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// Documents returns the document service for a given collection.
func (c *Client) Documents(collection string) *DocumentService {
	return &DocumentService{
		collection: collection,
		svc:        c.docSvc,
		obs:        c.obs,
	}
}

// queryValues renders q as the raw parameters the list parser accepts.
func queryValues(q Query) url.Values {
	v := url.Values{}
	if q.Where != "" {
		v.Set(query.ParamWhere, q.Where)
	}
	if q.Order != "" {
		v.Set(query.ParamOrder, q.Order)
	}
	if q.Keys != "" {
		v.Set(query.ParamKeys, q.Keys)
	}
	if q.Skip != nil {
		v.Set(query.ParamSkip, strconv.FormatInt(*q.Skip, 10))
	}
	if q.Limit != nil {
		v.Set(query.ParamLimit, strconv.FormatInt(*q.Limit, 10))
	}
	if q.Count {
		v.Set(query.ParamCount, "1")
	}
	return v
}

// All iterates every document of a page in order.
func (r ListResult) All() iter.Seq[Document] {
	return func(yield func(Document) bool) {
		for _, d := range r.Documents {
			if !yield(d) {
				return
			}
		}
	}
}
