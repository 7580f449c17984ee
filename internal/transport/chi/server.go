package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	"github.com/kailas-cloud/docgate/internal/domain/query"
	logpkg "github.com/kailas-cloud/docgate/internal/logger"
	collectionuc "github.com/kailas-cloud/docgate/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docgate/internal/usecase/health"
)

// maxBodyBytes caps request bodies on insert and update routes.
const maxBodyBytes = 1 << 20

// Server serves the document HTTP API.
type Server struct {
	documents     *documentuc.Service
	collections   *collectionuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	collections *collectionuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		documents:     documents,
		collections:   collections,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/collections", s.ListCollections)

	r.Route("/data/{collection}", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Post("/", s.InsertDocument)
		r.Get("/{id}", s.GetDocument)
		r.Put("/{id}", s.ReplaceDocument)
		r.Patch("/{id}", s.ModifyDocument)
		r.Delete("/{id}", s.DeleteDocument)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})
}

// ListCollections handles GET /collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	names, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionListResponse{Results: names})
}

// ListDocuments handles GET /data/{collection}.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	spec, err := query.Parse(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.documents.List(r.Context(), chi.URLParam(r, "collection"), spec)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results := make(bson.A, len(res.Documents))
	for i, d := range res.Documents {
		results[i] = d
	}
	body := bson.D{{Key: "results", Value: results}}
	if res.Count != nil {
		body = append(body, bson.E{Key: "count", Value: *res.Count})
	}
	s.writeDocument(w, r, http.StatusOK, body)
}

// InsertDocument handles POST /data/{collection}.
func (s *Server) InsertDocument(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.documents.Insert(r.Context(), chi.URLParam(r, "collection"), payload)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.writeDocument(w, r, http.StatusCreated, bson.D{
		{Key: domdoc.FieldObjectID, Value: res.ObjectID},
		{Key: domdoc.FieldCreatedAt, Value: res.CreatedAt},
	})
}

// GetDocument handles GET /data/{collection}/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeDocument(w, r, http.StatusOK, doc)
}

// ReplaceDocument handles PUT /data/{collection}/{id}.
func (s *Server) ReplaceDocument(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.documents.Replace(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), payload)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeDocument(w, r, http.StatusOK, updateResultBody(res))
}

// ModifyDocument handles PATCH /data/{collection}/{id}.
func (s *Server) ModifyDocument(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.documents.Modify(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), payload)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeDocument(w, r, http.StatusOK, updateResultBody(res))
}

// DeleteDocument handles DELETE /data/{collection}/{id}.
// An optional where parameter narrows the match beyond the identifier.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	var where *string
	if values := r.URL.Query(); values.Has(query.ParamWhere) {
		v := values.Get(query.ParamWhere)
		where = &v
	}
	filter, err := query.ParseFilter(where)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.documents.Delete(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "id"), filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{DeletedCount: res.DeletedCount})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: report.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type collectionListResponse struct {
	Results []string `json:"results"`
}

type deleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// updateResultBody keeps upsertedId out of the body when nothing was upserted.
func updateResultBody(res domdoc.UpdateResult) bson.D {
	body := bson.D{
		{Key: "matchedCount", Value: res.MatchedCount},
		{Key: "modifiedCount", Value: res.ModifiedCount},
	}
	if res.UpsertedID != nil {
		body = append(body, bson.E{Key: "upsertedId", Value: res.UpsertedID})
	}
	return body
}

// readBody decodes the request body into ordered store values.
func readBody(w http.ResponseWriter, r *http.Request) (any, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit %d bytes", errBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	v, err := domdoc.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return v, nil
}

// writeDocument renders v as relaxed extended JSON so stored BSON types
// keep a stable representation.
func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, status int, v bson.D) {
	data, err := domdoc.MarshalJSON(v)
	if err != nil {
		logpkg.FromContextOr(r.Context(), s.logger).Error("encode response", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
