package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docgate/internal/domain"
	logpkg "github.com/kailas-cloud/docgate/internal/logger"
)

// errorCode is the machine-readable code of an error response.
type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeMalformedFilter     errorCode = "malformed_filter"
	codeFilterNotObject     errorCode = "filter_not_object"
	codeBodyNotObject       errorCode = "body_not_object"
	codeMalformedIdentifier errorCode = "malformed_identifier"
	codePayloadTooLarge     errorCode = "payload_too_large"
	codeNotFound            errorCode = "not_found"
	codeMethodNotAllowed    errorCode = "method_not_allowed"
	codeStoreUnavailable    errorCode = "store_unavailable"
	codeInternal            errorCode = "internal_error"
)

var errBodyTooLarge = errors.New("request body too large")

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrMalformedFilter, http.StatusBadRequest, codeMalformedFilter),
		sentinelHandler(domain.ErrFilterNotObject, http.StatusBadRequest, codeFilterNotObject),
		sentinelHandler(domain.ErrBodyNotObject, http.StatusBadRequest, codeBodyNotObject),
		sentinelHandler(domain.ErrInvalidJSON, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrMalformedIdentifier, http.StatusBadRequest, codeMalformedIdentifier),
		sentinelHandler(errBodyTooLarge, http.StatusRequestEntityTooLarge, codePayloadTooLarge),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}

	sentinels := []error{
		domain.ErrMalformedFilter,
		domain.ErrFilterNotObject,
		domain.ErrBodyNotObject,
		domain.ErrInvalidJSON,
		domain.ErrMalformedIdentifier,
		errBodyTooLarge,
		domain.ErrNotFound,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
