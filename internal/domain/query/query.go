// Package query translates list-request query parameters into store queries.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/document"
)

// Query parameter names.
const (
	ParamWhere = "where"
	ParamOrder = "order"
	ParamKeys  = "keys"
	ParamSkip  = "skip"
	ParamLimit = "limit"
	ParamCount = "count"
)

const (
	// DefaultSkip is used when skip is absent.
	DefaultSkip int64 = 0
	// DefaultLimit is used when limit is absent.
	DefaultLimit int64 = 200
)

// Sort and projection values.
const (
	Ascending  = 1
	Descending = -1
	Include    = 1
	Exclude    = 0
)

// Spec is a parsed list query (immutable value object).
type Spec struct {
	filter     bson.D
	sort       bson.D
	projection bson.D
	skip       int64
	limit      int64
	count      bool
}

// Parse builds a Spec from raw query parameters. Unknown keys are ignored.
func Parse(values url.Values) (Spec, error) {
	filter, err := ParseFilter(param(values, ParamWhere))
	if err != nil {
		return Spec{}, err
	}
	skip, limit := ParsePagination(param(values, ParamSkip), param(values, ParamLimit))

	return Spec{
		filter:     filter,
		sort:       ParseSort(param(values, ParamOrder)),
		projection: ParseProjection(param(values, ParamKeys)),
		skip:       skip,
		limit:      limit,
		count:      ParseCount(param(values, ParamCount)),
	}, nil
}

// Filter returns the filter document, nil when every document matches.
func (s Spec) Filter() bson.D { return s.filter }

// Sort returns the ordered sort specification, nil for store order.
func (s Spec) Sort() bson.D { return s.sort }

// Projection returns the projection, nil for all fields.
func (s Spec) Projection() bson.D { return s.projection }

// Skip returns the number of documents to skip.
func (s Spec) Skip() int64 { return s.skip }

// Limit returns the maximum number of documents to return.
func (s Spec) Limit() int64 { return s.limit }

// CountRequested reports whether the total match count was requested.
func (s Spec) CountRequested() bool { return s.count }

// ParseFilter parses the where parameter. A nil raw value yields a nil filter.
func ParseFilter(raw *string) (bson.D, error) {
	if raw == nil {
		return nil, nil
	}
	v, err := document.DecodeJSON([]byte(*raw))
	if err != nil {
		return nil, fmt.Errorf("parse where: %w", domain.ErrMalformedFilter)
	}
	filter, ok := v.(bson.D)
	if !ok {
		return nil, fmt.Errorf("parse where: got %T: %w", v, domain.ErrFilterNotObject)
	}
	return filter, nil
}

// ParseSort parses a comma-separated field list; a leading "-" sorts descending.
func ParseSort(raw *string) bson.D {
	return parseFieldList(raw, Ascending, Descending)
}

// ParseProjection parses a comma-separated field list; a leading "-" excludes the field.
// Mixed inclusion and exclusion is passed through to the store.
func ParseProjection(raw *string) bson.D {
	return parseFieldList(raw, Include, Exclude)
}

// ParsePagination returns skip and limit. Missing or non-integer values fall back
// to the defaults; anything else is forwarded unchanged.
func ParsePagination(skip, limit *string) (int64, int64) {
	return parseInt(skip, DefaultSkip), parseInt(limit, DefaultLimit)
}

// ParseCount reports whether count was requested with the value "1".
func ParseCount(raw *string) bool {
	return raw != nil && *raw == "1"
}

// MergeFilter extends base with the fields of extra. Keys already present in
// base are overwritten in place.
func MergeFilter(base, extra bson.D) bson.D {
	out := make(bson.D, len(base), len(base)+len(extra))
	copy(out, base)
	for _, e := range extra {
		out = document.Set(out, e.Key, e.Value)
	}
	return out
}

func parseFieldList(raw *string, plain, negated int32) bson.D {
	if raw == nil {
		return nil
	}
	spec := bson.D{}
	for _, token := range strings.Split(*raw, ",") {
		if token == "" {
			continue
		}
		field, neg := strings.CutPrefix(token, "-")
		if field == "" {
			continue
		}
		if neg {
			spec = document.Set(spec, field, negated)
			continue
		}
		spec = document.Set(spec, field, plain)
	}
	return spec
}

func parseInt(raw *string, def int64) int64 {
	if raw == nil {
		return def
	}
	n, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func param(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}
	v := values.Get(key)
	return &v
}
