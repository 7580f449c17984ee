package document

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/docgate/internal/domain"
)

const (
	// FieldID is the store-side identifier field.
	FieldID = "_id"
	// FieldObjectID is the client-side identifier field.
	FieldObjectID = "objectId"
	// FieldCreatedAt is stamped on every inserted document.
	FieldCreatedAt = "createdAt"
	// FieldUpdatedAt is refreshed by the store on every update.
	FieldUpdatedAt = "updatedAt"
)

// timestampLayout is RFC 3339 with millisecond precision and a literal Z; callers convert to UTC first.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t as a millisecond-precision RFC 3339 UTC string.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseID parses a 24-character hex identifier.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrMalformedIdentifier, s)
	}
	return id, nil
}

// ToClientView converts a stored document into its client representation.
// Top-level timestamps become formatted strings and _id is renamed to objectId
// in place. The input is not modified. Applying it twice equals applying it once.
func ToClientView(d bson.D) bson.D {
	out := make(bson.D, 0, len(d))
	for _, e := range d {
		if t, ok := timestamp(e.Value); ok {
			e.Value = FormatTimestamp(t)
		}
		out = append(out, e)
	}

	idx := index(out, FieldID)
	if idx < 0 {
		return out
	}
	out[idx] = bson.E{Key: FieldObjectID, Value: EncodeID(out[idx].Value)}

	// The renamed identifier shadows any objectId the document already carried.
	renamed := out[:0]
	for i, e := range out {
		if e.Key == FieldObjectID && i != idx {
			continue
		}
		renamed = append(renamed, e)
	}
	return renamed
}

// ToStoreView accepts a decoded client value as a store document.
// Only JSON objects are accepted; field values are not coerced.
func ToStoreView(v any) (bson.D, error) {
	if d, ok := v.(bson.D); ok && d != nil {
		return d, nil
	}
	return nil, domain.ErrBodyNotObject
}

// Lookup returns the value stored under key.
func Lookup(d bson.D, key string) (any, bool) {
	if i := index(d, key); i >= 0 {
		return d[i].Value, true
	}
	return nil, false
}

// Set stores value under key. An existing key keeps its position.
func Set(d bson.D, key string, value any) bson.D {
	if i := index(d, key); i >= 0 {
		d[i].Value = value
		return d
	}
	return append(d, bson.E{Key: key, Value: value})
}

// Remove deletes key, preserving the order of the remaining fields.
func Remove(d bson.D, key string) bson.D {
	i := index(d, key)
	if i < 0 {
		return d
	}
	return append(d[:i], d[i+1:]...)
}

func index(d bson.D, key string) int {
	for i, e := range d {
		if e.Key == key {
			return i
		}
	}
	return -1
}

func timestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true
	case time.Time:
		return t, true
	default:
		return time.Time{}, false
	}
}

// EncodeID returns the client form of a store identifier: hex for ObjectIDs,
// the value itself otherwise.
func EncodeID(v any) any {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return v
}
