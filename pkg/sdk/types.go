package docgate

import "go.mongodb.org/mongo-driver/bson"

// Document is an ordered document. Documents returned by the client carry
// objectId instead of _id and formatted top-level timestamps.
type Document = bson.D

// Query selects documents for List. Zero values leave the corresponding
// parameter unset.
type Query struct {
	Where string // JSON filter object
	Order string // comma-separated fields, "-" prefix sorts descending
	Keys  string // comma-separated fields, "-" prefix excludes
	Skip  *int64
	Limit *int64
	Count bool
}

// ListResult is one page of documents. Count is set when Query.Count was set.
type ListResult struct {
	Documents []Document
	Count     *int64
}

// InsertResult identifies an inserted document.
type InsertResult struct {
	ObjectID  any
	CreatedAt string
}

// UpdateResult describes the outcome of Replace and Modify.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedID    any
}

// HealthStatus represents the store health.
type HealthStatus struct {
	Status  string            // "ok", "degraded"
	Version string
	Checks  map[string]string // component -> "ok"/"error"
}
