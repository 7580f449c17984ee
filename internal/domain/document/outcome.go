package document

// UpdateResult describes the outcome of a single-document update.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedID    any
}

// DeleteResult describes the outcome of a single-document delete.
type DeleteResult struct {
	DeletedCount int64
}

// InsertResult carries the client-visible identity of an inserted document.
type InsertResult struct {
	ObjectID  any
	CreatedAt string
}
