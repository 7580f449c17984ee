package db

import "errors"

// ErrNoDocument signals that a single-document lookup matched nothing.
var ErrNoDocument = errors.New("db: no document")

// Op constants name store commands for error context and metrics.
const (
	OpPing            = "ping"
	OpFindOne         = "findOne"
	OpFind            = "find"
	OpCountDocuments  = "countDocuments"
	OpInsertOne       = "insertOne"
	OpUpdateOne       = "updateOne"
	OpDeleteOne       = "deleteOne"
	OpListCollections = "listCollections"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
