package health

import "context"

// Pinger checks document store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
