package queue

import "context"

// Transport delivers serialized events to a durable queue. Implementations
// must be safe for use by concurrent publishers.
type Transport interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}
