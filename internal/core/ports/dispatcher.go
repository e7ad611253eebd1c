package ports

import (
	"context"
	"encoding/json"
	"net/url"
)

// Request describes one call to the finance service.
type Request struct {
	Method string
	// Path is relative to the service base URL, e.g. "transactions/42".
	Path string
	// Route is the low-cardinality path template used for metrics, e.g.
	// "transactions/:id". Defaults to Path.
	Route string
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// Auth attaches the stored bearer token and fails fast without one.
	Auth bool
	// Fallback is the message used for non-2xx responses that carry none.
	Fallback string
}

// Dispatcher sends requests to the finance service and returns the raw JSON
// body of successful responses.
type Dispatcher interface {
	Send(ctx context.Context, req Request) (json.RawMessage, error)
}
