package health

import "context"

// Checker reports whether a dependency is reachable.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks signal cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
