package health

import "context"

// reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response represents the health check response
type Response struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
	serviceName    = "devconnector"
	serviceVersion = "1.0.0"
)
