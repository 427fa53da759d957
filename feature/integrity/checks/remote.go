package checks

import (
	"context"
	"time"
)

// Pinger checks that a remote store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RemoteReport is the result of a reachability check.
type RemoteReport struct {
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// CheckRemote pings the remote store once, bounded by timeout.
func CheckRemote(ctx context.Context, pinger Pinger, timeout time.Duration) RemoteReport {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	err := pinger.Ping(ctx)
	rep := RemoteReport{Reachable: err == nil, LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		rep.Error = err.Error()
	}
	return rep
}
