// Package diskusage computes per-node ephemeral disk usage by fanning out
// stats summary requests over a bounded pool of workers.
//
// Fetching is best effort: a node whose stats cannot be fetched or decoded
// is reported at 0% and flagged as degraded, and the failure is logged as a
// warning. Strict mode turns the first such failure into an error.
package diskusage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dverzolla/kubectl-topd/pkg/defaults"
	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
	"github.com/dverzolla/kubectl-topd/pkg/measurement"
)

// Source returns the root filesystem stats of a node.
type Source interface {
	NodeFSStats(ctx context.Context, node string) (measurement.FSStats, error)
}

// Result is the disk usage of one node.
type Result struct {
	// Percent is used/capacity × 100, or 0 when Degraded.
	Percent float64 `json:"percent" yaml:"percent"`

	// Degraded is true when Percent is a fallback rather than a measurement.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`

	// Err is the suppressed failure behind a degraded result.
	Err error `json:"-" yaml:"-"`
}

// Fetcher fetches disk usage for a set of nodes concurrently.
type Fetcher struct {
	Source Source

	// Concurrency bounds the number of in-flight requests.
	// Values below 1 fall back to defaults.Concurrency.
	Concurrency int

	// Timeout bounds each request. Zero means no per-request deadline.
	Timeout time.Duration

	// Limiter, when set, throttles the request rate across all workers.
	Limiter *rate.Limiter

	// Strict makes Fetch fail on the first node that cannot be measured.
	Strict bool
}

// Fetch returns the disk usage of every node in nodes, keyed by node name.
// Every node gets exactly one request; the result map is complete once
// Fetch returns, regardless of the order in which requests finished.
func (f *Fetcher) Fetch(ctx context.Context, nodes []string) (map[string]Result, error) {
	if len(nodes) == 0 {
		return map[string]Result{}, nil
	}

	results := make([]Result, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers(len(nodes)))

	for i, node := range nodes {
		g.Go(func() error {
			results[i] = f.fetchOne(gctx, node)
			if f.Strict && results[i].Err != nil {
				return topderrors.WrapWithContext(topderrors.ErrCodeDegraded,
					"failed to fetch disk usage", results[i].Err, map[string]any{"node": node})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]Result, len(nodes))
	for i, node := range nodes {
		out[node] = results[i]
	}
	return out, nil
}

// workers returns min(concurrency, n), at least 1.
func (f *Fetcher) workers(n int) int {
	c := f.Concurrency
	if c < 1 {
		c = defaults.Concurrency
	}
	if n < c {
		c = n
	}
	if c < 1 {
		c = 1
	}
	return c
}

func (f *Fetcher) fetchOne(ctx context.Context, node string) Result {
	start := time.Now()
	defer func() {
		diskFetchDuration.Observe(time.Since(start).Seconds())
	}()

	stats, err := f.stats(ctx, node)
	if err != nil {
		diskFetchTotal.WithLabelValues("error").Inc()
		slog.Warn("failed to fetch disk usage, reporting 0%",
			slog.String("node", node),
			slog.String("error", err.Error()))
		return Result{Degraded: true, Err: err}
	}

	pct, ok := stats.Percent()
	if !ok {
		diskFetchTotal.WithLabelValues("error").Inc()
		err := fmt.Errorf("node %q reports zero filesystem capacity", node)
		slog.Warn("disk capacity is zero, reporting 0%", slog.String("node", node))
		return Result{Degraded: true, Err: err}
	}

	diskFetchTotal.WithLabelValues("success").Inc()
	slog.Debug("fetched disk usage", slog.String("node", node), slog.Float64("percent", pct))
	return Result{Percent: pct}
}

func (f *Fetcher) stats(ctx context.Context, node string) (measurement.FSStats, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return measurement.FSStats{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	return f.Source.NodeFSStats(ctx, node)
}

// NewLimiter returns a limiter allowing qps requests per second, or nil
// when qps is not positive.
func NewLimiter(qps float64) *rate.Limiter {
	if qps <= 0 {
		return nil
	}
	burst := int(qps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(qps), burst)
}
