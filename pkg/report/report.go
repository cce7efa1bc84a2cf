// Package report builds node usage reports: it lists nodes, their usage
// samples and disk usage, joins them into rows and orders the rows.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dverzolla/kubectl-topd/pkg/collector"
	"github.com/dverzolla/kubectl-topd/pkg/diskusage"
	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
	"github.com/dverzolla/kubectl-topd/pkg/header"
	"github.com/dverzolla/kubectl-topd/pkg/measurement"
	"github.com/dverzolla/kubectl-topd/pkg/orderby"
)

// Config carries the resolved options of one run.
type Config struct {
	// Selector is passed through to the node and usage listings.
	Selector string

	// LabelColumns are the node labels shown as extra columns.
	LabelColumns []string

	// OrderBy is the raw order-by expression.
	OrderBy string

	// Concurrency bounds in-flight disk fetches.
	Concurrency int

	// Timeout bounds every single request. Zero disables the bound.
	Timeout time.Duration

	// DiskQPS limits the disk fetch rate. Zero means unlimited.
	DiskQPS float64

	// Strict turns recovered failures into errors.
	Strict bool

	// Version is recorded in the report.
	Version string
}

// NodeReporter builds reports from a Collector.
type NodeReporter struct {
	Config    Config
	Collector collector.Collector
}

// Run builds one report. Listing failures are fatal; missing usage and
// failed disk fetches are recovered unless Config.Strict is set.
func (r *NodeReporter) Run(ctx context.Context) (*Report, error) {
	cfg := r.Config

	slog.Debug("starting node report",
		slog.String("selector", cfg.Selector),
		slog.String("orderBy", cfg.OrderBy))

	start := time.Now()
	defer func() {
		reportDuration.Observe(time.Since(start).Seconds())
	}()

	rep, err := r.run(ctx)
	if err != nil {
		reportTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	reportTotal.WithLabelValues("success").Inc()
	return rep, nil
}

func (r *NodeReporter) run(ctx context.Context) (*Report, error) {
	cfg := r.Config

	spec, dropped := orderby.Parse(cfg.OrderBy, cfg.LabelColumns)
	if len(dropped) > 0 && cfg.Strict {
		return nil, topderrors.WrapWithContext(topderrors.ErrCodeInvalidRequest,
			"unknown order-by columns", nil, map[string]any{"columns": strings.Join(dropped, ",")})
	}

	nodes, err := r.nodes(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Header: header.New(
			header.WithKind(Kind),
			header.WithAPIVersion(FullAPIVersion),
			header.WithMetadata("report-timestamp", time.Now().UTC().Format(time.RFC3339)),
			header.WithMetadata("report-version", cfg.Version),
		),
		ID:           uuid.NewString(),
		Selector:     cfg.Selector,
		LabelColumns: cfg.LabelColumns,
		OrderBy:      spec.String(),
		Rows:         []Row{},
	}

	if len(nodes) == 0 {
		slog.Debug("no nodes matched")
		reportRows.Set(0)
		return rep, nil
	}

	usage, err := r.usage(ctx)
	if err != nil {
		return nil, err
	}

	disk, err := r.disk(ctx, nodes)
	if err != nil {
		return nil, err
	}

	rows := Assemble(nodes, usage, disk, cfg.LabelColumns)
	orderby.Sort(rows, spec)
	rep.Rows = rows

	recordRows(rows)
	slog.Debug("node report complete", slog.Int("rows", len(rows)))
	return rep, nil
}

func (r *NodeReporter) nodes(ctx context.Context) ([]measurement.Node, error) {
	defer observeStep("nodes", time.Now())

	ctx, cancel := r.requestContext(ctx)
	defer cancel()

	nodes, err := r.Collector.Nodes(ctx, r.Config.Selector)
	if err != nil {
		return nil, topderrors.WrapWithContext(unavailableOrTimeout(err),
			"failed to list nodes", err, map[string]any{"selector": r.Config.Selector})
	}
	return nodes, nil
}

// usage returns nil without an error when the usage listing fails in
// non-strict mode; every row then shows unknown usage.
func (r *NodeReporter) usage(ctx context.Context) (map[string]measurement.Usage, error) {
	defer observeStep("usage", time.Now())

	rctx, cancel := r.requestContext(ctx)
	defer cancel()

	usage, err := r.Collector.Usage(rctx, r.Config.Selector)
	if err != nil {
		if r.Config.Strict || ctx.Err() != nil {
			return nil, topderrors.Wrap(topderrors.ErrCodeDegraded, "failed to list node metrics", err)
		}
		slog.Warn("failed to list node metrics, usage will be unknown",
			slog.String("error", err.Error()))
		return nil, nil
	}
	return usage, nil
}

func (r *NodeReporter) disk(ctx context.Context, nodes []measurement.Node) (map[string]diskusage.Result, error) {
	defer observeStep("disk", time.Now())

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}

	f := &diskusage.Fetcher{
		Source:      r.Collector,
		Concurrency: r.Config.Concurrency,
		Timeout:     r.Config.Timeout,
		Limiter:     diskusage.NewLimiter(r.Config.DiskQPS),
		Strict:      r.Config.Strict,
	}
	res, err := f.Fetch(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch disk usage: %w", err)
	}
	return res, nil
}

func (r *NodeReporter) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Config.Timeout > 0 {
		return context.WithTimeout(ctx, r.Config.Timeout)
	}
	return context.WithCancel(ctx)
}

func unavailableOrTimeout(err error) topderrors.ErrorCode {
	if topderrors.CodeOf(err) == topderrors.ErrCodeTimeout {
		return topderrors.ErrCodeTimeout
	}
	return topderrors.ErrCodeUnavailable
}

func observeStep(step string, start time.Time) {
	reportStepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

func recordRows(rows []Row) {
	var noUsage, noDisk int
	for _, row := range rows {
		if row.Usage == nil {
			noUsage++
		}
		if row.DiskDegraded {
			noDisk++
		}
	}
	reportRows.Set(float64(len(rows)))
	reportDegradedRows.WithLabelValues("usage").Set(float64(noUsage))
	reportDegradedRows.WithLabelValues("disk").Set(float64(noDisk))
}
