/*
Copyright © 2025 Diego Verzolla
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/dverzolla/kubectl-topd/pkg/collector"
	"github.com/dverzolla/kubectl-topd/pkg/defaults"
	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
	"github.com/dverzolla/kubectl-topd/pkg/logging"
	"github.com/dverzolla/kubectl-topd/pkg/report"
	"github.com/dverzolla/kubectl-topd/pkg/serializer"
)

const name = "kubectl-topd"

// factoryFunc builds the collector factory for a resolved backend config.
type factoryFunc func(cfg collector.Config) collector.Factory

func defaultFactory(cfg collector.Config) collector.Factory {
	return collector.NewDefaultFactory(cfg)
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, version string, args []string) int {
	err := NewCommand(version).Run(ctx, args)
	if err != nil {
		slog.Error("command failed",
			slog.String("code", string(topderrors.CodeOf(err))),
			slog.String("error", err.Error()))
	}
	return topderrors.ExitCode(err)
}

// NewCommand returns the root command.
func NewCommand(version string) *cli.Command {
	return newCommand(version, defaultFactory)
}

func newCommand(version string, factory factoryFunc) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Display CPU, memory and ephemeral disk usage of nodes",
		UsageText:             name + " [options]",
		Description: `Shows the usage of every node (or the nodes matching --selector) together
with the ephemeral disk usage reported by the kubelet, optional label columns
and client-side ordering.

# Examples

Sort by zone, then by CPU% descending:
  kubectl topd -L topology.kubernetes.io/zone -O "zone,cpu%:desc"

Use an existing proxy:
  kubectl proxy --port 8001 &
  kubectl topd --proxy-url http://127.0.0.1:8001

Without a proxy:
  kubectl topd --backend kubeconfig --kubeconfig ~/.kube/prod

Machine-readable output:
  kubectl topd -t json`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "label-columns",
				Aliases: []string{"L"},
				Usage:   "Label keys to show as columns (repeatable and/or comma-separated)",
			},
			&cli.StringFlag{
				Name:    "selector",
				Aliases: []string{"l"},
				Usage:   "Label selector to filter nodes, passed through unmodified",
			},
			&cli.StringFlag{
				Name:    "order-by",
				Aliases: []string{"O"},
				Usage:   `Columns to sort by, e.g. "zone:asc,cpu%:desc"`,
			},
			&cli.StringFlag{
				Name:  "backend",
				Value: string(collector.BackendProxy),
				Usage: "How to reach the cluster: proxy, kubeconfig or kubectl",
			},
			&cli.StringFlag{
				Name:  "proxy-url",
				Usage: "URL of a running kubectl proxy; no proxy is started when set",
			},
			&cli.StringFlag{
				Name:    "kubeconfig",
				Usage:   "Path to the kubeconfig file",
				Sources: cli.EnvVars("KUBECONFIG"),
			},
			&cli.StringFlag{
				Name:  "kubectl",
				Value: defaults.Kubectl,
				Usage: "kubectl binary used by the proxy and kubectl backends",
			},
			&cli.FloatFlag{
				Name:    "timeout",
				Value:   defaults.RequestTimeout.Seconds(),
				Usage:   "Timeout of every single request, in seconds",
				Sources: cli.EnvVars("TOPD_TIMEOUT"),
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Value:   defaults.Concurrency,
				Usage:   "Maximum number of concurrent disk usage requests",
				Sources: cli.EnvVars("TOPD_CONCURRENCY"),
			},
			&cli.FloatFlag{
				Name:  "disk-qps",
				Usage: "Maximum disk usage requests per second (0 = unlimited)",
			},
			&cli.FloatFlag{
				Name:  "threshold",
				Value: defaults.HighlightThreshold,
				Usage: "Highlight usage above this percentage",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable highlighting",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail instead of reporting fallback values (unknown columns, failed disk fetches, unparsable quantities)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatTable),
				Usage:   "Output format: table, json or yaml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics of the run to this file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, version, factory)
		},
	}
}

func run(ctx context.Context, cmd *cli.Command, version string, factory factoryFunc) error {
	setupLogging(cmd, version)

	if path := cmd.String("metrics-file"); path != "" {
		defer func() {
			if werr := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); werr != nil {
				slog.Warn("failed to write metrics file", slog.String("path", path), slog.String("error", werr.Error()))
			}
		}()
	}

	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	backend, err := parseBackend(cmd)
	if err != nil {
		return err
	}
	timeout, err := secondsToDuration(cmd.Float("timeout"))
	if err != nil {
		return err
	}
	concurrency := cmd.Int("concurrency")
	if concurrency < 1 {
		return topderrors.New(topderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("--concurrency must be at least 1, got %d", concurrency))
	}
	strict := cmd.Bool("strict")

	w, err := outputWriter(cmd, format)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			slog.Warn("failed to close output", slog.String("error", cerr.Error()))
		}
	}()

	col, closer, err := factory(collector.Config{
		Backend:    backend,
		ProxyURL:   cmd.String("proxy-url"),
		Kubeconfig: cmd.String("kubeconfig"),
		Kubectl:    cmd.String("kubectl"),
		Timeout:    timeout,
		Strict:     strict,
	}).CreateCollector(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			slog.Warn("failed to release collector", slog.String("error", cerr.Error()))
		}
	}()

	var reporter report.Reporter = &report.NodeReporter{
		Collector: col,
		Config: report.Config{
			Selector:     cmd.String("selector"),
			LabelColumns: labelColumns(cmd.StringSlice("label-columns")),
			OrderBy:      cmd.String("order-by"),
			Concurrency:  concurrency,
			Timeout:      timeout,
			DiskQPS:      cmd.Float("disk-qps"),
			Strict:       strict,
			Version:      version,
		},
	}

	rep, err := reporter.Run(ctx)
	if err != nil {
		return err
	}

	var out any = rep
	if format == serializer.FormatTable {
		out = &report.Table{
			Report:    rep,
			Threshold: cmd.Float("threshold"),
			Color:     !cmd.Bool("no-color") && !writesToFile(cmd),
		}
	}

	if err := w.Serialize(ctx, out); err != nil {
		return topderrors.Wrap(topderrors.ErrCodeInternal, "failed to write report", err)
	}
	return nil
}

func setupLogging(cmd *cli.Command, version string) {
	level := ""
	if cmd.Bool("debug") {
		level = "debug"
	}
	logging.SetDefaultLogger(logging.Options{
		Name:    name,
		Version: version,
		Level:   level,
		JSON:    cmd.Bool("log-json"),
		Output:  cmd.Root().ErrWriter,
	})
	slog.Debug("logging configured",
		slog.Bool("debug", cmd.Bool("debug")),
		slog.Bool("json", cmd.Bool("log-json")))
}
