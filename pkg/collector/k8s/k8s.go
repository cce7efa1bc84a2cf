package k8s

import (
	"context"
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/dverzolla/kubectl-topd/pkg/measurement"
	"github.com/dverzolla/kubectl-topd/pkg/selector"
)

// Collector reads node data from the Kubernetes API.
type Collector struct {
	ClientSet kubernetes.Interface
	Metrics   metricsclientset.Interface
}

// Nodes lists the nodes matching sel in API order.
func (k *Collector) Nodes(ctx context.Context, sel string) ([]measurement.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list, err := k.ClientSet.CoreV1().Nodes().List(ctx, selector.ListOptions(sel))
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	nodes := make([]measurement.Node, 0, len(list.Items))
	for _, n := range list.Items {
		// Same basis as kubectl top: allocatable, else capacity.
		resources := n.Status.Allocatable
		if len(resources) == 0 {
			resources = n.Status.Capacity
		}
		nodes = append(nodes, measurement.Node{
			Name:           n.Name,
			CPUCapacity:    resources.Cpu().MilliValue(),
			MemoryCapacity: resources.Memory().Value(),
			Labels:         n.Labels,
		})
	}

	slog.Debug("listed nodes", slog.Int("count", len(nodes)))
	return nodes, nil
}

// Usage lists the current usage sample of every node matching sel, keyed by
// node name.
func (k *Collector) Usage(ctx context.Context, sel string) (map[string]measurement.Usage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list, err := k.Metrics.MetricsV1beta1().NodeMetricses().List(ctx, selector.ListOptions(sel))
	if err != nil {
		return nil, fmt.Errorf("failed to list node metrics: %w", err)
	}

	usage := make(map[string]measurement.Usage, len(list.Items))
	for _, m := range list.Items {
		usage[m.Name] = measurement.Usage{
			CPU:    m.Usage.Cpu().MilliValue(),
			Memory: m.Usage.Memory().Value(),
		}
	}

	slog.Debug("listed node metrics", slog.Int("count", len(usage)))
	return usage, nil
}

// NodeFSStats returns the root filesystem stats of node from its kubelet
// stats summary.
func (k *Collector) NodeFSStats(ctx context.Context, node string) (measurement.FSStats, error) {
	raw, err := k.ClientSet.CoreV1().RESTClient().Get().
		AbsPath("/api/v1/nodes", node, "proxy", "stats", "summary").
		DoRaw(ctx)
	if err != nil {
		return measurement.FSStats{}, fmt.Errorf("failed to get stats summary of node %s: %w", node, err)
	}
	return measurement.FSStatsFromSummary(raw)
}
