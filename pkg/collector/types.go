package collector

import (
	"context"

	"github.com/dverzolla/kubectl-topd/pkg/measurement"
)

// Collector defines the interface for reading node data from a cluster.
// Implementations talk either to the API server or to kubectl.
// All collectors must support context-based cancellation.
type Collector interface {
	// Nodes lists the nodes matching the label selector, in listing order.
	Nodes(ctx context.Context, selector string) ([]measurement.Node, error)

	// Usage returns the current usage sample per node name. Nodes without a
	// sample are absent from the map.
	Usage(ctx context.Context, selector string) (map[string]measurement.Usage, error)

	// NodeFSStats returns the root filesystem stats of one node.
	NodeFSStats(ctx context.Context, node string) (measurement.FSStats, error)
}
