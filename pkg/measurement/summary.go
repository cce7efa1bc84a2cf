package measurement

import (
	"encoding/json"
	"fmt"

	statsapi "k8s.io/kubelet/pkg/apis/stats/v1alpha1"
)

// FSStatsFromSummary extracts the node root filesystem usage from a raw
// kubelet stats summary (/api/v1/nodes/<node>/proxy/stats/summary).
func FSStatsFromSummary(raw []byte) (FSStats, error) {
	var summary statsapi.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return FSStats{}, fmt.Errorf("failed to decode stats summary: %w", err)
	}

	fs := summary.Node.Fs
	if fs == nil {
		return FSStats{}, fmt.Errorf("stats summary for node %q has no filesystem stats", summary.Node.NodeName)
	}
	if fs.UsedBytes == nil || fs.CapacityBytes == nil {
		return FSStats{}, fmt.Errorf("stats summary for node %q is missing used or capacity bytes", summary.Node.NodeName)
	}

	return FSStats{
		UsedBytes:     *fs.UsedBytes,
		CapacityBytes: *fs.CapacityBytes,
	}, nil
}

// Percent returns used/capacity as a percentage. The second result is false
// when capacity is zero, in which case the percentage is 0.
func (s FSStats) Percent() (float64, bool) {
	if s.CapacityBytes == 0 {
		return 0, false
	}
	return float64(s.UsedBytes) / float64(s.CapacityBytes) * 100, true
}
