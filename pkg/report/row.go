package report

import (
	"github.com/dverzolla/kubectl-topd/pkg/diskusage"
	"github.com/dverzolla/kubectl-topd/pkg/measurement"
	"github.com/dverzolla/kubectl-topd/pkg/orderby"
)

// Assemble joins inventory, usage, disk results and labels into rows, one
// per node in listing order. Nodes missing from usage get a nil Usage;
// nodes missing from disk report 0%.
func Assemble(nodes []measurement.Node, usage map[string]measurement.Usage,
	disk map[string]diskusage.Result, labelColumns []string) []Row {
	rows := make([]Row, 0, len(nodes))
	for _, n := range nodes {
		row := Row{
			Name:   n.Name,
			Labels: measurement.SelectLabels(n.Labels, labelColumns),
		}

		if u, ok := usage[n.Name]; ok {
			row.Usage = &RowUsage{
				CPU:           u.CPU,
				CPUPercent:    percent(u.CPU, n.CPUCapacity),
				Memory:        u.Memory,
				MemoryPercent: percent(u.Memory, n.MemoryCapacity),
			}
		}

		if d, ok := disk[n.Name]; ok {
			row.DiskPercent = d.Percent
			row.DiskDegraded = d.Degraded
		} else {
			row.DiskDegraded = true
		}

		rows = append(rows, row)
	}
	return rows
}

func percent(used, capacity int64) int64 {
	if capacity <= 0 {
		return 0
	}
	return int64(float64(used) / float64(capacity) * 100)
}

// SortName implements orderby.Keyed.
func (r Row) SortName() string { return r.Name }

// SortNumber implements orderby.Keyed.
func (r Row) SortNumber(c orderby.Column) (float64, bool) {
	if c == orderby.ColumnDiskPercent {
		return r.DiskPercent, true
	}
	if r.Usage == nil {
		return 0, false
	}
	switch c {
	case orderby.ColumnCPU:
		return float64(r.Usage.CPU), true
	case orderby.ColumnCPUPercent:
		return float64(r.Usage.CPUPercent), true
	case orderby.ColumnMemory:
		return float64(r.Usage.Memory), true
	case orderby.ColumnMemoryPercent:
		return float64(r.Usage.MemoryPercent), true
	default:
		return 0, false
	}
}

// SortLabel implements orderby.Keyed.
func (r Row) SortLabel(key string) string { return r.Labels[key] }
