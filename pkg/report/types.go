package report

import (
	"context"

	"github.com/dverzolla/kubectl-topd/pkg/header"
)

// Reporter is the interface that wraps the Run method.
// Run produces a single report snapshot.
type Reporter interface {
	Run(ctx context.Context) (*Report, error)
}

// Report is one snapshot of node usage, ready for output.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	ID string `json:"id" yaml:"id"`

	Selector     string   `json:"selector,omitempty" yaml:"selector,omitempty"`
	LabelColumns []string `json:"labelColumns,omitempty" yaml:"labelColumns,omitempty"`
	OrderBy      string   `json:"orderBy,omitempty" yaml:"orderBy,omitempty"`

	Rows []Row `json:"rows" yaml:"rows"`
}

// Row is the merged view of one node.
type Row struct {
	Name string `json:"name" yaml:"name"`

	// Usage is nil when no usage sample exists for the node.
	Usage *RowUsage `json:"usage,omitempty" yaml:"usage,omitempty"`

	DiskPercent float64 `json:"diskPercent" yaml:"diskPercent"`

	// DiskDegraded is set when DiskPercent is a fallback for a failed fetch.
	DiskDegraded bool `json:"diskDegraded,omitempty" yaml:"diskDegraded,omitempty"`

	// Labels holds only the requested label columns the node carries.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// RowUsage is the usage part of a row. Percentages are integers, truncated,
// relative to the node's allocatable resources.
type RowUsage struct {
	CPU           int64 `json:"cpuMillicores" yaml:"cpuMillicores"`
	CPUPercent    int64 `json:"cpuPercent" yaml:"cpuPercent"`
	Memory        int64 `json:"memoryBytes" yaml:"memoryBytes"`
	MemoryPercent int64 `json:"memoryPercent" yaml:"memoryPercent"`
}
