// Package measurement defines the per-node readings gathered for a report:
// node inventory, usage samples and filesystem stats.
package measurement

// Node is a cluster node as returned by the inventory listing.
type Node struct {
	Name string `json:"name" yaml:"name"`

	// CPUCapacity is the allocatable CPU in millicores (capacity when the
	// node reports no allocatable resources).
	CPUCapacity int64 `json:"cpuCapacity" yaml:"cpuCapacity"`

	// MemoryCapacity is the allocatable memory in bytes, with the same fallback.
	MemoryCapacity int64 `json:"memoryCapacity" yaml:"memoryCapacity"`

	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Usage is a single usage sample of a node.
type Usage struct {
	// CPU is the used CPU in millicores.
	CPU int64 `json:"cpu" yaml:"cpu"`

	// Memory is the used memory in bytes.
	Memory int64 `json:"memory" yaml:"memory"`
}

// FSStats is the node root filesystem usage reported by the kubelet.
type FSStats struct {
	UsedBytes     uint64 `json:"usedBytes" yaml:"usedBytes"`
	CapacityBytes uint64 `json:"capacityBytes" yaml:"capacityBytes"`
}
