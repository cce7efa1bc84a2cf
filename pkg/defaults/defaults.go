package defaults

import "time"

// Request handling.
const (
	// RequestTimeout bounds every single API or kubectl request.
	RequestTimeout = 5 * time.Second

	// Concurrency is the default upper bound on in-flight disk-stat fetches.
	Concurrency = 16

	// ClientQPS and ClientBurst size the client-go rate limiter so that the
	// disk fan-out is not throttled by the client-go defaults (5/10).
	ClientQPS   = 50
	ClientBurst = 100

	// ProxyStartTimeout bounds how long we wait for `kubectl proxy` to report
	// its listening address.
	ProxyStartTimeout = 10 * time.Second
)

// Rendering.
const (
	// HighlightThreshold is the percentage above which usage cells are highlighted.
	HighlightThreshold = 80.0

	// Column widths of the fixed table layout.
	NameWidth          = 30
	CPUWidth           = 12
	CPUPercentWidth    = 6
	MemoryWidth        = 14
	MemoryPercentWidth = 10
	DiskPercentWidth   = 12
	LabelWidth         = 15
)

// Kubectl is the default kubectl binary name.
const Kubectl = "kubectl"
