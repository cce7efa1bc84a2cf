// Package defaults provides centralized configuration constants for kubectl-topd.
//
// This package defines request timeouts, fan-out sizing, rendering widths and
// the highlight threshold used across the codebase. Centralizing these values
// keeps the CLI flags, the collectors and the renderer in agreement.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/dverzolla/kubectl-topd/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.RequestTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Every API or kubectl call gets its own RequestTimeout deadline
//   - There is no overall run deadline; the run is bounded by the sequential
//     listing calls plus the slowest disk-stat fetch
package defaults
