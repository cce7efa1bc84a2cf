// Package k8s collects node inventory, usage and filesystem stats straight
// from the Kubernetes API server.
//
// Nodes come from the core API, usage samples from the metrics.k8s.io API
// (metrics-server), and filesystem stats from the kubelet stats summary,
// reached through the API server node proxy:
//
//	GET /api/v1/nodes/<name>/proxy/stats/summary
//
// The collector works against any endpoint the REST config points at,
// including a local `kubectl proxy`.
//
// # RBAC Requirements
//
//	rules:
//	- apiGroups: [""]
//	  resources: ["nodes", "nodes/proxy"]
//	  verbs: ["get", "list"]
//	- apiGroups: ["metrics.k8s.io"]
//	  resources: ["nodes"]
//	  verbs: ["list"]
package k8s
