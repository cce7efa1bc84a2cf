// Package selector forwards a user-supplied label selector to node listing
// calls without rewriting it.
package selector

import (
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

// ListOptions returns list options carrying the selector verbatim.
// The API server is the authority on selector syntax; a selector that does
// not parse locally is still sent and only noted at debug level.
func ListOptions(sel string) metav1.ListOptions {
	if sel != "" {
		if _, err := labels.Parse(sel); err != nil {
			slog.Debug("label selector does not parse locally, passing it through",
				slog.String("selector", sel),
				slog.String("error", err.Error()))
		}
	}
	return metav1.ListOptions{LabelSelector: sel}
}

// KubectlArgs returns the kubectl arguments that apply the selector, or nil
// when no selector was given.
func KubectlArgs(sel string) []string {
	if sel == "" {
		return nil
	}
	return []string{"--selector", sel}
}
