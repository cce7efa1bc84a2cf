// Package kubectl collects node inventory, usage and filesystem stats by
// running the kubectl binary:
//
//	kubectl get nodes -o json [--selector ...]
//	kubectl top nodes --no-headers [--selector ...]
//	kubectl get --raw /api/v1/nodes/<name>/proxy/stats/summary
//
// Quantity strings in kubectl output are converted with package quantity,
// which never fails; in strict mode any value that had to be defaulted is an
// error instead.
package kubectl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	osexec "os/exec"
	"strings"

	"k8s.io/utils/exec"

	"github.com/dverzolla/kubectl-topd/pkg/defaults"
	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
	"github.com/dverzolla/kubectl-topd/pkg/measurement"
	"github.com/dverzolla/kubectl-topd/pkg/quantity"
	"github.com/dverzolla/kubectl-topd/pkg/selector"
)

const unknownValue = "<unknown>"

// Collector runs kubectl to read node data.
type Collector struct {
	// Exec runs kubectl. Defaults to exec.New().
	Exec exec.Interface

	// Kubectl is the binary to run. Defaults to defaults.Kubectl.
	Kubectl string

	// Kubeconfig is passed as --kubeconfig when set.
	Kubeconfig string

	// Strict rejects quantities that could not be parsed.
	Strict bool
}

// nodeList is the subset of `kubectl get nodes -o json` that is read.
type nodeList struct {
	Items []struct {
		Metadata struct {
			Name   string            `json:"name"`
			Labels map[string]string `json:"labels"`
		} `json:"metadata"`
		Status struct {
			Allocatable map[string]string `json:"allocatable"`
			Capacity    map[string]string `json:"capacity"`
		} `json:"status"`
	} `json:"items"`
}

// Nodes lists the nodes matching sel in kubectl output order.
func (c *Collector) Nodes(ctx context.Context, sel string) ([]measurement.Node, error) {
	args := append([]string{"get", "nodes", "-o", "json"}, selector.KubectlArgs(sel)...)
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var list nodeList
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, fmt.Errorf("failed to decode node list: %w", err)
	}

	nodes := make([]measurement.Node, 0, len(list.Items))
	for _, item := range list.Items {
		name := item.Metadata.Name
		resources := item.Status.Allocatable
		if len(resources) == 0 {
			resources = item.Status.Capacity
		}
		cpu, err := c.check(quantity.CPU(resources["cpu"]), name, "cpu capacity")
		if err != nil {
			return nil, err
		}
		mem, err := c.check(quantity.Memory(resources["memory"]), name, "memory capacity")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, measurement.Node{
			Name:           name,
			CPUCapacity:    cpu,
			MemoryCapacity: mem,
			Labels:         item.Metadata.Labels,
		})
	}

	slog.Debug("listed nodes", slog.Int("count", len(nodes)))
	return nodes, nil
}

// Usage parses `kubectl top nodes --no-headers`. Nodes that kubectl reports
// as <unknown> have no sample and are left out.
func (c *Collector) Usage(ctx context.Context, sel string) (map[string]measurement.Usage, error) {
	args := append([]string{"top", "nodes", "--no-headers"}, selector.KubectlArgs(sel)...)
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	usage := make(map[string]measurement.Usage)
	s := bufio.NewScanner(bytes.NewReader(out))
	for s.Scan() {
		// NAME CPU(cores) CPU% MEMORY(bytes) MEMORY%
		fields := strings.Fields(s.Text())
		if len(fields) < 4 {
			continue
		}
		name := fields[0]
		if fields[1] == unknownValue || fields[3] == unknownValue {
			slog.Debug("no usage sample for node", slog.String("node", name))
			continue
		}

		cpu, err := c.check(quantity.CPU(fields[1]), name, "cpu usage")
		if err != nil {
			return nil, err
		}
		mem, err := c.check(quantity.Memory(fields[3]), name, "memory usage")
		if err != nil {
			return nil, err
		}
		usage[name] = measurement.Usage{CPU: cpu, Memory: mem}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read kubectl top output: %w", err)
	}

	slog.Debug("listed node metrics", slog.Int("count", len(usage)))
	return usage, nil
}

// NodeFSStats fetches the kubelet stats summary of node via `kubectl get --raw`.
func (c *Collector) NodeFSStats(ctx context.Context, node string) (measurement.FSStats, error) {
	out, err := c.run(ctx, "get", "--raw", "/api/v1/nodes/"+node+"/proxy/stats/summary")
	if err != nil {
		return measurement.FSStats{}, err
	}
	return measurement.FSStatsFromSummary(out)
}

func (c *Collector) check(p quantity.Parsed, node, what string) (int64, error) {
	if p.Defaulted {
		if c.Strict {
			return 0, topderrors.WrapWithContext(topderrors.ErrCodeDegraded,
				"unparsable quantity", nil, map[string]any{"node": node, "field": what})
		}
		slog.Debug("unparsable quantity defaulted to 0",
			slog.String("node", node), slog.String("field", what))
	}
	return p.Value, nil
}

func (c *Collector) run(ctx context.Context, args ...string) ([]byte, error) {
	ex := c.Exec
	if ex == nil {
		ex = exec.New()
	}
	kubectl := c.Kubectl
	if kubectl == "" {
		kubectl = defaults.Kubectl
	}
	if c.Kubeconfig != "" {
		args = append([]string{"--kubeconfig", c.Kubeconfig}, args...)
	}

	slog.Debug("running kubectl", slog.String("command", kubectl+" "+strings.Join(args, " ")))

	out, err := ex.CommandContext(ctx, kubectl, args...).Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if stderr := stderrOf(err); stderr != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", kubectl, strings.Join(args, " "), err, stderr)
		}
		return nil, fmt.Errorf("%s %s: %w", kubectl, strings.Join(args, " "), err)
	}
	return out, nil
}

// stderrOf returns the trimmed stderr captured with a non-zero exit, if any.
func stderrOf(err error) string {
	var wrapped *exec.ExitErrorWrapper
	if errors.As(err, &wrapped) && wrapped.ExitError != nil {
		return strings.TrimSpace(string(wrapped.Stderr))
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}
