package kubectl

import (
	"context"
	"errors"
	osexec "os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"

	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
)

// scripted returns a FakeExec answering one command with out/err and the
// FakeCmd so callers can inspect its argv.
func scripted(out string, err error) (*testingexec.FakeExec, *testingexec.FakeCmd) {
	cmd := &testingexec.FakeCmd{
		OutputScript: []testingexec.FakeAction{
			func() ([]byte, []byte, error) { return []byte(out), nil, err },
		},
	}
	fe := &testingexec.FakeExec{
		CommandScript: []testingexec.FakeCommandAction{
			func(name string, args ...string) exec.Cmd {
				return testingexec.InitFakeCmd(cmd, name, args...)
			},
		},
	}
	return fe, cmd
}

const nodesJSON = `{
  "apiVersion": "v1",
  "kind": "List",
  "items": [
    {
      "metadata": {"name": "n1", "labels": {"pool": "a"}},
      "status": {"capacity": {"cpu": "4", "memory": "16Gi"}}
    },
    {
      "metadata": {"name": "n2", "labels": {"pool": "b"}},
      "status": {"capacity": {"cpu": "2", "memory": "8038880Ki"}}
    }
  ]
}`

func TestCollector_Nodes(t *testing.T) {
	fe, cmd := scripted(nodesJSON, nil)
	c := &Collector{Exec: fe}

	nodes, err := c.Nodes(context.Background(), "pool in (a,b)")
	require.NoError(t, err)
	assert.Equal(t, []string{"kubectl", "get", "nodes", "-o", "json", "--selector", "pool in (a,b)"}, cmd.Argv)

	require.Len(t, nodes, 2)
	assert.Equal(t, "n1", nodes[0].Name)
	assert.Equal(t, int64(4000), nodes[0].CPUCapacity)
	assert.Equal(t, int64(16*1024*1024*1024), nodes[0].MemoryCapacity)
	assert.Equal(t, "a", nodes[0].Labels["pool"])
	assert.Equal(t, int64(8038880*1024), nodes[1].MemoryCapacity)
}

func TestCollector_NodesKubeconfig(t *testing.T) {
	fe, cmd := scripted(`{"items":[]}`, nil)
	c := &Collector{Exec: fe, Kubectl: "/usr/local/bin/kubectl", Kubeconfig: "/tmp/kc"}

	nodes, err := c.Nodes(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Equal(t, []string{"/usr/local/bin/kubectl", "--kubeconfig", "/tmp/kc", "get", "nodes", "-o", "json"}, cmd.Argv)
}

func TestCollector_NodesBadCapacity(t *testing.T) {
	const raw = `{"items":[{"metadata":{"name":"n1"},"status":{"capacity":{"cpu":"lots","memory":"1Gi"}}}]}`

	fe, _ := scripted(raw, nil)
	nodes, err := (&Collector{Exec: fe}).Nodes(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), nodes[0].CPUCapacity)

	fe, _ = scripted(raw, nil)
	_, err = (&Collector{Exec: fe, Strict: true}).Nodes(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, topderrors.ErrCodeDegraded, topderrors.CodeOf(err))
}

func TestCollector_NodesCommandFails(t *testing.T) {
	fe, _ := scripted("", errors.New("exit status 1"))
	_, err := (&Collector{Exec: fe}).Nodes(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kubectl get nodes -o json")
}

func TestCollector_CommandFailsWithStderr(t *testing.T) {
	const unauthorized = "error: You must be logged in to the server (Unauthorized)"

	tests := []struct {
		name string
		err  error
	}{
		{"exec wrapper", &exec.ExitErrorWrapper{ExitError: &osexec.ExitError{Stderr: []byte(unauthorized + "\n")}}},
		{"os exit error", &osexec.ExitError{Stderr: []byte("  " + unauthorized)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, _ := scripted("", tt.err)
			_, err := (&Collector{Exec: fe}).Nodes(context.Background(), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "kubectl get nodes -o json")
			assert.True(t, strings.HasSuffix(err.Error(), ": "+unauthorized), err.Error())
		})
	}
}

func TestCollector_Usage(t *testing.T) {
	const top = `n1   250m         6%     1024Mi          6%
n2   1500000000n  75%    2Gi             25%
n3   <unknown>    <unknown>  <unknown>   <unknown>
`
	fe, cmd := scripted(top, nil)

	usage, err := (&Collector{Exec: fe}).Usage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"kubectl", "top", "nodes", "--no-headers"}, cmd.Argv)

	require.Len(t, usage, 2)
	assert.Equal(t, int64(250), usage["n1"].CPU)
	assert.Equal(t, int64(1024*1024*1024), usage["n1"].Memory)
	assert.Equal(t, int64(1500), usage["n2"].CPU)
	assert.NotContains(t, usage, "n3")
}

func TestCollector_UsageStrict(t *testing.T) {
	fe, _ := scripted("n1 abc 1% 1Mi 1%\n", nil)
	_, err := (&Collector{Exec: fe, Strict: true}).Usage(context.Background(), "")
	assert.Equal(t, topderrors.ErrCodeDegraded, topderrors.CodeOf(err))
}

func TestCollector_NodeFSStats(t *testing.T) {
	fe, cmd := scripted(`{"node":{"nodeName":"n1","fs":{"usedBytes":30,"capacityBytes":120}}}`, nil)

	stats, err := (&Collector{Exec: fe}).NodeFSStats(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"kubectl", "get", "--raw", "/api/v1/nodes/n1/proxy/stats/summary"}, cmd.Argv)
	assert.Equal(t, uint64(30), stats.UsedBytes)
	assert.Equal(t, uint64(120), stats.CapacityBytes)
}

func TestCollector_Canceled(t *testing.T) {
	fe, _ := scripted("", errors.New("signal: killed"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Collector{Exec: fe}).NodeFSStats(ctx, "n1")
	assert.ErrorIs(t, err, context.Canceled)
}
