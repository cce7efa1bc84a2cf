// Package proxy manages a `kubectl proxy` helper process whose local endpoint
// gives unauthenticated access to the API server for the lifetime of a run.
package proxy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"k8s.io/utils/exec"

	"github.com/dverzolla/kubectl-topd/pkg/defaults"
)

var servingRe = regexp.MustCompile(`Starting to serve on (\S+)`)

// maxStderr bounds the stderr kept for error messages.
const maxStderr = 4 << 10

// Options configures the helper process.
type Options struct {
	// Exec runs the process. Defaults to exec.New().
	Exec exec.Interface

	// Kubectl is the kubectl binary. Defaults to defaults.Kubectl.
	Kubectl string

	// Kubeconfig is passed through as --kubeconfig when set.
	Kubeconfig string

	// StartTimeout bounds the wait for the listening address.
	// Defaults to defaults.ProxyStartTimeout.
	StartTimeout time.Duration
}

// Proxy is a running `kubectl proxy`. It must be released with Close.
type Proxy struct {
	// URL is the base URL the proxy listens on, e.g. http://127.0.0.1:41237.
	URL string

	cmd       exec.Cmd
	closeOnce sync.Once
}

// Start launches `kubectl proxy --port=0` and waits until it reports the
// address it is serving on. The process is tied to ctx: cancelling ctx kills it.
func Start(ctx context.Context, opts Options) (*Proxy, error) {
	ex := opts.Exec
	if ex == nil {
		ex = exec.New()
	}
	kubectl := opts.Kubectl
	if kubectl == "" {
		kubectl = defaults.Kubectl
	}
	timeout := opts.StartTimeout
	if timeout <= 0 {
		timeout = defaults.ProxyStartTimeout
	}

	args := []string{"proxy", "--port=0"}
	if opts.Kubeconfig != "" {
		args = append(args, "--kubeconfig", opts.Kubeconfig)
	}

	command := kubectl + " " + strings.Join(args, " ")
	stderr := &limitedBuffer{limit: maxStderr}

	cmd := ex.CommandContext(ctx, kubectl, args...)
	cmd.SetStderr(stderr)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to attach to kubectl proxy output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s proxy: %w", kubectl, err)
	}

	addrCh := make(chan string, 1)
	go scan(stdout, addrCh)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	p := &Proxy{cmd: cmd}
	select {
	case addr, ok := <-addrCh:
		if !ok {
			_ = p.Close()
			return nil, withStderr(fmt.Errorf("%s exited before serving", command), stderr)
		}
		p.URL = "http://" + addr
	case <-timer.C:
		_ = p.Close()
		return nil, withStderr(fmt.Errorf("%s did not start within %s", command, timeout), stderr)
	case <-ctx.Done():
		_ = p.Close()
		return nil, ctx.Err()
	}

	slog.Debug("kubectl proxy started", slog.String("url", p.URL))
	return p, nil
}

// scan reports the serving address on addrCh and keeps draining r so the
// process never blocks on a full pipe. addrCh is closed if r ends first.
func scan(r io.Reader, addrCh chan<- string) {
	found := false
	s := bufio.NewScanner(r)
	for s.Scan() {
		if found {
			continue
		}
		if m := servingRe.FindStringSubmatch(s.Text()); m != nil {
			addrCh <- m[1]
			found = true
		}
	}
	if !found {
		close(addrCh)
	}
}

func withStderr(err error, stderr *limitedBuffer) error {
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

// limitedBuffer keeps the first limit bytes written to it and discards the
// rest. Writes never fail.
type limitedBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.limit - len(b.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.buf = append(b.buf, p[:room]...)
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

// Close stops the helper process and waits for it to exit. It is safe to
// call more than once.
func (p *Proxy) Close() error {
	p.closeOnce.Do(func() {
		p.cmd.Stop()
		if err := p.cmd.Wait(); err != nil {
			// Exit after a stop signal is expected.
			slog.Debug("kubectl proxy exited", slog.String("error", err.Error()))
		}
		slog.Debug("kubectl proxy stopped")
	})
	return nil
}
