package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"k8s.io/utils/exec"

	"github.com/dverzolla/kubectl-topd/pkg/collector/k8s"
	"github.com/dverzolla/kubectl-topd/pkg/collector/kubectl"
	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
	"github.com/dverzolla/kubectl-topd/pkg/k8s/client"
	"github.com/dverzolla/kubectl-topd/pkg/k8s/proxy"
)

// Backend selects how cluster data is read.
type Backend string

const (
	// BackendProxy queries the API server through a local `kubectl proxy`,
	// either an existing one (ProxyURL) or a helper started for the run.
	BackendProxy Backend = "proxy"
	// BackendKubectl shells out to kubectl for every request.
	BackendKubectl Backend = "kubectl"
	// BackendKubeconfig queries the API server directly with kubeconfig credentials.
	BackendKubeconfig Backend = "kubeconfig"
)

// SupportedBackends returns the accepted backend names.
func SupportedBackends() []string {
	return []string{string(BackendProxy), string(BackendKubectl), string(BackendKubeconfig)}
}

// ParseBackend parses a backend name, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BackendProxy, BackendKubectl, BackendKubeconfig:
		return b, nil
	case "":
		return BackendProxy, nil
	default:
		return "", topderrors.New(topderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown backend %q, supported: %s", s, strings.Join(SupportedBackends(), ", ")))
	}
}

// Config selects and configures the backend.
type Config struct {
	Backend    Backend
	ProxyURL   string
	Kubeconfig string
	Kubectl    string
	Timeout    time.Duration
	Strict     bool

	// Exec runs kubectl for the kubectl backend and the proxy helper.
	// Defaults to exec.New().
	Exec exec.Interface
}

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	// CreateCollector resolves connectivity and returns a ready collector.
	// The closer releases whatever was started for it and must be closed
	// once the run is over.
	CreateCollector(ctx context.Context) (Collector, io.Closer, error)
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	Config Config
}

// NewDefaultFactory creates a factory for cfg.
func NewDefaultFactory(cfg Config) *DefaultFactory {
	return &DefaultFactory{Config: cfg}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// CreateCollector creates the collector for the configured backend.
func (f *DefaultFactory) CreateCollector(ctx context.Context) (Collector, io.Closer, error) {
	cfg := f.Config

	switch cfg.Backend {
	case BackendKubectl:
		return &kubectl.Collector{
			Exec:       cfg.Exec,
			Kubectl:    cfg.Kubectl,
			Kubeconfig: cfg.Kubeconfig,
			Strict:     cfg.Strict,
		}, nopCloser{}, nil

	case BackendKubeconfig:
		c, err := f.apiCollector(client.Options{Kubeconfig: cfg.Kubeconfig, Timeout: cfg.Timeout})
		if err != nil {
			return nil, nil, err
		}
		return c, nopCloser{}, nil

	case BackendProxy, "":
		if cfg.ProxyURL != "" {
			c, err := f.apiCollector(client.Options{Host: cfg.ProxyURL, Timeout: cfg.Timeout})
			if err != nil {
				return nil, nil, err
			}
			return c, nopCloser{}, nil
		}

		p, err := proxy.Start(ctx, proxy.Options{
			Exec:       cfg.Exec,
			Kubectl:    cfg.Kubectl,
			Kubeconfig: cfg.Kubeconfig,
		})
		if err != nil {
			return nil, nil, topderrors.Wrap(topderrors.ErrCodeUnavailable, "failed to start kubectl proxy", err)
		}
		c, err := f.apiCollector(client.Options{Host: p.URL, Timeout: cfg.Timeout})
		if err != nil {
			_ = p.Close()
			return nil, nil, err
		}
		return c, p, nil

	default:
		return nil, nil, topderrors.New(topderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown backend %q", cfg.Backend))
	}
}

func (f *DefaultFactory) apiCollector(opts client.Options) (*k8s.Collector, error) {
	clients, err := client.BuildKubeClient(opts)
	if err != nil {
		return nil, topderrors.Wrap(topderrors.ErrCodeUnavailable, "failed to build kubernetes client", err)
	}
	slog.Debug("using kubernetes api", slog.String("host", clients.Config.Host))
	return &k8s.Collector{ClientSet: clients.Kube, Metrics: clients.Metrics}, nil
}
