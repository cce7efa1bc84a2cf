// Package client builds Kubernetes API clients for node reporting.
//
// Two connection modes are supported: a kubeconfig (explicit path, KUBECONFIG,
// ~/.kube/config, or in-cluster) and a plain HTTP endpoint such as the one
// served by `kubectl proxy`, which handles authentication itself.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/dverzolla/kubectl-topd/pkg/defaults"
)

// Options controls how the REST config is built.
type Options struct {
	// Kubeconfig is the kubeconfig path. Ignored when Host is set.
	Kubeconfig string

	// Host is an API endpoint that needs no credentials, e.g. a local proxy.
	Host string

	// Timeout bounds every request made with the resulting clients.
	Timeout time.Duration

	// QPS and Burst override the client-side rate limit.
	// Zero values fall back to defaults.ClientQPS and defaults.ClientBurst.
	QPS   float32
	Burst int
}

// Clients bundles the core and metrics clientsets built from one config.
type Clients struct {
	Kube    *kubernetes.Clientset
	Metrics *metricsclientset.Clientset
	Config  *rest.Config
}

// BuildConfig returns the REST config described by opts.
//
// Without a Host, the kubeconfig is discovered in this order:
//  1. opts.Kubeconfig
//  2. KUBECONFIG environment variable
//  3. ~/.kube/config (if it exists)
//  4. In-cluster configuration (service account)
func BuildConfig(opts Options) (*rest.Config, error) {
	var config *rest.Config

	if opts.Host != "" {
		config = &rest.Config{Host: opts.Host}
	} else {
		kubeconfig := resolveKubeconfig(opts.Kubeconfig)
		c, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to build kube config: %w", err)
		}
		config = c
	}

	config.Timeout = opts.Timeout
	config.QPS = opts.QPS
	if config.QPS <= 0 {
		config.QPS = defaults.ClientQPS
	}
	config.Burst = opts.Burst
	if config.Burst <= 0 {
		config.Burst = defaults.ClientBurst
	}

	return config, nil
}

// BuildKubeClient creates the core and metrics clients for opts.
//
// Example with a running proxy:
//
//	clients, err := client.BuildKubeClient(client.Options{Host: "http://127.0.0.1:8001"})
//	if err != nil {
//	    return fmt.Errorf("failed to build client: %w", err)
//	}
func BuildKubeClient(opts Options) (*Clients, error) {
	config, err := BuildConfig(opts)
	if err != nil {
		return nil, err
	}

	kube, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	metrics, err := metricsclientset.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %w", err)
	}

	return &Clients{Kube: kube, Metrics: metrics, Config: config}, nil
}

func resolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}

	kubeconfig = os.Getenv("KUBECONFIG")
	if kubeconfig == "" {
		kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
		if _, err := os.Stat(kubeconfig); os.IsNotExist(err) {
			kubeconfig = ""
		}
	}
	return kubeconfig
}
