// Copyright 2022 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package restconfig builds rest.Configs for talking to the cluster the
// engine syncs against, preferring the pod service account and falling back
// to the user's kubeconfig.
package restconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	_ "k8s.io/client-go/plugin/pkg/client/auth" // kubectl auth provider plugins
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"
)

// DefaultTimeout is the default REST config timeout.
const DefaultTimeout = 5 * time.Second

// A source for creating a rest config
type configSource struct {
	name   string                       // The name for the config
	create func() (*rest.Config, error) // The function for creating the config
}

// restConfigBuilder creates rest.Configs. The constructor functions are
// swappable for tests.
type restConfigBuilder struct {
	newFromConfigFileFn      func(path string) (*rest.Config, error)
	newFromInClusterConfigFn func() (*rest.Config, error)
}

var defaultBuilder = restConfigBuilder{
	newFromConfigFileFn:      newKubectlConfig,
	newFromInClusterConfigFn: newLocalClusterConfig,
}

// NewRestConfig will attempt to create a new rest config from all configured
// sources and return the first successfully created configuration.
func NewRestConfig(timeout time.Duration) (*rest.Config, error) {
	return defaultBuilder.newRestConfig(timeout)
}

func (b restConfigBuilder) newRestConfig(timeout time.Duration) (*rest.Config, error) {
	// List of config sources that will be tried in order for creating a rest.Config
	configSources := []configSource{
		{
			name:   "podServiceAccount",
			create: b.newFromInClusterConfigFn,
		},
		{
			name: "kubectl",
			create: func() (*rest.Config, error) {
				path, err := KubeConfigPath()
				if err != nil {
					return nil, err
				}
				return b.newFromConfigFileFn(path)
			},
		},
	}

	var errorStrs []string
	for _, source := range configSources {
		config, err := source.create()
		if err == nil {
			klog.V(1).Infof("Created rest config from source %s", source.name)
			klog.V(7).Infof("Config: %#v", *config)
			UpdateQPS(config)
			config.Timeout = timeout
			return config, nil
		}

		klog.V(5).Infof("Failed to create from %s: %s", source.name, err)
		errorStrs = append(errorStrs, fmt.Sprintf("%s: %s", source.name, err))
	}

	return nil, errors.Errorf("Unable to create rest config:\n%s", strings.Join(errorStrs, "\n"))
}

// newLocalClusterConfig creates a config using the service account mounted
// into the pod.
func newLocalClusterConfig() (*rest.Config, error) {
	return rest.InClusterConfig()
}

// newKubectlConfig creates a config from the kubeconfig file(s) at path.
// Like kubectl, path may list several files separated by the OS path list
// separator.
func newKubectlConfig(path string) (*rest.Config, error) {
	rules := &clientcmd.ClientConfigLoadingRules{Precedence: filepath.SplitList(path)}
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("while loading kubeconfig at %q: %w", path, err)
	}
	return config, nil
}

// UpdateQPS bumps the client-side rate limits. The client-go defaults are
// too low for syncing batches of resources.
func UpdateQPS(config *rest.Config) {
	config.QPS = 20
	config.Burst = 40
}

// NewConfigFlags builds ConfigFlags based on an existing rest config.
// Burst QPS is increased by 3x for discovery.
// CacheDir is populated from the KUBECACHEDIR env var, if set.
func NewConfigFlags(config *rest.Config) (*genericclioptions.ConfigFlags, error) {
	cf := genericclioptions.NewConfigFlags(true).WithDeprecatedPasswordFlag()

	// Build default rest.Config
	cfg, err := cf.ToRESTConfig()
	if err != nil {
		return cf, fmt.Errorf("failed to build rest config: %w", err)
	}

	// Modify the new persistent rest.Config to match the provided one
	restConfigDeepCopyInto(config, cfg)

	cf = cf.WithDiscoveryQPS(cfg.QPS)
	if cfg.Burst > 0 {
		cf = cf.WithDiscoveryBurst(cfg.Burst * 3)
	}

	// Optionally override default CacheDir ($HOME/.kube/cache)
	// https://github.com/kubernetes/kubernetes/pull/109479
	envPath := os.Getenv("KUBECACHEDIR")
	if envPath != "" {
		cf.CacheDir = &envPath
	}

	return cf, nil
}

// restConfigDeepCopyInto copies one rest.Config into another.
// For reference, see rest.CopyConfig:
// https://github.com/kubernetes/client-go/blob/v0.24.0/rest/config.go#L630
func restConfigDeepCopyInto(from, to *rest.Config) {
	to.Host = from.Host
	to.APIPath = from.APIPath
	to.ContentConfig = from.ContentConfig
	to.Username = from.Username
	to.Password = from.Password
	to.BearerToken = from.BearerToken
	to.BearerTokenFile = from.BearerTokenFile
	to.Impersonate = rest.ImpersonationConfig{
		UserName: from.Impersonate.UserName,
		UID:      from.Impersonate.UID,
		Groups:   from.Impersonate.Groups,
		Extra:    from.Impersonate.Extra,
	}
	to.AuthProvider = from.AuthProvider
	to.AuthConfigPersister = from.AuthConfigPersister
	to.ExecProvider = from.ExecProvider
	to.TLSClientConfig = rest.TLSClientConfig{
		Insecure:   from.TLSClientConfig.Insecure,
		ServerName: from.TLSClientConfig.ServerName,
		CertFile:   from.TLSClientConfig.CertFile,
		KeyFile:    from.TLSClientConfig.KeyFile,
		CAFile:     from.TLSClientConfig.CAFile,
		CertData:   from.TLSClientConfig.CertData,
		KeyData:    from.TLSClientConfig.KeyData,
		CAData:     from.TLSClientConfig.CAData,
		NextProtos: from.TLSClientConfig.NextProtos,
	}
	to.UserAgent = from.UserAgent
	to.DisableCompression = from.DisableCompression
	to.Transport = from.Transport
	to.WrapTransport = from.WrapTransport
	to.QPS = from.QPS
	to.Burst = from.Burst
	to.RateLimiter = from.RateLimiter
	to.WarningHandler = from.WarningHandler
	to.Timeout = from.Timeout
	to.Dial = from.Dial
	to.Proxy = from.Proxy
	if from.ExecProvider != nil && from.ExecProvider.Config != nil {
		to.ExecProvider.Config = from.ExecProvider.Config.DeepCopyObject()
	}
}
