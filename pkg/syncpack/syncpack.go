// Copyright 2023 Google LLC
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

// Package syncpack assembles the sync engine's pieces into one configured
// value. Configure performs all wiring up front and returns a Pack; nothing
// in this package keeps global state, so several Packs with different
// controllers, repositories, or clusters coexist in one process.
package syncpack

import (
	"context"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
	"k8s.io/klog/v2"

	"atomist.com/k8sync/pkg/api/k8sync"
	"atomist.com/k8sync/pkg/cluster"
	"atomist.com/k8sync/pkg/gitrepo"
	"atomist.com/k8sync/pkg/restconfig"
	"atomist.com/k8sync/pkg/secrets"
	"atomist.com/k8sync/pkg/status"
	"atomist.com/k8sync/pkg/sync"
)

// Options configures a Pack.
type Options struct {
	// Controller names this sync instance. It scopes ignore annotations and
	// write-back commit tags. Defaults to k8sync.DefaultControllerName.
	Controller string

	// RepoDir is the local checkout of the sync repository. When RepoURL is
	// set the remote is cloned there first; otherwise the directory must
	// already hold a checkout. Leave both empty to configure a Pack without
	// a repository; such a Pack can deploy applications but not sync or
	// write back specs.
	RepoDir string
	// RepoURL is the remote holding the spec files.
	RepoURL string
	// Branch is the branch holding the spec files. Defaults to
	// k8sync.DefaultBranch.
	Branch string
	// Token authenticates HTTPS access to the remote.
	Token string
	// CommitterName and CommitterEmail author write-back commits.
	CommitterName  string
	CommitterEmail string

	// SecretKey, when non-empty, encrypts Secret data values committed to
	// the repository and decrypts them before they reach the cluster.
	SecretKey string

	// SharedIngress overrides where application HTTP routes are merged. The
	// zero value means the default shared Ingress location.
	SharedIngress types.NamespacedName

	// RestConfig connects to the cluster. When nil, the config is discovered
	// from the pod service account or the local kubeconfig.
	RestConfig *rest.Config
}

// Pack is one fully wired sync engine instance.
type Pack struct {
	// Syncer runs forward syncs, application deploys, and spec write-back.
	Syncer *sync.Syncer
	// Repo is the sync repository checkout Syncer operates on. Nil when the
	// Pack was configured without one.
	Repo *gitrepo.Repository

	discovery discovery.DiscoveryInterface
}

// Configure wires a Pack from opts. The only network access is cloning the
// sync repository when a RepoURL is given; cluster reachability is probed
// separately through ClusterVersion.
func Configure(ctx context.Context, opts Options) (*Pack, error) {
	controller := opts.Controller
	if controller == "" {
		controller = k8sync.DefaultControllerName
	}

	cfg := opts.RestConfig
	if cfg == nil {
		var err error
		cfg, err = restconfig.NewRestConfig(restconfig.DefaultTimeout)
		if err != nil {
			return nil, err
		}
	}

	restClient, err := cluster.NewRESTClient(cfg)
	if err != nil {
		return nil, err
	}

	configFlags, err := restconfig.NewConfigFlags(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build config flags")
	}
	dc, err := configFlags.ToDiscoveryClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create discovery client")
	}

	repo, err := openRepo(ctx, opts)
	if err != nil {
		return nil, err
	}

	klog.V(1).Infof("Configured sync pack for controller %q", controller)
	return &Pack{
		Syncer: &sync.Syncer{
			Controller:    controller,
			Client:        cluster.New(restClient),
			Repo:          repo,
			Cipher:        secrets.New(opts.SecretKey),
			SharedIngress: opts.SharedIngress,
		},
		Repo:      repo,
		discovery: dc,
	}, nil
}

func openRepo(ctx context.Context, opts Options) (*gitrepo.Repository, error) {
	if opts.RepoDir == "" {
		if opts.RepoURL != "" {
			return nil, errors.New("RepoDir is required to clone a sync repository")
		}
		return nil, nil
	}
	return gitrepo.CloneOrOpen(ctx, opts.RepoDir, gitrepo.Options{
		URL:            opts.RepoURL,
		Branch:         opts.Branch,
		Token:          opts.Token,
		CommitterName:  opts.CommitterName,
		CommitterEmail: opts.CommitterEmail,
	})
}

// ClusterVersion probes the cluster by asking the API server for its
// version. A nil error means the cluster is reachable with the configured
// credentials.
func (p *Pack) ClusterVersion() (*version.Info, status.Error) {
	info, err := p.discovery.ServerVersion()
	if err != nil {
		return nil, status.APIServerError(err, "cluster is not reachable")
	}
	return info, nil
}
