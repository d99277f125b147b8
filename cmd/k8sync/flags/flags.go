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

// Package flags holds the engine flags shared across k8sync subcommands.
// Every flag can also be set through the environment with the K8SYNC_
// prefix, for example K8SYNC_REPO_DIR; a flag given on the command line
// wins over the environment.
package flags

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/types"

	"atomist.com/k8sync/pkg/api/k8sync"
	"atomist.com/k8sync/pkg/gitrepo"
	"atomist.com/k8sync/pkg/syncpack"
)

// EnvPrefix prefixes environment variables overriding flag defaults.
const EnvPrefix = "K8SYNC"

const (
	repoDirFlag                = "repo-dir"
	repoURLFlag                = "repo-url"
	branchFlag                 = "branch"
	tokenFlag                  = "token"
	committerNameFlag          = "committer-name"
	committerEmailFlag         = "committer-email"
	controllerFlag             = "controller"
	secretKeyFlag              = "secret-key"
	sharedIngressNameFlag      = "shared-ingress-name"
	sharedIngressNamespaceFlag = "shared-ingress-namespace"
	clientTimeoutFlag          = "client-timeout"
)

// DefaultClientTimeout bounds each API server connection attempt.
const DefaultClientTimeout = 15 * time.Second

var v = NewViper()

// NewViper returns a viper instance configured for K8SYNC_ environment
// overrides. Subcommands use their own instance for their own flags, so
// flags sharing a name across subcommands stay independently bound.
func NewViper() *viper.Viper {
	nv := viper.New()
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	nv.AutomaticEnv()
	return nv
}

// AddEngineFlags registers the shared engine flags as persistent flags of
// cmd, normally the root command, and binds them for environment overrides.
func AddEngineFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String(repoDirFlag, ".", "Path of the sync repository checkout")
	fs.String(repoURLFlag, "", "Remote holding the spec files; cloned into --repo-dir when set")
	fs.String(branchFlag, k8sync.DefaultBranch, "Branch of the sync repository holding the spec files")
	fs.String(tokenFlag, "", "Token authenticating HTTPS access to the sync repository remote")
	fs.String(committerNameFlag, k8sync.DefaultControllerName, "Author name for write-back commits")
	fs.String(committerEmailFlag, k8sync.DefaultControllerName+"@"+k8sync.GroupName, "Author email for write-back commits")
	fs.String(controllerFlag, k8sync.DefaultControllerName, "Name identifying this controller instance")
	fs.String(secretKeyFlag, "", "Key encrypting Secret data values at rest in the sync repository")
	fs.String(sharedIngressNameFlag, k8sync.DefaultSharedIngressName, "Name of the shared Ingress holding application routes")
	fs.String(sharedIngressNamespaceFlag, k8sync.DefaultSharedIngressNamespace, "Namespace of the shared Ingress")
	fs.Duration(clientTimeoutFlag, DefaultClientTimeout, "Timeout for connecting to the cluster")
	Bind(cmd,
		repoDirFlag, repoURLFlag, branchFlag, tokenFlag,
		committerNameFlag, committerEmailFlag,
		controllerFlag, secretKeyFlag,
		sharedIngressNameFlag, sharedIngressNamespaceFlag,
		clientTimeoutFlag,
	)
}

// Bind binds persistent flags of cmd by name for environment overrides.
func Bind(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(name, cmd.PersistentFlags().Lookup(name))
	}
}

// Controller returns the configured controller name.
func Controller() string {
	return v.GetString(controllerFlag)
}

// RepoDir returns the sync repository checkout path.
func RepoDir() string {
	return v.GetString(repoDirFlag)
}

// SecretKey returns the Secret encryption key, empty when disabled.
func SecretKey() string {
	return v.GetString(secretKeyFlag)
}

// ClientTimeout returns the cluster connection timeout.
func ClientTimeout() time.Duration {
	return v.GetDuration(clientTimeoutFlag)
}

// RepoOptions assembles the repository access options from the resolved
// flags.
func RepoOptions() gitrepo.Options {
	return gitrepo.Options{
		URL:            v.GetString(repoURLFlag),
		Branch:         v.GetString(branchFlag),
		Token:          v.GetString(tokenFlag),
		CommitterName:  v.GetString(committerNameFlag),
		CommitterEmail: v.GetString(committerEmailFlag),
	}
}

// PackOptions assembles the full engine configuration from the resolved
// flags.
func PackOptions() syncpack.Options {
	return syncpack.Options{
		Controller:     Controller(),
		RepoDir:        RepoDir(),
		RepoURL:        v.GetString(repoURLFlag),
		Branch:         v.GetString(branchFlag),
		Token:          v.GetString(tokenFlag),
		CommitterName:  v.GetString(committerNameFlag),
		CommitterEmail: v.GetString(committerEmailFlag),
		SecretKey:      SecretKey(),
		SharedIngress: types.NamespacedName{
			Namespace: v.GetString(sharedIngressNamespaceFlag),
			Name:      v.GetString(sharedIngressNameFlag),
		},
	}
}
