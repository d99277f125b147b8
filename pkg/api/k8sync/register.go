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

// Package k8sync holds the constants shared across the sync engine: the
// annotation group names of its wire contract and the defaults a controller
// runs with when nothing else is configured.
package k8sync

import "time"

const (
	// GroupName is the name of the group all engine-owned annotations live
	// under.
	GroupName = "atomist.com"

	// PackGroupName is the group of the per-controller annotations users set
	// on resources in the sync repository.
	PackGroupName = "sdm-pack-k8s"

	// CLIName is the name of the command line interface.
	CLIName = "k8sync"
)

const (
	// DefaultControllerName identifies this controller instance when no name
	// is configured. Controllers sharing one sync repository must each run
	// under a distinct name.
	DefaultControllerName = "k8sync"

	// DefaultBranch is the branch of the sync repository synced when none is
	// configured.
	DefaultBranch = "main"

	// DefaultSyncTimeout bounds one whole sync invocation. There is no
	// per-resource cancellation; this is the only truncation mechanism.
	DefaultSyncTimeout = 10 * time.Minute
)

const (
	// DefaultSharedIngressName is the name of the shared Ingress object all
	// applications merge their routes into.
	DefaultSharedIngressName = "sync-ingress"

	// DefaultSharedIngressNamespace is the namespace of the shared Ingress.
	DefaultSharedIngressNamespace = "default"
)
