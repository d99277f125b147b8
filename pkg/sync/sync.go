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

// Package sync drives whole sync batches in both directions: forward from
// the sync repository onto the cluster, and write-back from actuated live
// state into the repository's spec files.
//
// A batch is processed strictly sequentially in kind priority order, and a
// failure on one record never aborts the rest: errors are collected and the
// batch is reported failed only after every record has been attempted.
package sync

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/klog/v2"

	"atomist.com/k8sync/pkg/api/k8sync"
	"atomist.com/k8sync/pkg/cluster"
	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/diff"
	"atomist.com/k8sync/pkg/gitrepo"
	"atomist.com/k8sync/pkg/kinds"
	"atomist.com/k8sync/pkg/metadata"
	"atomist.com/k8sync/pkg/metrics"
	"atomist.com/k8sync/pkg/secrets"
	"atomist.com/k8sync/pkg/status"
	"atomist.com/k8sync/pkg/util/log"
)

// Syncer executes sync batches for one controller against one cluster and
// one sync repository.
type Syncer struct {
	// Controller is this instance's identity. It scopes ignore annotations,
	// write-back commit tags, and managed-by labels, so several controllers
	// can share one repository without clobbering each other.
	Controller string
	// Client actuates resource specs against the API server.
	Client *cluster.Client
	// Repo is the checkout of the sync repository. Forward sync reads spec
	// snapshots from it; write-back commits into it.
	Repo *gitrepo.Repository
	// Cipher transforms Secret data values. The zero value passes Secrets
	// through untouched.
	Cipher secrets.Cipher
	// SharedIngress locates the cluster's shared Ingress object. Unset
	// fields fall back to the defaults in pkg/api/k8sync.
	SharedIngress types.NamespacedName
}

// Execute actuates a batch of change records in kind priority order. Every
// non-delete spec is stamped with the commit sha that produced it, and
// Secret values are decrypted before they reach the cluster. Per-record
// failures are collected; the batch runs to completion and reports the
// aggregate.
func (s *Syncer) Execute(ctx context.Context, records []diff.ChangeRecord, sha string) status.MultiError {
	start := time.Now()
	sorted := make([]diff.ChangeRecord, len(records))
	copy(sorted, records)
	diff.SortRecords(sorted)

	var errs status.MultiError
	for _, record := range sorted {
		if err := s.executeRecord(ctx, record, sha); err != nil {
			errs = status.Append(errs, err)
		}
	}
	metrics.SyncDuration.WithLabelValues(metrics.StatusLabel(errs)).Observe(time.Since(start).Seconds())
	if errs != nil {
		klog.Warningf("Sync batch of %d change(s) completed with errors", len(sorted))
	} else {
		klog.V(1).Infof("Sync batch of %d change(s) complete", len(sorted))
	}
	return errs
}

func (s *Syncer) executeRecord(ctx context.Context, record diff.ChangeRecord, sha string) status.Error {
	switch record.Type {
	case diff.Apply:
		spec, err := s.prepare(record.Spec, sha)
		if err != nil {
			return err
		}
		return s.Client.Apply(ctx, spec)
	case diff.Delete:
		return s.Client.Delete(ctx, record.Spec)
	case diff.Ignore:
		klog.V(3).Infof("Ignoring opted-out resource %s", core.IDOf(record.Spec))
		return nil
	default:
		return status.InternalErrorf("unrecognized change type %q", record.Type)
	}
}

// prepare stamps traceability metadata and decrypts Secret values on a copy
// of spec. The caller's snapshot stays untouched.
func (s *Syncer) prepare(spec *unstructured.Unstructured, sha string) (*unstructured.Unstructured, status.Error) {
	prepared := spec.DeepCopy()
	if sha != "" {
		core.SetAnnotation(prepared, metadata.SyncShaAnnotationKey, sha)
	}
	// Dump before decryption so Secret values never reach the log.
	klog.V(5).Infof("Prepared spec for %s:\n%s", core.IDOf(prepared), log.AsYAML(prepared))
	return s.Cipher.Decrypt(prepared)
}

// Plan computes the change records SyncRange would actuate for the same
// arguments, without touching the cluster. The returned sha is the resolved
// commit the batch would be stamped with. Spec files that fail to parse are
// skipped; their errors come back alongside the plan.
//
// An empty fromRev means an empty before snapshot: everything at toRev is
// applied and nothing is deleted. In delete mode the before snapshot is
// taken from toRev and fromRev is not consulted.
func (s *Syncer) Plan(fromRev, toRev string, mode diff.Mode) ([]diff.ChangeRecord, string, status.MultiError) {
	sha, shaErr := s.Repo.Sha(toRev)
	if shaErr != nil {
		return nil, "", status.Append(nil, shaErr)
	}
	toFiles, tErr := s.Repo.SpecsAt(toRev)
	if tErr != nil {
		return nil, "", status.Append(nil, tErr)
	}
	errs := gitrepo.ParseErrors(toFiles)

	if mode == diff.ModeDelete {
		records := diff.Calculate(gitrepo.Resources(toFiles), nil, mode, s.Controller)
		return records, sha, errs
	}

	var before []*unstructured.Unstructured
	if fromRev != "" {
		fromFiles, fErr := s.Repo.SpecsAt(fromRev)
		if fErr != nil {
			return nil, "", status.Append(errs, fErr)
		}
		errs = status.Append(errs, gitrepo.ParseErrors(fromFiles))
		before = gitrepo.Resources(fromFiles)
	}
	records := diff.Calculate(before, gitrepo.Resources(toFiles), mode, s.Controller)
	return records, sha, errs
}

// SyncRange converges the cluster from the spec snapshot at fromRev to the
// snapshot at toRev. A toRev commit tagged as this controller's own
// write-back is skipped entirely, breaking the loop a sync of its own output
// would otherwise enter.
func (s *Syncer) SyncRange(ctx context.Context, fromRev, toRev string, mode diff.Mode) status.MultiError {
	own, err := s.Repo.IsSyncCommit(toRev, s.Controller)
	if err != nil {
		return status.Append(nil, err)
	}
	if own {
		klog.Infof("Target commit is controller %q's own write-back, skipping sync", s.Controller)
		return nil
	}
	records, sha, errs := s.Plan(fromRev, toRev, mode)
	if len(records) == 0 {
		return errs
	}
	klog.V(1).Infof("Syncing %d change(s) at commit %s", len(records), sha)
	return status.Append(errs, s.Execute(ctx, records, sha))
}

// sharedIngressKey resolves the shared Ingress location, falling back to the
// well-known defaults.
func (s *Syncer) sharedIngressKey() types.NamespacedName {
	key := s.SharedIngress
	if key.Name == "" {
		key.Name = k8sync.DefaultSharedIngressName
	}
	if key.Namespace == "" {
		key.Namespace = k8sync.DefaultSharedIngressNamespace
	}
	return key
}

// sharedIngressStub is the identity-only spec used to read the shared
// Ingress, and the base a first merge patches into existence.
func (s *Syncer) sharedIngressStub() *unstructured.Unstructured {
	key := s.sharedIngressKey()
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(kinds.Ingress())
	u.SetNamespace(key.Namespace)
	u.SetName(key.Name)
	return u
}
