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

package metadata

import (
	"sigs.k8s.io/controller-runtime/pkg/client"

	"atomist.com/k8sync/pkg/api/k8sync"
)

// Annotations with the `atomist.com/` prefix.
const (
	// AtomistPrefix is the prefix for all annotations the sync engine sets on
	// managed resources.
	AtomistPrefix = k8sync.GroupName + "/"

	// SyncShaAnnotationKey is the annotation key recording the commit that
	// produced the applied version of a resource.
	// This annotation is set by the sync engine on every resource it applies.
	SyncShaAnnotationKey = AtomistPrefix + "sync-sha"
)

// Annotations with the `sdm-pack-k8s/` prefix.
const (
	// IgnorePrefix is the prefix for per-controller opt-out annotations.
	// The full key is IgnorePrefix plus the controller name.
	// This annotation is set by users on a resource in the sync repository.
	IgnorePrefix = k8sync.PackGroupName + "/"

	// IgnoreValue is the opt-out annotation value that excludes a resource
	// from reconciliation.
	IgnoreValue = "ignore"
)

// IgnoreAnnotationKey returns the opt-out annotation key for the named
// controller. The key is namespaced by controller identity so that
// independent controllers sharing one sync repository do not clobber each
// other's resources.
func IgnoreAnnotationKey(controller string) string {
	return IgnorePrefix + controller
}

// HasIgnoreAnnotation returns true if obj opts out of reconciliation by the
// named controller.
func HasIgnoreAnnotation(obj client.Object, controller string) bool {
	return obj.GetAnnotations()[IgnoreAnnotationKey(controller)] == IgnoreValue
}

// SyncSha returns the commit recorded on obj by the last apply, or the empty
// string if the resource has never been synced.
func SyncSha(obj client.Object) string {
	return obj.GetAnnotations()[SyncShaAnnotationKey]
}
