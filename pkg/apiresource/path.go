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

// Package apiresource resolves Kubernetes resources to the REST paths that
// address them, from a static table rather than live API discovery.
package apiresource

import (
	"strings"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"atomist.com/k8sync/pkg/status"
)

// Action identifies the API verb a path is resolved for. A few kinds change
// scope depending on it.
type Action string

// The actions a path can be resolved for.
const (
	Create  Action = "create"
	List    Action = "list"
	Read    Action = "read"
	Patch   Action = "patch"
	Replace Action = "replace"
	Delete  Action = "delete"
)

// requiresName returns true for actions addressing a single named resource.
func (a Action) requiresName() bool {
	switch a {
	case Read, Patch, Replace, Delete:
		return true
	}
	return false
}

// DefaultNamespace is assumed when a namespaced resource does not declare a
// namespace.
const DefaultNamespace = "default"

// Path resolves the REST URI path addressing obj for the given action.
//
// Core-group resources resolve under api/v1, everything else under
// apis/<group>/<version>. Namespaced resources get a namespaces/<ns> segment
// with the namespace defaulted to "default" when the object declares none.
// Actions addressing a single resource append metadata.name; List and Create
// resolve to the collection path even when a name is present.
func Path(obj *unstructured.Unstructured, action Action) (string, status.Error) {
	kind := obj.GetKind()
	if kind == "" {
		return "", status.MissingFieldError("kind", obj)
	}
	if obj.GetAPIVersion() == "" {
		return "", status.MissingFieldError("apiVersion", obj)
	}
	name := obj.GetName()
	if name == "" && action.requiresName() {
		return "", status.MissingFieldError("metadata.name", obj)
	}

	gvk := obj.GroupVersionKind()
	m, found := Lookup(gvk)
	if !found {
		return "", status.UnknownResourceError(gvk, obj)
	}

	var segments []string
	if gvk.Group == "" {
		segments = append(segments, "api", gvk.Version)
	} else {
		segments = append(segments, "apis", gvk.Group, gvk.Version)
	}
	if namespacedFor(kind, m.Scope, action) {
		ns := obj.GetNamespace()
		if ns == "" {
			ns = DefaultNamespace
		}
		segments = append(segments, "namespaces", ns)
	}
	segments = append(segments, m.Resource.Resource)
	if action.requiresName() {
		segments = append(segments, name)
	}
	return strings.Join(segments, "/"), nil
}

// namespacedFor applies the action-dependent scoping rules. ComponentStatus
// addresses are namespaced only when listing or reading. Other status
// subresource kinds are namespaced only when reading, patching, or replacing.
// Everything else follows the table scope.
func namespacedFor(kind string, scope meta.RESTScope, action Action) bool {
	switch {
	case kind == "ComponentStatus":
		return action == List || action == Read
	case strings.HasSuffix(kind, "Status"):
		return action == Read || action == Patch || action == Replace
	default:
		return scope.Name() == meta.RESTScopeNameNamespace
	}
}
