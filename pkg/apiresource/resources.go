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

package apiresource

import (
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"atomist.com/k8sync/pkg/kinds"
)

// mapping returns the RESTMapping for a kind. Plural resource names are
// spelled out because English pluralization is irregular; never derive them.
func mapping(gvk schema.GroupVersionKind, resource string, scope meta.RESTScope) *meta.RESTMapping {
	return &meta.RESTMapping{
		Resource:         gvk.GroupVersion().WithResource(resource),
		GroupVersionKind: gvk,
		Scope:            scope,
	}
}

// mappings is the static resource address table. Only kinds listed here can
// be resolved; anything else fails with UnknownResourceError rather than
// guessing at an address. Status subresource wrappers carry root scope here;
// namespacedFor overlays their action-dependent rule.
var mappings = toMap(
	// Core group.
	mapping(kinds.ComponentStatus(), "componentstatuses", meta.RESTScopeRoot),
	mapping(kinds.ConfigMap(), "configmaps", meta.RESTScopeNamespace),
	mapping(kinds.Endpoints(), "endpoints", meta.RESTScopeNamespace),
	mapping(kinds.Event(), "events", meta.RESTScopeNamespace),
	mapping(kinds.LimitRange(), "limitranges", meta.RESTScopeNamespace),
	mapping(kinds.Namespace(), "namespaces", meta.RESTScopeRoot),
	mapping(kinds.Node(), "nodes", meta.RESTScopeRoot),
	mapping(kinds.PersistentVolume(), "persistentvolumes", meta.RESTScopeRoot),
	mapping(kinds.PersistentVolumeClaim(), "persistentvolumeclaims", meta.RESTScopeNamespace),
	mapping(kinds.Pod(), "pods", meta.RESTScopeNamespace),
	mapping(kinds.PodStatus(), "podstatuses", meta.RESTScopeRoot),
	mapping(kinds.ReplicationController(), "replicationcontrollers", meta.RESTScopeNamespace),
	mapping(kinds.ResourceQuota(), "resourcequotas", meta.RESTScopeNamespace),
	mapping(kinds.Secret(), "secrets", meta.RESTScopeNamespace),
	mapping(kinds.Service(), "services", meta.RESTScopeNamespace),
	mapping(kinds.ServiceAccount(), "serviceaccounts", meta.RESTScopeNamespace),

	// apps group.
	mapping(kinds.DaemonSet(), "daemonsets", meta.RESTScopeNamespace),
	mapping(kinds.Deployment(), "deployments", meta.RESTScopeNamespace),
	mapping(kinds.DeploymentStatus(), "deploymentstatuses", meta.RESTScopeRoot),
	mapping(kinds.ReplicaSet(), "replicasets", meta.RESTScopeNamespace),
	mapping(kinds.StatefulSet(), "statefulsets", meta.RESTScopeNamespace),

	// batch group.
	mapping(kinds.CronJob(), "cronjobs", meta.RESTScopeNamespace),
	mapping(kinds.Job(), "jobs", meta.RESTScopeNamespace),

	// networking.k8s.io group.
	mapping(kinds.Ingress(), "ingresses", meta.RESTScopeNamespace),
	mapping(kinds.IngressClass(), "ingressclasses", meta.RESTScopeRoot),
	mapping(kinds.NetworkPolicy(), "networkpolicies", meta.RESTScopeNamespace),

	// rbac.authorization.k8s.io group.
	mapping(kinds.ClusterRole(), "clusterroles", meta.RESTScopeRoot),
	mapping(kinds.ClusterRoleBinding(), "clusterrolebindings", meta.RESTScopeRoot),
	mapping(kinds.Role(), "roles", meta.RESTScopeNamespace),
	mapping(kinds.RoleBinding(), "rolebindings", meta.RESTScopeNamespace),

	// Assorted cluster add-on groups.
	mapping(kinds.APIService(), "apiservices", meta.RESTScopeRoot),
	mapping(kinds.CustomResourceDefinition(), "customresourcedefinitions", meta.RESTScopeRoot),
	mapping(kinds.HorizontalPodAutoscaler(), "horizontalpodautoscalers", meta.RESTScopeNamespace),
	mapping(kinds.PodDisruptionBudget(), "poddisruptionbudgets", meta.RESTScopeNamespace),
	mapping(kinds.StorageClass(), "storageclasses", meta.RESTScopeRoot),
)

func toMap(ms ...*meta.RESTMapping) map[schema.GroupVersionKind]*meta.RESTMapping {
	out := make(map[schema.GroupVersionKind]*meta.RESTMapping, len(ms))
	for _, m := range ms {
		out[m.GroupVersionKind] = m
	}
	return out
}

// Lookup returns the RESTMapping for gvk, or false if the kind has no entry
// in the address table.
func Lookup(gvk schema.GroupVersionKind) (*meta.RESTMapping, bool) {
	m, found := mappings[gvk]
	return m, found
}
