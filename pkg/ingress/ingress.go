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

// Package ingress merges application routes into the shared multi-tenant
// Ingress and removes them again.
//
// The cluster carries a single Ingress object for all applications a
// controller deploys. Each application claims one (host, path) pair routed
// to its Service. Merge and Remove edit that claim and nothing else: they
// return a patch replacing spec.rules wholesale, so concurrent edits to
// other rules are surfaced as patch conflicts rather than silently merged.
package ingress

import (
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/ptr"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/kinds"
	"atomist.com/k8sync/pkg/status"
)

// Route is one application's claim on the shared Ingress: the host/path
// pair and the Service backend traffic is forwarded to. An empty Host
// claims the wildcard rule.
type Route struct {
	Host      string
	Path      string
	Service   string
	Port      int32
	TLSSecret string
}

// Merge inserts the route into the live Ingress and returns the resulting
// patch. A nil patch means the Ingress already routes the path to the
// route's Service. If the path exists under the matched rule but is backed
// by a different Service, Merge fails with a PathConflictError: paths are
// never silently reassigned.
//
// The patch carries the live object's identity plus a complete replacement
// spec.rules, and spec.tls when the route names a TLS secret.
func Merge(live *unstructured.Unstructured, route Route) (*unstructured.Unstructured, status.Error) {
	ing, err := asTypedIngress(live)
	if err != nil {
		return nil, err
	}

	tlsTouched := false
	ruleIdx := findRule(ing.Spec.Rules, route.Host)
	if ruleIdx < 0 {
		ing.Spec.Rules = append(ing.Spec.Rules, networkingv1.IngressRule{
			Host: route.Host,
			IngressRuleValue: networkingv1.IngressRuleValue{
				HTTP: &networkingv1.HTTPIngressRuleValue{
					Paths: []networkingv1.HTTPIngressPath{httpPath(route)},
				},
			},
		})
	} else {
		rule := &ing.Spec.Rules[ruleIdx]
		if rule.HTTP == nil {
			rule.HTTP = &networkingv1.HTTPIngressRuleValue{}
		}
		pathIdx := findPath(rule.HTTP.Paths, route.Path)
		if pathIdx >= 0 {
			owner := backendService(rule.HTTP.Paths[pathIdx].Backend)
			if owner == route.Service {
				return nil, nil
			}
			return nil, status.PathConflictError(route.Host, route.Path, owner)
		}
		rule.HTTP.Paths = append(rule.HTTP.Paths, httpPath(route))
	}

	if route.TLSSecret != "" {
		tlsTouched = mergeTLS(&ing.Spec, route)
	}
	return rulesPatch(live, ing, tlsTouched)
}

// Remove deletes the route's path entry from the live Ingress and returns
// the resulting patch. A nil patch means there is nothing to remove: no
// rules, no rule for the route's host, or no entry for its path. Removing a
// path owned by a different Service fails with a PathOwnershipError.
//
// Removing the last path of a rule removes the rule. Removing the last rule
// yields a patch with an empty rules list; the shared Ingress object itself
// is left in the cluster.
func Remove(live *unstructured.Unstructured, route Route) (*unstructured.Unstructured, status.Error) {
	ing, err := asTypedIngress(live)
	if err != nil {
		return nil, err
	}
	if len(ing.Spec.Rules) == 0 {
		return nil, nil
	}
	ruleIdx := findRule(ing.Spec.Rules, route.Host)
	if ruleIdx < 0 {
		return nil, nil
	}
	rule := &ing.Spec.Rules[ruleIdx]
	if rule.HTTP == nil {
		return nil, nil
	}
	pathIdx := findPath(rule.HTTP.Paths, route.Path)
	if pathIdx < 0 {
		return nil, nil
	}
	if owner := backendService(rule.HTTP.Paths[pathIdx].Backend); owner != route.Service {
		return nil, status.PathOwnershipError(route.Host, route.Path, owner)
	}

	rule.HTTP.Paths = append(rule.HTTP.Paths[:pathIdx], rule.HTTP.Paths[pathIdx+1:]...)
	if len(rule.HTTP.Paths) == 0 {
		ing.Spec.Rules = append(ing.Spec.Rules[:ruleIdx], ing.Spec.Rules[ruleIdx+1:]...)
	}
	return rulesPatch(live, ing, false)
}

func asTypedIngress(live *unstructured.Unstructured) (*networkingv1.Ingress, status.Error) {
	obj, err := kinds.ToTypedObject(live, core.Scheme)
	if err != nil {
		return nil, status.InternalWrap(err)
	}
	ing, isIngress := obj.(*networkingv1.Ingress)
	if !isIngress {
		return nil, status.InternalErrorf("shared ingress %s/%s is a %T, not an Ingress",
			live.GetNamespace(), live.GetName(), obj)
	}
	return ing, nil
}

// findRule returns the index of the rule for host, matching the empty host
// against the wildcard rule.
func findRule(rules []networkingv1.IngressRule, host string) int {
	for i, rule := range rules {
		if rule.Host == host {
			return i
		}
	}
	return -1
}

func findPath(paths []networkingv1.HTTPIngressPath, path string) int {
	for i, p := range paths {
		if p.Path == path {
			return i
		}
	}
	return -1
}

func backendService(backend networkingv1.IngressBackend) string {
	if backend.Service == nil {
		return ""
	}
	return backend.Service.Name
}

func httpPath(route Route) networkingv1.HTTPIngressPath {
	return networkingv1.HTTPIngressPath{
		Path:     route.Path,
		PathType: ptr.To(networkingv1.PathTypeImplementationSpecific),
		Backend: networkingv1.IngressBackend{
			Service: &networkingv1.IngressServiceBackend{
				Name: route.Service,
				Port: networkingv1.ServiceBackendPort{Number: route.Port},
			},
		},
	}
}

// mergeTLS finds or creates the tls entry for the route's secret and lists
// the route's host under it. Reports whether the tls section changed.
func mergeTLS(spec *networkingv1.IngressSpec, route Route) bool {
	for i, tls := range spec.TLS {
		if tls.SecretName != route.TLSSecret {
			continue
		}
		if route.Host == "" {
			return false
		}
		for _, host := range tls.Hosts {
			if host == route.Host {
				return false
			}
		}
		spec.TLS[i].Hosts = append(spec.TLS[i].Hosts, route.Host)
		return true
	}
	entry := networkingv1.IngressTLS{SecretName: route.TLSSecret}
	if route.Host != "" {
		entry.Hosts = []string{route.Host}
	}
	spec.TLS = append(spec.TLS, entry)
	return true
}

// rulesPatch assembles the patch: live identity, full replacement
// spec.rules, and spec.tls when touched. An empty rules list is kept
// explicit so the patch clears the last rule instead of omitting the field.
func rulesPatch(live *unstructured.Unstructured, ing *networkingv1.Ingress, tlsTouched bool) (*unstructured.Unstructured, status.Error) {
	full, err := kinds.ToUnstructured(ing, core.Scheme)
	if err != nil {
		return nil, status.InternalWrap(err)
	}

	patch := &unstructured.Unstructured{}
	patch.SetGroupVersionKind(kinds.Ingress())
	patch.SetNamespace(live.GetNamespace())
	patch.SetName(live.GetName())

	rules, found, err := unstructured.NestedSlice(full.Object, "spec", "rules")
	if err != nil {
		return nil, status.InternalWrap(err)
	}
	if !found {
		rules = []interface{}{}
	}
	if err := unstructured.SetNestedSlice(patch.Object, rules, "spec", "rules"); err != nil {
		return nil, status.InternalWrap(err)
	}

	if tlsTouched {
		tls, _, err := unstructured.NestedSlice(full.Object, "spec", "tls")
		if err != nil {
			return nil, status.InternalWrap(err)
		}
		if err := unstructured.SetNestedSlice(patch.Object, tls, "spec", "tls"); err != nil {
			return nil, status.InternalWrap(err)
		}
	}
	return patch, nil
}
