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

package ingress

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/core/k8sobjects"
	"atomist.com/k8sync/pkg/kinds"
	"atomist.com/k8sync/pkg/status"
)

func liveIngress(t *testing.T, rules []networkingv1.IngressRule, tls []networkingv1.IngressTLS) *unstructured.Unstructured {
	t.Helper()
	obj := k8sobjects.IngressObject(core.Name("shared-ingress"), core.Namespace("prod"))
	obj.Spec.Rules = rules
	obj.Spec.TLS = tls
	u, err := kinds.ToUnstructured(obj, core.Scheme)
	require.NoError(t, err)
	return u
}

func rule(host string, paths ...networkingv1.HTTPIngressPath) networkingv1.IngressRule {
	return networkingv1.IngressRule{
		Host: host,
		IngressRuleValue: networkingv1.IngressRuleValue{
			HTTP: &networkingv1.HTTPIngressRuleValue{Paths: paths},
		},
	}
}

func path(path, service string) networkingv1.HTTPIngressPath {
	return httpPath(Route{Path: path, Service: service, Port: 8080})
}

// patchSpec decodes the patch into a typed IngressSpec for comparison.
func patchSpec(t *testing.T, patch *unstructured.Unstructured) networkingv1.IngressSpec {
	t.Helper()
	obj, err := kinds.ToTypedObject(patch, core.Scheme)
	require.NoError(t, err)
	ing, isIngress := obj.(*networkingv1.Ingress)
	require.True(t, isIngress)
	return ing.Spec
}

func TestMerge(t *testing.T) {
	apiRoute := Route{Host: "example.com", Path: "/api", Service: "api", Port: 8080}
	webRoute := Route{Host: "example.com", Path: "/web", Service: "web", Port: 80}

	testCases := []struct {
		name      string
		rules     []networkingv1.IngressRule
		tls       []networkingv1.IngressTLS
		route     Route
		wantNoOp  bool
		wantErr   string
		wantRules []networkingv1.IngressRule
		wantTLS   []networkingv1.IngressTLS
	}{
		{
			name:      "first route on an empty ingress creates its rule",
			route:     apiRoute,
			wantRules: []networkingv1.IngressRule{rule("example.com", httpPath(apiRoute))},
		},
		{
			name:      "second application appends a path to the host rule",
			rules:     []networkingv1.IngressRule{rule("example.com", path("/api", "api"))},
			route:     webRoute,
			wantRules: []networkingv1.IngressRule{rule("example.com", path("/api", "api"), httpPath(webRoute))},
		},
		{
			name:      "hostless route claims the wildcard rule",
			rules:     []networkingv1.IngressRule{rule("", path("/", "landing"))},
			route:     Route{Path: "/metrics", Service: "metrics", Port: 9090},
			wantRules: []networkingv1.IngressRule{rule("", path("/", "landing"), httpPath(Route{Path: "/metrics", Service: "metrics", Port: 9090}))},
		},
		{
			name:  "hostless route without a wildcard rule appends one",
			rules: []networkingv1.IngressRule{rule("example.com", path("/api", "api"))},
			route: Route{Path: "/", Service: "landing", Port: 80},
			wantRules: []networkingv1.IngressRule{
				rule("example.com", path("/api", "api")),
				rule("", httpPath(Route{Path: "/", Service: "landing", Port: 80})),
			},
		},
		{
			name:      "rule without an http section gains one",
			rules:     []networkingv1.IngressRule{{Host: "example.com"}},
			route:     apiRoute,
			wantRules: []networkingv1.IngressRule{rule("example.com", httpPath(apiRoute))},
		},
		{
			name:     "already converged returns no patch",
			rules:    []networkingv1.IngressRule{rule("example.com", path("/api", "api"))},
			route:    apiRoute,
			wantNoOp: true,
		},
		{
			name:    "foreign backend on the same path conflicts",
			rules:   []networkingv1.IngressRule{rule("example.com", path("/api", "old-svc"))},
			route:   apiRoute,
			wantErr: status.PathConflictErrorCode,
		},
		{
			name:      "tls secret creates a tls entry",
			route:     Route{Host: "example.com", Path: "/api", Service: "api", Port: 8080, TLSSecret: "example-tls"},
			wantRules: []networkingv1.IngressRule{rule("example.com", httpPath(apiRoute))},
			wantTLS:   []networkingv1.IngressTLS{{SecretName: "example-tls", Hosts: []string{"example.com"}}},
		},
		{
			name:  "tls entry gains the new host",
			rules: []networkingv1.IngressRule{rule("old.example.com", path("/api", "api"))},
			tls:   []networkingv1.IngressTLS{{SecretName: "example-tls", Hosts: []string{"old.example.com"}}},
			route: Route{Host: "new.example.com", Path: "/api", Service: "api", Port: 8080, TLSSecret: "example-tls"},
			wantRules: []networkingv1.IngressRule{
				rule("old.example.com", path("/api", "api")),
				rule("new.example.com", httpPath(Route{Host: "new.example.com", Path: "/api", Service: "api", Port: 8080, TLSSecret: "example-tls"})),
			},
			wantTLS: []networkingv1.IngressTLS{{SecretName: "example-tls", Hosts: []string{"old.example.com", "new.example.com"}}},
		},
		{
			name:      "tls already listing the host stays out of the patch",
			rules:     []networkingv1.IngressRule{rule("example.com", path("/web", "web"))},
			tls:       []networkingv1.IngressTLS{{SecretName: "example-tls", Hosts: []string{"example.com"}}},
			route:     Route{Host: "example.com", Path: "/api", Service: "api", Port: 8080, TLSSecret: "example-tls"},
			wantRules: []networkingv1.IngressRule{rule("example.com", path("/web", "web"), httpPath(apiRoute))},
		},
		{
			name:      "hostless tls route creates an entry without hosts",
			route:     Route{Path: "/", Service: "landing", Port: 80, TLSSecret: "wild-tls"},
			wantRules: []networkingv1.IngressRule{rule("", httpPath(Route{Path: "/", Service: "landing", Port: 80}))},
			wantTLS:   []networkingv1.IngressTLS{{SecretName: "wild-tls"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			live := liveIngress(t, tc.rules, tc.tls)
			patch, err := Merge(live, tc.route)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Equal(t, tc.wantErr, err.Code())
				return
			}
			require.NoError(t, err)
			if tc.wantNoOp {
				require.Nil(t, patch)
				return
			}
			require.NotNil(t, patch)
			require.Equal(t, kinds.Ingress(), patch.GroupVersionKind())
			require.Equal(t, "prod", patch.GetNamespace())
			require.Equal(t, "shared-ingress", patch.GetName())

			spec := patchSpec(t, patch)
			if diff := cmp.Diff(tc.wantRules, spec.Rules, cmpopts.EquateEmpty()); diff != "" {
				t.Error(diff)
			}
			_, hasTLS, tlsErr := unstructured.NestedSlice(patch.Object, "spec", "tls")
			require.NoError(t, tlsErr)
			require.Equal(t, tc.wantTLS != nil, hasTLS)
			if tc.wantTLS != nil {
				if diff := cmp.Diff(tc.wantTLS, spec.TLS); diff != "" {
					t.Error(diff)
				}
			}
		})
	}
}

func TestRemove(t *testing.T) {
	apiRoute := Route{Host: "example.com", Path: "/api", Service: "api", Port: 8080}

	testCases := []struct {
		name      string
		rules     []networkingv1.IngressRule
		route     Route
		wantNoOp  bool
		wantErr   string
		wantRules []networkingv1.IngressRule
	}{
		{
			name:     "no rules",
			route:    apiRoute,
			wantNoOp: true,
		},
		{
			name:     "no rule for the host",
			rules:    []networkingv1.IngressRule{rule("other.com", path("/api", "api"))},
			route:    apiRoute,
			wantNoOp: true,
		},
		{
			name:     "no entry for the path",
			rules:    []networkingv1.IngressRule{rule("example.com", path("/web", "web"))},
			route:    apiRoute,
			wantNoOp: true,
		},
		{
			name:    "foreign owner refuses removal",
			rules:   []networkingv1.IngressRule{rule("example.com", path("/api", "old-svc"))},
			route:   apiRoute,
			wantErr: status.PathConflictErrorCode,
		},
		{
			name:      "removes the path and keeps the rule",
			rules:     []networkingv1.IngressRule{rule("example.com", path("/api", "api"), path("/web", "web"))},
			route:     apiRoute,
			wantRules: []networkingv1.IngressRule{rule("example.com", path("/web", "web"))},
		},
		{
			name: "removing the last path removes the rule",
			rules: []networkingv1.IngressRule{
				rule("example.com", path("/api", "api")),
				rule("other.com", path("/", "landing")),
			},
			route:     apiRoute,
			wantRules: []networkingv1.IngressRule{rule("other.com", path("/", "landing"))},
		},
		{
			name:      "hostless route removes from the wildcard rule",
			rules:     []networkingv1.IngressRule{rule("", path("/", "landing"), path("/metrics", "metrics"))},
			route:     Route{Path: "/metrics", Service: "metrics", Port: 9090},
			wantRules: []networkingv1.IngressRule{rule("", path("/", "landing"))},
		},
		{
			name:      "removing the last rule leaves an explicit empty list",
			rules:     []networkingv1.IngressRule{rule("example.com", path("/api", "api"))},
			route:     apiRoute,
			wantRules: []networkingv1.IngressRule{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			live := liveIngress(t, tc.rules, nil)
			patch, err := Remove(live, tc.route)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Equal(t, tc.wantErr, err.Code())
				return
			}
			require.NoError(t, err)
			if tc.wantNoOp {
				require.Nil(t, patch)
				return
			}
			require.NotNil(t, patch)

			rawRules, found, rulesErr := unstructured.NestedSlice(patch.Object, "spec", "rules")
			require.NoError(t, rulesErr)
			require.True(t, found, "patch must carry spec.rules even when empty")
			require.Len(t, rawRules, len(tc.wantRules))

			if diff := cmp.Diff(tc.wantRules, patchSpec(t, patch).Rules, cmpopts.EquateEmpty()); diff != "" {
				t.Error(diff)
			}
		})
	}
}

// Merging a route and then removing it restores the rule set the Ingress
// started with.
func TestMergeRemoveRoundTrip(t *testing.T) {
	originalRules := []networkingv1.IngressRule{rule("example.com", path("/web", "web"))}
	route := Route{Host: "example.com", Path: "/api", Service: "api", Port: 8080}

	merged, err := Merge(liveIngress(t, originalRules, nil), route)
	require.NoError(t, err)
	require.NotNil(t, merged)

	removed, err := Remove(liveIngress(t, patchSpec(t, merged).Rules, nil), route)
	require.NoError(t, err)
	require.NotNil(t, removed)

	if diff := cmp.Diff(originalRules, patchSpec(t, removed).Rules, cmpopts.EquateEmpty()); diff != "" {
		t.Error(diff)
	}
}
