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

package core_test

import (
	"testing"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/core/k8sobjects"
	"atomist.com/k8sync/pkg/kinds"
)

func TestIDOf(t *testing.T) {
	testcases := []struct {
		name string
		id   core.ID
		want string
	}{
		{
			name: "a namespaced object",
			id:   core.IDOf(k8sobjects.UnstructuredObject(kinds.Deployment(), core.Name("api"), core.Namespace("prod"))),
			want: "apps/v1, Kind=Deployment, prod/api",
		},
		{
			name: "a cluster-scoped object",
			id:   core.IDOf(k8sobjects.NamespaceObject("prod")),
			want: "/v1, Kind=Namespace, /prod",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.id.String()
			if tc.want != got {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

// Two declarations of the same object at different apiVersions must map to
// different identities, so write-back matches each to its own file.
func TestIDVersionMatters(t *testing.T) {
	v1 := core.IDOf(k8sobjects.UnstructuredObject(kinds.Deployment(), core.Name("api"), core.Namespace("prod")))

	beta := kinds.Deployment()
	beta.Version = "v1beta1"
	v1beta1 := core.IDOf(k8sobjects.UnstructuredObject(beta, core.Name("api"), core.Namespace("prod")))

	if v1 == v1beta1 {
		t.Errorf("IDs with different versions compare equal: %v", v1)
	}

	set := map[core.ID]bool{v1: true}
	if set[v1beta1] {
		t.Error("map lookup found an entry under a different version")
	}
}
