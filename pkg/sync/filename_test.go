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

package sync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/core/k8sobjects"
	"atomist.com/k8sync/pkg/kinds"
)

func TestSpecFileBasename(t *testing.T) {
	testCases := []struct {
		name     string
		resource *unstructured.Unstructured
		want     string
	}{
		{
			name:     "namespaced deployment",
			resource: k8sobjects.UnstructuredObject(kinds.Deployment(), core.Name("api"), core.Namespace("prod")),
			want:     "70-prod-api-deployment",
		},
		{
			name:     "namespace has no namespace segment",
			resource: k8sobjects.UnstructuredObject(kinds.Namespace(), core.Name("prod")),
			want:     "10-prod-namespace",
		},
		{
			name:     "cluster role",
			resource: k8sobjects.UnstructuredObject(kinds.ClusterRole(), core.Name("admin")),
			want:     "25-admin-cluster-role",
		},
		{
			name:     "service",
			resource: k8sobjects.UnstructuredObject(kinds.Service(), core.Name("api"), core.Namespace("prod")),
			want:     "50-prod-api-service",
		},
		{
			name:     "secret",
			resource: k8sobjects.UnstructuredObject(kinds.Secret(), core.Name("creds"), core.Namespace("prod")),
			want:     "60-prod-creds-secret",
		},
		{
			name: "unknown kind gets the default priority",
			resource: k8sobjects.UnstructuredObject(
				schema.GroupVersionKind{Group: "example.com", Version: "v1", Kind: "Widget"},
				core.Name("gadget"), core.Namespace("tools")),
			want: "90-tools-gadget-widget",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SpecFileBasename(tc.resource))
		})
	}
}

func TestNewSpecFileName(t *testing.T) {
	deploy := k8sobjects.UnstructuredObject(kinds.Deployment(), core.Name("api"), core.Namespace("prod"))

	name := newSpecFileName(deploy, map[string]bool{})
	require.Equal(t, "70-prod-api-deployment.json", name)
}

func TestNewSpecFileNameAvoidsCollisions(t *testing.T) {
	deploy := k8sobjects.UnstructuredObject(kinds.Deployment(), core.Name("api"), core.Namespace("prod"))
	taken := map[string]bool{"70-prod-api-deployment.json": true}

	name := newSpecFileName(deploy, taken)
	require.NotEqual(t, "70-prod-api-deployment.json", name)
	require.True(t, strings.HasPrefix(name, "70-prod-api-deployment-"))
	require.True(t, strings.HasSuffix(name, ".json"))
}
