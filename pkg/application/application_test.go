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

package application

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/intstr"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/ingress"
	"atomist.com/k8sync/pkg/kinds"
	"atomist.com/k8sync/pkg/metadata"
	"atomist.com/k8sync/pkg/status"
)

const controllerName = "demo-sdm"

func demoApp() Application {
	return Application{
		Workspace: "A1B2C3D4",
		Name:      "api",
		Namespace: "prod",
		Image:     "ghcr.io/acme/api:1.2.3",
	}
}

func kindsOf(specs []*unstructured.Unstructured) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.GetKind())
	}
	return out
}

func byKind(t *testing.T, specs []*unstructured.Unstructured, kind string) *unstructured.Unstructured {
	t.Helper()
	for _, s := range specs {
		if s.GetKind() == kind {
			return s
		}
	}
	t.Fatalf("no %s among synthesized resources %v", kind, kindsOf(specs))
	return nil
}

func typedDeployment(t *testing.T, u *unstructured.Unstructured) *appsv1.Deployment {
	t.Helper()
	obj, err := kinds.ToTypedObject(u, core.Scheme)
	require.NoError(t, err)
	dep, ok := obj.(*appsv1.Deployment)
	require.True(t, ok)
	return dep
}

func TestResourcesMinimal(t *testing.T) {
	app := demoApp()
	specs, err := app.Resources(controllerName)
	require.NoError(t, err)
	require.Equal(t, []string{"Namespace", "ServiceAccount", "Deployment"}, kindsOf(specs))

	ns := byKind(t, specs, "Namespace")
	require.Equal(t, "prod", ns.GetName())
	require.Equal(t, "", ns.GetNamespace())
	require.Equal(t, controllerName, ns.GetLabels()[metadata.ManagedByKey])

	depU := byKind(t, specs, "Deployment")
	require.Equal(t, "apps/v1", depU.GetAPIVersion())
	require.Equal(t, "prod", depU.GetNamespace())

	dep := typedDeployment(t, depU)
	require.NotNil(t, dep.Spec.Replicas)
	require.Equal(t, int32(1), *dep.Spec.Replicas)
	require.Equal(t, metadata.SelectorLabels("api"), dep.Spec.Selector.MatchLabels)
	require.Len(t, dep.Spec.Template.Spec.Containers, 1)
	require.Equal(t, "ghcr.io/acme/api:1.2.3", dep.Spec.Template.Spec.Containers[0].Image)
	require.Empty(t, dep.Spec.Template.Spec.Containers[0].Ports)
	require.Empty(t, dep.Spec.Template.Spec.ServiceAccountName)
}

func TestResourcesScrubsConversionArtifacts(t *testing.T) {
	app := demoApp()
	specs, err := app.Resources(controllerName)
	require.NoError(t, err)

	for _, spec := range specs {
		_, hasStatus := spec.Object["status"]
		require.False(t, hasStatus, "%s carries a status block", spec.GetKind())
		_, hasStamp, tErr := unstructured.NestedFieldNoCopy(spec.Object, "metadata", "creationTimestamp")
		require.NoError(t, tErr)
		require.False(t, hasStamp, "%s carries metadata.creationTimestamp", spec.GetKind())
	}
}

func TestResourcesDefaultNamespace(t *testing.T) {
	app := demoApp()
	app.Namespace = "default"
	specs, err := app.Resources(controllerName)
	require.NoError(t, err)
	require.Equal(t, []string{"ServiceAccount", "Deployment"}, kindsOf(specs))
}

func TestResourcesWithPort(t *testing.T) {
	app := demoApp()
	app.Port = 8080
	specs, err := app.Resources(controllerName)
	require.NoError(t, err)
	require.Equal(t, []string{"Namespace", "ServiceAccount", "Service", "Deployment"}, kindsOf(specs))

	svcObj, cErr := kinds.ToTypedObject(byKind(t, specs, "Service"), core.Scheme)
	require.NoError(t, cErr)
	svc, ok := svcObj.(*corev1.Service)
	require.True(t, ok)
	require.Equal(t, corev1.ServiceTypeNodePort, svc.Spec.Type)
	require.Equal(t, metadata.SelectorLabels("api"), svc.Spec.Selector)
	require.Len(t, svc.Spec.Ports, 1)
	require.Equal(t, int32(8080), svc.Spec.Ports[0].Port)
	require.Equal(t, intstr.FromInt32(8080), svc.Spec.Ports[0].TargetPort)

	dep := typedDeployment(t, byKind(t, specs, "Deployment"))
	require.Len(t, dep.Spec.Template.Spec.Containers[0].Ports, 1)
	require.Equal(t, int32(8080), dep.Spec.Template.Spec.Containers[0].Ports[0].ContainerPort)
}

func TestResourcesWithRole(t *testing.T) {
	app := demoApp()
	app.RoleSpec = json.RawMessage(`{"rules":[{"apiGroups":[""],"resources":["pods"],"verbs":["get","watch","list"]}]}`)
	specs, err := app.Resources(controllerName)
	require.NoError(t, err)
	require.Equal(t, []string{"Namespace", "ServiceAccount", "Role", "RoleBinding", "Deployment"}, kindsOf(specs))

	roleObj, cErr := kinds.ToTypedObject(byKind(t, specs, "Role"), core.Scheme)
	require.NoError(t, cErr)
	role, ok := roleObj.(*rbacv1.Role)
	require.True(t, ok)
	require.Len(t, role.Rules, 1)
	require.Equal(t, []string{"pods"}, role.Rules[0].Resources)

	bindingObj, bErr := kinds.ToTypedObject(byKind(t, specs, "RoleBinding"), core.Scheme)
	require.NoError(t, bErr)
	binding, ok := bindingObj.(*rbacv1.RoleBinding)
	require.True(t, ok)
	require.Equal(t, "Role", binding.RoleRef.Kind)
	require.Equal(t, "api", binding.RoleRef.Name)
	require.Len(t, binding.Subjects, 1)
	require.Equal(t, rbacv1.ServiceAccountKind, binding.Subjects[0].Kind)
	require.Equal(t, "prod", binding.Subjects[0].Namespace)

	dep := typedDeployment(t, byKind(t, specs, "Deployment"))
	require.Equal(t, "api", dep.Spec.Template.Spec.ServiceAccountName)
}

func TestResourcesWithClusterRole(t *testing.T) {
	app := demoApp()
	app.RoleSpec = json.RawMessage(`{"kind":"ClusterRole","rules":[{"apiGroups":[""],"resources":["nodes"],"verbs":["get"]}]}`)
	specs, err := app.Resources(controllerName)
	require.NoError(t, err)
	require.Equal(t, []string{"Namespace", "ServiceAccount", "ClusterRole", "ClusterRoleBinding", "Deployment"}, kindsOf(specs))

	clusterRole := byKind(t, specs, "ClusterRole")
	require.Equal(t, "", clusterRole.GetNamespace())

	bindingObj, bErr := kinds.ToTypedObject(byKind(t, specs, "ClusterRoleBinding"), core.Scheme)
	require.NoError(t, bErr)
	binding, ok := bindingObj.(*rbacv1.ClusterRoleBinding)
	require.True(t, ok)
	require.Equal(t, "ClusterRole", binding.RoleRef.Kind)
	require.Equal(t, "prod", binding.Subjects[0].Namespace)
}

func TestResourcesFragmentWins(t *testing.T) {
	app := demoApp()
	app.DeploymentSpec = json.RawMessage(`{"spec":{"replicas":5,"revisionHistoryLimit":3}}`)
	specs, err := app.Resources(controllerName)
	require.NoError(t, err)

	dep := typedDeployment(t, byKind(t, specs, "Deployment"))
	require.Equal(t, int32(5), *dep.Spec.Replicas)
	require.NotNil(t, dep.Spec.RevisionHistoryLimit)
	require.Equal(t, int32(3), *dep.Spec.RevisionHistoryLimit)
	// Fields the fragment does not mention stay synthesized.
	require.Equal(t, "ghcr.io/acme/api:1.2.3", dep.Spec.Template.Spec.Containers[0].Image)
}

func TestResourcesInvalidFragment(t *testing.T) {
	app := demoApp()
	app.DeploymentSpec = json.RawMessage(`{"spec":`)
	_, err := app.Resources(controllerName)
	require.Error(t, err)
	require.Equal(t, status.ObjectParseErrorCode, err.Code())
}

func TestResourcesMissingImage(t *testing.T) {
	app := demoApp()
	app.Image = ""
	_, err := app.Resources(controllerName)
	require.Error(t, err)
	require.Equal(t, status.MissingFieldErrorCode, err.Code())
}

func TestMerge(t *testing.T) {
	base := demoApp()
	base.Replicas = 2
	merged, err := Merge(base,
		Application{Image: "ghcr.io/acme/api:2.0.0"},
		Application{Port: 8080},
	)
	require.NoError(t, err)
	require.Equal(t, "api", merged.Name)
	require.Equal(t, "prod", merged.Namespace)
	require.Equal(t, "ghcr.io/acme/api:2.0.0", merged.Image)
	require.Equal(t, int32(2), merged.Replicas)
	require.Equal(t, int32(8080), merged.Port)
}

func TestMergeZeroValuesDoNotOverride(t *testing.T) {
	base := demoApp()
	merged, err := Merge(base, Application{Replicas: 3})
	require.NoError(t, err)
	require.Equal(t, base.Image, merged.Image)
	require.Equal(t, base.Namespace, merged.Namespace)
	require.Equal(t, int32(3), merged.Replicas)
}

func TestRoute(t *testing.T) {
	app := demoApp()
	_, ok := app.Route()
	require.False(t, ok)

	app.Path = "/api"
	app.Host = "example.com"
	app.Port = 8080
	app.TLSSecret = "star-tls"
	route, ok := app.Route()
	require.True(t, ok)
	require.Equal(t, ingress.Route{
		Host:      "example.com",
		Path:      "/api",
		Service:   "api",
		Port:      8080,
		TLSSecret: "star-tls",
	}, route)
}
