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

	jsonpatch "github.com/evanphx/json-patch"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"atomist.com/k8sync/pkg/apiresource"
	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/kinds"
	"atomist.com/k8sync/pkg/metadata"
	"atomist.com/k8sync/pkg/status"
)

// Resources synthesizes the resource specs deploying the application under
// the named controller. Specs come back prerequisites first, though
// actuation order is the change sorter's concern, not this one's.
func (a *Application) Resources(controller string) ([]*unstructured.Unstructured, status.Error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	clusterScoped, err := rbacClusterScoped(a.RoleSpec, a.Slug())
	if err != nil {
		return nil, err
	}

	type entry struct {
		object   runtime.Object
		fragment json.RawMessage
		name     string
	}
	var entries []entry
	if a.Namespace != apiresource.DefaultNamespace {
		entries = append(entries, entry{object: a.namespaceResource(controller)})
	}
	entries = append(entries, entry{object: a.serviceAccountResource(controller), fragment: a.ServiceAccountSpec, name: "serviceAccountSpec"})
	if len(a.RoleSpec) > 0 {
		if clusterScoped {
			entries = append(entries,
				entry{object: a.clusterRoleResource(controller), fragment: a.RoleSpec, name: "roleSpec"},
				entry{object: a.clusterRoleBindingResource(controller), fragment: a.RoleBindingSpec, name: "roleBindingSpec"},
			)
		} else {
			entries = append(entries,
				entry{object: a.roleResource(controller), fragment: a.RoleSpec, name: "roleSpec"},
				entry{object: a.roleBindingResource(controller), fragment: a.RoleBindingSpec, name: "roleBindingSpec"},
			)
		}
	}
	if a.Port > 0 {
		entries = append(entries, entry{object: a.serviceResource(controller), fragment: a.ServiceSpec, name: "serviceSpec"})
	}
	entries = append(entries, entry{object: a.deploymentResource(controller), fragment: a.DeploymentSpec, name: "deploymentSpec"})

	specs := make([]*unstructured.Unstructured, 0, len(entries))
	for _, e := range entries {
		u, cErr := kinds.ToUnstructured(e.object, core.Scheme)
		if cErr != nil {
			return nil, status.InternalWrap(cErr)
		}
		scrub(u)
		merged, oErr := overlay(u, e.name, e.fragment, a.Slug())
		if oErr != nil {
			return nil, oErr
		}
		specs = append(specs, merged)
	}
	return specs, nil
}

// OverlayIngress merges the application's ingressSpec fragment over the
// shared-ingress patch. The application never owns an Ingress object, so
// this is the only place the fragment applies. With no fragment the patch
// comes back unchanged.
func (a *Application) OverlayIngress(patch *unstructured.Unstructured) (*unstructured.Unstructured, status.Error) {
	return overlay(patch, "ingressSpec", a.IngressSpec, a.Slug())
}

// overlay merges a raw JSON fragment over obj, fragment fields winning.
func overlay(obj *unstructured.Unstructured, name string, fragment json.RawMessage, app string) (*unstructured.Unstructured, status.Error) {
	if len(fragment) == 0 {
		return obj, nil
	}
	base, err := obj.MarshalJSON()
	if err != nil {
		return nil, status.InternalWrap(err)
	}
	merged, mErr := jsonpatch.MergePatch(base, fragment)
	if mErr != nil {
		return nil, status.ObjectParseErrorf(mErr, "invalid %s fragment for application %q", name, app)
	}
	out := &unstructured.Unstructured{}
	if uErr := out.UnmarshalJSON(merged); uErr != nil {
		return nil, status.ObjectParseErrorf(uErr, "invalid %s fragment for application %q", name, app)
	}
	return out, nil
}

// rbacClusterScoped reports whether the role fragment selects the
// cluster-scoped RBAC pair by declaring kind ClusterRole.
func rbacClusterScoped(fragment json.RawMessage, app string) (bool, status.Error) {
	if len(fragment) == 0 {
		return false, nil
	}
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(fragment, &probe); err != nil {
		return false, status.ObjectParseErrorf(err, "invalid roleSpec fragment for application %q", app)
	}
	return probe.Kind == kinds.ClusterRole().Kind, nil
}

// scrub removes conversion artifacts that carry no declarative intent, so
// they never reach apply bodies or written-back spec files.
func scrub(u *unstructured.Unstructured) {
	unstructured.RemoveNestedField(u.Object, "status")
	unstructured.RemoveNestedField(u.Object, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u.Object, "spec", "template", "metadata", "creationTimestamp")
	if spec, ok := u.Object["spec"].(map[string]interface{}); ok && len(spec) == 0 {
		delete(u.Object, "spec")
	}
}

func (a *Application) objectMeta(controller string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      a.Name,
		Namespace: a.Namespace,
		Labels:    metadata.ManagedLabels(a.Name, controller),
	}
}

// clusterObjectMeta is objectMeta without the namespace, for cluster-scoped
// resources.
func (a *Application) clusterObjectMeta(controller string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:   a.Name,
		Labels: metadata.ManagedLabels(a.Name, controller),
	}
}

func (a *Application) namespaceResource(controller string) *corev1.Namespace {
	return &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   a.Namespace,
			Labels: metadata.ManagedLabels(a.Name, controller),
		},
	}
}

func (a *Application) serviceAccountResource(controller string) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{ObjectMeta: a.objectMeta(controller)}
}

// roleResource carries no rules of its own; the roleSpec fragment provides
// them.
func (a *Application) roleResource(controller string) *rbacv1.Role {
	return &rbacv1.Role{ObjectMeta: a.objectMeta(controller)}
}

func (a *Application) clusterRoleResource(controller string) *rbacv1.ClusterRole {
	return &rbacv1.ClusterRole{ObjectMeta: a.clusterObjectMeta(controller)}
}

func (a *Application) roleBindingResource(controller string) *rbacv1.RoleBinding {
	return &rbacv1.RoleBinding{
		ObjectMeta: a.objectMeta(controller),
		Subjects:   a.roleSubjects(),
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     kinds.Role().Kind,
			Name:     a.Name,
		},
	}
}

func (a *Application) clusterRoleBindingResource(controller string) *rbacv1.ClusterRoleBinding {
	return &rbacv1.ClusterRoleBinding{
		ObjectMeta: a.clusterObjectMeta(controller),
		Subjects:   a.roleSubjects(),
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     kinds.ClusterRole().Kind,
			Name:     a.Name,
		},
	}
}

func (a *Application) roleSubjects() []rbacv1.Subject {
	return []rbacv1.Subject{{
		Kind:      rbacv1.ServiceAccountKind,
		Name:      a.Name,
		Namespace: a.Namespace,
	}}
}

func (a *Application) serviceResource(controller string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: a.objectMeta(controller),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeNodePort,
			Selector: metadata.SelectorLabels(a.Name),
			Ports: []corev1.ServicePort{{
				Name:       "http",
				Protocol:   corev1.ProtocolTCP,
				Port:       a.Port,
				TargetPort: intstr.FromInt32(a.Port),
			}},
		},
	}
}

func (a *Application) deploymentResource(controller string) *appsv1.Deployment {
	replicas := a.Replicas
	if replicas <= 0 {
		replicas = 1
	}
	pod := corev1.PodSpec{
		Containers: []corev1.Container{{
			Name:  a.Name,
			Image: a.Image,
		}},
	}
	if a.Port > 0 {
		pod.Containers[0].Ports = []corev1.ContainerPort{{
			Name:          "http",
			ContainerPort: a.Port,
			Protocol:      corev1.ProtocolTCP,
		}}
	}
	// The pod runs under the application's ServiceAccount only when role
	// configuration asked for one with meaningful grants.
	if len(a.RoleSpec) > 0 {
		pod.ServiceAccountName = a.Name
	}
	return &appsv1.Deployment{
		ObjectMeta: a.objectMeta(controller),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(replicas),
			Selector: &metav1.LabelSelector{MatchLabels: metadata.SelectorLabels(a.Name)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: metadata.ManagedLabels(a.Name, controller)},
				Spec:       pod,
			},
		},
	}
}
