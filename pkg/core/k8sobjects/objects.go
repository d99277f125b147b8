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

package k8sobjects

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	rbacv1 "k8s.io/api/rbac/v1"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/kinds"
)

// NamespaceObject returns an initialized Namespace.
func NamespaceObject(name string, opts ...core.MetaMutator) *corev1.Namespace {
	obj := &corev1.Namespace{TypeMeta: ToTypeMeta(kinds.Namespace())}
	mutate(obj, core.Name(name))
	mutate(obj, opts...)

	return obj
}

// ServiceAccountObject returns an initialized ServiceAccount.
func ServiceAccountObject(name string, opts ...core.MetaMutator) *corev1.ServiceAccount {
	obj := &corev1.ServiceAccount{TypeMeta: ToTypeMeta(kinds.ServiceAccount())}
	mutate(obj, core.Name(name))
	mutate(obj, opts...)

	return obj
}

// RoleObject initializes a Role.
func RoleObject(opts ...core.MetaMutator) *rbacv1.Role {
	obj := &rbacv1.Role{TypeMeta: ToTypeMeta(kinds.Role())}
	mutate(obj, opts...)

	return obj
}

// RoleBindingObject initializes a RoleBinding.
func RoleBindingObject(opts ...core.MetaMutator) *rbacv1.RoleBinding {
	obj := &rbacv1.RoleBinding{TypeMeta: ToTypeMeta(kinds.RoleBinding())}
	mutate(obj, opts...)

	return obj
}

// ClusterRoleObject initializes a ClusterRole.
func ClusterRoleObject(opts ...core.MetaMutator) *rbacv1.ClusterRole {
	obj := &rbacv1.ClusterRole{TypeMeta: ToTypeMeta(kinds.ClusterRole())}
	mutate(obj, opts...)

	return obj
}

// ClusterRoleBindingObject initializes a ClusterRoleBinding.
func ClusterRoleBindingObject(opts ...core.MetaMutator) *rbacv1.ClusterRoleBinding {
	obj := &rbacv1.ClusterRoleBinding{TypeMeta: ToTypeMeta(kinds.ClusterRoleBinding())}
	mutate(obj, opts...)

	return obj
}

// ServiceObject returns an initialized Service.
func ServiceObject(opts ...core.MetaMutator) *corev1.Service {
	obj := &corev1.Service{TypeMeta: ToTypeMeta(kinds.Service())}
	mutate(obj, opts...)

	return obj
}

// ConfigMapObject returns an initialized ConfigMap.
func ConfigMapObject(opts ...core.MetaMutator) *corev1.ConfigMap {
	obj := &corev1.ConfigMap{TypeMeta: ToTypeMeta(kinds.ConfigMap())}
	mutate(obj, opts...)

	return obj
}

// SecretObject returns an initialized Secret.
func SecretObject(opts ...core.MetaMutator) *corev1.Secret {
	obj := &corev1.Secret{TypeMeta: ToTypeMeta(kinds.Secret())}
	mutate(obj, opts...)

	return obj
}

// DeploymentObject returns an initialized Deployment.
func DeploymentObject(opts ...core.MetaMutator) *appsv1.Deployment {
	obj := &appsv1.Deployment{TypeMeta: ToTypeMeta(kinds.Deployment())}
	mutate(obj, opts...)

	return obj
}

// IngressObject returns an initialized Ingress.
func IngressObject(opts ...core.MetaMutator) *networkingv1.Ingress {
	obj := &networkingv1.Ingress{TypeMeta: ToTypeMeta(kinds.Ingress())}
	mutate(obj, opts...)

	return obj
}
