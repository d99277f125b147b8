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

package kinds

import (
	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	policyv1 "k8s.io/api/policy/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Namespace returns the canonical Namespace GroupVersionKind.
func Namespace() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Namespace")
}

// ServiceAccount returns the canonical ServiceAccount GroupVersionKind.
func ServiceAccount() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("ServiceAccount")
}

// Role returns the canonical Role GroupVersionKind.
func Role() schema.GroupVersionKind {
	return rbacv1.SchemeGroupVersion.WithKind("Role")
}

// ClusterRole returns the canonical ClusterRole GroupVersionKind.
func ClusterRole() schema.GroupVersionKind {
	return rbacv1.SchemeGroupVersion.WithKind("ClusterRole")
}

// RoleBinding returns the canonical RoleBinding GroupVersionKind.
func RoleBinding() schema.GroupVersionKind {
	return rbacv1.SchemeGroupVersion.WithKind("RoleBinding")
}

// ClusterRoleBinding returns the canonical ClusterRoleBinding GroupVersionKind.
func ClusterRoleBinding() schema.GroupVersionKind {
	return rbacv1.SchemeGroupVersion.WithKind("ClusterRoleBinding")
}

// Service returns the canonical Service GroupVersionKind.
func Service() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Service")
}

// ConfigMap returns the canonical ConfigMap GroupVersionKind.
func ConfigMap() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("ConfigMap")
}

// Secret returns the canonical Secret GroupVersionKind.
func Secret() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Secret")
}

// Deployment returns the canonical Deployment GroupVersionKind.
func Deployment() schema.GroupVersionKind {
	return appsv1.SchemeGroupVersion.WithKind("Deployment")
}

// Ingress returns the canonical Ingress GroupVersionKind.
func Ingress() schema.GroupVersionKind {
	return networkingv1.SchemeGroupVersion.WithKind("Ingress")
}

// NetworkPolicy returns the canonical NetworkPolicy GroupVersionKind.
func NetworkPolicy() schema.GroupVersionKind {
	return networkingv1.SchemeGroupVersion.WithKind("NetworkPolicy")
}

// IngressClass returns the canonical IngressClass GroupVersionKind.
func IngressClass() schema.GroupVersionKind {
	return networkingv1.SchemeGroupVersion.WithKind("IngressClass")
}

// Pod returns the canonical Pod GroupVersionKind.
func Pod() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Pod")
}

// Node returns the canonical Node GroupVersionKind.
func Node() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Node")
}

// DaemonSet returns the canonical DaemonSet GroupVersionKind.
func DaemonSet() schema.GroupVersionKind {
	return appsv1.SchemeGroupVersion.WithKind("DaemonSet")
}

// StatefulSet returns the canonical StatefulSet GroupVersionKind.
func StatefulSet() schema.GroupVersionKind {
	return appsv1.SchemeGroupVersion.WithKind("StatefulSet")
}

// ReplicaSet returns the canonical ReplicaSet GroupVersionKind.
func ReplicaSet() schema.GroupVersionKind {
	return appsv1.SchemeGroupVersion.WithKind("ReplicaSet")
}

// Job returns the canonical Job GroupVersionKind.
func Job() schema.GroupVersionKind {
	return batchv1.SchemeGroupVersion.WithKind("Job")
}

// CronJob returns the canonical CronJob GroupVersionKind.
func CronJob() schema.GroupVersionKind {
	return batchv1.SchemeGroupVersion.WithKind("CronJob")
}

// ReplicationController returns the canonical ReplicationController GroupVersionKind.
func ReplicationController() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("ReplicationController")
}

// ResourceQuota returns the canonical ResourceQuota GroupVersionKind.
func ResourceQuota() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("ResourceQuota")
}

// LimitRange returns the canonical LimitRange GroupVersionKind.
func LimitRange() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("LimitRange")
}

// PersistentVolume returns the canonical PersistentVolume GroupVersionKind.
func PersistentVolume() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("PersistentVolume")
}

// PersistentVolumeClaim returns the canonical PersistentVolumeClaim GroupVersionKind.
func PersistentVolumeClaim() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("PersistentVolumeClaim")
}

// Endpoints returns the canonical Endpoints GroupVersionKind.
func Endpoints() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Endpoints")
}

// Event returns the canonical Event GroupVersionKind.
func Event() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("Event")
}

// ComponentStatus returns the canonical ComponentStatus GroupVersionKind.
func ComponentStatus() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("ComponentStatus")
}

// PodStatus returns the PodStatus subresource wrapper GroupVersionKind.
func PodStatus() schema.GroupVersionKind {
	return corev1.SchemeGroupVersion.WithKind("PodStatus")
}

// DeploymentStatus returns the DeploymentStatus subresource wrapper
// GroupVersionKind.
func DeploymentStatus() schema.GroupVersionKind {
	return appsv1.SchemeGroupVersion.WithKind("DeploymentStatus")
}

// StorageClass returns the canonical StorageClass GroupVersionKind.
func StorageClass() schema.GroupVersionKind {
	return storagev1.SchemeGroupVersion.WithKind("StorageClass")
}

// PodDisruptionBudget returns the canonical PodDisruptionBudget GroupVersionKind.
func PodDisruptionBudget() schema.GroupVersionKind {
	return policyv1.SchemeGroupVersion.WithKind("PodDisruptionBudget")
}

// HorizontalPodAutoscaler returns the canonical HorizontalPodAutoscaler GroupVersionKind.
func HorizontalPodAutoscaler() schema.GroupVersionKind {
	return autoscalingv2.SchemeGroupVersion.WithKind("HorizontalPodAutoscaler")
}

// CustomResourceDefinition returns the v1 CustomResourceDefinition GroupVersionKind.
func CustomResourceDefinition() schema.GroupVersionKind {
	return schema.GroupVersionKind{Group: "apiextensions.k8s.io", Version: "v1", Kind: "CustomResourceDefinition"}
}

// APIService returns the APIService kind.
func APIService() schema.GroupVersionKind {
	return schema.GroupVersionKind{Group: "apiregistration.k8s.io", Version: "v1", Kind: "APIService"}
}
