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

package metadata

// Recommended Kubernetes application labels, stamped on every resource the
// engine synthesizes for an application.
const (
	// NameLabel is the recommended label carrying the application name. It is
	// also the sole selector label for synthesized workloads.
	NameLabel = "app.kubernetes.io/name"

	// ManagedByKey is the recommended Kubernetes label for marking a resource
	// as managed by an application.
	ManagedByKey = "app.kubernetes.io/managed-by"

	// PartOfLabel is the recommended label carrying the name of the
	// higher-level system the application belongs to.
	PartOfLabel = "app.kubernetes.io/part-of"
)

// ManagedLabels returns the labels applied to every resource synthesized for
// the named application by the named controller.
func ManagedLabels(appName, controller string) map[string]string {
	return map[string]string{
		NameLabel:    appName,
		ManagedByKey: controller,
	}
}

// SelectorLabels returns the labels a synthesized workload selects its pods
// by. Kept minimal because selectors are immutable on Deployments.
func SelectorLabels(appName string) map[string]string {
	return map[string]string{
		NameLabel: appName,
	}
}
