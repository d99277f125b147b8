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

package diff

import (
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// DefaultPriority is the rank of kinds without an entry in the priority
// table. They actuate after everything the table names.
const DefaultPriority = 90

// kindPriority orders kinds so that cluster prerequisites are actuated
// before their dependents: a Namespace must exist before anything inside it,
// a ServiceAccount before the Deployment that mounts it, a Service before
// the Ingress that routes to it. Lower ranks sort first. The same table
// prefixes spec file names on write-back so that directory order matches
// actuation order.
var kindPriority = map[string]int{
	"Namespace":          10,
	"ServiceAccount":     20,
	"Role":               25,
	"ClusterRole":        25,
	"RoleBinding":        30,
	"ClusterRoleBinding": 30,
	"Service":            50,
	"ConfigMap":          60,
	"Secret":             60,
	"Deployment":         70,
	"Ingress":            80,
}

// Priority returns the actuation rank of a kind.
func Priority(kind string) int {
	if priority, found := kindPriority[kind]; found {
		return priority
	}
	return DefaultPriority
}

// SortRecords orders a batch by (kind priority, namespace, name), preserving
// input order between records that tie on all three.
func SortRecords(records []ChangeRecord) {
	sort.Stable(sortableRecords(records))
}

type sortableRecords []ChangeRecord

var _ sort.Interface = sortableRecords{}

func (a sortableRecords) Len() int      { return len(a) }
func (a sortableRecords) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a sortableRecords) Less(i, j int) bool {
	return less(a[i].Spec, a[j].Spec)
}

func less(i, j *unstructured.Unstructured) bool {
	if pi, pj := Priority(i.GetKind()), Priority(j.GetKind()); pi != pj {
		return pi < pj
	}
	if i.GetNamespace() != j.GetNamespace() {
		return i.GetNamespace() < j.GetNamespace()
	}
	return i.GetName() < j.GetName()
}
