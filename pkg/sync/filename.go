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
	"fmt"
	"strings"

	"github.com/ettle/strcase"
	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"atomist.com/k8sync/pkg/diff"
)

// SpecFileBasename returns the canonical file name, without extension, for a
// resource spec: the kind's actuation priority, the namespace for namespaced
// resources, the resource name, and the kebab-cased kind. The numeric prefix
// makes lexical directory order match actuation order.
func SpecFileBasename(resource *unstructured.Unstructured) string {
	parts := []string{fmt.Sprintf("%02d", diff.Priority(resource.GetKind()))}
	if ns := resource.GetNamespace(); ns != "" {
		parts = append(parts, ns)
	}
	parts = append(parts, resource.GetName(), strcase.ToKebab(resource.GetKind()))
	return strings.Join(parts, "-")
}

// newSpecFileName synthesizes the file name for a resource no existing spec
// file declares. New files are always JSON. On the rare name collision a
// short random suffix keeps the new file from clobbering a neighbor.
func newSpecFileName(resource *unstructured.Unstructured, taken map[string]bool) string {
	base := SpecFileBasename(resource)
	name := base + ".json"
	if !taken[name] {
		return name
	}
	return base + "-" + uuid.NewString()[:7] + ".json"
}
