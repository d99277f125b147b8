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

package kinds

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Lookup returns the GroupVersionKind of the object.
//
// Unstructured objects report the GVK they carry, whether or not it is
// registered. Typed objects are looked up in the scheme by their Go type and
// must be registered; when the type is registered under multiple GVKs, a
// pre-populated TypeMeta disambiguates, otherwise the first registered GVK
// wins.
func Lookup(obj runtime.Object, scheme *runtime.Scheme) (schema.GroupVersionKind, error) {
	if uObj, ok := obj.(*unstructured.Unstructured); ok {
		return uObj.GroupVersionKind(), nil
	}
	gvks, _, err := scheme.ObjectKinds(obj)
	if err != nil {
		return schema.GroupVersionKind{}, fmt.Errorf("failed to lookup object type: %w", err)
	}
	objGVK := obj.GetObjectKind().GroupVersionKind()
	for _, gvk := range gvks {
		if gvk == objGVK {
			return gvk, nil
		}
	}
	return gvks[0], nil
}
