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
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/klog/v2"
)

// ToUnstructured converts a typed object into an Unstructured object.
// If already Unstructured, a deep copy is returned.
func ToUnstructured(obj runtime.Object, scheme *runtime.Scheme) (*unstructured.Unstructured, error) {
	gvk, err := Lookup(obj, scheme)
	if err != nil {
		return nil, err
	}

	if uObj, isUnstructured := obj.(*unstructured.Unstructured); isUnstructured {
		// Already typed
		return uObj.DeepCopy(), nil
	}

	// Convert to Unstructured
	uObj := &unstructured.Unstructured{}
	uObj.SetGroupVersionKind(gvk)
	klog.V(6).Infof("Converting from %T to %T", obj, uObj)
	err = scheme.Convert(obj, uObj, nil)
	if err != nil {
		return nil, err
	}
	// Conversion sometimes drops the GVK, so add it back in.
	uObj.SetGroupVersionKind(gvk)
	return uObj, nil
}

// ToTypedObject converts an Unstructured object into a typed object.
// If not Unstructured, a deep copy is returned.
func ToTypedObject(obj runtime.Object, scheme *runtime.Scheme) (runtime.Object, error) {
	gvk, err := Lookup(obj, scheme)
	if err != nil {
		return nil, err
	}

	tObj, err := NewObjectForGVK(gvk, scheme)
	if err != nil {
		return nil, err
	}

	klog.V(6).Infof("Converting from %T to %T", obj, tObj)
	err = scheme.Convert(obj, tObj, nil)
	if err != nil {
		return nil, err
	}
	// Conversion sometimes drops the GVK, so add it back in.
	tObj.GetObjectKind().SetGroupVersionKind(gvk)

	return tObj, nil
}
