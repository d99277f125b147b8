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

package status

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// UnknownResourceErrorCode is the error code for an (apiVersion, kind) pair
// that is not in the resource address table.
const UnknownResourceErrorCode = "1002"

var unknownResourceError = NewErrorBuilder(UnknownResourceErrorCode)

// UnknownResourceError reports that the resolver has no address entry for the
// given GroupVersionKind.
func UnknownResourceError(gvk schema.GroupVersionKind, resource client.Object) Error {
	eb := unknownResourceError.Sprintf("no resource address for apiVersion %q kind %q",
		gvk.GroupVersion().String(), gvk.Kind)
	if resource == nil {
		return eb.Build()
	}
	return eb.BuildWithResources(resource)
}
