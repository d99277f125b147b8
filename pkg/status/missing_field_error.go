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

import "sigs.k8s.io/controller-runtime/pkg/client"

// MissingFieldErrorCode is the error code for a resource declaration that
// omits a field required to address it on the API server.
const MissingFieldErrorCode = "1001"

var missingFieldError = NewErrorBuilder(MissingFieldErrorCode)

// MissingFieldError reports that a resource is missing a required field, such
// as kind, apiVersion, or metadata.name for a named operation.
func MissingFieldError(field string, resource client.Object) Error {
	eb := missingFieldError.Sprintf("resource is missing required field %q", field)
	if resource == nil {
		return eb.Build()
	}
	return eb.BuildWithResources(resource)
}

// MissingApplicationFieldError reports an application configuration missing a
// field required to synthesize its resources.
func MissingApplicationFieldError(field, app string) Error {
	return missingFieldError.Sprintf("application %q is missing required field %q", app, field).Build()
}
