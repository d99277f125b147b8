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

// PathConflictErrorCode is the error code for two applications claiming the
// same (host, path) pair on the shared Ingress.
const PathConflictErrorCode = "1004"

var pathConflictError = NewErrorBuilder(PathConflictErrorCode)

// PathConflictError reports that an Ingress path is already owned by a
// different backend service. Paths are never silently reassigned.
func PathConflictError(host, path, owner string) Error {
	return pathConflictError.
		Sprintf("path %q on host %q is already used by service %q", path, hostOrWildcard(host), owner).
		Build()
}

// PathOwnershipError reports a refused removal: the path under the matched
// rule is owned by a different backend service.
func PathOwnershipError(host, path, owner string) Error {
	return pathConflictError.
		Sprintf("will not remove path %q on host %q owned by service %q", path, hostOrWildcard(host), owner).
		Build()
}

func hostOrWildcard(host string) string {
	if host == "" {
		return "*"
	}
	return host
}
