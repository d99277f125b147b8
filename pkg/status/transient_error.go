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

package status

import (
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	utilnet "k8s.io/apimachinery/pkg/util/net"
)

// TransientErrorCode is the error code for failures that a later attempt may
// resolve on its own. The actuator retries these under its backoff; callers
// see this class only once those retries are exhausted.
const TransientErrorCode = "2016"

// transientErrorBuilder is an ErrorBuilder for transient errors.
var transientErrorBuilder = NewErrorBuilder(TransientErrorCode)

// IsTransient reports whether err is worth retrying. Connection-level
// failures and overload or internal-error responses from the API server
// qualify. Everything else, NotFound and Forbidden included, is permanent
// from the caller's point of view.
func IsTransient(err error) bool {
	if utilnet.IsConnectionRefused(err) || utilnet.IsConnectionReset(err) || utilnet.IsProbableEOF(err) {
		return true
	}
	return apierrors.IsServerTimeout(err) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsTooManyRequests(err) ||
		apierrors.IsInternalError(err) ||
		apierrors.IsServiceUnavailable(err) ||
		apierrors.IsUnexpectedServerError(err)
}

// TransientError returns a transient error.
func TransientError(err error) Error {
	return transientErrorBuilder.Wrap(err).Build()
}

// AllTransientErrors returns true if the MultiError is non-nil, non-empty, and
// contains only TransientErrors.
func AllTransientErrors(multiErr MultiError) bool {
	if multiErr == nil {
		return false
	}
	errs := multiErr.Errors()
	for _, err := range errs {
		if err.Code() != TransientErrorCode {
			return false
		}
	}
	// MultiError shouldn't be empty, but check just in case
	return len(errs) > 0
}
