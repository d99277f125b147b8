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

// ObjectParseErrorCode is the code for ObjectParseError.
const ObjectParseErrorCode = "1003"

var objectParseError = NewErrorBuilder(ObjectParseErrorCode)

// ObjectParseError reports that a spec file could not be parsed into
// Kubernetes objects. The offending file is skipped; the error is collected
// into the batch result.
func ObjectParseError(path string, err error) Error {
	return objectParseError.Wrap(err).
		Sprintf("unable to parse %q", path).Build()
}

// ObjectParseErrorf reports content that could not be parsed into Kubernetes
// objects.
func ObjectParseErrorf(err error, format string, a ...interface{}) Error {
	return objectParseError.Wrap(err).Sprintf(format, a...).Build()
}
