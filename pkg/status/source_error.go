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

// SourceErrorCode is the error code for a status Error related to the sync
// repository.
const SourceErrorCode = "2004"

// SourceErrorBuilder represents errors reading from or writing to the sync
// repository.
var SourceErrorBuilder = NewErrorBuilder(SourceErrorCode).Sprint("Error in the sync repository")

// SourceError wraps an error returned by a Git operation on the sync
// repository.
func SourceError(err error) Error {
	return SourceErrorBuilder.Wrap(err).Build()
}

// SourceErrorf wraps a Git operation error with a formatted message.
func SourceErrorf(err error, format string, a ...interface{}) Error {
	return SourceErrorBuilder.Sprintf(format, a...).Wrap(err).Build()
}
