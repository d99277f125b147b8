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

// SecretCipherErrorCode is the code for SecretCipherError.
const SecretCipherErrorCode = "1005"

var secretCipherError = NewErrorBuilder(SecretCipherErrorCode)

// SecretCipherError reports that a Secret data value could not be encrypted
// or decrypted with the configured sync key. The most common cause is a key
// that does not match the one the value was encrypted with.
func SecretCipherError(err error, format string, args ...interface{}) Error {
	return secretCipherError.Wrap(err).Sprintf(format, args...).Build()
}
