// Copyright 2024 Google LLC
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

// Package testerrors compares errors in tests by type and message instead of
// identity, which errors.Is cannot do for errors built in a different call
// stack than the code under test.
package testerrors

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

// AssertEqual fails the test when actual does not match expected. Aggregated
// errors are flattened with multierr and compared element-wise; each element
// must have the same concrete type and the same message. Coded errors format
// their code into the message, so a code mismatch always fails.
func AssertEqual(t *testing.T, expected, actual error, msgAndArgs ...interface{}) {
	t.Helper()
	if equal(expected, actual) {
		return
	}
	assert.Fail(t, fmt.Sprintf("Errors not equal:\nexpected: %v\nactual:   %v", expected, actual), msgAndArgs...)
}

func equal(expected, actual error) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	expectedErrs := multierr.Errors(expected)
	actualErrs := multierr.Errors(actual)
	if len(expectedErrs) != len(actualErrs) {
		return false
	}
	for i, want := range expectedErrs {
		got := actualErrs[i]
		if reflect.TypeOf(want) != reflect.TypeOf(got) {
			return false
		}
		if want.Error() != got.Error() {
			return false
		}
	}
	return true
}
