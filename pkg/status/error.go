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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func kse(id string) string {
	return fmt.Sprintf("KSE%s", id)
}

func prefix(code string) string {
	return fmt.Sprintf("%s: ", code)
}

// Error defines a coded sync error.
// These are shown to the user and documented, and carry a stable code so
// callers and log scrapers can match on them.
type Error interface {
	causer
	MultiError
	// Code is the unique identifier of the error to help users find documentation.
	Code() string
	// Body is the body of the error to be printed.
	Body() string
	// Is allows comparing error types through errors.Is.
	Is(target error) bool
}

// causer defines an error with an underlying cause.
type causer interface {
	Cause() error
}

// registered is a map from error codes to instances of the types they represent.
// Entries set to true are reserved and MUST NOT be reused.
var registered = map[string]bool{}

// format formats error messages consistently.
func format(err Error) string {
	var sb strings.Builder
	sb.WriteString(prefix(kse(err.Code())))
	sb.WriteString(err.Body())
	return sb.String()
}

func formatBody(message, separator, context string) string {
	var sb strings.Builder
	sb.WriteString(message)
	if context != "" {
		sb.WriteString(separator)
		sb.WriteString(context)
	}
	return sb.String()
}

func nextCandidate(code string) (int, error) {
	c, err := strconv.Atoi(code)
	if err != nil {
		return 0, err
	}

	for ; true; c++ {
		if _, found := registered[strconv.Itoa(c)]; found {
			continue
		}
		return c, nil
	}
	panic("unreachable code")
}

// register marks the passed error code as used.
func register(code string) {
	if _, exists := registered[code]; exists {
		if c, err2 := nextCandidate(code); err2 == nil {
			reportMisuse(fmt.Sprintf("duplicate error code %s, next candidate: %d", code, c))
		} else {
			reportMisuse(fmt.Sprintf("duplicate error code %s", code))
		}
	}
	registered[code] = true
}

// CodeRegistry returns a sorted list of currently registered error codes.
func CodeRegistry() []string {
	var codes []string
	for code := range registered {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return codes
}
