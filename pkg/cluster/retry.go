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

package cluster

import (
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultBackoff bounds each API call to five attempts inside roughly ten
// seconds. Sync runs actuate many resources sequentially, so per-call
// patience stays short.
func DefaultBackoff() wait.Backoff {
	return wait.Backoff{
		Duration: 500 * time.Millisecond,
		Factor:   2,
		Steps:    5,
		Cap:      8 * time.Second,
		Jitter:   0.1,
	}
}
