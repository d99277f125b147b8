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

package metadata

import (
	"fmt"
	"strings"
)

// GeneratedTag marks a commit as authored by machinery rather than a person.
const GeneratedTag = "[atomist:generated]"

// SyncCommitTag returns the commit message tag identifying write-back commits
// from the named controller.
func SyncCommitTag(controller string) string {
	return fmt.Sprintf("[atomist:sync-commit=%s]", controller)
}

// CommitTags returns the full tag suffix appended to every write-back commit
// message.
func CommitTags(controller string) string {
	return GeneratedTag + " " + SyncCommitTag(controller)
}

// IsSyncCommit returns true if the commit message carries the named
// controller's sync tag. The forward-sync listener uses this to skip the
// controller's own write-back commits, which would otherwise trigger an
// endless sync loop.
func IsSyncCommit(message, controller string) bool {
	return strings.Contains(message, SyncCommitTag(controller))
}
