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

package gitrepo

import (
	"sort"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"atomist.com/k8sync/pkg/diff"
	"atomist.com/k8sync/pkg/status"
)

// FileDiff describes how one spec file changed in a commit.
type FileDiff struct {
	// Sha is the commit whose tree the change is read from.
	Sha string
	// Type is Apply for files added or modified and Delete for files
	// removed.
	Type diff.ChangeType
	// Path is relative to the repository root.
	Path string
}

// ChangedFiles reports the spec file changes the commit at rev introduced
// over its first parent. A root commit is diffed against the empty tree.
// Rename detection is not attempted: a renamed file decays to a delete of
// the old path and an apply of the new one, which actuates correctly because
// resources carry their identity in file content, not in file names.
func (r *Repository) ChangedFiles(rev string) ([]FileDiff, error) {
	commit, err := r.resolve(rev)
	if err != nil {
		return nil, err
	}
	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, status.SourceErrorf(err, "unable to read parent of commit %s", commit.Hash)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, status.SourceErrorf(err, "unable to read tree of commit %s", parent.Hash)
		}
	}
	return changedFiles(parentTree, commit)
}

// ChangedFilesBetween reports the spec file changes between the trees the
// two revisions name, attributed to the commit to resolves to.
func (r *Repository) ChangedFilesBetween(from, to string) ([]FileDiff, error) {
	fromCommit, err := r.resolve(from)
	if err != nil {
		return nil, err
	}
	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to read tree of commit %s", fromCommit.Hash)
	}
	toCommit, err := r.resolve(to)
	if err != nil {
		return nil, err
	}
	return changedFiles(fromTree, toCommit)
}

func changedFiles(from *object.Tree, to *object.Commit) ([]FileDiff, error) {
	toTree, err := to.Tree()
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to read tree of commit %s", to.Hash)
	}
	changes, err := object.DiffTree(from, toTree)
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to diff trees for commit %s", to.Hash)
	}
	sha := to.Hash.String()
	var diffs []FileDiff
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, status.SourceErrorf(err, "unable to classify change in commit %s", sha)
		}
		switch action {
		case merkletrie.Insert, merkletrie.Modify:
			if IsSpecFile(change.To.Name) {
				diffs = append(diffs, FileDiff{Sha: sha, Type: diff.Apply, Path: change.To.Name})
			}
		case merkletrie.Delete:
			if IsSpecFile(change.From.Name) {
				diffs = append(diffs, FileDiff{Sha: sha, Type: diff.Delete, Path: change.From.Name})
			}
		}
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i].Path < diffs[j].Path })
	return diffs, nil
}
