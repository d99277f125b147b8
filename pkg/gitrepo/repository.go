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

// Package gitrepo adapts the Git repository that acts as the sync source of
// truth: root-level spec files declare the resources forward sync converges
// onto the cluster, and write-back commits record live state into the same
// files.
package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"k8s.io/klog/v2"

	"atomist.com/k8sync/pkg/api/k8sync"
	"atomist.com/k8sync/pkg/metadata"
	"atomist.com/k8sync/pkg/status"
)

// Options configures access to the sync repository.
type Options struct {
	// URL is the remote to clone. Ignored by Open.
	URL string
	// Branch is the branch holding the spec files. Defaults to
	// k8sync.DefaultBranch.
	Branch string
	// Token authenticates HTTPS remotes. Empty means anonymous access, which
	// may be enough to read a public repository but never to push.
	Token string
	// CommitterName and CommitterEmail author write-back commits. They
	// default to the controller identity so generated commits are
	// recognizable in the history.
	CommitterName  string
	CommitterEmail string
}

func (opts Options) auth() transport.AuthMethod {
	if opts.Token == "" {
		return nil
	}
	// GitHub and GitLab accept token auth in the password slot with any
	// non-empty username.
	return &http.BasicAuth{Username: "x-access-token", Password: opts.Token}
}

func (opts Options) branch() string {
	if opts.Branch == "" {
		return k8sync.DefaultBranch
	}
	return opts.Branch
}

// Repository is a local checkout of the sync repository.
type Repository struct {
	dir  string
	repo *git.Repository
	opts Options
}

// Clone clones the remote named in opts into dir and returns the checkout.
// A directory that already holds a repository is opened instead, so repeated
// syncs against a persistent workspace reuse the previous clone.
func Clone(ctx context.Context, dir string, opts Options) (*Repository, error) {
	klog.V(1).Infof("Cloning %s (branch %s) into %s", opts.URL, opts.branch(), dir)
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           opts.URL,
		Auth:          opts.auth(),
		ReferenceName: plumbing.NewBranchReferenceName(opts.branch()),
		SingleBranch:  true,
	})
	switch {
	case errors.Is(err, git.ErrRepositoryAlreadyExists):
		klog.V(1).Infof("Repository already present at %s, opening instead", dir)
	case err != nil:
		return nil, status.SourceErrorf(err, "unable to clone %q", opts.URL)
	}
	return Open(dir, opts)
}

// Open opens an existing checkout of the sync repository.
func Open(dir string, opts Options) (*Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to open repository at %q", dir)
	}
	return &Repository{dir: dir, repo: repo, opts: opts}, nil
}

// CloneOrOpen clones when opts names a remote and otherwise opens the
// checkout already at dir.
func CloneOrOpen(ctx context.Context, dir string, opts Options) (*Repository, error) {
	if opts.URL != "" {
		return Clone(ctx, dir, opts)
	}
	return Open(dir, opts)
}

// Root returns the path of the checkout's working directory.
func (r *Repository) Root() string {
	return r.dir
}

// Head returns the commit sha the checkout currently points at.
func (r *Repository) Head() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", status.SourceError(err)
	}
	return head.Hash().String(), nil
}

// resolve returns the commit rev names. An empty rev resolves to HEAD.
func (r *Repository) resolve(rev string) (*object.Commit, error) {
	var hash plumbing.Hash
	if rev == "" {
		head, err := r.repo.Head()
		if err != nil {
			return nil, status.SourceError(err)
		}
		hash = head.Hash()
	} else {
		resolved, err := r.repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			return nil, status.SourceErrorf(err, "unable to resolve revision %q", rev)
		}
		hash = *resolved
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to read commit %s", hash)
	}
	return commit, nil
}

// Sha returns the full sha of the commit rev names.
func (r *Repository) Sha(rev string) (string, error) {
	commit, err := r.resolve(rev)
	if err != nil {
		return "", err
	}
	return commit.Hash.String(), nil
}

// CommitMessage returns the message of the commit rev names.
func (r *Repository) CommitMessage(rev string) (string, error) {
	commit, err := r.resolve(rev)
	if err != nil {
		return "", err
	}
	return commit.Message, nil
}

// IsSyncCommit reports whether the commit rev names was produced by the
// named controller's write-back. Forward sync skips such commits to avoid
// re-actuating its own output in an endless loop.
func (r *Repository) IsSyncCommit(rev, controller string) (bool, error) {
	message, err := r.CommitMessage(rev)
	if err != nil {
		return false, err
	}
	return metadata.IsSyncCommit(message, controller), nil
}

// abs resolves a root-level spec file name inside the checkout. Names with
// path separators are rejected: the spec store is flat.
func (r *Repository) abs(name string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", status.InternalErrorf("spec file name %q is not a root-level file", name)
	}
	return filepath.Join(r.dir, name), nil
}

// ReadFile returns the worktree contents of the named root-level file.
func (r *Repository) ReadFile(name string) ([]byte, error) {
	path, err := r.abs(name)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to read %q", name)
	}
	return contents, nil
}

// WriteFile replaces the worktree contents of the named root-level file,
// creating it when absent.
func (r *Repository) WriteFile(name string, data []byte) error {
	path, err := r.abs(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return status.SourceErrorf(err, "unable to write %q", name)
	}
	return nil
}

// RemoveFile deletes the named root-level file from the worktree.
func (r *Repository) RemoveFile(name string) error {
	path, err := r.abs(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return status.SourceErrorf(err, "unable to remove %q", name)
	}
	return nil
}

// IsClean reports whether the worktree has no uncommitted changes. Write-back
// uses it to skip empty commits when live state already matches the store.
func (r *Repository) IsClean() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, status.SourceError(err)
	}
	st, err := wt.Status()
	if err != nil {
		return false, status.SourceError(err)
	}
	return st.IsClean(), nil
}

func (r *Repository) signature() *object.Signature {
	name := r.opts.CommitterName
	if name == "" {
		name = k8sync.DefaultControllerName
	}
	email := r.opts.CommitterEmail
	if email == "" {
		email = k8sync.DefaultControllerName + "@" + k8sync.GroupName
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// Commit stages the given root-level files (additions, modifications and
// removals alike) and commits them, returning the new commit's sha.
func (r *Repository) Commit(message string, paths ...string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", status.SourceError(err)
	}
	for _, name := range paths {
		if _, err := r.abs(name); err != nil {
			return "", err
		}
		if _, err := wt.Add(name); err != nil {
			return "", status.SourceErrorf(err, "unable to stage %q", name)
		}
	}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: r.signature()})
	if err != nil {
		return "", status.SourceErrorf(err, "unable to commit staged spec files")
	}
	klog.V(3).Infof("Committed %d spec file(s) as %s", len(paths), hash)
	return hash.String(), nil
}

// Push pushes local commits to the remote. An already up-to-date remote is
// not an error.
func (r *Repository) Push(ctx context.Context) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{Auth: r.opts.auth()})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return status.SourceErrorf(err, "unable to push to the sync repository remote")
	}
	return nil
}

// CommitAndPush commits the given files and pushes the result. The commit
// sha is returned even when the push fails, so callers can still report what
// was recorded locally.
func (r *Repository) CommitAndPush(ctx context.Context, message string, paths ...string) (string, error) {
	sha, err := r.Commit(message, paths...)
	if err != nil {
		return "", err
	}
	if err := r.Push(ctx); err != nil {
		return sha, err
	}
	klog.V(1).Infof("Pushed write-back commit %s", sha)
	return sha, nil
}
