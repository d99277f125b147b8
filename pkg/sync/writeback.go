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

package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"atomist.com/k8sync/pkg/application"
	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/gitrepo"
	"atomist.com/k8sync/pkg/metadata"
	"atomist.com/k8sync/pkg/status"
)

// Action selects the write-back direction.
type Action string

const (
	// ActionUpsert records the resources' current specs in the store.
	ActionUpsert = Action("upsert")
	// ActionDelete removes the resources' spec files from the store.
	ActionDelete = Action("delete")
)

// WriteBack records an application's actuation outcome in the sync
// repository. On upsert each resource overwrites the spec file that declares
// it, preserving that file's serialization format, or lands in a newly named
// JSON file when none does. On delete the declaring file is removed and an
// undeclared resource is a no-op. Secret values are encrypted before they
// touch the store; plaintext is never persisted.
//
// When the worktree is left unchanged nothing is committed. Otherwise the
// touched files are committed with the application slug in the message and
// the controller's sync tag, then pushed.
func (s *Syncer) WriteBack(ctx context.Context, app *application.Application, resources []*unstructured.Unstructured, action Action) status.MultiError {
	files, err := s.Repo.Specs()
	if err != nil {
		return status.Append(nil, err)
	}
	errs := gitrepo.ParseErrors(files)

	store := indexSpecFiles(files)
	var touched []string
	for _, resource := range resources {
		path, wErr := s.writeResource(store, resource, action)
		if wErr != nil {
			errs = status.Append(errs, wErr)
			continue
		}
		if path != "" {
			touched = append(touched, path)
		}
	}
	if len(touched) == 0 {
		return errs
	}

	clean, cErr := s.Repo.IsClean()
	if cErr != nil {
		return status.Append(errs, cErr)
	}
	if clean {
		klog.V(1).Infof("Spec store already matches %s, nothing to commit", app.Slug())
		return errs
	}
	message := fmt.Sprintf("Update specs for %s\n\n%s", app.Slug(), metadata.CommitTags(s.Controller))
	sha, pErr := s.Repo.CommitAndPush(ctx, message, touched...)
	if pErr != nil {
		return status.Append(errs, pErr)
	}
	klog.Infof("Wrote back %d spec file(s) for %s as commit %s", len(touched), app.Slug(), sha)
	return errs
}

// specStore indexes the spec files of one write-back pass. Only files
// declaring exactly one resource participate in identity matching:
// write-back owns whole files, and multi-document files are authored by
// hand.
type specStore struct {
	byID  map[core.ID]string
	taken map[string]bool
}

func indexSpecFiles(files []gitrepo.FileSpec) *specStore {
	store := &specStore{
		byID:  make(map[core.ID]string),
		taken: make(map[string]bool),
	}
	for _, file := range files {
		store.taken[file.Path] = true
		if len(file.Specs) != 1 {
			continue
		}
		store.byID[core.IDOf(file.Specs[0])] = file.Path
	}
	return store
}

// writeResource applies one resource's write-back to the worktree and
// returns the touched path, or "" when there was nothing to do.
func (s *Syncer) writeResource(store *specStore, resource *unstructured.Unstructured, action Action) (string, error) {
	id := core.IDOf(resource)
	path, matched := store.byID[id]
	switch action {
	case ActionUpsert:
		record, err := s.Cipher.Encrypt(resource)
		if err != nil {
			return "", err
		}
		if !matched {
			path = newSpecFileName(record, store.taken)
			store.taken[path] = true
			store.byID[id] = path
		}
		contents, mErr := marshalSpec(path, record)
		if mErr != nil {
			return "", mErr
		}
		if wErr := s.Repo.WriteFile(path, contents); wErr != nil {
			return "", wErr
		}
		klog.V(3).Infof("Recorded %s in %s", id, path)
		return path, nil
	case ActionDelete:
		if !matched {
			klog.V(3).Infof("No spec file declares %s, nothing to remove", id)
			return "", nil
		}
		if rErr := s.Repo.RemoveFile(path); rErr != nil {
			return "", rErr
		}
		klog.V(3).Infof("Removed %s, was %s", path, id)
		return path, nil
	default:
		return "", status.InternalErrorf("unrecognized write-back action %q", action)
	}
}

// marshalSpec serializes the resource in the format the target file's
// extension implies, preserving the store's authoring choice on overwrite.
func marshalSpec(path string, resource *unstructured.Unstructured) ([]byte, status.Error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(resource.Object)
		if err != nil {
			return nil, status.InternalWrap(err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(resource.Object, "", "  ")
		if err != nil {
			return nil, status.InternalWrap(err)
		}
		return append(out, '\n'), nil
	}
}
