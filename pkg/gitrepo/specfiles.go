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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/kubernetes/scheme"

	"atomist.com/k8sync/pkg/status"
)

// yamlWhitespace records the two valid YAML whitespace characters.
const yamlWhitespace = " \t"

// FileSpec is the parsed content of one spec file.
type FileSpec struct {
	// Path is the file's path relative to the repository root.
	Path string
	// Specs are the resources the file declares, in document order. Empty
	// when Err is set.
	Specs []*unstructured.Unstructured
	// Err is the parse failure that caused this file to be skipped, nil for
	// files that parsed cleanly. One malformed file never hides the rest of
	// a snapshot; callers accumulate these into their batch result.
	Err status.Error
}

func isSpecName(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// IsSpecFile reports whether path names a root-level spec file. Files in
// subdirectories never participate in a sync; the spec store is flat.
func IsSpecFile(path string) bool {
	return !strings.Contains(path, "/") && isSpecName(path)
}

// SpecFiles lists the worktree's root-level spec files, sorted by name.
func (r *Repository) SpecFiles() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, status.SourceError(err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isSpecName(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Specs parses the worktree's spec files into per-file results. Parse
// failures are recorded on the FileSpec instead of failing the enumeration;
// the returned error reports Git or filesystem failures only.
func (r *Repository) Specs() ([]FileSpec, error) {
	files, err := r.SpecFiles()
	if err != nil {
		return nil, err
	}
	result := make([]FileSpec, 0, len(files))
	for _, name := range files {
		contents, err := r.ReadFile(name)
		if err != nil {
			return nil, err
		}
		result = append(result, newFileSpec(name, contents))
	}
	return result, nil
}

// SpecsAt parses the spec files recorded at rev, same contract as Specs but
// reading a commit's tree instead of the checkout.
func (r *Repository) SpecsAt(rev string) ([]FileSpec, error) {
	commit, err := r.resolve(rev)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to read tree of commit %s", commit.Hash)
	}
	var names []string
	for _, entry := range tree.Entries {
		if !entry.Mode.IsFile() || !isSpecName(entry.Name) {
			continue
		}
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	result := make([]FileSpec, 0, len(names))
	for _, name := range names {
		file, err := tree.File(name)
		if err != nil {
			return nil, status.SourceErrorf(err, "unable to read %q at %s", name, commit.Hash)
		}
		contents, err := file.Contents()
		if err != nil {
			return nil, status.SourceErrorf(err, "unable to read %q at %s", name, commit.Hash)
		}
		result = append(result, newFileSpec(name, []byte(contents)))
	}
	return result, nil
}

// FileAt returns the contents of path as recorded at rev. Absence of the
// file at that revision is reported as os.ErrNotExist so callers can treat
// it as an empty snapshot side.
func (r *Repository) FileAt(rev, path string) ([]byte, error) {
	commit, err := r.resolve(rev)
	if err != nil {
		return nil, err
	}
	file, err := commit.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%q at %s: %w", path, rev, os.ErrNotExist)
	}
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to read %q at %s", path, rev)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, status.SourceErrorf(err, "unable to read %q at %s", path, rev)
	}
	return []byte(contents), nil
}

func newFileSpec(path string, contents []byte) FileSpec {
	specs, err := ParseSpecs(path, contents)
	return FileSpec{Path: path, Specs: specs, Err: err}
}

// Resources flattens parsed file specs into a single resource list. Files
// that failed to parse contribute nothing.
func Resources(files []FileSpec) []*unstructured.Unstructured {
	var result []*unstructured.Unstructured
	for _, file := range files {
		result = append(result, file.Specs...)
	}
	return result
}

// ParseErrors collects the parse failures in files.
func ParseErrors(files []FileSpec) status.MultiError {
	var errs status.MultiError
	for _, file := range files {
		if file.Err != nil {
			errs = status.Append(errs, file.Err)
		}
	}
	return errs
}

// ParseSpecs parses the contents of the named spec file into unstructured
// resources. YAML files may hold multiple documents; JSON files hold exactly
// one object. Files with other extensions parse to nothing.
func ParseSpecs(path string, contents []byte) ([]*unstructured.Unstructured, status.Error) {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return parseYAML(path, contents)
	case ".json":
		return parseJSON(path, contents)
	default:
		return nil, nil
	}
}

func parseYAML(path string, contents []byte) ([]*unstructured.Unstructured, status.Error) {
	// We have to manually split documents with the YAML separator since by
	// default yaml.Unmarshal only unmarshalls the first document, but a file
	// may contain multiple.
	var result []*unstructured.Unstructured

	// A newline followed by triple-dash begins a new YAML document, so this is safe.
	documents := strings.Split(string(contents), "\n---")
	for _, document := range documents {
		if isEmptyYAMLDocument(document) {
			// Kubernetes ignores empty documents.
			continue
		}

		var u unstructured.Unstructured
		if _, _, err := scheme.Codecs.UniversalDeserializer().Decode([]byte(document), nil, &u); err != nil {
			return nil, status.ObjectParseError(path, err)
		}
		result = append(result, &u)
	}
	return result, nil
}

func parseJSON(path string, contents []byte) ([]*unstructured.Unstructured, status.Error) {
	if len(contents) == 0 {
		// While an empty file is not valid JSON, Kubernetes allows empty
		// JSON files when applying multiple files.
		return nil, nil
	}
	// Kubernetes does not recognize arrays of Kubernetes objects in JSON
	// files. A single file must contain exactly one object, so we don't have
	// to do the same work we had to do for YAML.
	var u unstructured.Unstructured
	if err := u.UnmarshalJSON(contents); err != nil {
		return nil, status.ObjectParseError(path, err)
	}
	return []*unstructured.Unstructured{&u}, nil
}

func isEmptyYAMLDocument(document string) bool {
	lines := strings.Split(document, "\n")
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, yamlWhitespace)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "#") {
			// Ignore empty/whitespace-only/comment lines.
			continue
		}
		return false
	}
	return true
}
