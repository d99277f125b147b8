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
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/core/k8sobjects"
	"atomist.com/k8sync/pkg/diff"
	"atomist.com/k8sync/pkg/gitrepo"
	"atomist.com/k8sync/pkg/kinds"
	"atomist.com/k8sync/pkg/metadata"
	"atomist.com/k8sync/pkg/secrets"
	"atomist.com/k8sync/pkg/testing/k8sfake"
)

const serviceAccountYAML = `apiVersion: v1
kind: ServiceAccount
metadata:
  name: api
  namespace: prod
`

func TestWriteBackUpsertPreservesDeclaringFileFormat(t *testing.T) {
	repo := specRepo(t, map[string]string{"10-prod-namespace.yaml": namespaceYAML})
	s := &Syncer{Controller: testController, Repo: repo}

	labeled := k8sobjects.UnstructuredObject(kinds.Namespace(), core.Name("prod"), core.Label("team", "sre"))
	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{labeled}, ActionUpsert)
	require.NoError(t, errs)

	// The declaring file was overwritten in place, still as YAML.
	files, err := repo.SpecFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"10-prod-namespace.yaml"}, files)

	contents, err := repo.ReadFile("10-prod-namespace.yaml")
	require.NoError(t, err)
	require.Contains(t, string(contents), "kind: Namespace")
	require.Contains(t, string(contents), "team: sre")
	require.NotContains(t, string(contents), `"kind"`)

	// The change was committed with the application slug and the controller's
	// sync tag.
	clean, err := repo.IsClean()
	require.NoError(t, err)
	require.True(t, clean)

	message, err := repo.CommitMessage("")
	require.NoError(t, err)
	require.Contains(t, message, "Update specs for prod/api")
	require.True(t, metadata.IsSyncCommit(message, testController))
}

func TestWriteBackUpsertSynthesizesFileForNewResource(t *testing.T) {
	repo := specRepo(t, map[string]string{"10-prod-namespace.yaml": namespaceYAML})
	s := &Syncer{Controller: testController, Repo: repo}

	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{deploymentSpec("api")}, ActionUpsert)
	require.NoError(t, errs)

	files, err := repo.SpecFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"10-prod-namespace.yaml", "70-prod-api-deployment.json"}, files)

	contents, err := repo.ReadFile("70-prod-api-deployment.json")
	require.NoError(t, err)
	require.Contains(t, string(contents), `"kind": "Deployment"`)

	// The unrelated file is untouched.
	nsContents, err := repo.ReadFile("10-prod-namespace.yaml")
	require.NoError(t, err)
	require.Equal(t, namespaceYAML, string(nsContents))
}

func TestWriteBackSkipsMultiDocumentFiles(t *testing.T) {
	multiDoc := namespaceYAML + "---\n" + serviceAccountYAML
	repo := specRepo(t, map[string]string{"00-prod.yaml": multiDoc})
	s := &Syncer{Controller: testController, Repo: repo}

	labeled := k8sobjects.UnstructuredObject(kinds.Namespace(), core.Name("prod"), core.Label("team", "sre"))
	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{labeled}, ActionUpsert)
	require.NoError(t, errs)

	// The hand-authored multi-document file is never rewritten; the resource
	// lands in its own file instead.
	files, err := repo.SpecFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"00-prod.yaml", "10-prod-namespace.json"}, files)

	contents, err := repo.ReadFile("00-prod.yaml")
	require.NoError(t, err)
	require.Equal(t, multiDoc, string(contents))
}

func TestWriteBackDeleteRemovesDeclaringFile(t *testing.T) {
	repo := specRepo(t, map[string]string{
		"10-prod-namespace.yaml":      namespaceYAML,
		"70-prod-api-deployment.json": deploymentJSON,
	})
	s := &Syncer{Controller: testController, Repo: repo}

	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{deploymentSpec("api")}, ActionDelete)
	require.NoError(t, errs)

	files, err := repo.SpecFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"10-prod-namespace.yaml"}, files)

	clean, err := repo.IsClean()
	require.NoError(t, err)
	require.True(t, clean)

	// Deleting a resource no file declares is a no-op and commits nothing.
	head, err := repo.Head()
	require.NoError(t, err)
	errs = s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{serviceSpec("api")}, ActionDelete)
	require.NoError(t, errs)
	after, err := repo.Head()
	require.NoError(t, err)
	require.Equal(t, head, after)
}

func TestWriteBackUnchangedContentCommitsNothing(t *testing.T) {
	repo := specRepo(t, map[string]string{"10-prod-namespace.yaml": namespaceYAML})
	s := &Syncer{Controller: testController, Repo: repo}
	deploy := deploymentSpec("api")

	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{deploy}, ActionUpsert)
	require.NoError(t, errs)
	head, err := repo.Head()
	require.NoError(t, err)

	// The store already matches, so the second pass leaves the history alone.
	errs = s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{deploy}, ActionUpsert)
	require.NoError(t, errs)
	after, err := repo.Head()
	require.NoError(t, err)
	require.Equal(t, head, after)
}

func TestWriteBackEncryptsSecrets(t *testing.T) {
	repo := specRepo(t, map[string]string{"10-prod-namespace.yaml": namespaceYAML})
	cipher := secrets.New("sync-key")
	s := &Syncer{Controller: testController, Repo: repo, Cipher: cipher}

	secret := secretSpec(t, "creds", map[string]string{"password": "aHVudGVyMg=="})
	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{secret}, ActionUpsert)
	require.NoError(t, errs)

	// No plaintext in the store.
	contents, err := repo.ReadFile("60-prod-creds-secret.json")
	require.NoError(t, err)
	require.NotContains(t, string(contents), "aHVudGVyMg==")
	require.Contains(t, string(contents), "AGE ENCRYPTED FILE")

	// The stored ciphertext still round-trips through the cipher.
	files, err := repo.Specs()
	require.NoError(t, err)
	var stored *unstructured.Unstructured
	for _, file := range files {
		if file.Path == "60-prod-creds-secret.json" {
			require.NoError(t, file.Err)
			require.Len(t, file.Specs, 1)
			stored = file.Specs[0]
		}
	}
	require.NotNil(t, stored)
	decrypted, dErr := cipher.Decrypt(stored)
	require.NoError(t, dErr)
	data, found, err := unstructured.NestedStringMap(decrypted.Object, "data")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "aHVudGVyMg==", data["password"])

	// The caller's copy keeps its plaintext.
	data, _, err = unstructured.NestedStringMap(secret.Object, "data")
	require.NoError(t, err)
	require.Equal(t, "aHVudGVyMg==", data["password"])
}

func TestWriteBackPushesToRemote(t *testing.T) {
	dir := t.TempDir()
	gitRepo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	bareDir := t.TempDir()
	_, err = git.PlainInit(bareDir, true)
	require.NoError(t, err)
	_, err = gitRepo.CreateRemote(&config.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{bareDir},
	})
	require.NoError(t, err)
	repo, err := gitrepo.Open(dir, gitrepo.Options{CommitterName: "tester", CommitterEmail: "tester@example.com"})
	require.NoError(t, err)
	commitSpecs(t, repo, "initial specs", map[string]string{"10-prod-namespace.yaml": namespaceYAML})

	s := &Syncer{Controller: testController, Repo: repo}
	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{deploymentSpec("api")}, ActionUpsert)
	require.NoError(t, errs)

	head, err := repo.Head()
	require.NoError(t, err)
	bare, err := git.PlainOpen(bareDir)
	require.NoError(t, err)
	ref, err := bare.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.NoError(t, err)
	require.Equal(t, head, ref.Hash().String())
}

func TestWriteBackCommitSkippedByForwardSync(t *testing.T) {
	repo := specRepo(t, map[string]string{"10-prod-namespace.yaml": namespaceYAML})
	server := k8sfake.New()
	s := testSyncer(server)
	s.Repo = repo

	errs := s.WriteBack(context.Background(), testApp(), []*unstructured.Unstructured{deploymentSpec("api")}, ActionUpsert)
	require.NoError(t, errs)

	// HEAD is now this controller's own write-back; forward sync must leave
	// the cluster alone instead of re-actuating its own output.
	require.NoError(t, s.SyncRange(context.Background(), "", "", diff.ModeApply))
	require.Empty(t, server.Requests())
}
