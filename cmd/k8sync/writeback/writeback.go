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

package writeback

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"atomist.com/k8sync/cmd/k8sync/flags"
	"atomist.com/k8sync/pkg/application"
	"atomist.com/k8sync/pkg/gitrepo"
	"atomist.com/k8sync/pkg/secrets"
	"atomist.com/k8sync/pkg/sync"
)

const (
	resourcesFlag    = "resources"
	actionFlag       = "action"
	appFlag          = "app"
	appNamespaceFlag = "app-namespace"
)

var (
	resources    []string
	action       string
	appName      string
	appNamespace string

	v = flags.NewViper()
)

func init() {
	Cmd.Flags().StringSliceVar(&resources, resourcesFlag, nil,
		"Resource spec files to record, JSON or YAML (repeatable)")
	Cmd.Flags().StringVar(&action, actionFlag, string(sync.ActionUpsert),
		"Write-back action: upsert records the specs, delete removes their files")
	Cmd.Flags().StringVar(&appName, appFlag, "",
		"Application the resources belong to, named in the commit message")
	Cmd.Flags().StringVar(&appNamespace, appNamespaceFlag, "default",
		"Namespace of the application")
	_ = v.BindPFlag(resourcesFlag, Cmd.Flags().Lookup(resourcesFlag))
	_ = v.BindPFlag(actionFlag, Cmd.Flags().Lookup(actionFlag))
	_ = v.BindPFlag(appFlag, Cmd.Flags().Lookup(appFlag))
	_ = v.BindPFlag(appNamespaceFlag, Cmd.Flags().Lookup(appNamespaceFlag))
}

// Cmd is the Cobra object representing the k8sync writeback command.
var Cmd = &cobra.Command{
	Use:   "writeback",
	Short: "Record actuated resource specs in the sync repository",
	Long: `Record actuated resource specs in the sync repository
Upserts each resource into the spec file already declaring it, preserving
that file's format, or into a newly named file; delete removes the declaring
files. Changes are committed with this controller's sync tag and pushed, so
the next forward sync recognizes and skips the commit.
`,
	Example: `  k8sync writeback --app=api --app-namespace=prod --resources=deploy.json
  k8sync writeback --app=api --action=delete --resources=deploy.json,svc.yaml`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Don't show usage on error, as argument validation passed.
		cmd.SilenceUsage = true

		return runWriteBack(cmd.Context(),
			v.GetStringSlice(resourcesFlag), v.GetString(actionFlag),
			v.GetString(appFlag), v.GetString(appNamespaceFlag))
	},
}

func runWriteBack(ctx context.Context, paths []string, actionName, appName, appNamespace string) error {
	wbAction, err := parseAction(actionName)
	if err != nil {
		return err
	}
	if appName == "" {
		return fmt.Errorf("--%s is required", appFlag)
	}
	if len(paths) == 0 {
		return fmt.Errorf("at least one --%s file is required", resourcesFlag)
	}

	var specs []*unstructured.Unstructured
	for _, path := range paths {
		contents, rErr := os.ReadFile(path)
		if rErr != nil {
			return errors.Wrapf(rErr, "failed to read %s", path)
		}
		parsed, pErr := gitrepo.ParseSpecs(path, contents)
		if pErr != nil {
			return pErr
		}
		specs = append(specs, parsed...)
	}

	repo, err := gitrepo.CloneOrOpen(ctx, flags.RepoDir(), flags.RepoOptions())
	if err != nil {
		return err
	}
	syncer := &sync.Syncer{
		Controller: flags.Controller(),
		Repo:       repo,
		Cipher:     secrets.New(flags.SecretKey()),
	}
	app := &application.Application{Name: appName, Namespace: appNamespace}
	if errs := syncer.WriteBack(ctx, app, specs, wbAction); errs != nil {
		return errs
	}
	return nil
}

func parseAction(name string) (sync.Action, error) {
	switch wbAction := sync.Action(strings.ToLower(name)); wbAction {
	case sync.ActionUpsert, sync.ActionDelete:
		return wbAction, nil
	default:
		return "", fmt.Errorf("unrecognized write-back action %q, want %q or %q",
			name, sync.ActionUpsert, sync.ActionDelete)
	}
}
