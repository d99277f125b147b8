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

package plan

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"atomist.com/k8sync/cmd/k8sync/flags"
	"atomist.com/k8sync/cmd/k8sync/util"
	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/diff"
	"atomist.com/k8sync/pkg/gitrepo"
	"atomist.com/k8sync/pkg/sync"
)

const (
	fromRevFlag = "from-rev"
	toRevFlag   = "to-rev"
	modeFlag    = "mode"
)

var (
	fromRev string
	toRev   string
	mode    string

	v = flags.NewViper()
)

func init() {
	Cmd.Flags().StringVar(&fromRev, fromRevFlag, "",
		"Revision the cluster currently reflects; empty plans the whole snapshot at --to-rev")
	Cmd.Flags().StringVar(&toRev, toRevFlag, "",
		"Revision to plan toward; empty means the checked-out head")
	Cmd.Flags().StringVar(&mode, modeFlag, string(diff.ModeApply),
		"Sync direction: apply converges toward the snapshot, delete removes it")
	_ = v.BindPFlag(fromRevFlag, Cmd.Flags().Lookup(fromRevFlag))
	_ = v.BindPFlag(toRevFlag, Cmd.Flags().Lookup(toRevFlag))
	_ = v.BindPFlag(modeFlag, Cmd.Flags().Lookup(modeFlag))
}

// Cmd is the Cobra object representing the k8sync plan command.
var Cmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the changes a sync would actuate, without touching the cluster",
	Long: `Print the changes a sync would actuate, without touching the cluster
Computes the same change records the sync command would, in the order they
would be actuated, and prints them. When a revision range is given the spec
files changed across it are listed as well. The cluster is never contacted.
`,
	Example: `  k8sync plan
  k8sync plan --from-rev=4ac1afd --to-rev=main`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Don't show usage on error, as argument validation passed.
		cmd.SilenceUsage = true

		syncMode, err := diff.ParseMode(v.GetString(modeFlag))
		if err != nil {
			return err
		}
		repo, err := gitrepo.CloneOrOpen(cmd.Context(), flags.RepoDir(), flags.RepoOptions())
		if err != nil {
			return err
		}
		return writePlan(cmd.OutOrStdout(), repo, flags.Controller(),
			v.GetString(fromRevFlag), v.GetString(toRevFlag), syncMode)
	},
}

func writePlan(out io.Writer, repo *gitrepo.Repository, controller, fromRev, toRev string, mode diff.Mode) error {
	syncer := &sync.Syncer{Controller: controller, Repo: repo}
	records, sha, errs := syncer.Plan(fromRev, toRev, mode)

	// Present records in actuation order.
	sorted := make([]diff.ChangeRecord, len(records))
	copy(sorted, records)
	diff.SortRecords(sorted)

	w := util.NewWriter(out)
	util.MustFprintf(w, "ACTION\tRESOURCE\n")
	for _, record := range sorted {
		util.MustFprintf(w, "%s\t%s\n", strings.ToUpper(string(record.Type)), core.IDOf(record.Spec))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// With a range given, the per-commit file changes explain where each
	// record came from. A full-snapshot plan has no delta to attribute.
	if fromRev != "" {
		diffs, dErr := repo.ChangedFilesBetween(fromRev, toRev)
		if dErr != nil {
			return dErr
		}
		fw := util.NewWriter(out)
		util.MustFprintf(fw, "\nCHANGE\tSPEC FILE\n")
		for _, fd := range diffs {
			util.MustFprintf(fw, "%s\t%s\n", strings.ToUpper(string(fd.Type)), fd.Path)
		}
		if err := fw.Flush(); err != nil {
			return err
		}
	}

	util.MustFprintf(out, "\n%d change(s) at commit %s\n", len(sorted), sha)
	if errs != nil {
		return errs
	}
	return nil
}
