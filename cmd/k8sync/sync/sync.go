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

package sync

import (
	"context"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"atomist.com/k8sync/cmd/k8sync/flags"
	"atomist.com/k8sync/pkg/api/k8sync"
	"atomist.com/k8sync/pkg/diff"
	"atomist.com/k8sync/pkg/restconfig"
	"atomist.com/k8sync/pkg/syncpack"
	"atomist.com/k8sync/pkg/util/log"
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
		"Revision the cluster currently reflects; empty applies the whole snapshot at --to-rev")
	Cmd.Flags().StringVar(&toRev, toRevFlag, "",
		"Revision to converge the cluster toward; empty means the checked-out head")
	Cmd.Flags().StringVar(&mode, modeFlag, string(diff.ModeApply),
		"Sync direction: apply converges toward the snapshot, delete removes it")
	_ = v.BindPFlag(fromRevFlag, Cmd.Flags().Lookup(fromRevFlag))
	_ = v.BindPFlag(toRevFlag, Cmd.Flags().Lookup(toRevFlag))
	_ = v.BindPFlag(modeFlag, Cmd.Flags().Lookup(modeFlag))
}

// Cmd is the Cobra object representing the k8sync sync command.
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Converge the cluster onto the sync repository's spec snapshot",
	Long: `Converge the cluster onto the sync repository's spec snapshot
Reads the resource specs committed between two revisions of the sync
repository, computes the changes the cluster needs, and actuates them in
kind priority order. A target commit produced by this controller's own
write-back is skipped.
`,
	Example: `  k8sync sync
  k8sync sync --from-rev=4ac1afd --to-rev=main
  k8sync sync --mode=delete`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Don't show usage on error, as argument validation passed.
		cmd.SilenceUsage = true

		return runSync(cmd.Context(), v.GetString(fromRevFlag), v.GetString(toRevFlag), v.GetString(modeFlag))
	},
}

func runSync(ctx context.Context, fromRev, toRev, modeName string) error {
	syncMode, err := diff.ParseMode(modeName)
	if err != nil {
		return err
	}
	log.Preamble()

	// The whole pass runs under one deadline. A run cut off mid-batch leaves
	// the cluster partially converged; the next run picks up the remainder.
	ctx, cancel := context.WithTimeout(ctx, k8sync.DefaultSyncTimeout)
	defer cancel()

	cfg, err := restconfig.NewRestConfig(flags.ClientTimeout())
	if err != nil {
		return err
	}
	if name, cErr := restconfig.CurrentContextName(); cErr == nil && name != "" {
		klog.V(1).Infof("Syncing against cluster context %q", name)
	}

	opts := flags.PackOptions()
	opts.RestConfig = cfg
	pack, err := syncpack.Configure(ctx, opts)
	if err != nil {
		return err
	}
	if errs := pack.Syncer.SyncRange(ctx, fromRev, toRev, syncMode); errs != nil {
		return errs
	}
	return nil
}
