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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atomist.com/k8sync/cmd/k8sync/flags"
	"atomist.com/k8sync/cmd/k8sync/plan"
	"atomist.com/k8sync/cmd/k8sync/sync"
	"atomist.com/k8sync/cmd/k8sync/version"
	"atomist.com/k8sync/cmd/k8sync/writeback"
	"atomist.com/k8sync/pkg/api/k8sync"
	"atomist.com/k8sync/pkg/util/log"
	pkgversion "atomist.com/k8sync/pkg/version"
)

const (
	// versionTemplate is the template used when "k8sync --version" is invoked.
	// The default template outputs "k8sync version <VERSION>". This just
	// outputs "<VERSION>" for easier programmatic use.
	versionTemplate = `{{.Version}}
`
)

var (
	rootCmd = &cobra.Command{
		Use:     k8sync.CLIName,
		Version: pkgversion.VERSION,
		Short: fmt.Sprintf(
			"Keep a cluster and a Git spec repository in sync (version %v)", pkgversion.VERSION),
	}
)

func init() {
	rootCmd.SetVersionTemplate(versionTemplate)
	flags.AddEngineFlags(rootCmd)
	rootCmd.AddCommand(sync.Cmd)
	rootCmd.AddCommand(plan.Cmd)
	rootCmd.AddCommand(writeback.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	// Use the default flag set, because some libs register flags with init.
	fs := flag.CommandLine

	// Register klog flags
	log.Setup(fs)

	// Cobra uses the pflag lib, instead of the go flag lib.
	// So re-register all go flags as global (aka persistent) pflags.
	rootCmd.PersistentFlags().AddGoFlagSet(fs)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
