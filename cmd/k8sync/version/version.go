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

package version

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"atomist.com/k8sync/cmd/k8sync/flags"
	"atomist.com/k8sync/cmd/k8sync/util"
	"atomist.com/k8sync/pkg/restconfig"
	"atomist.com/k8sync/pkg/syncpack"
	"atomist.com/k8sync/pkg/version"
)

var skipAPIServer bool

func init() {
	Cmd.Flags().BoolVar(&skipAPIServer, "no-api-server-check", false,
		"Skip querying the cluster API server for its version")
}

var (
	// clientVersion is a function that obtains the local client version.
	clientVersion = func() string {
		return version.VERSION
	}

	// serverVersion obtains the API server version of the cluster the
	// current kubectl context points at. It is a var for stubbing in tests.
	serverVersion = lookupServerVersion

	// Cmd is the Cobra object representing the k8sync version command.
	Cmd = &cobra.Command{
		Use:   "version",
		Short: "Prints the version of the cluster API server as well as this CLI",
		Long: `Prints the version of the cluster API server behind the current kubectl
context and the version of the "k8sync" client binary for debugging purposes.`,
		Example: `  k8sync version`,
		Args:    cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Don't show usage on error, as argument validation passed.
			cmd.SilenceUsage = true

			runVersion(cmd.Context(), os.Stdout)
			return nil
		},
	}
)

func runVersion(ctx context.Context, out io.Writer) {
	format := "%s\t%s\n"
	w := util.NewWriter(out)
	util.MustFprintf(w, format, "COMPONENT", "VERSION")
	util.MustFprintf(w, format, "<k8sync CLI>", clientVersion())
	if !skipAPIServer {
		util.MustFprintf(w, format, "<API server>", serverVersion(ctx))
	}
	if err := w.Flush(); err != nil {
		klog.Errorf("error on Flush(): %v", err)
	}
}

// lookupServerVersion reports the cluster's version string, or a placeholder
// when the cluster cannot be reached.
func lookupServerVersion(ctx context.Context) string {
	cfg, err := restconfig.NewRestConfig(flags.ClientTimeout())
	if err != nil {
		klog.V(1).Infof("Failed to build a rest config: %v", err)
		return util.UnknownMsg
	}
	pack, err := syncpack.Configure(ctx, syncpack.Options{RestConfig: cfg})
	if err != nil {
		klog.V(1).Infof("Failed to configure a cluster client: %v", err)
		return util.ErrorMsg
	}
	info, sErr := pack.ClusterVersion()
	if sErr != nil {
		klog.V(1).Infof("Failed to query the API server version: %v", sErr)
		return util.ErrorMsg
	}
	return info.GitVersion
}
