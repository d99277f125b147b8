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

package log

import (
	"flag"

	"k8s.io/klog/v2"

	"atomist.com/k8sync/pkg/version"
)

// Setup registers klog's flags into fs and defaults to stderr logging.
// Binaries re-register fs into their command-line flags before parsing.
func Setup(fs *flag.FlagSet) {
	klog.InitFlags(fs)
	if err := fs.Set("logtostderr", "true"); err != nil {
		klog.Fatal(err)
	}
}

// Preamble logs the build version. Long-running operations call it once at
// startup so logs identify the build that produced them.
func Preamble() {
	klog.Infof("Build Version: %s", version.VERSION)
}
