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

package restconfig

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

const kubectlConfigPath = ".kube/config"

// The function to use to get default current user.  Can be changed for tests.
var userCurrentTestHook = defaultGetCurrentUser

func defaultGetCurrentUser() (*user.User, error) {
	return user.Current()
}

// KubeConfigPath returns the path to the kubeconfig:
// 1. ${KUBECONFIG}, if non-empty
// 2. ${userCurrentTestHook.HomeDir}/.kube/config, if userCurrentTestHook is set
// 3. ${HOME}/.kube/config
func KubeConfigPath() (string, error) {
	envPath := os.Getenv("KUBECONFIG")
	if envPath != "" {
		return envPath, nil
	}
	currentUser, err := userCurrentTestHook()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	path := filepath.Join(currentUser.HomeDir, kubectlConfigPath)
	return path, nil
}

// newRawConfigWithRules returns a clientcmdapi.Config from a configuration file whose path is
// provided by KubeConfigPath, and the clientcmd.ClientConfigLoadingRules associated with it
func newRawConfigWithRules() (*clientcmdapi.Config, *clientcmd.ClientConfigLoadingRules, error) {
	configPath, err := KubeConfigPath()
	if err != nil {
		return nil, nil, fmt.Errorf("while getting config path: %w", err)
	}

	rules := &clientcmd.ClientConfigLoadingRules{Precedence: filepath.SplitList(configPath)}
	clientCfg := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{})
	apiCfg, err := clientCfg.RawConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("while building client config: %w", err)
	}

	return &apiCfg, rules, nil
}

// CurrentContextName returns the name of the currently active k8s context as a string
// Can be changed in tests by reassigning this pointer.
var CurrentContextName = currentContextNameFromConfig

// currentContextNameFromConfig returns the name of the user's currently active context as a string.
// This information is read from the local kubeconfig file.
func currentContextNameFromConfig() (string, error) {
	apiCfg, _, err := newRawConfigWithRules()
	if err != nil {
		return "", err
	}
	return apiCfg.CurrentContext, nil
}
