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

package cluster

import (
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
)

// NewRESTClient returns a rest.Interface rooted at the server base URL.
// Requests then address resources through the full paths the path table
// resolves, for any group, instead of a single group-version prefix.
func NewRESTClient(config *rest.Config) (rest.Interface, error) {
	cfg := rest.CopyConfig(config)
	cfg.APIPath = "/"
	cfg.GroupVersion = &schema.GroupVersion{}
	cfg.NegotiatedSerializer = scheme.Codecs.WithoutConversion()

	restClient, err := rest.UnversionedRESTClientFor(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create REST client")
	}
	return restClient, nil
}
