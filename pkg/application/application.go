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

// Package application models a deployable application and synthesizes the
// Kubernetes resource specs that deploy it.
//
// The synthesized set mirrors what the hosted deployment flow creates for
// an application: a Namespace when the application does not deploy into
// "default", a ServiceAccount, an RBAC pair when role configuration is
// present, a Service when a port is exposed, and a Deployment. Each
// resource starts from a typed k8s.io/api struct and is then overlaid with
// the application's raw JSON fragment for that kind, fragment fields
// winning.
package application

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"

	"atomist.com/k8sync/pkg/ingress"
	"atomist.com/k8sync/pkg/status"
)

// Application is the deployment request for one application. The JSON field
// names follow the application-data wire format, so a partial document
// parses into a partial Application and merges cleanly.
type Application struct {
	// Workspace identifies the owning workspace.
	Workspace string `json:"workspaceId,omitempty"`
	// Name of the application. Every synthesized resource shares it.
	Name string `json:"name,omitempty"`
	// Namespace the application deploys into.
	Namespace string `json:"ns,omitempty"`
	// Image is the full container image reference to deploy.
	Image string `json:"image,omitempty"`
	// Port the container listens on. Zero means the application exposes no
	// Service.
	Port int32 `json:"port,omitempty"`
	// Replicas for the Deployment. Zero means one.
	Replicas int32 `json:"replicas,omitempty"`
	// Path is the ingress path the application claims. Empty means the
	// application does not participate in the shared ingress.
	Path string `json:"path,omitempty"`
	// Host restricts the ingress rule to one host. Empty claims the
	// wildcard rule.
	Host string `json:"host,omitempty"`
	// Protocol of the exposed endpoint, http or https.
	Protocol string `json:"protocol,omitempty"`
	// TLSSecret names the TLS Secret serving the host.
	TLSSecret string `json:"tlsSecret,omitempty"`

	// Raw JSON fragments merged over the synthesized resource of the same
	// kind. IngressSpec is merged over the shared-ingress patch instead,
	// since the application never owns an Ingress object of its own.
	DeploymentSpec     json.RawMessage `json:"deploymentSpec,omitempty"`
	ServiceSpec        json.RawMessage `json:"serviceSpec,omitempty"`
	IngressSpec        json.RawMessage `json:"ingressSpec,omitempty"`
	RoleSpec           json.RawMessage `json:"roleSpec,omitempty"`
	ServiceAccountSpec json.RawMessage `json:"serviceAccountSpec,omitempty"`
	RoleBindingSpec    json.RawMessage `json:"roleBindingSpec,omitempty"`
}

// Slug returns the namespace-qualified identifier of the application.
func (a *Application) Slug() string {
	return a.Namespace + "/" + a.Name
}

// Validate reports the first field the application is missing for resource
// synthesis.
func (a *Application) Validate() status.Error {
	switch {
	case a.Name == "":
		return status.MissingApplicationFieldError("name", a.Slug())
	case a.Namespace == "":
		return status.MissingApplicationFieldError("ns", a.Slug())
	case a.Image == "":
		return status.MissingApplicationFieldError("image", a.Slug())
	}
	return nil
}

// Route returns the shared-ingress claim the application makes. The second
// return is false when the application does not expose itself through the
// ingress.
func (a *Application) Route() (ingress.Route, bool) {
	if a.Path == "" {
		return ingress.Route{}, false
	}
	return ingress.Route{
		Host:      a.Host,
		Path:      a.Path,
		Service:   a.Name,
		Port:      a.Port,
		TLSSecret: a.TLSSecret,
	}, true
}

// Merge combines application configurations, later values taking precedence
// field by field. Zero-valued fields in an override leave the base value in
// place, matching JSON merge-patch semantics over the wire format.
func Merge(base Application, overrides ...Application) (Application, status.Error) {
	merged, err := json.Marshal(base)
	if err != nil {
		return Application{}, status.InternalWrap(err)
	}
	for _, override := range overrides {
		doc, mErr := json.Marshal(override)
		if mErr != nil {
			return Application{}, status.InternalWrap(mErr)
		}
		merged, mErr = jsonpatch.MergePatch(merged, doc)
		if mErr != nil {
			return Application{}, status.InternalWrap(mErr)
		}
	}
	var out Application
	if uErr := json.Unmarshal(merged, &out); uErr != nil {
		return Application{}, status.InternalWrap(uErr)
	}
	return out, nil
}
