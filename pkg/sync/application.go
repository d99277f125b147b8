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

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/klog/v2"

	"atomist.com/k8sync/pkg/application"
	"atomist.com/k8sync/pkg/cluster"
	"atomist.com/k8sync/pkg/diff"
	"atomist.com/k8sync/pkg/ingress"
	"atomist.com/k8sync/pkg/status"
	"atomist.com/k8sync/pkg/util/log"
)

// ApplyApplication converges the cluster onto the application: its
// synthesized resource set is applied in priority order, then its route
// claim is merged into the shared Ingress. The applied specs are returned so
// callers can write them back to the spec store. Per-resource failures are
// collected; the route is still attempted after them.
func (s *Syncer) ApplyApplication(ctx context.Context, app *application.Application) ([]*unstructured.Unstructured, status.MultiError) {
	specs, err := app.Resources(s.Controller)
	if err != nil {
		return nil, status.Append(nil, err)
	}
	klog.V(1).Infof("Deploying application %s (%d resource(s))", app.Slug(), len(specs))
	errs := s.Execute(ctx, records(specs, diff.Apply), "")
	if routeErr := s.applyRoute(ctx, app); routeErr != nil {
		errs = status.Append(errs, routeErr)
	}
	return specs, errs
}

// DeleteApplication removes the application from the cluster. Its route is
// withdrawn from the shared Ingress first so traffic stops before the
// Service behind it disappears, then the resource set is deleted. The
// deleted specs are returned so callers can clear their spec files.
func (s *Syncer) DeleteApplication(ctx context.Context, app *application.Application) ([]*unstructured.Unstructured, status.MultiError) {
	specs, err := app.Resources(s.Controller)
	if err != nil {
		return nil, status.Append(nil, err)
	}
	klog.V(1).Infof("Undeploying application %s (%d resource(s))", app.Slug(), len(specs))
	var errs status.MultiError
	if routeErr := s.removeRoute(ctx, app); routeErr != nil {
		errs = status.Append(errs, routeErr)
	}
	if execErrs := s.Execute(ctx, records(specs, diff.Delete), ""); execErrs != nil {
		errs = status.Append(errs, execErrs)
	}
	return specs, errs
}

func records(specs []*unstructured.Unstructured, changeType diff.ChangeType) []diff.ChangeRecord {
	result := make([]diff.ChangeRecord, 0, len(specs))
	for _, spec := range specs {
		result = append(result, diff.ChangeRecord{Type: changeType, Spec: spec})
	}
	return result
}

// applyRoute merges the application's route claim into the shared Ingress.
// When no Ingress is live yet, the merge starts from the identity-only stub
// and the resulting patch creates it.
func (s *Syncer) applyRoute(ctx context.Context, app *application.Application) status.Error {
	route, ok := app.Route()
	if !ok {
		return nil
	}
	live, err := s.Client.Read(ctx, s.sharedIngressStub())
	switch {
	case cluster.IsNotFound(err):
		live = s.sharedIngressStub()
	case err != nil:
		return err
	}
	patch, mErr := ingress.Merge(live, route)
	if mErr != nil {
		return mErr
	}
	if patch == nil {
		klog.V(3).Infof("Shared ingress already routes %s%s to service %q", route.Host, route.Path, route.Service)
		return nil
	}
	patch, oErr := app.OverlayIngress(patch)
	if oErr != nil {
		return oErr
	}
	klog.V(5).Infof("Shared ingress patch for %s: %s", app.Slug(), log.AsJSON(patch))
	return s.Client.Apply(ctx, patch)
}

// removeRoute withdraws the application's route claim from the shared
// Ingress. A missing Ingress or an unclaimed route is already converged.
func (s *Syncer) removeRoute(ctx context.Context, app *application.Application) status.Error {
	route, ok := app.Route()
	if !ok {
		return nil
	}
	live, err := s.Client.Read(ctx, s.sharedIngressStub())
	switch {
	case cluster.IsNotFound(err):
		return nil
	case err != nil:
		return err
	}
	patch, rErr := ingress.Remove(live, route)
	if rErr != nil {
		return rErr
	}
	if patch == nil {
		return nil
	}
	return s.Client.Apply(ctx, patch)
}
