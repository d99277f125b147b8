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

// Package cluster actuates resource specs against the API server.
//
// The client addresses resources through resolved REST paths rather than
// per-kind typed clients, so one code path can actuate any kind the path
// table knows about. Writes are idempotent: Apply creates or patches
// depending on what is live, and Delete treats an absent resource as
// success.
package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/util/retry"
	"k8s.io/klog/v2"

	"atomist.com/k8sync/pkg/apiresource"
	"atomist.com/k8sync/pkg/metrics"
	"atomist.com/k8sync/pkg/status"
)

// Client performs idempotent reads and writes against the API server.
type Client struct {
	rest rest.Interface
	// Backoff bounds the retries of each individual API call. Only failures
	// classified as transient are retried.
	Backoff wait.Backoff
}

// New returns a Client actuating through restClient.
func New(restClient rest.Interface) *Client {
	return &Client{rest: restClient, Backoff: DefaultBackoff()}
}

// Apply creates spec when nothing live matches its kind, namespace, and
// name, and otherwise submits the full spec as a merge patch. Patching
// unconditionally keeps the operation idempotent and converges the fields
// the spec declares without clobbering server-populated ones.
func (c *Client) Apply(ctx context.Context, spec *unstructured.Unstructured) status.Error {
	description := resourceInfo(spec)
	readPath, rErr := apiresource.Path(spec, apiresource.Read)
	if rErr != nil {
		return rErr
	}
	_, getErr := c.getRaw(ctx, readPath, spec.GetKind(), description)
	switch {
	case apierrors.IsNotFound(getErr):
		createPath, cErr := apiresource.Path(spec, apiresource.Create)
		if cErr != nil {
			return cErr
		}
		return c.create(ctx, createPath, spec, description)
	case getErr != nil:
		return status.APIServerError(getErr, "failed to read resource before apply", spec)
	}
	patchPath, pErr := apiresource.Path(spec, apiresource.Patch)
	if pErr != nil {
		return pErr
	}
	return c.patch(ctx, patchPath, spec, description)
}

// Delete removes the live resource matching spec. A resource that is
// already gone is success, not an error.
func (c *Client) Delete(ctx context.Context, spec *unstructured.Unstructured) status.Error {
	description := resourceInfo(spec)
	readPath, rErr := apiresource.Path(spec, apiresource.Read)
	if rErr != nil {
		return rErr
	}
	_, getErr := c.getRaw(ctx, readPath, spec.GetKind(), description)
	switch {
	case apierrors.IsNotFound(getErr):
		klog.V(2).Infof("Delete skipped, %s does not exist", description)
		return nil
	case getErr != nil:
		return status.APIServerError(getErr, "failed to read resource before delete", spec)
	}

	deletePath, dErr := apiresource.Path(spec, apiresource.Delete)
	if dErr != nil {
		return dErr
	}
	klog.V(1).Infof("Deleting %s", description)
	start := time.Now()
	doErr := c.withRetry("delete "+description, func() error {
		return c.rest.Delete().AbsPath(absPath(deletePath)).Do(ctx).Error()
	})
	recordAPICall("delete", spec.GetKind(), start, doErr)
	switch {
	case apierrors.IsNotFound(doErr):
		klog.V(2).Infof("Not found during attempted delete of %s", description)
		return nil
	case doErr != nil:
		return status.APIServerError(doErr, "failed to delete resource", spec)
	}
	klog.Infof("Deleted %s", description)
	return nil
}

// Read fetches the live resource matching spec's kind, namespace, and name.
// When nothing is live the returned error wraps the API server's NotFound
// response; use IsNotFound to branch on it.
func (c *Client) Read(ctx context.Context, spec *unstructured.Unstructured) (*unstructured.Unstructured, status.Error) {
	description := resourceInfo(spec)
	path, rErr := apiresource.Path(spec, apiresource.Read)
	if rErr != nil {
		return nil, rErr
	}
	raw, getErr := c.getRaw(ctx, path, spec.GetKind(), description)
	if getErr != nil {
		return nil, status.APIServerError(getErr, "failed to read resource", spec)
	}
	live := &unstructured.Unstructured{}
	if err := live.UnmarshalJSON(raw); err != nil {
		return nil, status.APIServerError(err, "unable to decode resource read from the API server", spec)
	}
	return live, nil
}

// IsNotFound reports whether err wraps an API server NotFound response.
func IsNotFound(err status.Error) bool {
	return err != nil && apierrors.IsNotFound(err.Cause())
}

func (c *Client) create(ctx context.Context, path string, spec *unstructured.Unstructured, description string) status.Error {
	klog.V(1).Infof("Creating %s", description)
	klog.V(5).Info(spew.Sdump(spec))
	body, err := spec.MarshalJSON()
	if err != nil {
		return status.InternalWrap(err)
	}
	start := time.Now()
	doErr := c.withRetry("create "+description, func() error {
		return c.rest.Post().
			AbsPath(absPath(path)).
			SetHeader("Content-Type", "application/json").
			Body(body).
			Do(ctx).
			Error()
	})
	recordAPICall("create", spec.GetKind(), start, doErr)
	if doErr != nil {
		return status.APIServerError(doErr, "failed to create resource", spec)
	}
	klog.Infof("Created %s", description)
	return nil
}

func (c *Client) patch(ctx context.Context, path string, spec *unstructured.Unstructured, description string) status.Error {
	klog.V(1).Infof("Patching %s", description)
	klog.V(5).Info(spew.Sdump(spec))
	body, err := spec.MarshalJSON()
	if err != nil {
		return status.InternalWrap(err)
	}
	start := time.Now()
	doErr := c.withRetry("patch "+description, func() error {
		return c.rest.Patch(types.MergePatchType).
			AbsPath(absPath(path)).
			Body(body).
			Do(ctx).
			Error()
	})
	recordAPICall("patch", spec.GetKind(), start, doErr)
	if doErr != nil {
		return status.APIServerError(doErr, "failed to patch resource", spec)
	}
	klog.Infof("Patched %s", description)
	return nil
}

// getRaw GETs path and returns the raw response body. The error is the
// plain REST client error so callers can branch on its API status code.
func (c *Client) getRaw(ctx context.Context, path, kind, description string) ([]byte, error) {
	start := time.Now()
	var raw []byte
	err := c.withRetry("read "+description, func() error {
		body, doErr := c.rest.Get().AbsPath(absPath(path)).Do(ctx).Raw()
		if doErr != nil {
			return doErr
		}
		raw = body
		return nil
	})
	recordAPICall("read", kind, start, err)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// withRetry runs call under the client's backoff, retrying only failures
// that look transient. The returned error is the last error from call;
// wrapping it in a status.APIServerError classifies an exhausted transient
// failure as a TransientError.
func (c *Client) withRetry(description string, call func() error) error {
	attempt := 0
	return retry.OnError(c.Backoff, status.IsTransient, func() error {
		attempt++
		err := call()
		if err != nil {
			klog.V(1).Infof("Attempt %d to %s failed: %v", attempt, description, err)
		}
		return err
	})
}

// resourceInfo returns a description of the object suitable for logs and
// error messages.
func resourceInfo(obj *unstructured.Unstructured) string {
	gvk := obj.GroupVersionKind()
	namespacedName := types.NamespacedName{Namespace: obj.GetNamespace(), Name: obj.GetName()}
	return fmt.Sprintf("%q, %q", gvk, namespacedName)
}

func absPath(path string) string {
	return "/" + path
}

// recordAPICall tracks the duration and outcome of a single logical API
// call, retries included.
func recordAPICall(operation, kind string, start time.Time, err error) {
	label := metrics.StatusLabel(err)
	metrics.APICallDuration.WithLabelValues(operation, kind, label).Observe(time.Since(start).Seconds())
	metrics.Operations.WithLabelValues(operation, kind, label).Inc()
}
