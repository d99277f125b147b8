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

// Package k8sfake provides an in-memory double for the API server's REST
// surface, just enough of it to exercise path-addressed reads and writes
// in tests.
package k8sfake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	jsonpatch "github.com/evanphx/json-patch"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/rest/fake"

	"atomist.com/k8sync/pkg/apiresource"
)

// Server stores objects keyed by their resolved REST path and answers GET,
// POST, PATCH, and DELETE the way the API server would: Status responses
// with canonical reasons for failures, merge-patch semantics for PATCH.
type Server struct {
	mu       sync.Mutex
	objects  map[string]*unstructured.Unstructured
	requests []string
	failures []failure
}

type failure struct {
	method    string
	path      string
	code      int
	remaining int
}

// New returns a Server seeded with copies of the given objects. Each seed
// object must resolve to a REST path.
func New(seed ...*unstructured.Unstructured) *Server {
	s := &Server{objects: map[string]*unstructured.Unstructured{}}
	for _, obj := range seed {
		path, err := apiresource.Path(obj, apiresource.Read)
		if err != nil {
			panic(fmt.Sprintf("seed object does not resolve to a path: %v", err))
		}
		s.objects["/"+path] = obj.DeepCopy()
	}
	return s
}

// Client returns a REST client whose requests are served from the store.
func (s *Server) Client() rest.Interface {
	return &fake.RESTClient{
		NegotiatedSerializer: scheme.Codecs.WithoutConversion(),
		Client:               fake.CreateHTTPClient(s.roundTrip),
	}
}

// Fail arranges for the next times requests matching method and path to be
// answered with code instead of touching the store.
func (s *Server) Fail(method, path string, code, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, code: code, remaining: times})
}

// Requests returns the method and path of every request served so far, in
// order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Object returns a copy of the stored object at path.
func (s *Server) Object(path string) (*unstructured.Unstructured, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, false
	}
	return obj.DeepCopy(), true
}

func (s *Server) roundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := req.URL.Path
	s.requests = append(s.requests, req.Method+" "+path)

	for i := range s.failures {
		f := &s.failures[i]
		if f.remaining > 0 && f.method == req.Method && f.path == path {
			f.remaining--
			return statusResponse(f.code, fmt.Sprintf("scripted %d for %s %s", f.code, req.Method, path))
		}
	}

	switch req.Method {
	case http.MethodGet:
		obj, ok := s.objects[path]
		if !ok {
			return statusResponse(http.StatusNotFound, path+" not found")
		}
		return jsonResponse(http.StatusOK, mustMarshal(obj))
	case http.MethodPost:
		body := readBody(req)
		obj := &unstructured.Unstructured{}
		if err := obj.UnmarshalJSON(body); err != nil {
			return statusResponse(http.StatusBadRequest, err.Error())
		}
		objPath := path + "/" + obj.GetName()
		if _, ok := s.objects[objPath]; ok {
			return statusResponse(http.StatusConflict, objPath+" already exists")
		}
		s.objects[objPath] = obj.DeepCopy()
		return jsonResponse(http.StatusCreated, body)
	case http.MethodPatch:
		live, ok := s.objects[path]
		if !ok {
			return statusResponse(http.StatusNotFound, path+" not found")
		}
		merged, err := jsonpatch.MergePatch(mustMarshal(live), readBody(req))
		if err != nil {
			return statusResponse(http.StatusUnprocessableEntity, err.Error())
		}
		obj := &unstructured.Unstructured{}
		if err := obj.UnmarshalJSON(merged); err != nil {
			return statusResponse(http.StatusUnprocessableEntity, err.Error())
		}
		s.objects[path] = obj
		return jsonResponse(http.StatusOK, merged)
	case http.MethodDelete:
		if _, ok := s.objects[path]; !ok {
			return statusResponse(http.StatusNotFound, path+" not found")
		}
		delete(s.objects, path)
		return jsonResponse(http.StatusOK, mustMarshal(&metav1.Status{
			TypeMeta: metav1.TypeMeta{Kind: "Status", APIVersion: "v1"},
			Status:   metav1.StatusSuccess,
			Code:     http.StatusOK,
		}))
	}
	return statusResponse(http.StatusMethodNotAllowed, req.Method+" not supported")
}

func statusResponse(code int, message string) (*http.Response, error) {
	st := metav1.Status{
		TypeMeta: metav1.TypeMeta{Kind: "Status", APIVersion: "v1"},
		Status:   metav1.StatusFailure,
		Code:     int32(code),
		Reason:   reasonFor(code),
		Message:  message,
	}
	return jsonResponse(code, mustMarshal(&st))
}

// reasonFor maps the HTTP codes the Server emits to canonical status
// reasons so the apierrors helpers classify them the same way they would a
// real response.
func reasonFor(code int) metav1.StatusReason {
	switch code {
	case http.StatusNotFound:
		return metav1.StatusReasonNotFound
	case http.StatusForbidden:
		return metav1.StatusReasonForbidden
	case http.StatusConflict:
		return metav1.StatusReasonAlreadyExists
	case http.StatusTooManyRequests:
		return metav1.StatusReasonTooManyRequests
	case http.StatusInternalServerError:
		return metav1.StatusReasonInternalError
	case http.StatusServiceUnavailable:
		return metav1.StatusReasonServiceUnavailable
	}
	return ""
}

func jsonResponse(code int, body []byte) (*http.Response, error) {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}, nil
}

func readBody(req *http.Request) []byte {
	if req.Body == nil {
		return nil
	}
	defer func() {
		_ = req.Body.Close()
	}()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		panic(err)
	}
	return body
}

func mustMarshal(v interface{}) []byte {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return body
}
