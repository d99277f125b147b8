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

package kinds

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	"atomist.com/k8sync/pkg/testing/testerrors"
)

func serviceUnstructured() *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": Service().GroupVersion().String(),
			"kind":       Service().Kind,
			"metadata": map[string]interface{}{
				"name": "test-name",
			},
			"spec": map[string]interface{}{
				"selector": map[string]interface{}{
					"app.kubernetes.io/name": "MyApp",
				},
				"ports": []interface{}{
					map[string]interface{}{
						"protocol":   "TCP",
						"port":       int64(80),
						"targetPort": int64(9376),
					},
				},
			},
		},
	}
}

func serviceTyped() *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: Service().GroupVersion().String(),
			Kind:       Service().Kind,
		},
		ObjectMeta: metav1.ObjectMeta{Name: "test-name"},
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{
				"app.kubernetes.io/name": "MyApp",
			},
			Ports: []corev1.ServicePort{
				{
					Protocol:   corev1.ProtocolTCP,
					Port:       int32(80),
					TargetPort: intstr.FromInt(9376),
				},
			},
		},
	}
}

func TestToTypedObject(t *testing.T) {
	emptyScheme := runtime.NewScheme()
	coreScheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(coreScheme))

	testCases := []struct {
		name          string
		object        runtime.Object
		scheme        *runtime.Scheme
		expected      runtime.Object
		expectedError error
	}{
		{
			name:     "unstructured converts to the registered type",
			object:   serviceUnstructured(),
			scheme:   coreScheme,
			expected: serviceTyped(),
		},
		{
			name:   "unstructured with an unregistered type",
			object: serviceUnstructured(),
			scheme: emptyScheme,
			expectedError: fmt.Errorf("unsupported resource type (%s): %w",
				GVKToString(Service()),
				runtime.NewNotRegisteredErrForKind(emptyScheme.Name(), Service())),
		},
		{
			name:   "typed object missing from the scheme",
			object: serviceTyped(),
			scheme: emptyScheme,
			expectedError: fmt.Errorf("failed to lookup object type: %w",
				runtime.NewNotRegisteredErrForType(emptyScheme.Name(),
					reflect.TypeOf(corev1.Service{}))),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ToTypedObject(tc.object, tc.scheme)
			testerrors.AssertEqual(t, tc.expectedError, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestToUnstructured(t *testing.T) {
	emptyScheme := runtime.NewScheme()
	coreScheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(coreScheme))

	testCases := []struct {
		name          string
		object        runtime.Object
		scheme        *runtime.Scheme
		expected      *unstructured.Unstructured
		expectedError error
	}{
		{
			name:     "unstructured passes through as a deep copy",
			object:   serviceUnstructured(),
			scheme:   emptyScheme,
			expected: serviceUnstructured(),
		},
		{
			name:   "typed converts with marshalling artifacts",
			object: serviceTyped(),
			scheme: coreScheme,
			// json.Marshal emits nil struct pointers and empty struct
			// members even under omitempty, and the unstructured converter
			// copies that behavior. https://github.com/golang/go/issues/22480
			expected: &unstructured.Unstructured{
				Object: map[string]interface{}{
					"apiVersion": Service().GroupVersion().String(),
					"kind":       Service().Kind,
					"metadata": map[string]interface{}{
						"name":              "test-name",
						"creationTimestamp": nil,
					},
					"spec": map[string]interface{}{
						"selector": map[string]interface{}{
							"app.kubernetes.io/name": "MyApp",
						},
						"ports": []interface{}{
							map[string]interface{}{
								"protocol":   "TCP",
								"port":       int64(80),
								"targetPort": int64(9376),
							},
						},
					},
					"status": map[string]interface{}{
						"loadBalancer": map[string]interface{}{},
					},
				},
			},
		},
		{
			name:   "typed object missing from the scheme",
			object: serviceTyped(),
			scheme: emptyScheme,
			expectedError: fmt.Errorf("failed to lookup object type: %w",
				runtime.NewNotRegisteredErrForType(emptyScheme.Name(),
					reflect.TypeOf(corev1.Service{}))),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ToUnstructured(tc.object, tc.scheme)
			testerrors.AssertEqual(t, tc.expectedError, err)
			if diff := cmp.Diff(tc.expected, actual); diff != "" {
				t.Error(diff)
			}
		})
	}
}
