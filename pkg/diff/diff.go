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

// Package diff computes the change records a sync must actuate to move the
// cluster from one spec snapshot to the next.
package diff

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"atomist.com/k8sync/pkg/core"
	"atomist.com/k8sync/pkg/metadata"
)

// ChangeType indicates what action should be taken for a resource spec.
type ChangeType string

const (
	// Apply indicates the resource should be created or patched on the cluster.
	Apply = ChangeType("apply")

	// Delete indicates the resource should be removed from the cluster.
	Delete = ChangeType("delete")

	// Ignore indicates the resource is opted out for this controller and must
	// not be touched. It is still reported so callers can log the skip.
	Ignore = ChangeType("ignore")
)

// Mode selects the direction of a sync batch.
type Mode string

const (
	// ModeApply converges the cluster toward the after snapshot.
	ModeApply = Mode("apply")

	// ModeDelete removes everything in the before snapshot.
	ModeDelete = Mode("delete")
)

// ParseMode returns the Mode named by s, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch mode := Mode(strings.ToLower(s)); mode {
	case ModeApply, ModeDelete:
		return mode, nil
	default:
		return "", fmt.Errorf("unrecognized sync mode %q, want %q or %q", s, ModeApply, ModeDelete)
	}
}

// ChangeRecord pairs a resource spec with the action that converges it.
type ChangeRecord struct {
	// Type is the action to take.
	Type ChangeType
	// Spec is the resource the action applies to.
	Spec *unstructured.Unstructured
}

// Calculate classifies the transition from the before snapshot to the after
// snapshot into change records.
//
// In ModeApply every after spec yields an apply record, and every before spec
// whose identity is absent from after yields a delete record. Content
// differences are not inspected: apply is always attempted and relies on the
// actuator's patch semantics for idempotence. In ModeDelete every before spec
// yields a delete record and after is not consulted.
//
// A spec carrying this controller's ignore annotation yields an ignore record
// instead, whatever the mode. Record order is deterministic: after order,
// then before order for deletes. Duplicate identities in after collapse to
// the latest spec.
func Calculate(before, after []*unstructured.Unstructured, mode Mode, controller string) []ChangeRecord {
	if mode == ModeDelete {
		return deleteRecords(before, controller)
	}
	return applyRecords(before, after, controller)
}

func applyRecords(before, after []*unstructured.Unstructured, controller string) []ChangeRecord {
	var records []ChangeRecord
	afterByID := orderedmap.NewOrderedMap[core.ID, *unstructured.Unstructured]()
	for _, spec := range after {
		afterByID.Set(core.IDOf(spec), spec)
	}
	for el := afterByID.Front(); el != nil; el = el.Next() {
		records = append(records, record(el.Value, Apply, controller))
	}
	for _, spec := range before {
		if _, declared := afterByID.Get(core.IDOf(spec)); declared {
			continue
		}
		records = append(records, record(spec, Delete, controller))
	}
	return records
}

func deleteRecords(before []*unstructured.Unstructured, controller string) []ChangeRecord {
	var records []ChangeRecord
	for _, spec := range before {
		records = append(records, record(spec, Delete, controller))
	}
	return records
}

// record redirects to an ignore record when the spec is opted out for this
// controller.
func record(spec *unstructured.Unstructured, want ChangeType, controller string) ChangeRecord {
	if metadata.HasIgnoreAnnotation(spec, controller) {
		return ChangeRecord{Type: Ignore, Spec: spec}
	}
	return ChangeRecord{Type: want, Spec: spec}
}
