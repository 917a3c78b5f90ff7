package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/milaboratories/clonotype-browser/filter"
)

// AnnotationScript is the annotation form as edited in the UI: a list of
// labelled filters applied in the given mode.
type AnnotationScript struct {
	Title string           `json:"title"`
	Mode  Mode             `json:"mode" validate:"required,oneof=bySampleAndClonotype byClonotype"`
	Steps []AnnotationStep `json:"steps"`
}

type AnnotationStep struct {
	Label  string
	Filter filter.Node
}

type annotationStepJSON struct {
	Label  string          `json:"label"`
	Filter json.RawMessage `json:"filter"`
}

func (s AnnotationStep) MarshalJSON() ([]byte, error) {
	f, err := filter.Marshal(s.Filter)
	if err != nil {
		return nil, err
	}
	return json.Marshal(annotationStepJSON{Label: s.Label, Filter: f})
}

func (s *AnnotationStep) UnmarshalJSON(data []byte) error {
	var fields annotationStepJSON
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	f, err := filter.Parse(fields.Filter)
	if err != nil {
		return errors.Wrapf(err, "step %q", fields.Label)
	}
	s.Label = fields.Label
	s.Filter = f
	return nil
}

// AnnotationArgs is the form of the annotation script consumed by the
// compute pipeline.
type AnnotationArgs struct {
	Mode  Mode             `json:"mode"`
	Specs []AnnotationSpec `json:"specs"`
}

type AnnotationSpec struct {
	Name   string          `json:"name"`
	Label  string          `json:"label"`
	Filter json.RawMessage `json:"filter"`
}

// Namer derives identifiers from user facing labels.
type Namer interface {
	ToSpecName(label string) string
}

// ProcessAnnotationUiStateToArgs converts the UI form of an annotation script
// into pipeline arguments. Steps without a label are dropped; spec names are
// derived from labels and made unique.
func ProcessAnnotationUiStateToArgs(script AnnotationScript, namer Namer) (AnnotationArgs, error) {
	if err := Validate(script); err != nil {
		return AnnotationArgs{}, err
	}

	args := AnnotationArgs{Mode: script.Mode, Specs: make([]AnnotationSpec, 0, len(script.Steps))}
	used := map[string]bool{}
	for _, step := range script.Steps {
		label := strings.TrimSpace(step.Label)
		if label == "" {
			continue
		}

		f, err := filter.Marshal(step.Filter)
		if err != nil {
			return AnnotationArgs{}, errors.Wrapf(err, "unable to encode filter of step %q", label)
		}

		base := namer.ToSpecName(label)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[name] = true

		args.Specs = append(args.Specs, AnnotationSpec{Name: name, Label: label, Filter: f})
	}
	return args, nil
}

// RunAllowed reports whether the annotation can be run: it needs at least one
// step with a filter, and a per-clonotype annotation cannot use columns
// addressed by sample and clonotype.
func RunAllowed(script AnnotationScript) bool {
	hasFilter := false
	for _, step := range script.Steps {
		if step.Filter == nil {
			continue
		}
		hasFilter = true
		if script.Mode != BySampleAndClonotype && filter.HasTwoAxisColumn(step.Filter) {
			return false
		}
	}
	return hasFilter
}

// ReferencedColumns returns the column reference texts used by all steps, in
// step order and without duplicates.
func ReferencedColumns(script AnnotationScript) []string {
	refs := make([]string, 0)
	seen := map[string]bool{}
	for _, step := range script.Steps {
		for _, ref := range filter.ColumnRefs(step.Filter) {
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}
