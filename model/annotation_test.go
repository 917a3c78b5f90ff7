package model

import (
	"encoding/json"
	"testing"

	"github.com/iancoleman/strcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milaboratories/clonotype-browser/filter"
)

type snakeNamer struct{}

func (snakeNamer) ToSpecName(label string) string { return strcase.ToSnake(label) }

func twoAxisFilter() filter.Node {
	return filter.NumericalComparison{Lhs: sampleClonotypeColumn("abundance").Ref(), Rhs: 0.01}
}

func oneAxisFilter() filter.Node {
	return filter.Pattern{
		Column:    clonotypeColumn("cdr3").Ref(),
		Predicate: filter.PatternPredicate{Type: "containSubsequence", Value: "CASS"},
	}
}

func TestProcessAnnotationUiStateToArgs(t *testing.T) {
	script := AnnotationScript{
		Title: "Expanded",
		Mode:  BySampleAndClonotype,
		Steps: []AnnotationStep{
			{Label: "Expanded Clones", Filter: twoAxisFilter()},
			{Label: "  ", Filter: oneAxisFilter()},
			{Label: "expanded clones", Filter: oneAxisFilter()},
			{Label: "No filter"},
		},
	}

	args, err := ProcessAnnotationUiStateToArgs(script, snakeNamer{})
	require.NoError(t, err)
	assert.Equal(t, BySampleAndClonotype, args.Mode)
	require.Len(t, args.Specs, 3)

	assert.Equal(t, "expanded_clones", args.Specs[0].Name)
	assert.Equal(t, "Expanded Clones", args.Specs[0].Label)
	assert.Equal(t, "expanded_clones_2", args.Specs[1].Name)
	assert.Equal(t, "no_filter", args.Specs[2].Name)
	assert.Equal(t, "null", string(args.Specs[2].Filter))

	parsed, err := filter.Parse(args.Specs[0].Filter)
	require.NoError(t, err)
	assert.Equal(t, twoAxisFilter(), parsed)
}

func TestProcessAnnotationUiStateToArgsUniqueNames(t *testing.T) {
	names := func(labels ...string) []string {
		script := AnnotationScript{Mode: ByClonotype}
		for _, label := range labels {
			script.Steps = append(script.Steps, AnnotationStep{Label: label, Filter: oneAxisFilter()})
		}
		args, err := ProcessAnnotationUiStateToArgs(script, snakeNamer{})
		require.NoError(t, err)
		var result []string
		for _, spec := range args.Specs {
			result = append(result, spec.Name)
		}
		return result
	}

	assert.Equal(t, []string{"x", "x_2", "x_2_2"}, names("x", "x", "X 2"))
	assert.Equal(t, []string{"x_2", "x", "x_3"}, names("X 2", "x", "x"))
	assert.Equal(t, []string{"a", "a_2", "a_3"}, names("a", "a", "a"))
}

func TestProcessAnnotationUiStateToArgsValidation(t *testing.T) {
	_, err := ProcessAnnotationUiStateToArgs(AnnotationScript{}, snakeNamer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mode is a required field")

	_, err = ProcessAnnotationUiStateToArgs(AnnotationScript{Mode: "bySample"}, snakeNamer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mode must be one of")
}

func TestRunAllowed(t *testing.T) {
	tests := []struct {
		name   string
		script AnnotationScript
		want   bool
	}{
		{
			name:   "No steps",
			script: AnnotationScript{Mode: ByClonotype},
			want:   false,
		},
		{
			name:   "Steps without filters",
			script: AnnotationScript{Mode: ByClonotype, Steps: []AnnotationStep{{Label: "a"}}},
			want:   false,
		},
		{
			name:   "Clonotype filter in clonotype mode",
			script: AnnotationScript{Mode: ByClonotype, Steps: []AnnotationStep{{Label: "a", Filter: oneAxisFilter()}}},
			want:   true,
		},
		{
			name: "Sample filter in clonotype mode",
			script: AnnotationScript{Mode: ByClonotype, Steps: []AnnotationStep{
				{Label: "a", Filter: oneAxisFilter()},
				{Label: "b", Filter: filter.Not{Filter: twoAxisFilter()}},
			}},
			want: false,
		},
		{
			name: "Sample filter in sample mode",
			script: AnnotationScript{Mode: BySampleAndClonotype, Steps: []AnnotationStep{
				{Label: "b", Filter: twoAxisFilter()},
			}},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RunAllowed(tt.script))
		})
	}
}

func TestReferencedColumns(t *testing.T) {
	script := AnnotationScript{Mode: ByClonotype, Steps: []AnnotationStep{
		{Label: "a", Filter: oneAxisFilter()},
		{Label: "b", Filter: filter.And{Filters: []filter.Node{oneAxisFilter(), twoAxisFilter()}}},
	}}
	assert.Equal(t, []string{
		clonotypeColumn("cdr3").Ref(),
		sampleClonotypeColumn("abundance").Ref(),
	}, ReferencedColumns(script))
}

func TestAnnotationStepJSON(t *testing.T) {
	step := AnnotationStep{Label: "a", Filter: filter.IsNA{Column: "x"}}
	data, err := json.Marshal(step)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"a","filter":{"type":"isNA","column":"x"}}`, string(data))

	var decoded AnnotationStep
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, step, decoded)

	require.NoError(t, json.Unmarshal([]byte(`{"label":"b","filter":{"type":"not"}}`), &decoded))
	assert.Equal(t, AnnotationStep{Label: "b"}, decoded)

	err = json.Unmarshal([]byte(`{"label":"a","filter":4}`), &decoded)
	assert.Error(t, err)
}
