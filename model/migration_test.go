package model

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milaboratories/clonotype-browser/filter"
)

func decodeState(t *testing.T, text string) map[string]interface{} {
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &raw))
	return raw
}

func TestMigrateUiStateFromV0(t *testing.T) {
	raw := decodeState(t, `{
		"settingsOpen": true,
		"overlapTable": {"sortColumn": "cdr3", "hiddenColumns": ["vGene"]}
	}`)

	state, err := MigrateUiState(raw)
	require.NoError(t, err)
	assert.Equal(t, CurrentUiStateVersion, state.Version)
	assert.True(t, state.SettingsOpen)
	assert.Equal(t, TableState{SortColumn: "cdr3", HiddenColumns: []string{"vGene"}}, state.OverlapTable)
	assert.Equal(t, DefaultMode, state.AnnotationScript.Mode)
	assert.Empty(t, state.AnnotationScript.Steps)

	_, hasScript := raw["annotationScript"]
	assert.False(t, hasScript, "input must not be modified")
}

func TestMigrateUiStateFromV1(t *testing.T) {
	raw := decodeState(t, `{
		"version": 1,
		"filterModel": {"type": "and", "filters": []},
		"annotationScript": {
			"title": "Expanded",
			"mode": "bySampleAndClonotype",
			"steps": [
				{"title": "Big", "filter": {"type": "isNA", "column": "{\"axes\":[\"a\",\"b\"]}"}},
				{"title": "Old", "label": "New"}
			]
		}
	}`)

	state, err := MigrateUiState(raw)
	require.NoError(t, err)
	assert.Equal(t, CurrentUiStateVersion, state.Version)

	script := state.AnnotationScript
	assert.Equal(t, "Expanded", script.Title)
	assert.Equal(t, BySampleAndClonotype, script.Mode)
	require.Len(t, script.Steps, 2)
	assert.Equal(t, "Big", script.Steps[0].Label)
	assert.Equal(t, filter.IsNA{Column: `{"axes":["a","b"]}`}, script.Steps[0].Filter)
	assert.Equal(t, "New", script.Steps[1].Label)
	assert.Nil(t, script.Steps[1].Filter)
}

func TestMigrateUiStateCurrent(t *testing.T) {
	state := NewUiState()
	state.StatsTable.PageSize = 50
	state.AnnotationScript.Steps = []AnnotationStep{{Label: "x", Filter: filter.IsNA{Column: "c"}}}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	migrated, err := MigrateUiState(decodeState(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, state, migrated)
}

func TestMigrateUiStateErrors(t *testing.T) {
	_, err := MigrateUiState(map[string]interface{}{"version": 3})
	assert.Equal(t, ErrUnsupportedUiStateVersion, errors.Cause(err))

	_, err = MigrateUiState(map[string]interface{}{"version": "two"})
	assert.Error(t, err)

	_, err = MigrateUiState(decodeState(t, `{"version": 2, "annotationScript": {"mode": "bySample"}}`))
	assert.Equal(t, ErrUnknownMode, errors.Cause(err))

	_, err = MigrateUiState(decodeState(t, `{"version": 2, "annotationScript": {"mode": "byClonotype", "steps": [{"filter": 4}]}}`))
	assert.Equal(t, filter.ErrInvalidFilter, errors.Cause(err))
}

func TestMigrateUiStateMalformedLeaf(t *testing.T) {
	state, err := MigrateUiState(decodeState(t, `{"version": 2, "annotationScript": {"mode": "byClonotype", "steps": [
		{"label": "a", "filter": {"type": "and", "filters": [{"type": "pattern", "column": "c", "predicate": "x"}, 7]}}]}}`))
	require.NoError(t, err)
	require.Len(t, state.AnnotationScript.Steps, 1)
	assert.Equal(t, filter.And{Filters: []filter.Node{filter.Unknown{Type: "pattern"}, nil}},
		state.AnnotationScript.Steps[0].Filter)
}

func TestMigrateUiStateNil(t *testing.T) {
	state, err := MigrateUiState(nil)
	require.NoError(t, err)
	assert.Equal(t, NewUiState(), state)
}
