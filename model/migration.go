package model

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/milaboratories/clonotype-browser/filter"
)

// CurrentUiStateVersion is the version MigrateUiState upgrades to.
const CurrentUiStateVersion = 2

var ErrUnsupportedUiStateVersion = errors.New("unsupported ui state version")

type TableState struct {
	SortColumn    string   `json:"sortColumn,omitempty" mapstructure:"sortColumn"`
	SortDesc      bool     `json:"sortDesc,omitempty" mapstructure:"sortDesc"`
	HiddenColumns []string `json:"hiddenColumns,omitempty" mapstructure:"hiddenColumns"`
	PageSize      int      `json:"pageSize,omitempty" mapstructure:"pageSize"`
}

// UiState is the persisted UI state of the application.
type UiState struct {
	Version          int              `json:"version"`
	SettingsOpen     bool             `json:"settingsOpen"`
	OverlapTable     TableState       `json:"overlapTable"`
	StatsTable       TableState       `json:"statsTable"`
	AnnotationScript AnnotationScript `json:"annotationScript"`
}

// NewUiState returns the state of a freshly created block.
func NewUiState() *UiState {
	return &UiState{
		Version: CurrentUiStateVersion,
		AnnotationScript: AnnotationScript{
			Mode:  DefaultMode,
			Steps: []AnnotationStep{},
		},
	}
}

type uiStateFields struct {
	Version          int        `mapstructure:"version"`
	SettingsOpen     bool       `mapstructure:"settingsOpen"`
	OverlapTable     TableState `mapstructure:"overlapTable"`
	StatsTable       TableState `mapstructure:"statsTable"`
	AnnotationScript struct {
		Title string `mapstructure:"title"`
		Mode  string `mapstructure:"mode"`
		Steps []struct {
			Label  string      `mapstructure:"label"`
			Filter interface{} `mapstructure:"filter"`
		} `mapstructure:"steps"`
	} `mapstructure:"annotationScript"`
}

type migration func(state map[string]interface{})

// migrations[v] upgrades a state of version v to version v+1.
var migrations = []migration{
	migrateV0ToV1,
	migrateV1ToV2,
}

// MigrateUiState upgrades a UI state saved by any earlier version of the
// application and decodes it. A state without a version is version 0. The
// raw map is not modified.
func MigrateUiState(raw map[string]interface{}) (*UiState, error) {
	if raw == nil {
		return NewUiState(), nil
	}

	var header struct {
		Version int `mapstructure:"version"`
	}
	if err := mapstructure.Decode(raw, &header); err != nil {
		return nil, errors.Wrap(err, "unable to read ui state version")
	}
	if header.Version < 0 || header.Version > CurrentUiStateVersion {
		return nil, errors.Wrapf(ErrUnsupportedUiStateVersion, "%d", header.Version)
	}

	state := copyValue(raw).(map[string]interface{})
	for v := header.Version; v < CurrentUiStateVersion; v++ {
		migrations[v](state)
	}
	state["version"] = CurrentUiStateVersion

	var fields uiStateFields
	if err := mapstructure.Decode(state, &fields); err != nil {
		return nil, errors.Wrap(err, "unable to decode ui state")
	}

	mode, err := ParseMode(fields.AnnotationScript.Mode)
	if err != nil {
		return nil, err
	}

	result := &UiState{
		Version:      fields.Version,
		SettingsOpen: fields.SettingsOpen,
		OverlapTable: fields.OverlapTable,
		StatsTable:   fields.StatsTable,
		AnnotationScript: AnnotationScript{
			Title: fields.AnnotationScript.Title,
			Mode:  mode,
			Steps: make([]AnnotationStep, 0, len(fields.AnnotationScript.Steps)),
		},
	}
	for i, step := range fields.AnnotationScript.Steps {
		f, err := filter.FromValue(step.Filter)
		if err != nil {
			return nil, errors.Wrapf(err, "annotationScript.steps[%d]", i)
		}
		result.AnnotationScript.Steps = append(result.AnnotationScript.Steps, AnnotationStep{Label: step.Label, Filter: f})
	}
	return result, nil
}

// Version 0 states predate annotations.
func migrateV0ToV1(state map[string]interface{}) {
	if script, ok := state["annotationScript"].(map[string]interface{}); ok && script != nil {
		return
	}
	state["annotationScript"] = map[string]interface{}{
		"mode":  string(DefaultMode),
		"steps": []interface{}{},
	}
}

// Version 1 named step labels "title" and kept the overlap filter at the top
// level.
func migrateV1ToV2(state map[string]interface{}) {
	delete(state, "filterModel")

	script, ok := state["annotationScript"].(map[string]interface{})
	if !ok {
		return
	}
	steps, ok := script["steps"].([]interface{})
	if !ok {
		return
	}
	for _, s := range steps {
		step, ok := s.(map[string]interface{})
		if !ok {
			continue
		}
		if title, has := step["title"]; has {
			if _, hasLabel := step["label"]; !hasLabel {
				step["label"] = title
			}
			delete(step, "title")
		}
	}
}

func copyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, item := range v {
			m[k] = copyValue(item)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, item := range v {
			s[i] = copyValue(item)
		}
		return s
	default:
		return v
	}
}
