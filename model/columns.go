// Package model holds the application state of the clonotype browser and the
// values derived from it: the filterable columns of the current view mode,
// the annotation arguments sent to the compute pipeline and the gating of
// the run action.
package model

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type Mode string

const (
	BySampleAndClonotype Mode = "bySampleAndClonotype"
	ByClonotype          Mode = "byClonotype"
)

// DefaultMode is used when a script or a request does not name a mode.
const DefaultMode = ByClonotype

var ErrUnknownMode = errors.New("unknown annotation mode")

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case BySampleAndClonotype, ByClonotype:
		return Mode(s), nil
	case "":
		return DefaultMode, nil
	default:
		return "", errors.Wrapf(ErrUnknownMode, "%q", s)
	}
}

// ErrPFrameNotAvailable is returned when the host has not produced the frames
// a mode needs yet.
var ErrPFrameNotAvailable = errors.New("Platforma PFrame is not available")

type PFrameHandle string

type TableHandle string

type AxisSpec struct {
	Name   string            `json:"name" mapstructure:"name"`
	Type   string            `json:"type" mapstructure:"type"`
	Domain map[string]string `json:"domain,omitempty" mapstructure:"domain"`
}

type ColumnSpec struct {
	Kind      string     `json:"kind" mapstructure:"kind"`
	Name      string     `json:"name" mapstructure:"name"`
	ValueType string     `json:"valueType" mapstructure:"valueType"`
	Axes      []AxisSpec `json:"axes" mapstructure:"axes"`
}

// PColumnEntry is a column offered to the filter builder.
type PColumnEntry struct {
	ID    string     `json:"id" mapstructure:"id"`
	Label string     `json:"label" mapstructure:"label"`
	Spec  ColumnSpec `json:"spec" mapstructure:"spec"`
}

// Ref serializes the column descriptor the way the filter builder embeds it
// in filter trees.
func (c PColumnEntry) Ref() string {
	data, err := json.Marshal(c.Spec)
	if err != nil {
		return ""
	}
	return string(data)
}

// DisplayName is the label, or the id when the column has none.
func (c PColumnEntry) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

type ColumnsBundle struct {
	Columns []PColumnEntry `json:"columns"`
	PFrame  PFrameHandle   `json:"pFrame"`
}

// Outputs is what the host compute pipeline has produced so far. Bundles are
// nil until the corresponding output is ready.
type Outputs struct {
	ByClonotypeColumns          *ColumnsBundle `json:"byClonotypeColumns"`
	BySampleAndClonotypeColumns *ColumnsBundle `json:"bySampleAndClonotypeColumns"`
	OverlapTable                *TableHandle   `json:"overlapTable"`
}

func (b *ColumnsBundle) columns() []PColumnEntry {
	if b == nil {
		return nil
	}
	return b.Columns
}

// FilterColumns lists the columns a filter may reference in the given mode.
func FilterColumns(mode Mode, outputs Outputs) []PColumnEntry {
	result := make([]PColumnEntry, 0)
	if mode == BySampleAndClonotype {
		result = append(result, outputs.BySampleAndClonotypeColumns.columns()...)
	}
	return append(result, outputs.ByClonotypeColumns.columns()...)
}

// PFramesFor returns the frames holding the columns of the given mode, the
// clonotype frame first.
func PFramesFor(mode Mode, outputs Outputs) ([]PFrameHandle, error) {
	bundles := []*ColumnsBundle{outputs.ByClonotypeColumns}
	if mode == BySampleAndClonotype {
		bundles = append(bundles, outputs.BySampleAndClonotypeColumns)
	}

	frames := make([]PFrameHandle, 0, len(bundles))
	for _, b := range bundles {
		if b == nil || b.PFrame == "" {
			return nil, ErrPFrameNotAvailable
		}
		frames = append(frames, b.PFrame)
	}
	return frames, nil
}
