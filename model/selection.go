package model

import (
	"context"

	"github.com/pkg/errors"
)

var ErrInvalidSelectionKey = errors.New("selection key does not match axes")

// SelectionModel is the set of rows selected in a table, each row identified
// by its key over AxesSpec.
type SelectionModel struct {
	AxesSpec     []AxisSpec      `json:"axesSpec"`
	SelectedKeys [][]interface{} `json:"selectedKeys"`
}

func NewSelectionModel() SelectionModel {
	return SelectionModel{
		AxesSpec:     []AxisSpec{},
		SelectedKeys: [][]interface{}{},
	}
}

func (s SelectionModel) HasSelectedColumns() bool {
	return len(s.SelectedKeys) > 0
}

// FrameReader gives access to the columns and cells of the host's frames.
type FrameReader interface {
	ListColumns(ctx context.Context, frame PFrameHandle) ([]PColumnEntry, error)
	GetValue(ctx context.Context, frame PFrameHandle, columnID string, key []interface{}) (interface{}, bool, error)
}

// SelectedRow holds the values of one selected key, by column name.
type SelectedRow struct {
	Key    []interface{}          `json:"key"`
	Values map[string]interface{} `json:"values"`
}

type projectedColumn struct {
	column  PColumnEntry
	frame   PFrameHandle
	indices []int
}

// ValuesForSelectedColumns reads, for every selected key, the values of all
// columns of the frames whose axes are covered by the selection axes. Each
// column is read at the key projected onto its own axes. Cells without a
// value are reported as nil.
func ValuesForSelectedColumns(
	ctx context.Context,
	selection SelectionModel,
	frames []PFrameHandle,
	reader FrameReader,
) ([]SelectedRow, error) {
	positions := make(map[string]int, len(selection.AxesSpec))
	for i, axis := range selection.AxesSpec {
		positions[axis.Name] = i
	}

	var columns []projectedColumn
	for _, frame := range frames {
		entries, err := reader.ListColumns(ctx, frame)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to list columns of frame %s", frame)
		}
		for _, entry := range entries {
			if indices, ok := project(entry.Spec.Axes, positions); ok {
				columns = append(columns, projectedColumn{column: entry, frame: frame, indices: indices})
			}
		}
	}

	rows := make([]SelectedRow, 0, len(selection.SelectedKeys))
	for _, key := range selection.SelectedKeys {
		if len(key) != len(selection.AxesSpec) {
			return nil, errors.Wrapf(ErrInvalidSelectionKey, "key %v has %d parts, expected %d",
				key, len(key), len(selection.AxesSpec))
		}

		row := SelectedRow{Key: key, Values: make(map[string]interface{}, len(columns))}
		for _, c := range columns {
			columnKey := make([]interface{}, len(c.indices))
			for i, idx := range c.indices {
				columnKey[i] = key[idx]
			}
			value, found, err := reader.GetValue(ctx, c.frame, c.column.ID, columnKey)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to read column %s", c.column.ID)
			}
			if !found {
				value = nil
			}
			row.Values[c.column.DisplayName()] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func project(axes []AxisSpec, positions map[string]int) ([]int, bool) {
	if len(axes) == 0 {
		return nil, false
	}
	indices := make([]int, 0, len(axes))
	for _, axis := range axes {
		idx, ok := positions[axis.Name]
		if !ok {
			return nil, false
		}
		indices = append(indices, idx)
	}
	return indices, true
}
