// Package frame is an in-process stand-in for the host platform's PFrame
// driver: a registry of column frames that can be listed and read cell by
// cell.
package frame

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/milaboratories/clonotype-browser/model"
)

var (
	ErrFrameNotFound  = errors.New("frame not found")
	ErrColumnNotFound = errors.New("column not found")
)

// Cell is a single value of a column, addressed by its key over the column's
// axes.
type Cell struct {
	Key   []interface{} `json:"key" mapstructure:"key"`
	Value interface{}   `json:"value" mapstructure:"value"`
}

// Column is a column definition with its data.
type Column struct {
	Entry model.PColumnEntry
	Cells []Cell
}

type storedColumn struct {
	entry  model.PColumnEntry
	values map[string]interface{}
}

type storedFrame struct {
	columns []*storedColumn
	byID    map[string]*storedColumn
}

// MemoryDriver keeps frames in memory. It is safe for concurrent use.
type MemoryDriver struct {
	mutex  sync.RWMutex
	frames map[model.PFrameHandle]*storedFrame
}

var _ model.FrameReader = (*MemoryDriver)(nil)

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		frames: make(map[model.PFrameHandle]*storedFrame),
	}
}

// CreateFrame registers the columns under a newly minted handle.
func (d *MemoryDriver) CreateFrame(columns []Column) (model.PFrameHandle, error) {
	frame := &storedFrame{byID: make(map[string]*storedColumn, len(columns))}
	for _, c := range columns {
		if _, exists := frame.byID[c.Entry.ID]; exists {
			return "", errors.Errorf("duplicate column id %q", c.Entry.ID)
		}
		stored := &storedColumn{entry: c.Entry, values: make(map[string]interface{}, len(c.Cells))}
		for _, cell := range c.Cells {
			if len(cell.Key) != len(c.Entry.Spec.Axes) {
				return "", errors.Errorf("column %q: key %v does not match %d axes",
					c.Entry.ID, cell.Key, len(c.Entry.Spec.Axes))
			}
			k, err := keyString(cell.Key)
			if err != nil {
				return "", errors.Wrapf(err, "column %q", c.Entry.ID)
			}
			stored.values[k] = cell.Value
		}
		frame.columns = append(frame.columns, stored)
		frame.byID[c.Entry.ID] = stored
	}

	handle := model.PFrameHandle(uuid.New().String())

	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.frames[handle] = frame
	return handle, nil
}

// DeleteFrame forgets a frame. Deleting an unknown handle is a no-op.
func (d *MemoryDriver) DeleteFrame(handle model.PFrameHandle) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.frames, handle)
}

func (d *MemoryDriver) frame(handle model.PFrameHandle) (*storedFrame, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	f, ok := d.frames[handle]
	if !ok {
		return nil, errors.Wrapf(ErrFrameNotFound, "%s", handle)
	}
	return f, nil
}

func (d *MemoryDriver) ListColumns(ctx context.Context, handle model.PFrameHandle) ([]model.PColumnEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := d.frame(handle)
	if err != nil {
		return nil, err
	}
	entries := make([]model.PColumnEntry, 0, len(f.columns))
	for _, c := range f.columns {
		entries = append(entries, c.entry)
	}
	return entries, nil
}

func (d *MemoryDriver) GetValue(
	ctx context.Context,
	handle model.PFrameHandle,
	columnID string,
	key []interface{},
) (interface{}, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	f, err := d.frame(handle)
	if err != nil {
		return nil, false, err
	}
	c, ok := f.byID[columnID]
	if !ok {
		return nil, false, errors.Wrapf(ErrColumnNotFound, "%s", columnID)
	}
	k, err := keyString(key)
	if err != nil {
		return nil, false, err
	}
	value, found := c.values[k]
	return value, found, nil
}

// keyString normalizes a key so that values decoded from different sources
// (ints from code, float64 from JSON) address the same cell.
func keyString(key []interface{}) (string, error) {
	data, err := json.Marshal(key)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode key")
	}
	return string(data), nil
}
