// Package catalog loads snapshots of the host compute outputs: the column
// bundles offered to the filter builder, with their cell data, and the
// overlap table handle.
package catalog

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/milaboratories/clonotype-browser/frame"
	"github.com/milaboratories/clonotype-browser/model"
	"github.com/milaboratories/clonotype-browser/types"
)

type columnDocument struct {
	ID    string           `mapstructure:"id"`
	Label string           `mapstructure:"label"`
	Spec  model.ColumnSpec `mapstructure:"spec"`
	Cells []frame.Cell     `mapstructure:"cells"`
}

type bundleDocument struct {
	Columns []columnDocument `mapstructure:"columns"`
}

type document struct {
	ByClonotypeColumns          *bundleDocument `mapstructure:"byClonotypeColumns"`
	BySampleAndClonotypeColumns *bundleDocument `mapstructure:"bySampleAndClonotypeColumns"`
	OverlapTable                string          `mapstructure:"overlapTable"`
}

// Snapshot is a consistent view of the host outputs. Frames referenced by the
// outputs stay registered for as long as the snapshot is current.
type Snapshot struct {
	Outputs model.Outputs
	frames  []model.PFrameHandle
}

// NewSnapshot wraps outputs whose frames are owned by the caller.
func NewSnapshot(outputs model.Outputs) *Snapshot {
	return &Snapshot{Outputs: outputs}
}

// Load reads a catalog file. The format is picked from the extension (json,
// yaml, toml).
func Load(path string, driver *frame.MemoryDriver) (*Snapshot, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read catalog %s", path)
	}
	return fromViper(v, driver)
}

func fromViper(v *viper.Viper, driver *frame.MemoryDriver) (*Snapshot, error) {
	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, errors.Wrap(err, "unable to decode catalog")
	}

	snapshot := &Snapshot{}
	bundles := []struct {
		doc    *bundleDocument
		target **model.ColumnsBundle
	}{
		{doc.ByClonotypeColumns, &snapshot.Outputs.ByClonotypeColumns},
		{doc.BySampleAndClonotypeColumns, &snapshot.Outputs.BySampleAndClonotypeColumns},
	}
	for _, b := range bundles {
		if b.doc == nil {
			continue
		}
		bundle, err := register(b.doc, driver)
		if err != nil {
			snapshot.release(driver)
			return nil, err
		}
		snapshot.frames = append(snapshot.frames, bundle.PFrame)
		*b.target = bundle
	}

	if doc.OverlapTable != "" {
		table := model.TableHandle(doc.OverlapTable)
		snapshot.Outputs.OverlapTable = &table
	}
	return snapshot, nil
}

func register(doc *bundleDocument, driver *frame.MemoryDriver) (*model.ColumnsBundle, error) {
	columns := make([]frame.Column, 0, len(doc.Columns))
	entries := make([]model.PColumnEntry, 0, len(doc.Columns))
	for _, c := range doc.Columns {
		if c.ID == "" {
			return nil, errors.New("catalog column without id")
		}
		entry := model.PColumnEntry{ID: c.ID, Label: c.Label, Spec: c.Spec}
		cells := make([]frame.Cell, 0, len(c.Cells))
		for _, cell := range c.Cells {
			value, err := types.FromJsonValue(cell.Value, c.Spec.ValueType)
			if err != nil {
				return nil, errors.Wrapf(err, "column %q, key %v", c.ID, cell.Key)
			}
			cells = append(cells, frame.Cell{Key: cell.Key, Value: value})
		}
		columns = append(columns, frame.Column{Entry: entry, Cells: cells})
		entries = append(entries, entry)
	}

	handle, err := driver.CreateFrame(columns)
	if err != nil {
		return nil, errors.Wrap(err, "unable to register catalog frame")
	}
	return &model.ColumnsBundle{Columns: entries, PFrame: handle}, nil
}

func (s *Snapshot) release(driver *frame.MemoryDriver) {
	for _, handle := range s.frames {
		driver.DeleteFrame(handle)
	}
}
