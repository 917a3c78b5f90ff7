package testutil

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/milaboratories/clonotype-browser/catalog"
	"github.com/milaboratories/clonotype-browser/filter"
	"github.com/milaboratories/clonotype-browser/frame"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/model"
)

var (
	SampleAxis    = model.AxisSpec{Name: "pl7.app/sampleId", Type: "String"}
	ClonotypeAxis = model.AxisSpec{Name: "pl7.app/vdj/clonotypeKey", Type: "String"}
)

func ClonotypeColumn(id, label string) model.PColumnEntry {
	return model.PColumnEntry{ID: id, Label: label, Spec: model.ColumnSpec{
		Kind: "PColumn", Name: id, ValueType: "String", Axes: []model.AxisSpec{ClonotypeAxis},
	}}
}

func SampleClonotypeColumn(id, label string) model.PColumnEntry {
	return model.PColumnEntry{ID: id, Label: label, Spec: model.ColumnSpec{
		Kind: "PColumn", Name: id, ValueType: "Double", Axes: []model.AxisSpec{SampleAxis, ClonotypeAxis},
	}}
}

var (
	CDR3      = ClonotypeColumn("cdr3", "CDR3 aa")
	VGene     = ClonotypeColumn("vGene", "V gene")
	Abundance = SampleClonotypeColumn("abundance", "Abundance")
)

// Fixture is a store with both column bundles registered in an in-memory
// frame driver.
type Fixture struct {
	Driver *frame.MemoryDriver
	Store  *catalog.Store
}

func NewFixture() *Fixture {
	driver := frame.NewMemoryDriver()

	clonotypeFrame, err := driver.CreateFrame([]frame.Column{
		{Entry: CDR3, Cells: []frame.Cell{
			{Key: []interface{}{"ck1"}, Value: "CASSLGQ"},
			{Key: []interface{}{"ck2"}, Value: "CASRDG"},
		}},
		{Entry: VGene, Cells: []frame.Cell{
			{Key: []interface{}{"ck1"}, Value: "TRBV5-1"},
		}},
	})
	PanicIfError(err)

	sampleFrame, err := driver.CreateFrame([]frame.Column{
		{Entry: Abundance, Cells: []frame.Cell{
			{Key: []interface{}{"s1", "ck1"}, Value: 0.25},
			{Key: []interface{}{"s2", "ck1"}, Value: 0.05},
		}},
	})
	PanicIfError(err)

	table := model.TableHandle("overlap")
	store := catalog.NewStore(driver, TestLogger())
	store.Set(catalog.NewSnapshot(model.Outputs{
		ByClonotypeColumns: &model.ColumnsBundle{
			Columns: []model.PColumnEntry{CDR3, VGene},
			PFrame:  clonotypeFrame,
		},
		BySampleAndClonotypeColumns: &model.ColumnsBundle{
			Columns: []model.PColumnEntry{Abundance},
			PFrame:  sampleFrame,
		},
		OverlapTable: &table,
	}))

	return &Fixture{Driver: driver, Store: store}
}

// EmptyStore is a store before the host has produced any output.
func EmptyStore() *catalog.Store {
	return catalog.NewStore(frame.NewMemoryDriver(), TestLogger())
}

// TwoAxisFilter references the per-sample abundance column.
func TwoAxisFilter() filter.Node {
	return filter.And{Filters: []filter.Node{
		filter.NumericalComparison{Lhs: Abundance.Ref(), Rhs: 0.1},
	}}
}

// OneAxisFilter references only per-clonotype columns.
func OneAxisFilter() filter.Node {
	return filter.Pattern{
		Column:    CDR3.Ref(),
		Predicate: filter.PatternPredicate{Type: "containSubsequence", Value: "CASS"},
	}
}

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}
