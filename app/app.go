// Package app is the clonotype browser application: it combines the host
// outputs with the UI state, the table selection and the annotation modal.
package app

import (
	"context"
	"sync"

	"github.com/milaboratories/clonotype-browser/catalog"
	"github.com/milaboratories/clonotype-browser/config"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/model"
)

type Page string

const (
	OverlapPage         Page = "OverlapPage"
	AnnotationStatsPage Page = "AnnotationStatsPage"
)

type PageRoute struct {
	Path string `json:"path"`
	Page Page   `json:"page"`
}

var pages = []PageRoute{
	{Path: "/", Page: OverlapPage},
	{Path: "/overlap", Page: OverlapPage},
	{Path: "/stats", Page: AnnotationStatsPage},
}

type App struct {
	store  *catalog.Store
	naming config.NamingConvention
	logger log.Logger

	mutex     sync.RWMutex
	state     *model.UiState
	selection model.SelectionModel
	modalOpen bool
}

func New(store *catalog.Store, cfg config.Config) *App {
	state := model.NewUiState()
	state.AnnotationScript.Mode = cfg.DefaultMode()

	a := &App{
		store:     store,
		naming:    cfg.Naming(),
		logger:    cfg.Logger(),
		state:     state,
		selection: model.NewSelectionModel(),
	}
	store.OnChange(func(snapshot *catalog.Snapshot) {
		a.logger.Debug("host outputs updated",
			"filterColumns", len(model.FilterColumns(a.Mode(), snapshot.Outputs)))
	})
	return a
}

func (a *App) Pages() []PageRoute {
	result := make([]PageRoute, len(pages))
	copy(result, pages)
	return result
}

// Mode is the annotation mode of the current script.
func (a *App) Mode() model.Mode {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.state.AnnotationScript.Mode
}

func (a *App) FilterColumns() []model.PColumnEntry {
	return a.FilterColumnsFor(a.Mode())
}

func (a *App) FilterColumnsFor(mode model.Mode) []model.PColumnEntry {
	return model.FilterColumns(mode, a.store.Outputs())
}

func (a *App) Selection() model.SelectionModel {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.selection
}

// SetSelection replaces the selection. Every key must have one value per
// selection axis.
func (a *App) SetSelection(selection model.SelectionModel) error {
	if selection.AxesSpec == nil {
		selection.AxesSpec = []model.AxisSpec{}
	}
	if selection.SelectedKeys == nil {
		selection.SelectedKeys = [][]interface{}{}
	}
	for _, key := range selection.SelectedKeys {
		if len(key) != len(selection.AxesSpec) {
			return model.ErrInvalidSelectionKey
		}
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.selection = selection
	return nil
}

func (a *App) HasSelectedColumns() bool {
	return a.Selection().HasSelectedColumns()
}

// ValuesForSelectedColumns reads the selected rows from the frames of the
// current mode.
func (a *App) ValuesForSelectedColumns(ctx context.Context) ([]model.SelectedRow, error) {
	frames, err := model.PFramesFor(a.Mode(), a.store.Outputs())
	if err != nil {
		return nil, err
	}
	return model.ValuesForSelectedColumns(ctx, a.Selection(), frames, a.store.Driver())
}

func (a *App) UiState() model.UiState {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return *a.state
}

// UpdateUiState migrates a saved or edited state and makes it current. The
// state is rejected when it cannot be turned into annotation arguments.
func (a *App) UpdateUiState(raw map[string]interface{}) (model.UiState, error) {
	state, err := model.MigrateUiState(raw)
	if err != nil {
		return model.UiState{}, err
	}
	if _, err := model.ProcessAnnotationUiStateToArgs(state.AnnotationScript, a.naming); err != nil {
		return model.UiState{}, err
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.state = state
	return *state, nil
}

func (a *App) Args() (model.AnnotationArgs, error) {
	return model.ProcessAnnotationUiStateToArgs(a.UiState().AnnotationScript, a.naming)
}

func (a *App) RunAllowed() bool {
	return model.RunAllowed(a.UiState().AnnotationScript)
}

func (a *App) ReferencedColumns() []string {
	return model.ReferencedColumns(a.UiState().AnnotationScript)
}

func (a *App) AnnotationModalOpen() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.modalOpen
}

func (a *App) SetAnnotationModalOpen(open bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.modalOpen = open
}
