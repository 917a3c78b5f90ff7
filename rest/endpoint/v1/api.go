package endpoint

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/milaboratories/clonotype-browser/filter"
	"github.com/milaboratories/clonotype-browser/model"
	e "github.com/milaboratories/clonotype-browser/rest/errors"
	m "github.com/milaboratories/clonotype-browser/rest/models"
)

func (s *routeList) GetPages(w http.ResponseWriter, r *http.Request) {
	RespondJSONObjectWithCode(w, http.StatusOK, s.app.Pages())
}

func (s *routeList) GetColumns(w http.ResponseWriter, r *http.Request) {
	modeParam := r.URL.Query().Get("mode")
	mode := s.app.Mode()
	if modeParam != "" {
		var err error
		if mode, err = model.ParseMode(modeParam); err != nil {
			RespondWithError(w, err, http.StatusBadRequest)
			return
		}
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.Columns{
		Mode:    mode,
		Columns: s.app.FilterColumnsFor(mode),
	})
}

func (s *routeList) HasTwoAxisColumn(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		RespondWithError(w, errors.New("unable to read payload"), http.StatusBadRequest)
		return
	}

	node, err := filter.Parse(body)
	if err != nil {
		s.logger.Debug("unable to parse filter", "error", err)
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.TwoAxisResult{TwoAxis: filter.HasTwoAxisColumn(node)})
}

func (s *routeList) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.state()
	if err != nil {
		msg := "unable to compute annotation arguments"
		s.logger.Error(msg, "error", err)
		RespondWithStatusError(w, e.NewInternalError(msg))
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, state)
}

func (s *routeList) UpdateState(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		RespondWithError(w, errors.New("unable to parse payload"), http.StatusBadRequest)
		return
	}

	if _, err := s.app.UpdateUiState(raw); err != nil {
		s.logger.Debug("ui state rejected", "error", err)
		if errors.Cause(err) == model.ErrUnsupportedUiStateVersion {
			RespondWithStatusError(w, e.NewConflictError(err.Error()))
			return
		}
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	s.GetState(w, r)
}

func (s *routeList) ProcessArgs(w http.ResponseWriter, r *http.Request) {
	var script model.AnnotationScript
	if err := json.NewDecoder(r.Body).Decode(&script); err != nil {
		RespondWithError(w, errors.Wrap(err, "unable to parse payload"), http.StatusBadRequest)
		return
	}

	args, err := model.ProcessAnnotationUiStateToArgs(script, s.naming)
	if err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.ArgsResult{
		Args:       args,
		RunAllowed: model.RunAllowed(script),
	})
}

func (s *routeList) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	var selection model.SelectionModel
	if err := json.NewDecoder(r.Body).Decode(&selection); err != nil {
		RespondWithError(w, errors.New("unable to parse payload"), http.StatusBadRequest)
		return
	}

	if err := s.app.SetSelection(selection); err != nil {
		RespondWithStatusError(w, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.SelectionResult{HasSelectedColumns: s.app.HasSelectedColumns()})
}

func (s *routeList) GetSelectionValues(w http.ResponseWriter, r *http.Request) {
	rows, err := s.app.ValuesForSelectedColumns(r.Context())
	if err != nil {
		code := e.StatusCode(err)
		if code == http.StatusInternalServerError {
			s.logger.Error("unable to read selected values", "error", err)
		}
		RespondWithError(w, err, code)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.SelectionValues{Rows: rows})
}

func (s *routeList) UpdateAnnotationModal(w http.ResponseWriter, r *http.Request) {
	var modal m.AnnotationModal
	if err := parseAndValidatePayload(&modal, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	s.app.SetAnnotationModalOpen(*modal.Open)
	RespondJSONObjectWithCode(w, http.StatusOK, modal)
}

func (s *routeList) state() (m.State, error) {
	args, err := s.app.Args()
	if err != nil {
		return m.State{}, err
	}
	return m.State{
		UiState:             s.app.UiState(),
		Args:                args,
		RunAllowed:          s.app.RunAllowed(),
		HasSelectedColumns:  s.app.HasSelectedColumns(),
		AnnotationModalOpen: s.app.AnnotationModalOpen(),
		ReferencedColumns:   s.app.ReferencedColumns(),
	}, nil
}

func parseAndValidatePayload(obj interface{}, r *http.Request) error {
	if err := json.NewDecoder(r.Body).Decode(obj); err != nil {
		return e.NewBadRequestError("unable to parse payload")
	}

	return model.Validate(obj)
}
