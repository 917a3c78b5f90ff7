package models

import "github.com/milaboratories/clonotype-browser/model"

// State is the UI state together with the values derived from it.
type State struct {
	UiState             model.UiState        `json:"uiState"`
	Args                model.AnnotationArgs `json:"args"`
	RunAllowed          bool                 `json:"runAllowed"`
	HasSelectedColumns  bool                 `json:"hasSelectedColumns"`
	AnnotationModalOpen bool                 `json:"annotationModalOpen"`
	ReferencedColumns   []string             `json:"referencedColumns"`
}

// ArgsResult is the result of converting an annotation script.
type ArgsResult struct {
	Args       model.AnnotationArgs `json:"args"`
	RunAllowed bool                 `json:"runAllowed"`
}
