package models

import "github.com/milaboratories/clonotype-browser/model"

type SelectionResult struct {
	HasSelectedColumns bool `json:"hasSelectedColumns"`
}

type SelectionValues struct {
	Rows []model.SelectedRow `json:"rows"`
}

// AnnotationModal opens or closes the annotation dialog.
type AnnotationModal struct {
	Open *bool `json:"open" validate:"required"`
}
