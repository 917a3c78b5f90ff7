package models

import "github.com/milaboratories/clonotype-browser/model"

type Columns struct {
	Mode    model.Mode           `json:"mode"`
	Columns []model.PColumnEntry `json:"columns"`
}
