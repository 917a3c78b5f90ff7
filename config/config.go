package config

import (
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/model"
)

type Config interface {
	Naming() NamingConvention
	DefaultMode() model.Mode
	Logger() log.Logger
}
