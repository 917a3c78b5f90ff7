package endpoint

import (
	"net/http"
	"path"

	"github.com/milaboratories/clonotype-browser/app"
	"github.com/milaboratories/clonotype-browser/config"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/types"
)

const (
	PagesPath           = "/v1/pages"
	ColumnsPath         = "/v1/columns"
	TwoAxisPath         = "/v1/filters/two-axis"
	StatePath           = "/v1/state"
	ArgsPath            = "/v1/annotations/args"
	SelectionPath       = "/v1/selection"
	SelectionValuesPath = "/v1/selection/values"
	AnnotationModalPath = "/v1/annotation-modal"
)

type routeList struct {
	app    *app.App
	naming config.NamingConvention
	logger log.Logger
}

// Routes returns a slice of all the endpoint routes
func Routes(prefix string, cfg config.Config, a *app.App) []types.Route {
	rl := routeList{
		app:    a,
		naming: cfg.Naming(),
		logger: cfg.Logger(),
	}

	url := func(p string) string {
		return path.Join(prefix, p)
	}

	routes := []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: url(PagesPath),
			Handler: http.HandlerFunc(rl.GetPages),
		},
		{
			Method:  http.MethodGet,
			Pattern: url(ColumnsPath),
			Handler: http.HandlerFunc(rl.GetColumns),
		},
		{
			Method:  http.MethodPost,
			Pattern: url(TwoAxisPath),
			Handler: http.HandlerFunc(rl.HasTwoAxisColumn),
		},
		{
			Method:  http.MethodGet,
			Pattern: url(StatePath),
			Handler: http.HandlerFunc(rl.GetState),
		},
		{
			Method:  http.MethodPut,
			Pattern: url(StatePath),
			Handler: http.HandlerFunc(rl.UpdateState),
		},
		{
			Method:  http.MethodPost,
			Pattern: url(ArgsPath),
			Handler: http.HandlerFunc(rl.ProcessArgs),
		},
		{
			Method:  http.MethodPut,
			Pattern: url(SelectionPath),
			Handler: http.HandlerFunc(rl.UpdateSelection),
		},
		{
			Method:  http.MethodGet,
			Pattern: url(SelectionValuesPath),
			Handler: http.HandlerFunc(rl.GetSelectionValues),
		},
		{
			Method:  http.MethodPut,
			Pattern: url(AnnotationModalPath),
			Handler: http.HandlerFunc(rl.UpdateAnnotationModal),
		},
	}
	return routes
}
