package rest

import (
	"github.com/milaboratories/clonotype-browser/app"
	"github.com/milaboratories/clonotype-browser/config"
	restEndpointV1 "github.com/milaboratories/clonotype-browser/rest/endpoint/v1"
	"github.com/milaboratories/clonotype-browser/types"
)

type RouteGenerator struct {
	app    *app.App
	config config.Config
}

func NewRouteGenerator(a *app.App, cfg config.Config) *RouteGenerator {
	return &RouteGenerator{
		app:    a,
		config: cfg,
	}
}

func (g *RouteGenerator) Routes(prefix string) []types.Route {
	return restEndpointV1.Routes(prefix, g.config, g.app)
}
