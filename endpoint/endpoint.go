package endpoint

import (
	"go.uber.org/zap"

	"github.com/milaboratories/clonotype-browser/app"
	"github.com/milaboratories/clonotype-browser/catalog"
	"github.com/milaboratories/clonotype-browser/config"
	"github.com/milaboratories/clonotype-browser/frame"
	"github.com/milaboratories/clonotype-browser/graphql"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/model"
	"github.com/milaboratories/clonotype-browser/rest"
	"github.com/milaboratories/clonotype-browser/types"
)

type BrowserEndpointConfig struct {
	naming       config.NamingConvention
	defaultMode  model.Mode
	catalogPath  string
	watchCatalog bool
	logger       log.Logger
}

func (cfg BrowserEndpointConfig) Naming() config.NamingConvention {
	return cfg.naming
}

func (cfg BrowserEndpointConfig) DefaultMode() model.Mode {
	return cfg.defaultMode
}

func (cfg BrowserEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *BrowserEndpointConfig) WithNaming(naming config.NamingConvention) *BrowserEndpointConfig {
	cfg.naming = naming
	return cfg
}

func (cfg *BrowserEndpointConfig) WithDefaultMode(mode model.Mode) *BrowserEndpointConfig {
	cfg.defaultMode = mode
	return cfg
}

// WithCatalog sets the file the host outputs are read from. When watch is
// set the outputs are reloaded whenever the file changes.
func (cfg *BrowserEndpointConfig) WithCatalog(path string, watch bool) *BrowserEndpointConfig {
	cfg.catalogPath = path
	cfg.watchCatalog = watch
	return cfg
}

func (cfg BrowserEndpointConfig) NewEndpoint() (*BrowserEndpoint, error) {
	store := catalog.NewStore(frame.NewMemoryDriver(), cfg.logger)
	if cfg.catalogPath != "" {
		if err := store.Load(cfg.catalogPath); err != nil {
			return nil, err
		}
		if cfg.watchCatalog {
			if err := store.Watch(); err != nil {
				return nil, err
			}
		}
	}
	return cfg.newEndpointWithStore(store), nil
}

func (cfg BrowserEndpointConfig) newEndpointWithStore(store *catalog.Store) *BrowserEndpoint {
	a := app.New(store, cfg)
	return &BrowserEndpoint{
		app:             a,
		store:           store,
		graphQLRouteGen: graphql.NewRouteGenerator(a, cfg),
		restRouteGen:    rest.NewRouteGenerator(a, cfg),
	}
}

type BrowserEndpoint struct {
	app             *app.App
	store           *catalog.Store
	graphQLRouteGen *graphql.RouteGenerator
	restRouteGen    *rest.RouteGenerator
}

func NewEndpointConfig() (*BrowserEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger)), nil
}

func NewEndpointConfigWithLogger(logger log.Logger) *BrowserEndpointConfig {
	return &BrowserEndpointConfig{
		naming:      config.NewDefaultNaming(),
		defaultMode: model.DefaultMode,
		logger:      logger,
	}
}

func (e *BrowserEndpoint) App() *app.App {
	return e.app
}

func (e *BrowserEndpoint) Store() *catalog.Store {
	return e.store
}

func (e *BrowserEndpoint) RoutesGraphQL(pattern string) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern)
}

func (e *BrowserEndpoint) RoutesREST(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix)
}
