package cmd

import (
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/milaboratories/clonotype-browser/endpoint"
	"github.com/milaboratories/clonotype-browser/graphql"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/model"
	restv1 "github.com/milaboratories/clonotype-browser/rest/endpoint/v1"
	e "github.com/milaboratories/clonotype-browser/rest/errors"
)

const defaultGraphQLPath = "/graphql"
const defaultRESTPath = "/rest"
const defaultGraphQLPlaygroundPath = "/graphql-playground"

// Environment variables prefixed with "CLONOTYPE_BROWSER_" can override settings e.g. "CLONOTYPE_BROWSER_CATALOG"
const envVarPrefix = "clonotype_browser"

var cfgFile string
var logger log.Logger

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " --catalog [FILE] [--start-graphql|--start-rest] [OPTIONS]",
	Short: "GraphQL and REST endpoints for the clonotype browser",
	Args: func(cmd *cobra.Command, args []string) error {
		startGraphQL := viper.GetBool("start-graphql")
		startREST := viper.GetBool("start-rest")

		if !startGraphQL && !startREST {
			return errors.New("at least one endpoint type should be started")
		}
		if startGraphQL && startREST && viper.GetString("graphql-path") == viper.GetString("rest-path") {
			return errors.New("graphql and rest paths can not be the same")
		}
		if _, err := model.ParseMode(viper.GetString("default-mode")); err != nil {
			return err
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		endpoint := createEndpoint()

		router := createRouter()
		endpointNames := ""
		if viper.GetBool("start-graphql") {
			addGraphQLRoutes(router, endpoint)
			endpointNames += "GraphQL"
		}
		if viper.GetBool("start-rest") {
			addRESTRoutes(router, endpoint)
			if endpointNames != "" {
				endpointNames += "/"
			}
			endpointNames += "REST"
		}
		listenAndServe(router, viper.GetInt("port"), endpointNames)
	},
}

// Execute start GraphQL/REST endpoints
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	// General endpoint flags
	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.String("catalog", "", "file with the host outputs (json, yaml or toml)")
	flags.Bool("watch-catalog", false, "reload the catalog file when it changes")
	flags.String("default-mode", string(model.DefaultMode), "annotation mode of a new ui state. options: byClonotype,bySampleAndClonotype")
	flags.Int("port", 8080, "port to bind the endpoints to")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")

	// GraphQL specific flags
	flags.Bool("start-graphql", true, "start the GraphQL endpoint")
	flags.String("graphql-path", defaultGraphQLPath, "GraphQL endpoint path")
	flags.Bool("graphql-playground", true, "expose a GraphQL playground route")
	flags.String("graphql-playground-path", defaultGraphQLPlaygroundPath, "path for the GraphQL playground static file")

	// REST specific flags
	flags.Bool("start-rest", false, "start the REST endpoint")
	flags.String("rest-path", defaultRESTPath, "REST endpoint path")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			_ = viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.BrowserEndpoint {
	mode, _ := model.ParseMode(viper.GetString("default-mode"))

	cfg := endpoint.NewEndpointConfigWithLogger(logger).
		WithDefaultMode(mode).
		WithCatalog(viper.GetString("catalog"), viper.GetBool("watch-catalog"))

	endpoint, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	return endpoint
}

func addGraphQLRoutes(router *httprouter.Router, endpoint *endpoint.BrowserEndpoint) {
	rootPath := viper.GetString("graphql-path")

	routes, err := endpoint.RoutesGraphQL(rootPath)
	if err != nil {
		logger.Fatal("unable to generate graphql routes",
			"error", err)
	}

	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}

	if viper.GetBool("graphql-playground") {
		playgroundPath := viper.GetString("graphql-playground-path")
		hostAndPort := fmt.Sprintf("http://localhost:%d", viper.GetInt("port"))
		logger.Info("get started by visiting the GraphQL playground",
			"url", fmt.Sprintf("%s%s", hostAndPort, playgroundPath))
		router.GET(playgroundPath, graphql.GetPlaygroundHandle(fmt.Sprintf("%s%s", hostAndPort, rootPath)))
	}
}

func addRESTRoutes(router *httprouter.Router, endpoint *endpoint.BrowserEndpoint) {
	for _, route := range endpoint.RoutesREST(viper.GetString("rest-path")) {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func createRouter() *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		restv1.RespondWithStatusError(w, e.NewNotFoundError(fmt.Sprintf("no resource at %s", r.URL.Path)))
	})
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Access-Control-Request-Method") != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Methods", r.Header.Get("Access-Control-Request-Method"))
				header.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
				header.Set("Access-Control-Allow-Origin", value)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

func listenAndServe(handler http.Handler, port int, endpointNames string) {
	logger.Info("server listening",
		"port", port,
		"type", endpointNames)
	handler = maybeAddCORS(maybeAddRequestLogging(handler))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}
