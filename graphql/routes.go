package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"

	"github.com/milaboratories/clonotype-browser/app"
	"github.com/milaboratories/clonotype-browser/config"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/types"
)

type executeQueryFunc func(query string, variables map[string]interface{}, ctx context.Context) *graphql.Result

type RouteGenerator struct {
	logger    log.Logger
	schemaGen *SchemaGenerator
}

type RequestBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

func NewRouteGenerator(a *app.App, cfg config.Config) *RouteGenerator {
	return &RouteGenerator{
		logger:    cfg.Logger(),
		schemaGen: NewSchemaGenerator(a, cfg),
	}
}

func (rg *RouteGenerator) Routes(pattern string) ([]types.Route, error) {
	schema, err := rg.schemaGen.BuildSchema()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build graphql schema")
	}
	return routesForSchema(pattern, func(query string, variables map[string]interface{}, ctx context.Context) *graphql.Result {
		return rg.executeQuery(query, variables, ctx, schema)
	}), nil
}

func routesForSchema(pattern string, execute executeQueryFunc) []types.Route {
	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var variables map[string]interface{}
				if value := r.URL.Query().Get("variables"); value != "" {
					if err := json.Unmarshal([]byte(value), &variables); err != nil {
						http.Error(w, "Variables are invalid", 400)
						return
					}
				}
				result := execute(r.URL.Query().Get("query"), variables, r.Context())
				writeResult(w, result)
			}),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Body == nil {
					http.Error(w, "No request body", 400)
					return
				}

				var body RequestBody
				err := json.NewDecoder(r.Body).Decode(&body)
				if err != nil {
					http.Error(w, "Request body is invalid", 400)
					return
				}

				result := execute(body.Query, body.Variables, r.Context())
				writeResult(w, result)
			}),
		},
	}
}

func writeResult(w http.ResponseWriter, result *graphql.Result) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(result)
	if err != nil {
		http.Error(w, "response could not be encoded: "+err.Error(), 500)
	}
}

func (rg *RouteGenerator) executeQuery(
	query string, variables map[string]interface{}, ctx context.Context, schema graphql.Schema,
) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		rg.logger.Error("unexpected errors processing graphql query", "errors", result.Errors)
	}
	return result
}
