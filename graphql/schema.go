package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/milaboratories/clonotype-browser/app"
	"github.com/milaboratories/clonotype-browser/config"
	"github.com/milaboratories/clonotype-browser/filter"
	"github.com/milaboratories/clonotype-browser/log"
	"github.com/milaboratories/clonotype-browser/model"
)

type SchemaGenerator struct {
	app    *app.App
	naming config.NamingConvention
	logger log.Logger
}

func NewSchemaGenerator(a *app.App, cfg config.Config) *SchemaGenerator {
	return &SchemaGenerator{
		app:    a,
		naming: cfg.Naming(),
		logger: cfg.Logger(),
	}
}

func (sg *SchemaGenerator) BuildSchema() (graphql.Schema, error) {
	modeEnum := buildModeEnum(sg.naming)
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    sg.buildQuery(modeEnum),
		Mutation: sg.buildMutation(),
	})
}

func (sg *SchemaGenerator) buildQuery(modeEnum *graphql.Enum) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"pages": &graphql.Field{
				Type:    graphql.NewList(pageRouteType),
				Resolve: sg.pages,
			},
			"filterColumns": &graphql.Field{
				Type: graphql.NewList(columnType),
				Args: graphql.FieldConfigArgument{
					"mode": &graphql.ArgumentConfig{Type: modeEnum},
				},
				Resolve: sg.filterColumns,
			},
			"hasTwoAxisColumn": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: sg.hasTwoAxisColumn,
			},
			"runAllowed": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sg.app.RunAllowed(), nil
				},
			},
			"hasSelectedColumns": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sg.app.HasSelectedColumns(), nil
				},
			},
			"annotationModalOpen": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return sg.app.AnnotationModalOpen(), nil
				},
			},
			"args": &graphql.Field{
				Type:    annotationArgsType,
				Resolve: sg.args,
			},
			"state": &graphql.Field{
				Type:    stateType,
				Resolve: sg.state,
			},
			"selectedValues": &graphql.Field{
				Type:    graphql.NewList(selectedRowType),
				Resolve: sg.selectedValues,
			},
		},
	})
}

func (sg *SchemaGenerator) buildMutation() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"setAnnotationModalOpen": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"open": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					open, _ := p.Args["open"].(bool)
					sg.app.SetAnnotationModalOpen(open)
					return open, nil
				},
			},
			"updateUiState": &graphql.Field{
				Type: stateType,
				Args: graphql.FieldConfigArgument{
					"state": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: sg.updateUiState,
			},
			"setSelection": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"selection": &graphql.ArgumentConfig{Type: graphql.NewNonNull(jsonScalar)},
				},
				Resolve: sg.setSelection,
			},
		},
	})
}

func (sg *SchemaGenerator) pages(p graphql.ResolveParams) (interface{}, error) {
	result := make([]map[string]interface{}, 0)
	for _, route := range sg.app.Pages() {
		result = append(result, map[string]interface{}{
			"path": route.Path,
			"page": string(route.Page),
		})
	}
	return result, nil
}

func (sg *SchemaGenerator) filterColumns(p graphql.ResolveParams) (interface{}, error) {
	value, ok := p.Args["mode"].(string)
	if !ok {
		return sg.app.FilterColumns(), nil
	}
	mode, err := model.ParseMode(value)
	if err != nil {
		return nil, err
	}
	return sg.app.FilterColumnsFor(mode), nil
}

func (sg *SchemaGenerator) hasTwoAxisColumn(p graphql.ResolveParams) (interface{}, error) {
	text, _ := p.Args["filter"].(string)
	node, err := filter.Parse([]byte(text))
	if err != nil {
		return nil, err
	}
	return filter.HasTwoAxisColumn(node), nil
}

func (sg *SchemaGenerator) args(p graphql.ResolveParams) (interface{}, error) {
	args, err := sg.app.Args()
	if err != nil {
		return nil, err
	}
	return argsToMap(args), nil
}

func (sg *SchemaGenerator) state(p graphql.ResolveParams) (interface{}, error) {
	args, err := sg.app.Args()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"uiState":             sg.app.UiState(),
		"args":                argsToMap(args),
		"runAllowed":          sg.app.RunAllowed(),
		"hasSelectedColumns":  sg.app.HasSelectedColumns(),
		"annotationModalOpen": sg.app.AnnotationModalOpen(),
		"referencedColumns":   sg.app.ReferencedColumns(),
	}, nil
}

func (sg *SchemaGenerator) selectedValues(p graphql.ResolveParams) (interface{}, error) {
	return sg.app.ValuesForSelectedColumns(p.Context)
}

func (sg *SchemaGenerator) updateUiState(p graphql.ResolveParams) (interface{}, error) {
	text, _ := p.Args["state"].(string)
	raw, ok := deserializeJSON(text).(map[string]interface{})
	if !ok && text != "null" {
		return nil, errors.New("state must be a JSON object")
	}
	if _, err := sg.app.UpdateUiState(raw); err != nil {
		return nil, err
	}
	return sg.state(p)
}

func (sg *SchemaGenerator) setSelection(p graphql.ResolveParams) (interface{}, error) {
	var selection model.SelectionModel
	if err := mapstructure.Decode(p.Args["selection"], &selection); err != nil {
		return nil, errors.Wrap(err, "invalid selection")
	}
	if err := sg.app.SetSelection(selection); err != nil {
		return nil, err
	}
	return sg.app.HasSelectedColumns(), nil
}
