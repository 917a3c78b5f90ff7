package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/milaboratories/clonotype-browser/config"
	"github.com/milaboratories/clonotype-browser/model"
)

var pageRouteType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PageRoute",
	Fields: graphql.Fields{
		"path": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"page": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var axisSpecType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AxisSpec",
	Fields: graphql.Fields{
		"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"type":   &graphql.Field{Type: graphql.String},
		"domain": &graphql.Field{Type: jsonScalar},
	},
})

var columnSpecType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ColumnSpec",
	Fields: graphql.Fields{
		"kind":      &graphql.Field{Type: graphql.String},
		"name":      &graphql.Field{Type: graphql.String},
		"valueType": &graphql.Field{Type: graphql.String},
		"axes":      &graphql.Field{Type: graphql.NewList(axisSpecType)},
	},
})

var columnType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Column",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"label": &graphql.Field{Type: graphql.String},
		"spec":  &graphql.Field{Type: columnSpecType},
		"ref": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.String),
			Description: "The column reference as embedded in filter trees",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if entry, ok := p.Source.(model.PColumnEntry); ok {
					return entry.Ref(), nil
				}
				return nil, nil
			},
		},
	},
})

var annotationSpecType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AnnotationSpec",
	Fields: graphql.Fields{
		"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"label":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"filter": &graphql.Field{Type: graphql.String},
	},
})

var annotationArgsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AnnotationArgs",
	Fields: graphql.Fields{
		"mode":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"specs": &graphql.Field{Type: graphql.NewList(annotationSpecType)},
	},
})

var stateType = graphql.NewObject(graphql.ObjectConfig{
	Name: "State",
	Fields: graphql.Fields{
		"uiState":             &graphql.Field{Type: jsonScalar},
		"args":                &graphql.Field{Type: annotationArgsType},
		"runAllowed":          &graphql.Field{Type: graphql.Boolean},
		"hasSelectedColumns":  &graphql.Field{Type: graphql.Boolean},
		"annotationModalOpen": &graphql.Field{Type: graphql.Boolean},
		"referencedColumns":   &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var selectedRowType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SelectedRow",
	Fields: graphql.Fields{
		"key":    &graphql.Field{Type: jsonScalar},
		"values": &graphql.Field{Type: jsonScalar},
	},
})

// buildModeEnum exposes the annotation modes. Enum values are named after the
// modes with the configured naming convention.
func buildModeEnum(naming config.NamingConvention) *graphql.Enum {
	values := graphql.EnumValueConfigMap{}
	for _, mode := range []model.Mode{model.BySampleAndClonotype, model.ByClonotype} {
		values[naming.ToGraphQLType(string(mode))] = &graphql.EnumValueConfig{
			Value: string(mode),
		}
	}
	return graphql.NewEnum(graphql.EnumConfig{
		Name:   "Mode",
		Values: values,
	})
}

func argsToMap(args model.AnnotationArgs) map[string]interface{} {
	specs := make([]map[string]interface{}, 0, len(args.Specs))
	for _, spec := range args.Specs {
		specs = append(specs, map[string]interface{}{
			"name":   spec.Name,
			"label":  spec.Label,
			"filter": string(spec.Filter),
		})
	}
	return map[string]interface{}{
		"mode":  string(args.Mode),
		"specs": specs,
	}
}
