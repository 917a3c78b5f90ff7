package config

import (
	"strings"

	"github.com/iancoleman/strcase"
)

type NamingConvention interface {
	// ToSpecName derives the pipeline name of an annotation from its label.
	ToSpecName(label string) string

	// ToGraphQLType names GraphQL types and enum values.
	ToGraphQLType(name string) string
}

type defaultNaming struct {
}

func NewDefaultNaming() *defaultNaming {
	return &defaultNaming{}
}

func (n *defaultNaming) ToSpecName(label string) string {
	name := strcase.ToSnake(strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == ' ' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, label))
	if name == "" {
		return "annotation"
	}
	return name
}

func (n *defaultNaming) ToGraphQLType(name string) string {
	return strcase.ToCamel(name)
}
