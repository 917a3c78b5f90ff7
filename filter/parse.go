package filter

import (
	"bytes"
	"encoding/json"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// ErrInvalidFilter is the cause of every error returned for a filter document
// that is not JSON or whose root is not an object.
var ErrInvalidFilter = errors.New("invalid filter")

type groupFields struct {
	Filters []interface{} `mapstructure:"filters"`
}

type notFields struct {
	Filter interface{} `mapstructure:"filter"`
}

type comparisonFields struct {
	Lhs     interface{} `mapstructure:"lhs"`
	Rhs     interface{} `mapstructure:"rhs"`
	MinDiff *float64    `mapstructure:"minDiff"`
}

type columnFields struct {
	Column    interface{}      `mapstructure:"column"`
	Predicate PatternPredicate `mapstructure:"predicate"`
}

// Parse builds a filter tree from its JSON form. Empty input, "null" and "{}"
// yield a nil Node.
func Parse(data []byte) (Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(ErrInvalidFilter, "unable to decode filter: %s", err)
	}
	return FromValue(raw)
}

// FromValue builds a filter tree from an already decoded JSON value. Only a
// root that is neither null nor an object is an error.
func FromValue(raw interface{}) (Node, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.Wrapf(ErrInvalidFilter, "expected an object, got %T", raw)
	}
	return FromMap(m), nil
}

// FromMap builds a filter tree from a decoded JSON object. Nested values that
// are not objects become absent filters and nodes whose fields do not decode
// become Unknown, so a malformed branch never hides its siblings.
func FromMap(m map[string]interface{}) Node {
	if len(m) == 0 {
		return nil
	}

	tag, _ := m["type"].(string)
	switch Op(tag) {
	case OpAnd, OpOr:
		var fields groupFields
		if !decode(m, &fields) {
			return Unknown{Type: tag}
		}
		children := fromValues(fields.Filters)
		if Op(tag) == OpAnd {
			return And{Filters: children}
		}
		return Or{Filters: children}
	case OpNot:
		var fields notFields
		if !decode(m, &fields) {
			return Unknown{Type: tag}
		}
		child := fromChild(fields.Filter)
		if child == nil {
			return nil
		}
		return Not{Filter: child}
	case OpNumericalComparison:
		var fields comparisonFields
		if !decode(m, &fields) {
			return Unknown{Type: tag}
		}
		return NumericalComparison{Lhs: fields.Lhs, Rhs: fields.Rhs, MinDiff: fields.MinDiff}
	case OpIsNA:
		var fields columnFields
		if !decode(m, &fields) {
			return Unknown{Type: tag}
		}
		return IsNA{Column: fields.Column}
	case OpPattern:
		var fields columnFields
		if !decode(m, &fields) {
			return Unknown{Type: tag}
		}
		return Pattern{Column: fields.Column, Predicate: fields.Predicate}
	default:
		return Unknown{Type: tag}
	}
}

func fromChild(v interface{}) Node {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return FromMap(m)
}

func fromValues(values []interface{}) []Node {
	nodes := make([]Node, 0, len(values))
	for _, v := range values {
		nodes = append(nodes, fromChild(v))
	}
	return nodes
}

func decode(m map[string]interface{}, out interface{}) bool {
	return mapstructure.Decode(m, out) == nil
}

// ToValue converts a tree back into its JSON-compatible form.
func ToValue(n Node) interface{} {
	switch n := n.(type) {
	case nil:
		return nil
	case And:
		return map[string]interface{}{"type": string(OpAnd), "filters": toValues(n.Filters)}
	case Or:
		return map[string]interface{}{"type": string(OpOr), "filters": toValues(n.Filters)}
	case Not:
		return map[string]interface{}{"type": string(OpNot), "filter": ToValue(n.Filter)}
	case NumericalComparison:
		v := map[string]interface{}{"type": string(OpNumericalComparison), "lhs": n.Lhs, "rhs": n.Rhs}
		if n.MinDiff != nil {
			v["minDiff"] = *n.MinDiff
		}
		return v
	case IsNA:
		return map[string]interface{}{"type": string(OpIsNA), "column": n.Column}
	case Pattern:
		return map[string]interface{}{
			"type":   string(OpPattern),
			"column": n.Column,
			"predicate": map[string]interface{}{
				"type":  n.Predicate.Type,
				"value": n.Predicate.Value,
			},
		}
	case Unknown:
		return map[string]interface{}{"type": n.Type}
	default:
		return nil
	}
}

func toValues(nodes []Node) []interface{} {
	values := make([]interface{}, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, ToValue(n))
	}
	return values
}

// Marshal encodes a tree in its JSON form.
func Marshal(n Node) ([]byte, error) {
	return json.Marshal(ToValue(n))
}
