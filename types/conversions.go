package types

import (
	"errors"
	"fmt"
	"math"
)

// Value types of PColumns
const (
	ValueTypeInt    = "Int"
	ValueTypeLong   = "Long"
	ValueTypeFloat  = "Float"
	ValueTypeDouble = "Double"
	ValueTypeString = "String"
)

type fromJsonFn func(value interface{}) (interface{}, error)

// FromJsonValue converts a decoded JSON or YAML cell value into the Go type of
// the column value type. Unknown value types are kept as is; nil is NA.
func FromJsonValue(value interface{}, valueType string) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	return converterPerType(valueType)(value)
}

func converterPerType(valueType string) fromJsonFn {
	switch valueType {
	case ValueTypeInt, ValueTypeLong:
		return ToInt64
	case ValueTypeFloat, ValueTypeDouble:
		return ToFloat64
	case ValueTypeString:
		return StringerToString
	}
	return identityFn
}

func identityFn(value interface{}) (interface{}, error) {
	return value, nil
}

func StringerToString(value interface{}) (interface{}, error) {
	switch value := value.(type) {
	case string:
		return value, nil
	case fmt.Stringer:
		return value.String(), nil
	default:
		return nil, fmt.Errorf("wrong value provided for string type: %v", value)
	}
}

func ToInt64(value interface{}) (interface{}, error) {
	switch value := value.(type) {
	case int:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case int64:
		return value, nil
	case float64:
		if value != math.Trunc(value) || value < -(1<<63) || value >= 1<<63 {
			return nil, fmt.Errorf("wrong value provided for integer type: %v", value)
		}
		return int64(value), nil
	}

	return nil, errors.New("wrong value provided for integer type")
}

func ToFloat64(value interface{}) (interface{}, error) {
	switch value := value.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	}

	return nil, errors.New("wrong value provided for float type")
}
