package filter

import (
	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

func present(v *fastjson.Value) bool {
	return v != nil && v.Type() != fastjson.TypeNull
}

// axisCount returns the length of the axis list of a column reference text,
// read from "axes" or else "source.axes". The second result is false when the
// text is not a JSON object, carries no axes, or its axes value is not a list.
func axisCount(text string) (int, bool) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.Parse(text)
	if err != nil || v.Type() != fastjson.TypeObject {
		return 0, false
	}

	axes := v.Get("axes")
	if !present(axes) {
		source := v.Get("source")
		if !present(source) || source.Type() != fastjson.TypeObject {
			return 0, false
		}
		axes = source.Get("axes")
	}
	if !present(axes) || axes.Type() != fastjson.TypeArray {
		return 0, false
	}
	return len(axes.GetArray()), true
}

// isTwoAxisColumn reports whether operand is a column reference whose axis
// list has exactly two entries. Anything that is not text is a literal.
func isTwoAxisColumn(operand interface{}) bool {
	text, ok := operand.(string)
	if !ok {
		return false
	}
	n, ok := axisCount(text)
	return ok && n == 2
}

// IsColumnRef reports whether operand looks like a serialized column
// descriptor, that is a text holding a JSON object.
func IsColumnRef(operand interface{}) bool {
	text, ok := operand.(string)
	if !ok {
		return false
	}
	p := parserPool.Get()
	defer parserPool.Put(p)
	v, err := p.Parse(text)
	return err == nil && v.Type() == fastjson.TypeObject
}
