package main

import (
	"fmt"
	"strconv"

	"github.com/flowlang/flc/datatype"
)

// parseDataArgs converts one CLI string per declared data input into
// the Go value the interpreter expects, using each parameter's
// qualified type name to pick a parser. Only lang's four primitives
// are CLI-representable; anything else is a user error for this
// entry point (structs must come from a running program, not a
// terminal).
func parseDataArgs(params []datatype.NamedDataType, raw []string) ([]any, error) {
	if len(raw) != len(params) {
		return nil, fmt.Errorf("function wants %d argument(s), got %d", len(params), len(raw))
	}
	out := make([]any, len(raw))
	for i, p := range params {
		v, err := parseOne(p.Type.QualifiedName(), raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", p.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseOne(qualifiedType, s string) (any, error) {
	switch qualifiedType {
	case "lang:i32":
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %w", err)
		}
		return n, nil
	case "lang:bool":
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %w", err)
		}
		return b, nil
	case "lang:float":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("not a float: %w", err)
		}
		return f, nil
	case "lang:string":
		return s, nil
	default:
		return nil, fmt.Errorf("type %q has no CLI representation", qualifiedType)
	}
}
