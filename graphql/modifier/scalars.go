package modifier

import (
	"fmt"

	"github.com/ccbrown/graphqlservice/graphql/idcodec"
	"github.com/ccbrown/graphqlservice/graphql/value"
)

// The following Convert/ResultConvert specializations are the Go equivalents of the original
// service's IntArgument/FloatArgument/StringArgument/BooleanArgument/IdArgument/ScalarArgument
// ModifiedArgument aliases (and their ModifiedResult counterparts).

func Int(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, wrongType("int", "an integer", raw)
}

func IntResult(v int) (interface{}, error) {
	return v, nil
}

func Float(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, wrongType("float", "a number", raw)
}

func FloatResult(v float64) (interface{}, error) {
	return v, nil
}

func String(raw interface{}) (string, error) {
	if v, ok := raw.(string); ok {
		return v, nil
	}
	return "", wrongType("string", "a string", raw)
}

func StringResult(v string) (interface{}, error) {
	return v, nil
}

func Bool(raw interface{}) (bool, error) {
	if v, ok := raw.(bool); ok {
		return v, nil
	}
	return false, wrongType("bool", "a boolean", raw)
}

func BoolResult(v bool) (interface{}, error) {
	return v, nil
}

// ID converts a GraphQL ID's string representation into its decoded bytes.
func ID(raw interface{}) ([]byte, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, wrongType("id", "a string", raw)
	}
	return idcodec.Decode(s)
}

// IDResult re-encodes raw identifier bytes as the wire ID string.
func IDResult(id []byte) (interface{}, error) {
	return idcodec.Encode(id), nil
}

// Scalar passes a custom scalar's raw value through, wrapped as a value.Value.
func Scalar(raw interface{}) (value.Value, error) {
	return value.FromInterface(raw), nil
}

func ScalarResult(v value.Value) (interface{}, error) {
	return v.Interface(), nil
}

// Enum converts a raw enum value (always a string once coerced) into a generic enum type E via
// the validNames lookup table, returning an error if the name is unrecognized.
func Enum[E ~string](validNames map[string]E) Convert[E] {
	return func(raw interface{}) (E, error) {
		var zero E
		s, ok := raw.(string)
		if !ok {
			return zero, wrongType("enum", "a string", raw)
		}
		e, ok := validNames[s]
		if !ok {
			return zero, fmt.Errorf("modifier: %q is not a valid enum value", s)
		}
		return e, nil
	}
}

// EnumResult converts a generic enum type E back to its wire string.
func EnumResult[E ~string](v E) (interface{}, error) {
	return string(v), nil
}
