package schema

import (
	"fmt"

	"github.com/ccbrown/graphqlservice/graphql/ast"
)

type ScalarType struct {
	Name        string
	Description string
	Directives  []*Directive

	// Should return nil if coercion from the given literal is impossible.
	LiteralCoercion func(ast.Value) interface{}

	// Should return nil if coercion from the given variable value is impossible.
	VariableValueCoercion func(interface{}) interface{}

	// Should return nil if the given result value cannot be serialized.
	ResultCoercion func(interface{}) interface{}
}

func (t *ScalarType) String() string {
	return t.Name
}

func (t *ScalarType) IsInputType() bool {
	return true
}

func (t *ScalarType) IsOutputType() bool {
	return true
}

func (t *ScalarType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *ScalarType) IsSameType(other Type) bool {
	return t == other
}

func (t *ScalarType) TypeName() string {
	return t.Name
}

func (t *ScalarType) CoerceVariableValue(v interface{}) (interface{}, error) {
	if t.VariableValueCoercion == nil {
		return nil, fmt.Errorf("%v cannot be used as an input type", t.Name)
	}
	if coerced := t.VariableValueCoercion(v); coerced != nil {
		return coerced, nil
	}
	return nil, fmt.Errorf("cannot coerce to %v", t.Name)
}

func (t *ScalarType) CoerceResult(v interface{}) (interface{}, error) {
	if t.ResultCoercion == nil {
		return nil, fmt.Errorf("%v cannot be serialized", t.Name)
	}
	if coerced := t.ResultCoercion(v); coerced != nil {
		return coerced, nil
	}
	return nil, fmt.Errorf("cannot coerce %v to %v", v, t.Name)
}

func IsScalarType(t Type) bool {
	_, ok := t.(*ScalarType)
	return ok
}
