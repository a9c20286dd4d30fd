package schema

import (
	"fmt"

	"github.com/ccbrown/graphqlservice/graphql/ast"
)

type EnumType struct {
	Name        string
	Description string
	Directives  []*Directive
	Values      map[string]*EnumValueDefinition
}

type EnumValueDefinition struct {
	Description string
	Directives  []*Directive
}

func (t *EnumType) String() string {
	return t.Name
}

func (t *EnumType) IsInputType() bool {
	return true
}

func (t *EnumType) IsOutputType() bool {
	return true
}

func (t *EnumType) IsSubTypeOf(other Type) bool {
	return t.IsSameType(other)
}

func (t *EnumType) IsSameType(other Type) bool {
	return t == other
}

func (t *EnumType) TypeName() string {
	return t.Name
}

func (t *EnumType) CoerceLiteral(v ast.Value) (interface{}, error) {
	enumValue, ok := v.(*ast.EnumValue)
	if !ok {
		return nil, fmt.Errorf("expected an enum value for %v", t.Name)
	}
	if _, ok := t.Values[enumValue.Value]; !ok {
		return nil, fmt.Errorf("%v is not a valid value for %v", enumValue.Value, t.Name)
	}
	return enumValue.Value, nil
}

func (t *EnumType) CoerceVariableValue(v interface{}) (interface{}, error) {
	if s, ok := v.(string); ok {
		if _, ok := t.Values[s]; ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%v is not a valid value for %v", v, t.Name)
}

func (t *EnumType) CoerceResult(v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		if _, ok := t.Values[s]; ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("%v is not a valid value for %v", v, t.Name)
}

func (d *EnumType) shallowValidate() error {
	if len(d.Values) == 0 {
		return fmt.Errorf("%v must have at least one field", d.Name)
	} else {
		for name := range d.Values {
			if !isName(name) || name == "true" || name == "false" || name == "null" {
				return fmt.Errorf("illegal field name: %v", name)
			}
		}
	}
	return nil
}

func IsEnumType(t Type) bool {
	_, ok := t.(*EnumType)
	return ok
}
