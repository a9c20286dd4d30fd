package gen

import (
	"fmt"

	"github.com/ccbrown/graphqlservice/graphql/schema"
)

// shape describes a field or argument's type in the flattened form the generator supports: an
// optional list of a leaf type, each level independently nullable. Nested lists and multi-level
// wrapping aren't supported -- see DESIGN.md.
type shape struct {
	isList       bool
	nullable     bool
	elemNullable bool
	leaf         schema.NamedType
}

func computeShape(t schema.Type) (shape, error) {
	nullable := true
	if nn, ok := t.(*schema.NonNullType); ok {
		nullable = false
		t = nn.Type
	}
	if lt, ok := t.(*schema.ListType); ok {
		inner := lt.Type
		elemNullable := true
		if nn, ok := inner.(*schema.NonNullType); ok {
			elemNullable = false
			inner = nn.Type
		}
		leaf, ok := inner.(schema.NamedType)
		if !ok {
			return shape{}, fmt.Errorf("lists of lists aren't supported")
		}
		return shape{isList: true, nullable: nullable, elemNullable: elemNullable, leaf: leaf}, nil
	}
	leaf, ok := t.(schema.NamedType)
	if !ok {
		return shape{}, fmt.Errorf("unsupported type")
	}
	return shape{nullable: nullable, leaf: leaf}, nil
}

// leafInfo describes how the generator represents one leaf (non-list, non-nullable-wrapper) type
// in Go, and which modifier package functions convert between that representation and the
// untyped values the executor works with.
type leafInfo struct {
	goType string

	// argConvertExpr is a modifier.Convert[T] expression, used on the argument/input side.
	argConvertExpr string

	// resultConvertExpr is a modifier.ResultConvert[T] expression, used on the result side.
	resultConvertExpr string

	// isReferenceType is true for object/interface/union leaves, whose Go representation is
	// already a pointer or interface and needs no result conversion.
	isReferenceType bool
}


// leafForType computes the leafInfo for a resolved named type, used for both field results and
// arguments. typeNames maps a user-defined type name to the Go identifier generated for it.
func leafForType(t schema.NamedType, typeNames map[string]string) (leafInfo, error) {
	switch t := t.(type) {
	case *schema.ScalarType:
		switch t.Name {
		case "Int":
			return leafInfo{goType: "int", argConvertExpr: "modifier.Int", resultConvertExpr: "modifier.IntResult"}, nil
		case "Float":
			return leafInfo{goType: "float64", argConvertExpr: "modifier.Float", resultConvertExpr: "modifier.FloatResult"}, nil
		case "String":
			return leafInfo{goType: "string", argConvertExpr: "modifier.String", resultConvertExpr: "modifier.StringResult"}, nil
		case "Boolean":
			return leafInfo{goType: "bool", argConvertExpr: "modifier.Bool", resultConvertExpr: "modifier.BoolResult"}, nil
		case "ID":
			return leafInfo{goType: "[]byte", argConvertExpr: "modifier.ID", resultConvertExpr: "modifier.IDResult"}, nil
		default:
			// Custom scalars pass their runtime representation through untouched; the
			// scalar type's own Literal/VariableValue/ResultCoercion hooks do the real work.
			return leafInfo{
				goType:            "interface{}",
				argConvertExpr:    "func(raw interface{}) (interface{}, error) { return raw, nil }",
				resultConvertExpr: "func(v interface{}) (interface{}, error) { return v, nil }",
			}, nil
		}
	case *schema.EnumType:
		name, ok := typeNames[t.Name]
		if !ok {
			return leafInfo{}, fmt.Errorf("enum %s: no generated Go name", t.Name)
		}
		return leafInfo{
			goType:            name,
			argConvertExpr:    "modifier.Enum(" + name + "ByName)",
			resultConvertExpr: "modifier.EnumResult[" + name + "]",
		}, nil
	case *schema.InputObjectType:
		name, ok := typeNames[t.Name]
		if !ok {
			return leafInfo{}, fmt.Errorf("input %s: no generated Go name", t.Name)
		}
		return leafInfo{
			goType:         "*" + name,
			argConvertExpr: "convert" + name,
		}, nil
	case *schema.ObjectType, *schema.InterfaceType, *schema.UnionType:
		return leafInfo{
			goType:            "interface{}",
			resultConvertExpr: "func(v interface{}) (interface{}, error) { return v, nil }",
			isReferenceType:   true,
		}, nil
	default:
		return leafInfo{}, fmt.Errorf("%s: unsupported leaf type", t.TypeName())
	}
}

// argGoType returns the Go type used for this shape on the argument/input side. Nullability never
// introduces a pointer here: modifier.RequireNullable returns T's zero value for a present-but-null
// argument, and modifier.RequireList's nullable elements do the same, so the Go type only depends
// on whether the shape is a list.
func (s shape) argGoType(info leafInfo) string {
	if s.isList {
		return "[]" + info.goType
	}
	return info.goType
}

// resultGoType returns the Go type a generated getter returns for this shape. Nullability is
// represented with a pointer (ConvertNullableResult/ConvertNullableElementsResult), except for
// object/interface/union leaves, whose "interface{}" representation already has a natural nil.
func (s shape) resultGoType(info leafInfo) string {
	if info.isReferenceType {
		if s.isList {
			return "[]interface{}"
		}
		return "interface{}"
	}
	if s.isList {
		elem := info.goType
		if s.elemNullable {
			elem = "*" + elem
		}
		return "[]" + elem
	}
	if s.nullable {
		return "*" + info.goType
	}
	return info.goType
}
