// Package value implements the discriminated Response Value type that the executor, the
// modifier package, and generated resolvers all exchange: a recursive sum type with Null, Bool,
// Int, Float, String, Enum, Scalar, List, and Map variants.
package value

import (
	"fmt"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Enum
	Scalar
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Enum:
		return "Enum"
	case Scalar:
		return "Scalar"
	case List:
		return "List"
	case Map:
		return "Map"
	default:
		return "Unknown"
	}
}

// Value is a GraphQL response value. The zero value is Null.
type Value struct {
	kind Kind

	boolValue   bool
	intValue    int64
	floatValue  float64
	stringValue string
	listValue   []Value
	mapValue    *OrderedMap

	// scalarValue holds the underlying representation for custom scalars, which do not carry a
	// more specific Go type.
	scalarValue interface{}
}

// Kind returns the variant that's populated.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true if the value is the Null variant.
func (v Value) IsNull() bool {
	return v.kind == Null
}

func NewNull() Value {
	return Value{kind: Null}
}

func NewBool(b bool) Value {
	return Value{kind: Bool, boolValue: b}
}

func NewInt(n int64) Value {
	return Value{kind: Int, intValue: n}
}

func NewFloat(f float64) Value {
	return Value{kind: Float, floatValue: f}
}

func NewString(s string) Value {
	return Value{kind: String, stringValue: s}
}

// NewEnum constructs an Enum variant. Enum values are represented as their name.
func NewEnum(name string) Value {
	return Value{kind: Enum, stringValue: name}
}

// NewScalar constructs a Scalar variant wrapping an arbitrary, already-coerced Go value produced
// by a custom scalar's ResultCoercion.
func NewScalar(v interface{}) Value {
	return Value{kind: Scalar, scalarValue: v}
}

func NewList(items []Value) Value {
	return Value{kind: List, listValue: items}
}

func NewMap(m *OrderedMap) Value {
	return Value{kind: Map, mapValue: m}
}

// Bool returns the boolean payload and whether the value was actually a Bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.boolValue, true
}

func (v Value) Int() (int64, bool) {
	if v.kind != Int {
		return 0, false
	}
	return v.intValue, true
}

func (v Value) Float() (float64, bool) {
	if v.kind != Float {
		return 0, false
	}
	return v.floatValue, true
}

func (v Value) String() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.stringValue, true
}

// EnumName returns the enum's name and whether the value was actually an Enum.
func (v Value) EnumName() (string, bool) {
	if v.kind != Enum {
		return "", false
	}
	return v.stringValue, true
}

func (v Value) Scalar() (interface{}, bool) {
	if v.kind != Scalar {
		return nil, false
	}
	return v.scalarValue, true
}

func (v Value) List() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.listValue, true
}

func (v Value) Map() (*OrderedMap, bool) {
	if v.kind != Map {
		return nil, false
	}
	return v.mapValue, true
}

// Interface converts the Value to a plain interface{} tree of the sort the executor's
// OrderedMap-based pipeline already produces: map[string]interface{} for Map, []interface{} for
// List, and the underlying Go type otherwise. This is how values generated via this package cross
// back into the executor's untyped pipeline.
func (v Value) Interface() interface{} {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.boolValue
	case Int:
		return v.intValue
	case Float:
		return v.floatValue
	case String, Enum:
		return v.stringValue
	case Scalar:
		return v.scalarValue
	case List:
		out := make([]interface{}, len(v.listValue))
		for i, item := range v.listValue {
			out[i] = item.Interface()
		}
		return out
	case Map:
		return v.mapValue.Interface()
	default:
		return nil
	}
}

// FromInterface builds a Value tree from a plain interface{}, as produced by JSON-decoded
// variable values or literal coercion results. It cannot distinguish Enum from String: every Go
// string becomes the String variant, and an Enum has to be built with NewEnum.
func FromInterface(v interface{}) Value {
	switch v := v.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(v)
	case int:
		return NewInt(int64(v))
	case int32:
		return NewInt(int64(v))
	case int64:
		return NewInt(v)
	case float32:
		return NewFloat(float64(v))
	case float64:
		return NewFloat(v)
	case string:
		return NewString(v)
	case []interface{}:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = FromInterface(item)
		}
		return NewList(items)
	case map[string]interface{}:
		m := NewOrderedMap()
		for k, item := range v {
			m.Set(k, FromInterface(item))
		}
		return NewMap(m)
	case *OrderedMap:
		return NewMap(v)
	default:
		return NewScalar(v)
	}
}

// Equal performs a structural, recursive comparison.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.boolValue == other.boolValue
	case Int:
		return v.intValue == other.intValue
	case Float:
		return v.floatValue == other.floatValue
	case String, Enum:
		return v.stringValue == other.stringValue
	case Scalar:
		return fmt.Sprintf("%v", v.scalarValue) == fmt.Sprintf("%v", other.scalarValue)
	case List:
		if len(v.listValue) != len(other.listValue) {
			return false
		}
		for i := range v.listValue {
			if !v.listValue[i].Equal(other.listValue[i]) {
				return false
			}
		}
		return true
	case Map:
		return v.mapValue.Equal(other.mapValue)
	default:
		return false
	}
}
