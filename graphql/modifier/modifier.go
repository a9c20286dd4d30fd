// Package modifier implements the argument/result type-modifier chain used by generated resolver
// code, the Go-generics equivalent of the original service's ModifiedArgument<T>/ModifiedResult<T>
// template machinery: a value's GraphQL type is described as some scalar/object base type T
// wrapped by a chain of modifiers (Nullable, List), and this package converts between that typed
// shape and the untyped map[string]interface{}/interface{} values the executor works with.
package modifier

import "fmt"

// TypeModifier describes one layer of a type wrapper chain, applied left to right, outermost
// first: []TypeModifier{List, Nullable} describes "a non-null list of nullable T".
type TypeModifier int

const (
	// None marks the end of a modifier chain; what follows is the bare type.
	None TypeModifier = iota
	// Nullable makes the layer that follows it in the chain (a List or the bare type) nullable; a
	// layer with no Nullable in front of it is non-null.
	Nullable
	// List is a list layer whose elements are described by the rest of the chain.
	List
)

// Error is returned when a required argument is missing or a value doesn't match its expected
// shape.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func missing(name string) error {
	return &Error{Message: fmt.Sprintf("modifier: missing required value %q", name)}
}

func wrongType(name string, want string, got interface{}) error {
	return &Error{Message: fmt.Sprintf("modifier: %q expected %s, got %T", name, want, got)}
}

// Convert is a function that converts a single, non-list, non-nil raw value (as produced by
// argument/variable coercion) into a T.
type Convert[T any] func(raw interface{}) (T, error)

// Require extracts a non-nullable value of type T from a raw argument/field value, applying the
// given modifier chain (outermost first). Every chain must bottom out in None. A Nullable layer
// is only legal inside a List's element type or as the outermost modifier of a *pointer* accessor
// -- see RequireNullable.
func Require[T any](name string, raw interface{}, convert Convert[T], modifiers ...TypeModifier) (T, error) {
	var zero T
	if len(modifiers) == 0 || modifiers[0] == None {
		if raw == nil {
			return zero, missing(name)
		}
		return convert(raw)
	}
	return zero, fmt.Errorf("modifier: Require cannot be used with a Nullable modifier for %q; use RequireNullable", name)
}

// RequireNullable extracts a value of type T from a raw argument/field value whose modifier chain
// begins with Nullable. Unlike Require, a nil raw value is not an error: it returns the zero
// value for T, matching the "Null when x is present-and-null" semantics generated accessors rely
// on to distinguish "absent" (use the declared default) from "present and null".
func RequireNullable[T any](name string, raw interface{}, convert Convert[T], modifiers ...TypeModifier) (T, error) {
	var zero T
	if len(modifiers) > 0 && modifiers[0] == Nullable {
		modifiers = modifiers[1:]
	}
	if raw == nil {
		return zero, nil
	}
	if len(modifiers) != 0 && modifiers[0] != None {
		return zero, fmt.Errorf("modifier: RequireNullable does not support nested modifiers for %q", name)
	}
	return convert(raw)
}

// RequireList extracts a required, non-null list of T, where each element is converted with
// elementModifiers applied (e.g. Nullable if list members may be null).
func RequireList[T any](name string, raw interface{}, convert Convert[T], elementModifiers ...TypeModifier) ([]T, error) {
	if raw == nil {
		return nil, missing(name)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, wrongType(name, "list", raw)
	}
	out := make([]T, len(items))
	for i, item := range items {
		v, err := elementConvert(name, item, convert, elementModifiers)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// RequireNullableList is like RequireList, but the list itself may be null, represented as a nil
// slice.
func RequireNullableList[T any](name string, raw interface{}, convert Convert[T], elementModifiers ...TypeModifier) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	return RequireList(name, raw, convert, elementModifiers...)
}

// FindNullable extracts an optional value of type T, returning the zero value and false if the
// raw value is nil.
func FindNullable[T any](name string, raw interface{}, convert Convert[T]) (T, bool, error) {
	var zero T
	if raw == nil {
		return zero, false, nil
	}
	v, err := convert(raw)
	return v, err == nil, err
}

func elementConvert[T any](name string, raw interface{}, convert Convert[T], modifiers []TypeModifier) (T, error) {
	var zero T
	if len(modifiers) > 0 && modifiers[0] == Nullable {
		if raw == nil {
			return zero, nil
		}
		modifiers = modifiers[1:]
	} else if raw == nil {
		return zero, missing(name)
	}
	if len(modifiers) > 0 && modifiers[0] == List {
		nested, ok := raw.([]interface{})
		if !ok {
			return zero, wrongType(name, "list", raw)
		}
		_ = nested
		return zero, fmt.Errorf("modifier: nested lists require a dedicated [][]T accessor for %q", name)
	}
	return convert(raw)
}

// ResultConvert converts a value of type T into the untyped shape the executor expects for a non-null
// field.
type ResultConvert[T any] func(v T) (interface{}, error)

// ConvertResult applies a ResultConvert to a single value.
func ConvertResult[T any](v T, convert ResultConvert[T]) (interface{}, error) {
	return convert(v)
}

// ConvertNullableResult converts a pointer-shaped optional value, returning nil if ptr is nil.
func ConvertNullableResult[T any](ptr *T, convert ResultConvert[T]) (interface{}, error) {
	if ptr == nil {
		return nil, nil
	}
	return convert(*ptr)
}

// ConvertListResult converts a slice of values, applying convert to each element.
func ConvertListResult[T any](items []T, convert ResultConvert[T]) (interface{}, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		v, err := convert(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ConvertNullableElementsResult converts a slice whose elements are themselves nullable (Go type
// []*T), preserving nil elements as null rather than converting them.
func ConvertNullableElementsResult[T any](items []*T, convert ResultConvert[T]) (interface{}, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		v, err := convert(*item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
