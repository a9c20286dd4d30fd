package schema

import (
	"context"
	"fmt"
	"strings"
)

// FieldContext contains important context passed to resolver implementations.
type FieldContext struct {
	Context   context.Context
	Schema    *Schema
	Object    interface{}
	Arguments map[string]interface{}

	// IsSubscribe is true if this is a subscription field being invoked for a subscribe operation.
	// Subselections of this field will not be executed, and the return value will be returned
	// immediately to the caller of Subscribe.
	IsSubscribe bool

	// QueryDirectives holds the coerced arguments of every directive applied to the operation
	// itself, keyed by directive name.
	QueryDirectives map[string]map[string]interface{}

	// FieldDirectives holds the coerced arguments of every directive applied directly to this
	// field's selection, keyed by directive name.
	FieldDirectives map[string]map[string]interface{}

	// FragmentDefinitionDirectives holds the coerced arguments of directives applied to fragment
	// definitions this field was collected through, keyed by directive name. When a field is
	// reached through nested fragments, directives from the outermost fragment definition take
	// precedence on conflict. This set is reset to empty whenever execution descends into a
	// nested object's own selection set.
	FragmentDefinitionDirectives map[string]map[string]interface{}

	// FragmentSpreadDirectives is the fragment-spread analog of FragmentDefinitionDirectives: the
	// coerced arguments of directives applied to "... Name" fragment spreads this field was
	// collected through, outermost spread winning on conflict. It is also reset on descent into a
	// nested object's selection set.
	FragmentSpreadDirectives map[string]map[string]interface{}

	// InlineFragmentDirectives holds the coerced arguments of directives applied to inline
	// fragments ("... on Type { ... }") this field was collected through, keyed by directive name.
	// Unlike the fragment-definition and fragment-spread sets, the innermost inline fragment wins
	// on conflict, and the set survives descent into a nested object's own selection set until a
	// new inline fragment directive of the same name overrides it.
	InlineFragmentDirectives map[string]map[string]interface{}
}

// FieldCost describes the cost of resolving a field, enabling rate limiting and metering.
type FieldCost struct {
	// If non-nil, this context will be passed on to sub-selections of the current field.
	Context context.Context

	// This is the cost of executing the resolver. Typically it will be 1, but if a resolver is
	// particularly expensive, it may be greater.
	Resolver int

	// This is a multiplier applied to all sub-selections of the current field. For fields that
	// return arrays, this is typically the number of expected results (e.g. the "first" or "last"
	// argument to a connection field). Defaults to 1 if not set.
	Multiplier int
}

// Returns a cost function which returns a constant resolver cost with no multiplier.
func FieldResolverCost(n int) func(*FieldCostContext) FieldCost {
	return func(*FieldCostContext) FieldCost {
		return FieldCost{
			Resolver: n,
		}
	}
}

// FieldCostContext contains important context passed to field cost functions.
type FieldCostContext struct {
	Context context.Context

	// The arguments that were provided.
	Arguments map[string]interface{}
}

// FieldDefinition defines an object's field.
type FieldDefinition struct {
	Description       string
	Arguments         map[string]*InputValueDefinition
	Type              Type
	Directives        []*Directive
	DeprecationReason string

	// This field will only be visible and resolvable when the given features are enabled. This can
	// be used to build APIs that are gated behind feature flags or rolled out incrementally.
	RequiredFeatures FeatureSet

	// This function can be used to define the cost of resolving the field. The total cost of an
	// operation can be calculated before the operation is executed, enabling rate limiting and
	// metering.
	Cost func(*FieldCostContext) FieldCost

	Resolve func(*FieldContext) (interface{}, error)
}

func (d *FieldDefinition) shallowValidate() error {
	if d.Type == nil {
		return fmt.Errorf("field is missing type")
	} else if !d.Type.IsOutputType() {
		return fmt.Errorf("%v cannot be used as a field type", d.Type)
	} else {
		for name := range d.Arguments {
			if !isName(name) || strings.HasPrefix(name, "__") {
				return fmt.Errorf("illegal field argument name: %v", name)
			}
		}
	}
	return nil
}
