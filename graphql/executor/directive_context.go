package executor

import "github.com/ccbrown/graphqlservice/graphql/ast"

// directiveContext accumulates the directive sets a field was collected through as
// collectFieldsImpl descends through fragment spreads and inline fragments, so they can be
// exposed to resolvers via schema.FieldContext.
type directiveContext struct {
	FragmentDefinitionDirectives map[string]map[string]interface{}
	FragmentSpreadDirectives     map[string]map[string]interface{}
	InlineFragmentDirectives     map[string]map[string]interface{}
}

// descend returns the directive context a nested object's own selection set should start from:
// fragment-definition and fragment-spread sets reset, but the inline fragment set survives.
func (dc *directiveContext) descend() *directiveContext {
	if dc == nil {
		return nil
	}
	return &directiveContext{
		InlineFragmentDirectives: dc.InlineFragmentDirectives,
	}
}

func mergeDirectivesOuterWins(outer, inner map[string]map[string]interface{}) map[string]map[string]interface{} {
	if len(outer) == 0 {
		return inner
	}
	if len(inner) == 0 {
		return outer
	}
	merged := make(map[string]map[string]interface{}, len(outer)+len(inner))
	for name, args := range inner {
		merged[name] = args
	}
	for name, args := range outer {
		merged[name] = args
	}
	return merged
}

func mergeDirectivesInnerWins(outer, inner map[string]map[string]interface{}) map[string]map[string]interface{} {
	if len(inner) == 0 {
		return outer
	}
	if len(outer) == 0 {
		return inner
	}
	merged := make(map[string]map[string]interface{}, len(outer)+len(inner))
	for name, args := range outer {
		merged[name] = args
	}
	for name, args := range inner {
		merged[name] = args
	}
	return merged
}

// withFragmentSpread returns the directive context seen by selections collected through the given
// fragment spread/definition pair, with the outermost occurrence of a given directive winning.
func (dc *directiveContext) withFragmentSpread(e *executor, spread *ast.FragmentSpread, def *ast.FragmentDefinition) *directiveContext {
	var fragmentDefinitionDirectives, fragmentSpreadDirectives map[string]map[string]interface{}
	if dc != nil {
		fragmentDefinitionDirectives = dc.FragmentDefinitionDirectives
		fragmentSpreadDirectives = dc.FragmentSpreadDirectives
	}
	return &directiveContext{
		FragmentDefinitionDirectives: mergeDirectivesOuterWins(fragmentDefinitionDirectives, e.directiveArguments(def.Directives)),
		FragmentSpreadDirectives:     mergeDirectivesOuterWins(fragmentSpreadDirectives, e.directiveArguments(spread.Directives)),
		InlineFragmentDirectives:     dc.inlineFragmentDirectives(),
	}
}

// withInlineFragment returns the directive context seen by selections collected through the given
// inline fragment, with the innermost occurrence of a given directive winning.
func (dc *directiveContext) withInlineFragment(e *executor, inlineFragment *ast.InlineFragment) *directiveContext {
	var fragmentDefinitionDirectives, fragmentSpreadDirectives map[string]map[string]interface{}
	if dc != nil {
		fragmentDefinitionDirectives = dc.FragmentDefinitionDirectives
		fragmentSpreadDirectives = dc.FragmentSpreadDirectives
	}
	return &directiveContext{
		FragmentDefinitionDirectives: fragmentDefinitionDirectives,
		FragmentSpreadDirectives:     fragmentSpreadDirectives,
		InlineFragmentDirectives:     mergeDirectivesInnerWins(dc.inlineFragmentDirectives(), e.directiveArguments(inlineFragment.Directives)),
	}
}

func (dc *directiveContext) inlineFragmentDirectives() map[string]map[string]interface{} {
	if dc == nil {
		return nil
	}
	return dc.InlineFragmentDirectives
}

func (dc *directiveContext) fragmentDefinitionDirectives() map[string]map[string]interface{} {
	if dc == nil {
		return nil
	}
	return dc.FragmentDefinitionDirectives
}

func (dc *directiveContext) fragmentSpreadDirectives() map[string]map[string]interface{} {
	if dc == nil {
		return nil
	}
	return dc.FragmentSpreadDirectives
}

// directiveArguments coerces the arguments of every directive in the given list, keyed by
// directive name. Directives with no known definition, or whose arguments fail to coerce, are
// omitted rather than failing the request -- the resulting maps are metadata for resolvers, not
// part of the core execution/validation path.
func (e *executor) directiveArguments(directives []*ast.Directive) map[string]map[string]interface{} {
	if len(directives) == 0 {
		return nil
	}
	var m map[string]map[string]interface{}
	for _, directive := range directives {
		def := e.Schema.DirectiveDefinition(directive.Name.Name)
		if def == nil {
			continue
		}
		arguments, err := coerceArgumentValues(directive, def.Arguments, directive.Arguments, e.VariableValues)
		if err != nil {
			continue
		}
		if m == nil {
			m = map[string]map[string]interface{}{}
		}
		m[directive.Name.Name] = arguments
	}
	return m
}

// queryDirectives returns the coerced directive arguments applied to the operation itself.
func (e *executor) queryDirectives() map[string]map[string]interface{} {
	if e.Operation == nil {
		return nil
	}
	return e.directiveArguments(e.Operation.Directives)
}
