package validator

import (
	"fmt"

	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/schema"
	"github.com/ccbrown/graphqlservice/graphql/token"
)

// Rule is a validation pass. ValidateDocument always runs the standard rules defined by the
// spec; additional rules (e.g. query cost limits, feature gating) can be supplied on top.
type Rule func(*ast.Document, *schema.Schema, *TypeInfo) []*Error

type Error struct {
	Message   string
	Locations []token.Position

	// If a validator is unable to perform its job due to an error unrelated to its purpose, it will
	// emit a secondary error. Secondary errors are always errors that should be caught by other
	// validators, so if there are any primary errors, secondary errors are discarded as they should
	// all be duplicates. If a secondary error makes it out of validation, there's probably a
	// mistake in one of the validators.
	isSecondary bool
}

func (err *Error) Error() string {
	return err.Message
}

func locationsOf(node ast.Node) []token.Position {
	if node == nil {
		return nil
	}
	return []token.Position{node.Position()}
}

func newError(node ast.Node, message string, args ...interface{}) *Error {
	return &Error{
		Message:   fmt.Sprintf(message, args...),
		Locations: locationsOf(node),
	}
}

func newSecondaryError(node ast.Node, message string, args ...interface{}) *Error {
	return &Error{
		Message:     fmt.Sprintf(message, args...),
		Locations:   locationsOf(node),
		isSecondary: true,
	}
}

// ValidateDocument runs the standard validation rules defined by the spec, plus any options
// passed in. Options may be additional Rules (e.g. query cost limits) or a schema.FeatureSet
// gating which fields are considered to exist.
func ValidateDocument(doc *ast.Document, s *schema.Schema, options ...interface{}) []*Error {
	typeInfo := NewTypeInfo(doc, s)

	var features schema.FeatureSet
	var additionalRules []Rule
	for _, option := range options {
		switch option := option.(type) {
		case nil:
		case Rule:
			additionalRules = append(additionalRules, option)
		case schema.FeatureSet:
			features = option
		default:
			panic(fmt.Sprintf("unsupported validator option: %T", option))
		}
	}

	rules := append([]Rule{
		validateDocument,
		func(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
			return validateOperations(doc, s, features, typeInfo)
		},
		func(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
			return validateFields(doc, s, features, typeInfo)
		},
		validateArguments,
		func(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
			return validateFragments(doc, s, features, typeInfo)
		},
		validateValues,
		validateDirectives,
		func(doc *ast.Document, s *schema.Schema, typeInfo *TypeInfo) []*Error {
			return validateVariables(doc, s, features, typeInfo)
		},
	}, additionalRules...)

	var errs []*Error
	for _, f := range rules {
		errs = append(errs, f(doc, s, typeInfo)...)
	}
	var primary []*Error
	for _, err := range errs {
		if !err.isSecondary {
			primary = append(primary, err)
		}
	}
	if len(primary) > 0 {
		return primary
	}
	return errs
}

// namedType looks up a named type by name, treating types gated behind features not present in
// the given feature set as though they don't exist.
func namedType(s *schema.Schema, features schema.FeatureSet, name string) schema.NamedType {
	t := s.NamedType(name)
	if t == nil {
		return nil
	}
	if gated, ok := t.(interface{ TypeRequiredFeatures() schema.FeatureSet }); ok {
		if !gated.TypeRequiredFeatures().IsSubsetOf(features) {
			return nil
		}
	}
	return t
}
