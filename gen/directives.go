package gen

var directiveLocationConsts = map[string]string{
	"QUERY":               "schema.DirectiveLocationQuery",
	"MUTATION":            "schema.DirectiveLocationMutation",
	"SUBSCRIPTION":        "schema.DirectiveLocationSubscription",
	"FIELD":               "schema.DirectiveLocationField",
	"FRAGMENT_DEFINITION": "schema.DirectiveLocationFragmentDefinition",
	"FRAGMENT_SPREAD":     "schema.DirectiveLocationFragmentSpread",
	"INLINE_FRAGMENT":     "schema.DirectiveLocationInlineFragment",
}
