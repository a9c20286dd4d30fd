// Package gen implements the schema-document-to-resolver-skeleton generator: given a GraphQL
// schema document, it produces the Go source for a package that declares one type per
// object/interface/union/enum/input in the document, wires them into a *schema.Schema, and
// leaves a panicking getter stub for every field a resolver needs to implement.
package gen

import (
	"fmt"
	"go/format"

	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/schema"
)

// InvalidSchema reports every problem found while classifying or resolving a schema document, so
// a single Generate call surfaces all of them instead of stopping at the first.
type InvalidSchema struct {
	Errors error
}

func (e *InvalidSchema) Error() string {
	return fmt.Sprintf("invalid schema: %v", e.Errors)
}

func (e *InvalidSchema) Unwrap() error {
	return e.Errors
}

// Result holds the generated source for both output files Generate produces.
type Result struct {
	// Declarations is the source for <prefix>.go: the base struct/enum/input types and their
	// unimplemented getter methods.
	Declarations string

	// Definitions is the source for <prefix>_schema.go: the *schema.ObjectType (etc.) values that
	// wire the declared types into a *schema.Schema, and the function that builds it.
	Definitions string
}

// Options controls optional behavior of Generate.
type Options struct {
	// NoIntrospection omits the __schema/__type resolver registration normally added to the
	// generated Query root.
	NoIntrospection bool
}

// Generate parses no input itself -- doc must already be the result of parser.ParseDocument on a
// schema document -- and produces the Go source for a resolver skeleton in the given package.
func Generate(doc *ast.Document, pkg string) (*Result, error) {
	return GenerateWithOptions(doc, pkg, Options{})
}

// GenerateWithOptions is Generate with the ability to tweak generation behavior.
func GenerateWithOptions(doc *ast.Document, pkg string, opts Options) (*Result, error) {
	d, err := classify(doc)
	if err != nil {
		return nil, &InvalidSchema{Errors: err}
	}

	info, err := resolve(d)
	if err != nil {
		return nil, err
	}

	names := typeNames(d)

	declSrc, err := emitDeclarations(pkg, d, info, names)
	if err != nil {
		return nil, &InvalidSchema{Errors: err}
	}

	defSrc, err := emitDefinitions(pkg, d, info, names, opts)
	if err != nil {
		return nil, &InvalidSchema{Errors: err}
	}

	formattedDecl, ferr := format.Source([]byte(declSrc))
	if ferr != nil {
		return nil, fmt.Errorf("formatting generated declarations: %w", ferr)
	}
	formattedDef, ferr := format.Source([]byte(defSrc))
	if ferr != nil {
		return nil, fmt.Errorf("formatting generated definitions: %w", ferr)
	}

	return &Result{
		Declarations: string(formattedDecl),
		Definitions:  string(formattedDef),
	}, nil
}

// BuildSchema runs the same classification and resolution passes as Generate, but builds a live
// *schema.Schema directly from the result instead of generating Go source for it. This is how
// client-mode code generation validates request documents against a schema document without
// going through a generated package.
func BuildSchema(doc *ast.Document) (*schema.Schema, error) {
	d, err := classify(doc)
	if err != nil {
		return nil, &InvalidSchema{Errors: err}
	}

	info, err := resolve(d)
	if err != nil {
		return nil, err
	}

	def := &schema.SchemaDefinition{
		DirectiveDefinitions: map[string]*schema.DirectiveDefinition{
			"skip":    schema.SkipDirective,
			"include": schema.IncludeDirective,
		},
	}
	for dname, ddef := range d.directives {
		var locs []schema.DirectiveLocation
		for _, l := range ddef.Locations {
			if _, ok := directiveLocationConsts[l.Name]; !ok {
				return nil, &InvalidSchema{Errors: fmt.Errorf("@%s: unsupported directive location %s", dname, l.Name)}
			}
			locs = append(locs, schema.DirectiveLocation(l.Name))
		}
		def.DirectiveDefinitions[dname] = &schema.DirectiveDefinition{
			Description: description(ddef.Description),
			Locations:   locs,
		}
	}

	if info.queryTypeName != "" {
		def.Query = info.types[info.queryTypeName].(*schema.ObjectType)
	}
	if info.mutationTypeName != "" {
		def.Mutation = info.types[info.mutationTypeName].(*schema.ObjectType)
	}
	if info.subscriptionTypeName != "" {
		def.Subscription = info.types[info.subscriptionTypeName].(*schema.ObjectType)
	}

	var additional []schema.NamedType
	for _, t := range info.types {
		additional = append(additional, t)
	}
	def.AdditionalTypes = additional

	return schema.New(def)
}

// typeNames maps every user-defined type name to the Go identifier generated for it.
func typeNames(d *document) map[string]string {
	names := map[string]string{}
	for _, n := range d.enumOrder {
		names[n] = exportedName(n)
	}
	for _, n := range d.inputOrder {
		names[n] = exportedName(n)
	}
	for _, n := range d.interfaceOrder {
		names[n] = exportedName(n)
	}
	for _, n := range d.objectOrder {
		names[n] = exportedName(n)
	}
	for _, n := range d.unionOrder {
		names[n] = exportedName(n)
	}
	for _, n := range d.scalarOrder {
		names[n] = exportedName(n)
	}
	return names
}
