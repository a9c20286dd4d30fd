package gen

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ccbrown/graphqlservice/graphql/ast"
)

// builtInTypeNames are the names no user-defined type may collide with.
var builtInTypeNames = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}

// document is the result of the classification pass: every top-level definition in a schema
// document, bucketed by kind and indexed by name.
type document struct {
	schema *ast.SchemaDefinition

	scalars    map[string]*ast.ScalarTypeDefinition
	enums      map[string]*ast.EnumTypeDefinition
	inputs     map[string]*ast.InputObjectTypeDefinition
	unions     map[string]*ast.UnionTypeDefinition
	interfaces map[string]*ast.InterfaceTypeDefinition
	objects    map[string]*ast.ObjectTypeDefinition
	directives map[string]*ast.DirectiveDefinition

	// *Order preserve declaration order so generated output doesn't shuffle on every run.
	scalarOrder    []string
	enumOrder      []string
	inputOrder     []string
	unionOrder     []string
	interfaceOrder []string
	objectOrder    []string
}

func newDocument() *document {
	return &document{
		scalars:    map[string]*ast.ScalarTypeDefinition{},
		enums:      map[string]*ast.EnumTypeDefinition{},
		inputs:     map[string]*ast.InputObjectTypeDefinition{},
		unions:     map[string]*ast.UnionTypeDefinition{},
		interfaces: map[string]*ast.InterfaceTypeDefinition{},
		objects:    map[string]*ast.ObjectTypeDefinition{},
		directives: map[string]*ast.DirectiveDefinition{},
	}
}

// hasType reports whether name is a user-defined type classified so far, regardless of kind, used to
// detect cross-kind name collisions (e.g. a scalar and an object sharing a name).
func (d *document) hasType(name string) bool {
	if _, ok := d.scalars[name]; ok {
		return true
	}
	if _, ok := d.enums[name]; ok {
		return true
	}
	if _, ok := d.inputs[name]; ok {
		return true
	}
	if _, ok := d.unions[name]; ok {
		return true
	}
	if _, ok := d.interfaces[name]; ok {
		return true
	}
	if _, ok := d.objects[name]; ok {
		return true
	}
	return false
}

// classify performs the classification pass: it buckets every top-level definition in doc by
// kind, in one sweep, without yet resolving any type references. Name collisions (with a
// built-in or with another user type) are collected into errs rather than stopping the pass,
// so a single Generate call reports every problem at once.
func classify(doc *ast.Document) (*document, error) {
	d := newDocument()
	var errs error

	checkName := func(name string) {
		if builtInTypeNames[name] {
			errs = multierror.Append(errs, fmt.Errorf("%s: type name collides with a built-in type", name))
		} else if d.hasType(name) {
			errs = multierror.Append(errs, fmt.Errorf("%s: type is defined more than once", name))
		}
	}

	for _, def := range doc.Definitions {
		switch def := def.(type) {
		case *ast.SchemaDefinition:
			if d.schema != nil {
				errs = multierror.Append(errs, fmt.Errorf("a document may only contain one schema definition"))
				continue
			}
			d.schema = def
		case *ast.ScalarTypeDefinition:
			checkName(def.Name.Name)
			d.scalars[def.Name.Name] = def
			d.scalarOrder = append(d.scalarOrder, def.Name.Name)
		case *ast.EnumTypeDefinition:
			checkName(def.Name.Name)
			d.enums[def.Name.Name] = def
			d.enumOrder = append(d.enumOrder, def.Name.Name)
		case *ast.InputObjectTypeDefinition:
			checkName(def.Name.Name)
			d.inputs[def.Name.Name] = def
			d.inputOrder = append(d.inputOrder, def.Name.Name)
		case *ast.UnionTypeDefinition:
			checkName(def.Name.Name)
			d.unions[def.Name.Name] = def
			d.unionOrder = append(d.unionOrder, def.Name.Name)
		case *ast.InterfaceTypeDefinition:
			checkName(def.Name.Name)
			d.interfaces[def.Name.Name] = def
			d.interfaceOrder = append(d.interfaceOrder, def.Name.Name)
		case *ast.ObjectTypeDefinition:
			checkName(def.Name.Name)
			d.objects[def.Name.Name] = def
			d.objectOrder = append(d.objectOrder, def.Name.Name)
		case *ast.DirectiveDefinition:
			if _, ok := d.directives[def.Name.Name]; ok {
				errs = multierror.Append(errs, fmt.Errorf("@%s: directive is defined more than once", def.Name.Name))
			}
			d.directives[def.Name.Name] = def
		default:
			// Discarded "extend ..." markers and anything else that isn't a type-system
			// definition are ignored; a request/response document has no business being fed to
			// the generator.
		}
	}

	return d, errs
}
