package parser

import (
	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/token"
)

var typeSystemKeywords = map[string]bool{
	"schema":    true,
	"scalar":    true,
	"type":      true,
	"interface": true,
	"union":     true,
	"enum":      true,
	"input":     true,
	"directive": true,
	"extend":    true,
}

// peekIsTypeSystemDefinition reports whether the upcoming tokens begin a type-system definition
// (possibly preceded by a description string).
func (p *parser) peekIsTypeSystemDefinition() bool {
	t := p.peek()
	if t.Token == token.STRING_VALUE {
		t = p.peekAt(1)
	}
	return t.Token == token.NAME && typeSystemKeywords[t.Value]
}

func (p *parser) parseOptionalDescription() *ast.StringValue {
	p.enter()
	defer p.exit()
	if t := p.peek(); t.Token == token.STRING_VALUE {
		p.consumeToken()
		return &ast.StringValue{Value: t.Value, Literal: t.Position}
	}
	return nil
}

func (p *parser) expectKeyword(keyword string) token.Position {
	t := p.peek()
	if t.Token != token.NAME || t.Value != keyword {
		panic(p.errorf("expected %q", keyword))
	}
	p.consumeToken()
	return t.Position
}

func (p *parser) parseTypeSystemDefinition() ast.Definition {
	p.enter()
	defer p.exit()

	description := p.parseOptionalDescription()

	t := p.peek()
	if t.Token != token.NAME {
		panic(p.errorf("expected type system definition"))
	}

	switch t.Value {
	case "schema":
		return p.parseSchemaDefinition(description)
	case "scalar":
		return p.parseScalarTypeDefinition(description)
	case "type":
		return p.parseObjectTypeDefinition(description)
	case "interface":
		return p.parseInterfaceTypeDefinition(description)
	case "union":
		return p.parseUnionTypeDefinition(description)
	case "enum":
		return p.parseEnumTypeDefinition(description)
	case "input":
		return p.parseInputObjectTypeDefinition(description)
	case "directive":
		return p.parseDirectiveDefinition(description)
	case "extend":
		return p.parseTypeSystemExtension()
	}
	panic(p.errorf("expected type system definition"))
}

func (p *parser) parseSchemaDefinition(description *ast.StringValue) *ast.SchemaDefinition {
	p.enter()
	defer p.exit()

	schemaPos := p.expectKeyword("schema")
	directives := p.parseOptionalDirectives()

	if t := p.peek(); t.Token != token.PUNCTUATOR || t.Value != "{" {
		panic(p.errorf("expected {"))
	}
	p.consumeToken()

	var ops []*ast.OperationTypeDefinition
	for {
		if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "}" {
			p.consumeToken()
			break
		}
		ops = append(ops, p.parseOperationTypeDefinition())
	}

	return &ast.SchemaDefinition{
		Description:    description,
		Directives:     directives,
		OperationTypes: ops,
		Schema:         schemaPos,
	}
}

func (p *parser) parseOperationTypeDefinition() *ast.OperationTypeDefinition {
	p.enter()
	defer p.exit()

	t := p.peek()
	if t.Token != token.NAME || !isOperationTypeName(t.Value) {
		panic(p.errorf("expected operation type"))
	}
	p.consumeToken()

	if t := p.peek(); t.Token != token.PUNCTUATOR || t.Value != ":" {
		panic(p.errorf("expected colon"))
	}
	p.consumeToken()

	return &ast.OperationTypeDefinition{
		Operation: &ast.OperationType{Value: t.Value, ValuePosition: t.Position},
		Type:      p.parseNamedType(),
	}
}

func (p *parser) parseScalarTypeDefinition(description *ast.StringValue) *ast.ScalarTypeDefinition {
	p.enter()
	defer p.exit()

	p.expectKeyword("scalar")
	return &ast.ScalarTypeDefinition{
		Description: description,
		Name:        p.parseName(),
		Directives:  p.parseOptionalDirectives(),
	}
}

func (p *parser) parseImplementsInterfaces() []*ast.NamedType {
	p.enter()
	defer p.exit()

	var ret []*ast.NamedType
	if t := p.peek(); t.Token == token.NAME && t.Value == "implements" {
		p.consumeToken()
		if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "&" {
			p.consumeToken()
		}
		ret = append(ret, p.parseNamedType())
		for {
			if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "&" {
				p.consumeToken()
				ret = append(ret, p.parseNamedType())
			} else {
				break
			}
		}
	}
	return ret
}

func (p *parser) parseOptionalFieldDefinitions() []*ast.FieldDefinition {
	p.enter()
	defer p.exit()

	var ret []*ast.FieldDefinition
	if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "{" {
		p.consumeToken()
		for {
			if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "}" {
				p.consumeToken()
				break
			}
			ret = append(ret, p.parseFieldDefinition())
		}
	}
	return ret
}

func (p *parser) parseFieldDefinition() *ast.FieldDefinition {
	p.enter()
	defer p.exit()

	description := p.parseOptionalDescription()
	name := p.parseName()
	args := p.parseOptionalArgumentDefinitions()

	if t := p.peek(); t.Token != token.PUNCTUATOR || t.Value != ":" {
		panic(p.errorf("expected colon"))
	}
	p.consumeToken()

	return &ast.FieldDefinition{
		Description: description,
		Name:        name,
		Arguments:   args,
		Type:        p.parseType(),
		Directives:  p.parseOptionalDirectives(),
	}
}

func (p *parser) parseOptionalArgumentDefinitions() []*ast.InputValueDefinition {
	p.enter()
	defer p.exit()

	var ret []*ast.InputValueDefinition
	if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "(" {
		p.consumeToken()
		for {
			if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == ")" {
				p.consumeToken()
				break
			}
			ret = append(ret, p.parseInputValueDefinition())
		}
	}
	return ret
}

func (p *parser) parseInputValueDefinition() *ast.InputValueDefinition {
	p.enter()
	defer p.exit()

	description := p.parseOptionalDescription()
	name := p.parseName()

	if t := p.peek(); t.Token != token.PUNCTUATOR || t.Value != ":" {
		panic(p.errorf("expected colon"))
	}
	p.consumeToken()

	typ := p.parseType()

	ret := &ast.InputValueDefinition{
		Description: description,
		Name:        name,
		Type:        typ,
	}
	if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "=" {
		p.consumeToken()
		ret.DefaultValue = p.parseValue(true)
	}
	ret.Directives = p.parseOptionalDirectives()
	return ret
}

func (p *parser) parseObjectTypeDefinition(description *ast.StringValue) *ast.ObjectTypeDefinition {
	p.enter()
	defer p.exit()

	p.expectKeyword("type")
	name := p.parseName()
	interfaces := p.parseImplementsInterfaces()
	directives := p.parseOptionalDirectives()
	fields := p.parseOptionalFieldDefinitions()

	return &ast.ObjectTypeDefinition{
		Description: description,
		Name:        name,
		Interfaces:  interfaces,
		Directives:  directives,
		Fields:      fields,
	}
}

func (p *parser) parseInterfaceTypeDefinition(description *ast.StringValue) *ast.InterfaceTypeDefinition {
	p.enter()
	defer p.exit()

	p.expectKeyword("interface")
	name := p.parseName()
	interfaces := p.parseImplementsInterfaces()
	directives := p.parseOptionalDirectives()
	fields := p.parseOptionalFieldDefinitions()

	return &ast.InterfaceTypeDefinition{
		Description: description,
		Name:        name,
		Interfaces:  interfaces,
		Directives:  directives,
		Fields:      fields,
	}
}

func (p *parser) parseUnionTypeDefinition(description *ast.StringValue) *ast.UnionTypeDefinition {
	p.enter()
	defer p.exit()

	p.expectKeyword("union")
	name := p.parseName()
	directives := p.parseOptionalDirectives()

	var members []*ast.NamedType
	if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "=" {
		p.consumeToken()
		if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "|" {
			p.consumeToken()
		}
		members = append(members, p.parseNamedType())
		for {
			if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "|" {
				p.consumeToken()
				members = append(members, p.parseNamedType())
			} else {
				break
			}
		}
	}

	return &ast.UnionTypeDefinition{
		Description: description,
		Name:        name,
		Directives:  directives,
		MemberTypes: members,
	}
}

func (p *parser) parseEnumTypeDefinition(description *ast.StringValue) *ast.EnumTypeDefinition {
	p.enter()
	defer p.exit()

	p.expectKeyword("enum")
	name := p.parseName()
	directives := p.parseOptionalDirectives()

	var values []*ast.EnumValueDefinition
	if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "{" {
		p.consumeToken()
		for {
			if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "}" {
				p.consumeToken()
				break
			}
			values = append(values, p.parseEnumValueDefinition())
		}
	}

	return &ast.EnumTypeDefinition{
		Description: description,
		Name:        name,
		Directives:  directives,
		Values:      values,
	}
}

func (p *parser) parseEnumValueDefinition() *ast.EnumValueDefinition {
	p.enter()
	defer p.exit()

	description := p.parseOptionalDescription()
	return &ast.EnumValueDefinition{
		Description: description,
		Value:       p.parseName(),
		Directives:  p.parseOptionalDirectives(),
	}
}

func (p *parser) parseInputObjectTypeDefinition(description *ast.StringValue) *ast.InputObjectTypeDefinition {
	p.enter()
	defer p.exit()

	p.expectKeyword("input")
	name := p.parseName()
	directives := p.parseOptionalDirectives()

	var fields []*ast.InputValueDefinition
	if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "{" {
		p.consumeToken()
		for {
			if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "}" {
				p.consumeToken()
				break
			}
			fields = append(fields, p.parseInputValueDefinition())
		}
	}

	return &ast.InputObjectTypeDefinition{
		Description: description,
		Name:        name,
		Directives:  directives,
		Fields:      fields,
	}
}

func (p *parser) parseDirectiveDefinition(description *ast.StringValue) *ast.DirectiveDefinition {
	p.enter()
	defer p.exit()

	directivePos := p.expectKeyword("directive")

	if t := p.peek(); t.Token != token.PUNCTUATOR || t.Value != "@" {
		panic(p.errorf("expected @"))
	}
	p.consumeToken()

	name := p.parseName()
	args := p.parseOptionalArgumentDefinitions()

	repeatable := false
	if t := p.peek(); t.Token == token.NAME && t.Value == "repeatable" {
		repeatable = true
		p.consumeToken()
	}

	if t := p.peek(); t.Token != token.NAME || t.Value != "on" {
		panic(p.errorf(`expected "on"`))
	}
	p.consumeToken()

	if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "|" {
		p.consumeToken()
	}
	locations := []*ast.Name{p.parseName()}
	for {
		if t := p.peek(); t.Token == token.PUNCTUATOR && t.Value == "|" {
			p.consumeToken()
			locations = append(locations, p.parseName())
		} else {
			break
		}
	}

	return &ast.DirectiveDefinition{
		Description: description,
		Name:        name,
		Arguments:   args,
		Repeatable:  repeatable,
		Locations:   locations,
		Directive:   directivePos,
	}
}

// parseTypeSystemExtension consumes an "extend ..." definition without surfacing it as an AST
// node -- see SPEC_FULL.md and DESIGN.md for the rationale. It still fully validates the
// extension's grammar (so malformed documents are rejected), it just discards the result.
func (p *parser) parseTypeSystemExtension() ast.Definition {
	p.enter()
	defer p.exit()

	p.expectKeyword("extend")

	t := p.peek()
	if t.Token != token.NAME {
		panic(p.errorf("expected type system definition after extend"))
	}

	switch t.Value {
	case "schema":
		p.parseSchemaDefinition(nil)
	case "scalar":
		p.parseScalarTypeDefinition(nil)
	case "type":
		p.parseObjectTypeDefinition(nil)
	case "interface":
		p.parseInterfaceTypeDefinition(nil)
	case "union":
		p.parseUnionTypeDefinition(nil)
	case "enum":
		p.parseEnumTypeDefinition(nil)
	case "input":
		p.parseInputObjectTypeDefinition(nil)
	default:
		panic(p.errorf("expected type system definition after extend"))
	}

	// A discarded, zero-value marker so callers that don't special-case extensions don't see a
	// nil definition; ast.Document.Definitions should be filtered of these by callers that care.
	return &discardedExtension{}
}

type discardedExtension struct{}

func (*discardedExtension) Position() token.Position { return token.Position{} }

// IsDiscardedTypeSystemExtension reports whether a Definition returned by ParseDocument was an
// "extend ..." definition that was parsed but intentionally not surfaced as real AST data.
// Callers that build a schema from a document should skip these.
func IsDiscardedTypeSystemExtension(d ast.Definition) bool {
	_, ok := d.(*discardedExtension)
	return ok
}
