package ast

import "github.com/ccbrown/graphqlservice/graphql/token"

// TypeSystemDefinition is implemented by every top-level schema-document definition: a
// SchemaDefinition, ScalarTypeDefinition, ObjectTypeDefinition, InterfaceTypeDefinition,
// UnionTypeDefinition, EnumTypeDefinition, InputObjectTypeDefinition, or DirectiveDefinition.
// TypeSystemExtension ("extend ...") forms are accepted by the parser but are not surfaced here.
type TypeSystemDefinition interface {
	Definition
	isTypeSystemDefinition()
}

type SchemaDefinition struct {
	Description    *StringValue
	Directives     []*Directive
	OperationTypes []*OperationTypeDefinition
	Schema         token.Position
}

func (*SchemaDefinition) isTypeSystemDefinition() {}
func (n *SchemaDefinition) Position() token.Position { return n.Schema }

type OperationTypeDefinition struct {
	Operation *OperationType
	Type      *NamedType
}

func (n *OperationTypeDefinition) Position() token.Position { return n.Operation.Position() }

type ScalarTypeDefinition struct {
	Description *StringValue
	Name        *Name
	Directives  []*Directive
}

func (*ScalarTypeDefinition) isTypeSystemDefinition() {}
func (n *ScalarTypeDefinition) Position() token.Position { return n.Name.Position() }

type ObjectTypeDefinition struct {
	Description *StringValue
	Name        *Name
	Interfaces  []*NamedType
	Directives  []*Directive
	Fields      []*FieldDefinition
}

func (*ObjectTypeDefinition) isTypeSystemDefinition() {}
func (n *ObjectTypeDefinition) Position() token.Position { return n.Name.Position() }

type InterfaceTypeDefinition struct {
	Description *StringValue
	Name        *Name
	Interfaces  []*NamedType
	Directives  []*Directive
	Fields      []*FieldDefinition
}

func (*InterfaceTypeDefinition) isTypeSystemDefinition() {}
func (n *InterfaceTypeDefinition) Position() token.Position { return n.Name.Position() }

type UnionTypeDefinition struct {
	Description *StringValue
	Name        *Name
	Directives  []*Directive
	MemberTypes []*NamedType
}

func (*UnionTypeDefinition) isTypeSystemDefinition() {}
func (n *UnionTypeDefinition) Position() token.Position { return n.Name.Position() }

type EnumTypeDefinition struct {
	Description *StringValue
	Name        *Name
	Directives  []*Directive
	Values      []*EnumValueDefinition
}

func (*EnumTypeDefinition) isTypeSystemDefinition() {}
func (n *EnumTypeDefinition) Position() token.Position { return n.Name.Position() }

type EnumValueDefinition struct {
	Description *StringValue
	Value       *Name
	Directives  []*Directive
}

func (n *EnumValueDefinition) Position() token.Position { return n.Value.Position() }

type InputObjectTypeDefinition struct {
	Description *StringValue
	Name        *Name
	Directives  []*Directive
	Fields      []*InputValueDefinition
}

func (*InputObjectTypeDefinition) isTypeSystemDefinition() {}
func (n *InputObjectTypeDefinition) Position() token.Position { return n.Name.Position() }

type InputValueDefinition struct {
	Description  *StringValue
	Name         *Name
	Type         Type
	DefaultValue Value
	Directives   []*Directive
}

func (n *InputValueDefinition) Position() token.Position { return n.Name.Position() }

type FieldDefinition struct {
	Description *StringValue
	Name        *Name
	Arguments   []*InputValueDefinition
	Type        Type
	Directives  []*Directive
}

func (n *FieldDefinition) Position() token.Position { return n.Name.Position() }

type DirectiveDefinition struct {
	Description *StringValue
	Name        *Name
	Arguments   []*InputValueDefinition
	Repeatable  bool
	Locations   []*Name
	Directive   token.Position
}

func (*DirectiveDefinition) isTypeSystemDefinition() {}
func (n *DirectiveDefinition) Position() token.Position { return n.Directive }

// Type-system extensions ("extend ...") have no AST type here: the parser consumes and discards
// them, leaving an opaque marker in the Document's Definitions in their place (see
// parser.IsDiscardedTypeSystemExtension and SPEC_FULL.md).
