package gen

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/schema"
)

// schemaInfo is the result of the forward-reference resolution pass: every user-defined named
// type, allocated (but not necessarily fully populated) so that fields declared before their
// type is classified still resolve.
type schemaInfo struct {
	doc   *document
	types map[string]schema.NamedType

	queryTypeName        string
	mutationTypeName     string
	subscriptionTypeName string
}

// resolve allocates a schema.NamedType placeholder for every classified type, then resolves
// every field, argument, interface, and union-member reference against those placeholders
// (and the built-in scalars), aggregating every problem it finds into an *InvalidSchema.
func resolve(doc *document) (*schemaInfo, error) {
	info := &schemaInfo{doc: doc, types: map[string]schema.NamedType{}}
	var errs error

	for _, name := range doc.scalarOrder {
		def := doc.scalars[name]
		info.types[name] = &schema.ScalarType{
			Name:                  name,
			Description:           description(def.Description),
			LiteralCoercion:       passthroughLiteralCoercion,
			VariableValueCoercion: passthroughCoercion,
			ResultCoercion:        passthroughCoercion,
		}
	}
	for _, name := range doc.enumOrder {
		def := doc.enums[name]
		values := map[string]*schema.EnumValueDefinition{}
		for _, v := range def.Values {
			values[v.Value.Name] = &schema.EnumValueDefinition{
				Description: description(v.Description),
			}
		}
		info.types[name] = &schema.EnumType{
			Name:        name,
			Description: description(def.Description),
			Values:      values,
		}
	}
	for _, name := range doc.inputOrder {
		info.types[name] = &schema.InputObjectType{
			Name:        name,
			Description: description(doc.inputs[name].Description),
		}
	}
	for _, name := range doc.interfaceOrder {
		info.types[name] = &schema.InterfaceType{
			Name:        name,
			Description: description(doc.interfaces[name].Description),
		}
	}
	for _, name := range doc.objectOrder {
		info.types[name] = &schema.ObjectType{
			Name:        name,
			Description: description(doc.objects[name].Description),
		}
	}
	for _, name := range doc.unionOrder {
		info.types[name] = &schema.UnionType{
			Name:        name,
			Description: description(doc.unions[name].Description),
		}
	}

	// Now that every name resolves to something, fill in the field/interface/member details that
	// reference other types.

	for _, name := range doc.inputOrder {
		obj := info.types[name].(*schema.InputObjectType)
		fields, ferrs := resolveInputValues(doc.inputs[name].Fields, info.types)
		if ferrs != nil {
			errs = multierror.Append(errs, fmt.Errorf("input %s: %w", name, ferrs))
			continue
		}
		obj.Fields = fields
	}

	for _, name := range doc.interfaceOrder {
		def := doc.interfaces[name]
		iface := info.types[name].(*schema.InterfaceType)
		fields, ferrs := resolveFields(def.Fields, info.types)
		if ferrs != nil {
			errs = multierror.Append(errs, fmt.Errorf("interface %s: %w", name, ferrs))
			continue
		}
		iface.Fields = fields
	}

	for _, name := range doc.objectOrder {
		def := doc.objects[name]
		obj := info.types[name].(*schema.ObjectType)
		fields, ferrs := resolveFields(def.Fields, info.types)
		if ferrs != nil {
			errs = multierror.Append(errs, fmt.Errorf("type %s: %w", name, ferrs))
			continue
		}
		obj.Fields = fields

		for _, ifaceRef := range def.Interfaces {
			ifaceName := ifaceRef.Name.Name
			iface, ok := info.types[ifaceName].(*schema.InterfaceType)
			if !ok {
				errs = multierror.Append(errs, fmt.Errorf("type %s: implements undefined interface %s", name, ifaceName))
				continue
			}
			obj.ImplementedInterfaces = append(obj.ImplementedInterfaces, iface)
		}
	}

	for _, name := range doc.unionOrder {
		def := doc.unions[name]
		union := info.types[name].(*schema.UnionType)
		for _, memberRef := range def.MemberTypes {
			memberName := memberRef.Name.Name
			member, ok := info.types[memberName].(*schema.ObjectType)
			if !ok {
				errs = multierror.Append(errs, fmt.Errorf("union %s: member %s is not an object type", name, memberName))
				continue
			}
			union.MemberTypes = append(union.MemberTypes, member)
		}
	}

	if doc.schema != nil {
		for _, op := range doc.schema.OperationTypes {
			name := op.Type.Name.Name
			if _, ok := info.types[name].(*schema.ObjectType); !ok {
				errs = multierror.Append(errs, fmt.Errorf("schema: %s operation type %s is not an object type", op.Operation.Value, name))
				continue
			}
			switch op.Operation.Value {
			case "query":
				info.queryTypeName = name
			case "mutation":
				info.mutationTypeName = name
			case "subscription":
				info.subscriptionTypeName = name
			}
		}
	} else if _, ok := doc.objects["Query"]; ok {
		info.queryTypeName = "Query"
		if _, ok := doc.objects["Mutation"]; ok {
			info.mutationTypeName = "Mutation"
		}
		if _, ok := doc.objects["Subscription"]; ok {
			info.subscriptionTypeName = "Subscription"
		}
	}

	if info.queryTypeName == "" {
		errs = multierror.Append(errs, fmt.Errorf("schema: no query root could be determined (define a Query type, or an explicit schema block)"))
	}

	if errs != nil {
		return info, &InvalidSchema{Errors: errs}
	}
	return info, nil
}

func resolveFields(defs []*ast.FieldDefinition, types map[string]schema.NamedType) (map[string]*schema.FieldDefinition, error) {
	fields := map[string]*schema.FieldDefinition{}
	var errs error
	for _, fd := range defs {
		t, err := resolveType(fd.Type, types)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("field %s: %w", fd.Name.Name, err))
			continue
		}
		args, aerrs := resolveInputValues(fd.Arguments, types)
		if aerrs != nil {
			errs = multierror.Append(errs, fmt.Errorf("field %s: %w", fd.Name.Name, aerrs))
			continue
		}
		fields[fd.Name.Name] = &schema.FieldDefinition{
			Description: description(fd.Description),
			Type:        t,
			Arguments:   args,
		}
	}
	if errs != nil {
		return nil, errs
	}
	return fields, nil
}

func resolveInputValues(defs []*ast.InputValueDefinition, types map[string]schema.NamedType) (map[string]*schema.InputValueDefinition, error) {
	values := map[string]*schema.InputValueDefinition{}
	var errs error
	for _, vd := range defs {
		t, err := resolveType(vd.Type, types)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("argument %s: %w", vd.Name.Name, err))
			continue
		}
		values[vd.Name.Name] = &schema.InputValueDefinition{
			Description:  description(vd.Description),
			Type:         t,
			DefaultValue: defaultValueLiteral(vd.DefaultValue),
		}
	}
	if errs != nil {
		return nil, errs
	}
	return values, nil
}

// resolveType maps a schema-document type reference onto the schema.Type it names, following
// List/NonNull wrappers. It's the second-pass half of forward-reference resolution: by the time
// this is called, every named type in the document already has a placeholder in types.
func resolveType(t ast.Type, types map[string]schema.NamedType) (schema.Type, error) {
	switch t := t.(type) {
	case *ast.NonNullType:
		inner, err := resolveType(t.Type, types)
		if err != nil {
			return nil, err
		}
		return schema.NewNonNullType(inner), nil
	case *ast.ListType:
		inner, err := resolveType(t.Type, types)
		if err != nil {
			return nil, err
		}
		return schema.NewListType(inner), nil
	case *ast.NamedType:
		if builtin, ok := schema.BuiltInTypes[t.Name.Name]; ok {
			return builtin, nil
		}
		if named, ok := types[t.Name.Name]; ok {
			return named, nil
		}
		return nil, fmt.Errorf("undefined type: %s", t.Name.Name)
	default:
		return nil, fmt.Errorf("unsupported type reference")
	}
}

func description(s *ast.StringValue) string {
	if s == nil {
		return ""
	}
	return s.Value
}

// defaultValueLiteral converts simple scalar/enum/boolean/null default value literals into the
// runtime values InputValueDefinition.DefaultValue expects. Defaults that are lists or input
// objects are left unset -- see DESIGN.md.
func defaultValueLiteral(v ast.Value) interface{} {
	if v == nil {
		return nil
	}
	switch v := v.(type) {
	case *ast.NullValue:
		return schema.Null
	case *ast.IntValue:
		return v.Value
	case *ast.FloatValue:
		return v.Value
	case *ast.StringValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	default:
		return nil
	}
}

func passthroughCoercion(v interface{}) interface{} {
	return v
}

func passthroughLiteralCoercion(v ast.Value) interface{} {
	switch v := v.(type) {
	case *ast.StringValue:
		return v.Value
	case *ast.IntValue:
		return v.Value
	case *ast.FloatValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	}
	return nil
}
