package gen

import (
	"fmt"
	"strings"

	"github.com/ccbrown/graphqlservice/graphql/schema"
)

// emitDefinitions generates the Go source that wires the declared types from emitDeclarations
// into a *schema.Schema: one package-level var per named type, and a constructor function that
// assembles them into a schema.SchemaDefinition and calls schema.New.
func emitDefinitions(pkg string, d *document, info *schemaInfo, names map[string]string, opts Options) (string, error) {
	var out strings.Builder

	fmt.Fprintf(&out, "package %s\n\n", pkg)
	out.WriteString("import (\n")
	if len(d.inputOrder) > 0 {
		out.WriteString("\t\"fmt\"\n\n")
	}
	if len(d.scalarOrder) > 0 {
		out.WriteString("\t\"github.com/ccbrown/graphqlservice/graphql/ast\"\n")
	}
	out.WriteString("\t\"github.com/ccbrown/graphqlservice/graphql/modifier\"\n")
	out.WriteString("\t\"github.com/ccbrown/graphqlservice/graphql/schema\"\n")
	if !opts.NoIntrospection {
		out.WriteString("\t\"github.com/ccbrown/graphqlservice/graphql/schema/introspection\"\n")
	}
	out.WriteString(")\n\n")

	for _, name := range d.scalarOrder {
		emitCustomScalarType(&out, name, names)
	}

	for _, name := range d.enumOrder {
		if err := emitEnumType(&out, name, info, names); err != nil {
			return "", err
		}
	}

	// Interfaces and unions are declared ahead of objects since objects reference them, but
	// since these are just mutually-referential pointer values (not initialization-order
	// dependent computations), the declaration order here is cosmetic, not load-bearing.
	for _, name := range d.interfaceOrder {
		if err := emitInterfaceType(&out, name, info, names); err != nil {
			return "", err
		}
	}

	for _, name := range d.inputOrder {
		if err := emitInputObjectType(&out, name, info, names); err != nil {
			return "", err
		}
	}

	for _, name := range d.objectOrder {
		if err := emitObjectType(&out, name, info, names, opts); err != nil {
			return "", err
		}
	}

	for _, name := range d.unionOrder {
		if err := emitUnionType(&out, name, info, names); err != nil {
			return "", err
		}
	}

	for dname := range d.directives {
		if err := emitDirectiveDefinition(&out, dname, d, names); err != nil {
			return "", err
		}
	}

	if err := emitSchemaConstructor(&out, pkg, d, info, names); err != nil {
		return "", err
	}

	return out.String(), nil
}

func emitCustomScalarType(out *strings.Builder, name string, names map[string]string) {
	goName := names[name]
	fmt.Fprintf(out, `var %sScalarType = &schema.ScalarType{
	Name: %q,
	LiteralCoercion: func(v ast.Value) interface{} {
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
		case *ast.ListValue:
			return v.Values
		case *ast.ObjectValue:
			return v.Fields
		}
		return nil
	},
	VariableValueCoercion: func(v interface{}) interface{} { return v },
	ResultCoercion:        func(v interface{}) interface{} { return v },
}

`, goName, name)
}

func emitEnumType(out *strings.Builder, name string, info *schemaInfo, names map[string]string) error {
	goName := names[name]
	et, ok := info.types[name].(*schema.EnumType)
	if !ok {
		return fmt.Errorf("%s: not an enum type", name)
	}
	fmt.Fprintf(out, "var %sEnumType = &schema.EnumType{\n\tName: %q,\n\tValues: map[string]*schema.EnumValueDefinition{\n", goName, name)
	for value := range et.Values {
		fmt.Fprintf(out, "\t\t%q: {},\n", value)
	}
	out.WriteString("\t},\n}\n\n")
	return nil
}

func emitInterfaceType(out *strings.Builder, name string, info *schemaInfo, names map[string]string) error {
	goName := names[name]
	it, ok := info.types[name].(*schema.InterfaceType)
	if !ok {
		return fmt.Errorf("%s: not an interface type", name)
	}
	fmt.Fprintf(out, "var %sInterfaceType = &schema.InterfaceType{\n\tName: %q,\n\tFields: map[string]*schema.FieldDefinition{\n", goName, name)
	for _, fname := range sortedFieldNames(it.Fields) {
		fd := it.Fields[fname]
		te, err := typeExpr(fd.Type, names)
		if err != nil {
			return fmt.Errorf("interface %s, field %s: %w", name, fname, err)
		}
		fmt.Fprintf(out, "\t\t%q: {Type: %s},\n", fname, te)
	}
	out.WriteString("\t},\n}\n\n")
	return nil
}

func emitInputObjectType(out *strings.Builder, name string, info *schemaInfo, names map[string]string) error {
	goName := names[name]
	iot, ok := info.types[name].(*schema.InputObjectType)
	if !ok {
		return fmt.Errorf("%s: not an input object type", name)
	}

	fmt.Fprintf(out, "var %sInputType = &schema.InputObjectType{\n\tName: %q,\n\tFields: map[string]*schema.InputValueDefinition{\n", goName, name)
	fieldNames := sortedInputFieldNames(iot.Fields)
	for _, fname := range fieldNames {
		vd := iot.Fields[fname]
		te, err := typeExpr(vd.Type, names)
		if err != nil {
			return fmt.Errorf("input %s, field %s: %w", name, fname, err)
		}
		fmt.Fprintf(out, "\t\t%q: {Type: %s},\n", fname, te)
	}
	out.WriteString("\t},\n")

	out.WriteString("\tInputCoercion: func(m map[string]interface{}) (interface{}, error) {\n")
	fmt.Fprintf(out, "\t\tv := &%s{}\n", goName)
	for _, fname := range fieldNames {
		vd := iot.Fields[fname]
		s, err := computeShape(vd.Type)
		if err != nil {
			return fmt.Errorf("input %s, field %s: %w", name, fname, err)
		}
		leaf, err := leafForType(s.leaf, names)
		if err != nil {
			return fmt.Errorf("input %s, field %s: %w", name, fname, err)
		}
		if leaf.isReferenceType {
			return fmt.Errorf("input %s, field %s: %s is not an input type", name, fname, s.leaf.TypeName())
		}
		assign, err := argExtractExpr(fname, "m["+fmt.Sprintf("%q", fname)+"]", s, leaf)
		if err != nil {
			return fmt.Errorf("input %s, field %s: %w", name, fname, err)
		}
		fmt.Fprintf(out, "\t\t%s, err := %s\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t\tv.%s = %s\n",
			unexportedName(exportedName(fname)), assign, exportedName(fname), unexportedName(exportedName(fname)))
	}
	out.WriteString("\t\treturn v, nil\n\t},\n}\n\n")

	fmt.Fprintf(out, "func convert%s(raw interface{}) (*%s, error) {\n\tv, ok := raw.(*%s)\n\tif !ok {\n\t\treturn nil, fmt.Errorf(\"unexpected type for %s: %%T\", raw)\n\t}\n\treturn v, nil\n}\n\n", goName, goName, goName, goName)

	return nil
}

func emitUnionType(out *strings.Builder, name string, info *schemaInfo, names map[string]string) error {
	goName := names[name]
	ut, ok := info.types[name].(*schema.UnionType)
	if !ok {
		return fmt.Errorf("%s: not a union type", name)
	}
	fmt.Fprintf(out, "var %sUnionType = &schema.UnionType{\n\tName: %q,\n\tMemberTypes: []*schema.ObjectType{\n", goName, name)
	for _, member := range ut.MemberTypes {
		fmt.Fprintf(out, "\t\t%s,\n", names[member.Name]+"Type")
	}
	out.WriteString("\t},\n}\n\n")
	return nil
}

func emitDirectiveDefinition(out *strings.Builder, name string, d *document, names map[string]string) error {
	def := d.directives[name]
	goName := exportedName(name) + "Directive"
	var locs []string
	for _, l := range def.Locations {
		c, ok := directiveLocationConsts[l.Name]
		if !ok {
			return fmt.Errorf("@%s: unsupported directive location %s", name, l.Name)
		}
		locs = append(locs, c)
	}
	fmt.Fprintf(out, "var %s = &schema.DirectiveDefinition{\n\tLocations: []schema.DirectiveLocation{%s},\n}\n\n", goName, strings.Join(locs, ", "))
	return nil
}

// argExtractExpr renders the modifier.Require*/RequireList call used to pull one argument (or
// input field) of the given shape out of a raw value expression.
func argExtractExpr(name, rawExpr string, s shape, leaf leafInfo) (string, error) {
	t := leaf.goType
	switch {
	case !s.isList && !s.nullable:
		return fmt.Sprintf("modifier.Require[%s](%q, %s, %s)", t, name, rawExpr, leaf.argConvertExpr), nil
	case !s.isList && s.nullable:
		return fmt.Sprintf("modifier.RequireNullable[%s](%q, %s, %s)", t, name, rawExpr, leaf.argConvertExpr), nil
	case s.isList && !s.nullable:
		if s.elemNullable {
			return fmt.Sprintf("modifier.RequireList[%s](%q, %s, %s, modifier.Nullable)", t, name, rawExpr, leaf.argConvertExpr), nil
		}
		return fmt.Sprintf("modifier.RequireList[%s](%q, %s, %s)", t, name, rawExpr, leaf.argConvertExpr), nil
	default:
		if s.elemNullable {
			return fmt.Sprintf("modifier.RequireNullableList[%s](%q, %s, %s, modifier.Nullable)", t, name, rawExpr, leaf.argConvertExpr), nil
		}
		return fmt.Sprintf("modifier.RequireNullableList[%s](%q, %s, %s)", t, name, rawExpr, leaf.argConvertExpr), nil
	}
}

// resultConvertExpr renders the modifier.Convert*Result call that turns a getter's typed return
// value into the untyped shape the executor expects.
func resultConvertExpr(resultVar string, s shape, leaf leafInfo) string {
	if leaf.isReferenceType {
		return fmt.Sprintf("return %s, nil", resultVar)
	}
	switch {
	case !s.isList && !s.nullable:
		return fmt.Sprintf("return modifier.ConvertResult(%s, %s)", resultVar, leaf.resultConvertExpr)
	case !s.isList && s.nullable:
		return fmt.Sprintf("return modifier.ConvertNullableResult(%s, %s)", resultVar, leaf.resultConvertExpr)
	case s.isList && !s.elemNullable:
		return fmt.Sprintf("return modifier.ConvertListResult(%s, %s)", resultVar, leaf.resultConvertExpr)
	default:
		return fmt.Sprintf("return modifier.ConvertNullableElementsResult(%s, %s)", resultVar, leaf.resultConvertExpr)
	}
}

func emitObjectType(out *strings.Builder, name string, info *schemaInfo, names map[string]string, opts Options) error {
	goName := names[name]
	ot, ok := info.types[name].(*schema.ObjectType)
	if !ok {
		return fmt.Errorf("%s: not an object type", name)
	}

	fmt.Fprintf(out, "var %sType = &schema.ObjectType{\n\tName: %q,\n", goName, name)

	if len(ot.ImplementedInterfaces) > 0 {
		out.WriteString("\tImplementedInterfaces: []*schema.InterfaceType{\n")
		for _, iface := range ot.ImplementedInterfaces {
			fmt.Fprintf(out, "\t\t%sInterfaceType,\n", names[iface.Name])
		}
		out.WriteString("\t},\n")
	}

	fmt.Fprintf(out, "\tIsTypeOf: func(v interface{}) bool {\n\t\to, ok := v.(*%s)\n\t\tif !ok {\n\t\t\treturn false\n\t\t}\n\t\tfor _, n := range o.GraphQLTypeNames() {\n\t\t\tif n == %q {\n\t\t\t\treturn true\n\t\t\t}\n\t\t}\n\t\treturn false\n\t},\n", goName, name)

	out.WriteString("\tFields: map[string]*schema.FieldDefinition{\n")
	for _, fname := range sortedFieldNames(ot.Fields) {
		fd := ot.Fields[fname]
		plan, err := planField(fname, fd, names)
		if err != nil {
			return fmt.Errorf("type %s: %w", name, err)
		}

		te, err := typeExpr(fd.Type, names)
		if err != nil {
			return fmt.Errorf("type %s, field %s: %w", name, fname, err)
		}

		fmt.Fprintf(out, "\t\t%q: {\n\t\t\tType: %s,\n", fname, te)

		if len(plan.args) > 0 {
			out.WriteString("\t\t\tArguments: map[string]*schema.InputValueDefinition{\n")
			for _, a := range plan.args {
				ate, err := typeExpr(fd.Arguments[a.name].Type, names)
				if err != nil {
					return fmt.Errorf("type %s, field %s, argument %s: %w", name, fname, a.name, err)
				}
				fmt.Fprintf(out, "\t\t\t\t%q: {Type: %s},\n", a.name, ate)
			}
			out.WriteString("\t\t\t},\n")
		}

		out.WriteString("\t\t\tResolve: func(ctx *schema.FieldContext) (interface{}, error) {\n")
		fmt.Fprintf(out, "\t\t\t\to := ctx.Object.(*%s)\n", goName)

		callArgs := []string{"ctx"}
		for _, a := range plan.args {
			assign, err := argExtractExpr(a.name, fmt.Sprintf("ctx.Arguments[%q]", a.name), a.shape, a.leaf)
			if err != nil {
				return fmt.Errorf("type %s, field %s, argument %s: %w", name, fname, a.name, err)
			}
			fmt.Fprintf(out, "\t\t\t\t%s, err := %s\n\t\t\t\tif err != nil {\n\t\t\t\t\treturn nil, err\n\t\t\t\t}\n", a.goArg, assign)
			callArgs = append(callArgs, a.goArg)
		}

		fmt.Fprintf(out, "\t\t\t\tresult, err := o.%s(%s)\n\t\t\t\tif err != nil {\n\t\t\t\t\treturn nil, err\n\t\t\t\t}\n\t\t\t\t%s\n\t\t\t},\n\t\t},\n",
			getterName(fname), strings.Join(callArgs, ", "), resultConvertExpr("result", plan.shape, plan.leaf))
	}

	if name == info.queryTypeName && !opts.NoIntrospection {
		out.WriteString("\t\t\"__schema\": introspection.MetaFields[\"__schema\"],\n")
		out.WriteString("\t\t\"__type\":   introspection.MetaFields[\"__type\"],\n")
	}

	out.WriteString("\t},\n}\n\n")
	return nil
}

// typeExpr renders the Go expression referencing the schema.Type value for t.
func typeExpr(t schema.Type, names map[string]string) (string, error) {
	switch t := t.(type) {
	case *schema.NonNullType:
		inner, err := typeExpr(t.Type, names)
		if err != nil {
			return "", err
		}
		return "schema.NewNonNullType(" + inner + ")", nil
	case *schema.ListType:
		inner, err := typeExpr(t.Type, names)
		if err != nil {
			return "", err
		}
		return "schema.NewListType(" + inner + ")", nil
	case *schema.ScalarType:
		switch t.Name {
		case "Int":
			return "schema.IntType", nil
		case "Float":
			return "schema.FloatType", nil
		case "String":
			return "schema.StringType", nil
		case "Boolean":
			return "schema.BooleanType", nil
		case "ID":
			return "schema.IDType", nil
		default:
			return names[t.Name] + "ScalarType", nil
		}
	case *schema.EnumType:
		return names[t.Name] + "EnumType", nil
	case *schema.InputObjectType:
		return names[t.Name] + "InputType", nil
	case *schema.InterfaceType:
		return names[t.Name] + "InterfaceType", nil
	case *schema.UnionType:
		return names[t.Name] + "UnionType", nil
	case *schema.ObjectType:
		return names[t.Name] + "Type", nil
	default:
		return "", fmt.Errorf("unsupported type reference")
	}
}

func emitSchemaConstructor(out *strings.Builder, pkg string, d *document, info *schemaInfo, names map[string]string) error {
	fmt.Fprintf(out, "// New%sSchema assembles the generated types into a *schema.Schema.\n", exportedName(pkg))
	fmt.Fprintf(out, "func New%sSchema() (*schema.Schema, error) {\n", exportedName(pkg))
	out.WriteString("\treturn schema.New(&schema.SchemaDefinition{\n")
	if info.queryTypeName != "" {
		fmt.Fprintf(out, "\t\tQuery: %sType,\n", names[info.queryTypeName])
	}
	if info.mutationTypeName != "" {
		fmt.Fprintf(out, "\t\tMutation: %sType,\n", names[info.mutationTypeName])
	}
	if info.subscriptionTypeName != "" {
		fmt.Fprintf(out, "\t\tSubscription: %sType,\n", names[info.subscriptionTypeName])
	}

	out.WriteString("\t\tDirectiveDefinitions: map[string]*schema.DirectiveDefinition{\n")
	out.WriteString("\t\t\t\"skip\":    schema.SkipDirective,\n")
	out.WriteString("\t\t\t\"include\": schema.IncludeDirective,\n")
	for dname := range d.directives {
		fmt.Fprintf(out, "\t\t\t%q: %s,\n", dname, exportedName(dname)+"Directive")
	}
	out.WriteString("\t\t},\n")
	out.WriteString("\t})\n}\n")
	return nil
}
