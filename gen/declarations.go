package gen

import (
	"fmt"
	"strings"

	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/schema"
)

// emitDeclarations generates the Go source declaring one type per enum/input/object in the
// document, including the panicking getter stubs a resolver author fills in.
func emitDeclarations(pkg string, d *document, info *schemaInfo, names map[string]string) (string, error) {
	var out strings.Builder

	fmt.Fprintf(&out, "package %s\n\n", pkg)
	out.WriteString("import (\n\t\"github.com/ccbrown/graphqlservice/graphql/schema\"\n)\n\n")

	for _, name := range d.enumOrder {
		if err := emitEnum(&out, d.enums[name], names[name]); err != nil {
			return "", err
		}
	}

	for _, name := range d.inputOrder {
		if err := emitInputStruct(&out, d.inputs[name], info, names[name], names); err != nil {
			return "", err
		}
	}

	for _, name := range d.objectOrder {
		if err := emitObjectStruct(&out, name, info, names); err != nil {
			return "", err
		}
	}

	return out.String(), nil
}

func emitEnum(out *strings.Builder, def *ast.EnumTypeDefinition, goName string) error {
	if def.Description != nil {
		fmt.Fprintf(out, "// %s\n", def.Description.Value)
	}
	fmt.Fprintf(out, "type %s string\n\nconst (\n", goName)
	for _, v := range def.Values {
		fmt.Fprintf(out, "\t%s %s = %q\n", enumValueName(goName, v.Value.Name), goName, v.Value.Name)
	}
	out.WriteString(")\n\n")

	fmt.Fprintf(out, "var %sByName = map[string]%s{\n", goName, goName)
	for _, v := range def.Values {
		fmt.Fprintf(out, "\t%q: %s,\n", v.Value.Name, enumValueName(goName, v.Value.Name))
	}
	out.WriteString("}\n\n")
	return nil
}

func emitInputStruct(out *strings.Builder, def *ast.InputObjectTypeDefinition, info *schemaInfo, goName string, names map[string]string) error {
	if def.Description != nil {
		fmt.Fprintf(out, "// %s\n", def.Description.Value)
	}
	resolved, ok := info.types[def.Name.Name].(*schema.InputObjectType)
	if !ok {
		return fmt.Errorf("input %s: not an input object type", goName)
	}
	fmt.Fprintf(out, "type %s struct {\n", goName)
	for _, fname := range sortedInputFieldNames(resolved.Fields) {
		vd := resolved.Fields[fname]
		s, err := computeShape(vd.Type)
		if err != nil {
			return fmt.Errorf("input %s, field %s: %w", goName, fname, err)
		}
		leaf, err := leafForType(s.leaf, names)
		if err != nil {
			return fmt.Errorf("input %s, field %s: %w", goName, fname, err)
		}
		fmt.Fprintf(out, "\t%s %s\n", exportedName(fname), s.argGoType(leaf))
	}
	out.WriteString("}\n\n")
	return nil
}

func emitObjectStruct(out *strings.Builder, graphQLName string, info *schemaInfo, names map[string]string) error {
	goName := names[graphQLName]
	obj := info.types[graphQLName]

	fmt.Fprintf(out, "// %s is the base type for resolvers of the %s GraphQL type. Embed it and\n", goName, graphQLName)
	fmt.Fprintf(out, "// override the generated getters that need real behavior.\n")
	fmt.Fprintf(out, "type %s struct {\n\tTypeNames []string\n}\n\n", goName)

	fmt.Fprintf(out, "func (o *%s) GraphQLTypeNames() []string {\n", goName)
	fmt.Fprintf(out, "\tif len(o.TypeNames) == 0 {\n\t\treturn []string{%q}\n\t}\n", graphQLName)
	out.WriteString("\treturn o.TypeNames\n}\n\n")

	ot, ok := obj.(*schema.ObjectType)
	if !ok {
		return fmt.Errorf("%s: not an object type", graphQLName)
	}

	for _, fname := range sortedFieldNames(ot.Fields) {
		fd := ot.Fields[fname]
		plan, err := planField(fname, fd, names)
		if err != nil {
			return fmt.Errorf("type %s: %w", graphQLName, err)
		}

		params := []string{"ctx *schema.FieldContext"}
		for _, a := range plan.args {
			params = append(params, fmt.Sprintf("%s %s", a.goArg, a.shape.argGoType(a.leaf)))
		}

		fmt.Fprintf(out, "func (o *%s) %s(%s) (%s, error) {\n\tpanic(\"not implemented\")\n}\n\n",
			goName, getterName(fname), strings.Join(params, ", "), plan.shape.resultGoType(plan.leaf))
	}

	return nil
}
