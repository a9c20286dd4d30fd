package main

// This is cmd/gql-client-gen's generateState/generateType/processQuery logic, carried over
// unchanged: it walks a selection set against a *schema.Schema and builds the matching Go struct
// types. Only the schema-loading step differs -- see gen.BuildSchema in main.go -- so the
// selection-set walk itself didn't need to change.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ccbrown/graphqlservice/graphql"
	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/schema"
)

type generateState struct {
	output             string
	schema             *schema.Schema
	outputStructCount  int
	outputEnums        map[string]struct{}
	requiresJSONImport bool
}

func (s *generateState) generateType(t schema.Type, selections []ast.Selection, nonNull bool, fragTypes map[string]string) (string, error) {
	if t, ok := t.(*schema.NonNullType); ok {
		return s.generateType(t.Type, selections, true, fragTypes)
	}

	ret := "interface{}"

	switch t := t.(type) {
	case *schema.ScalarType:
		switch t {
		case schema.BooleanType:
			ret = "bool"
		case schema.IntType:
			ret = "int"
		case schema.FloatType:
			ret = "float64"
		case schema.StringType:
			ret = "string"
		case schema.IDType:
			ret = "string"
		default:
			ret = t.Name
		}

		if !nonNull {
			ret = "*" + ret
		}
	case *schema.ListType:
		gen, err := s.generateType(t.Type, selections, false, fragTypes)
		if err != nil {
			return "", err
		}
		ret = "[]" + gen
	case *schema.EnumType:
		if _, ok := s.outputEnums[t.Name]; !ok {
			s.output += "type " + t.Name + " string\n\nconst (\n"
			for k := range t.Values {
				parts := strings.Split(k, "_")
				for i, part := range parts {
					parts[i] = strings.Title(strings.ToLower(part))
				}
				s.output += t.Name + strings.Join(parts, "") + " " + t.Name + " = \"" + k + "\"\n"
			}
			s.output += ")\n\n"
			s.outputEnums[t.Name] = struct{}{}
		}

		ret = t.Name

		if !nonNull {
			ret = "*" + ret
		}
	case *schema.ObjectType, *schema.InterfaceType, *schema.UnionType:
		fields := map[string]string{}

		hasTypename := false
		for _, sel := range selections {
			if field, ok := sel.(*ast.Field); ok {
				if field.Name.Name == "__typename" {
					hasTypename = true
					break
				}
			}
		}

		// type => field names
		typeConditions := map[string][]string{}

		for _, sel := range selections {
			switch sel := sel.(type) {
			case *ast.FragmentSpread:
				if !hasTypename {
					if _, ok := t.(*schema.ObjectType); !ok {
						return "", fmt.Errorf("__typename is required by fragment spread")
					}
				}
				name := sel.FragmentName.Name
				fields[name] = "*" + name + "Fragment `json:\"-\"`"
				typeConditions[fragTypes[name]] = append(typeConditions[fragTypes[name]], name)
			case *ast.InlineFragment:
				if !hasTypename {
					if _, ok := t.(*schema.ObjectType); !ok {
						return "", fmt.Errorf("__typename is required by inline fragment")
					}
				}
				cond := s.schema.NamedTypes()[sel.TypeCondition.Name.Name]
				gen, err := s.generateType(cond, sel.SelectionSet.Selections, false, fragTypes)
				if err != nil {
					return "", err
				}
				fields[cond.TypeName()] = gen + " `json:\"-\"`"
				typeConditions[cond.TypeName()] = append(typeConditions[cond.TypeName()], cond.TypeName())
			case *ast.Field:
				var selections []ast.Selection
				if sel.SelectionSet != nil {
					selections = sel.SelectionSet.Selections
				}
				k := sel.Name.Name
				if sel.Alias != nil {
					k = sel.Alias.Name
				}
				k = strings.Title(k)
				if sel.Name.Name == "__typename" {
					fields["Typename__"] = "string `json:\"__typename\"`"
				} else {
					var err error
					switch t := t.(type) {
					case *schema.ObjectType:
						fields[k], err = s.generateType(t.Fields[sel.Name.Name].Type, selections, false, fragTypes)
					case *schema.InterfaceType:
						fields[k], err = s.generateType(t.Fields[sel.Name.Name].Type, selections, false, fragTypes)
					}
					if err != nil {
						return "", err
					}
				}
			}
		}

		parts := make([]string, 0, len(fields))
		for k, v := range fields {
			parts = append(parts, k+" "+v+"\n")
		}
		ret = "struct {\n" + strings.Join(parts, "") + "}"

		if len(typeConditions) > 0 {
			s.requiresJSONImport = true
			tName := t.(schema.NamedType).TypeName()
			name := "sel" + tName + strconv.Itoa(s.outputStructCount)
			s.output += `
				type ` + name + ` ` + ret + `

				func (s *` + name + `) UnmarshalJSON(b []byte) error {
					var base ` + ret + `
					if err := json.Unmarshal(b, &base); err != nil {
						return err
					}
					*s = base
			`
			for typeCond, fields := range typeConditions {
				isKnown := typeCond == tName
				if obj, ok := t.(*schema.ObjectType); ok && !isKnown {
					for _, iface := range obj.ImplementedInterfaces {
						if iface.Name == typeCond {
							isKnown = true
							break
						}
					}
				}
				if isKnown {
					for _, field := range fields {
						s.output += `if err := json.Unmarshal(b, &s.` + field + `); err != nil {
								return err
							}
						`
					}
					continue
				}

				typeCondType := s.schema.NamedTypes()[typeCond]
				var okTypes []string
				switch t := typeCondType.(type) {
				case *schema.InterfaceType:
					for _, t := range s.schema.InterfaceImplementations(t.Name) {
						okTypes = append(okTypes, t.Name)
					}
				case *schema.ObjectType:
					okTypes = []string{t.Name}
				}

				for _, field := range fields {
					s.output += `switch base.Typename__ {
						case "` + strings.Join(okTypes, `", "`) + `":
							if err := json.Unmarshal(b, &s.` + field + `); err != nil {
								return err
							}
						}
					`
				}
			}
			s.output += "return nil\n}\n\n"
			ret = name
			s.outputStructCount++
		}

		if !nonNull {
			ret = "*" + ret
		}
	}

	return ret, nil
}

func (s *generateState) processQuery(q string) []error {
	var ret []error
	doc, errs := graphql.ParseAndValidate(q, s.schema)
	if len(errs) > 0 {
		for _, err := range errs {
			ret = append(ret, err)
		}
		return ret
	}

	fragTypes := map[string]string{}
	for _, op := range doc.Definitions {
		if def, ok := op.(*ast.FragmentDefinition); ok {
			fragTypes[def.Name.Name] = def.TypeCondition.Name.Name
		}
	}

	for _, op := range doc.Definitions {
		switch op := op.(type) {
		case *ast.OperationDefinition:
			t := s.schema.QueryType()
			if op.OperationType != nil {
				switch op.OperationType.Value {
				case "mutation":
					t = s.schema.MutationType()
				case "subscription":
					t = s.schema.SubscriptionType()
				}
			}
			if op.Name != nil {
				gen, err := s.generateType(t, op.SelectionSet.Selections, true, fragTypes)
				if err != nil {
					ret = append(ret, err)
					continue
				}
				s.output += "type " + op.Name.Name + "Data " + gen + "\n\n"
			}
		case *ast.FragmentDefinition:
			if op.Name != nil {
				gen, err := s.generateType(s.schema.NamedTypes()[op.TypeCondition.Name.Name], op.SelectionSet.Selections, true, fragTypes)
				if err != nil {
					ret = append(ret, err)
					continue
				}
				s.output += "type " + op.Name.Name + "Fragment " + gen + "\n\n"
			}
		}
	}

	return ret
}
