package gen

import (
	"fmt"
	"sort"

	"github.com/ccbrown/graphqlservice/graphql/schema"
)

// argSpec is one argument of a field, with its shape and leaf conversion info resolved.
type argSpec struct {
	name  string
	goArg string // the Go parameter name, e.g. "limit"
	shape shape
	leaf  leafInfo
}

// fieldPlan captures everything both emitters need to know about one field.
type fieldPlan struct {
	name  string
	shape shape
	leaf  leafInfo
	args  []argSpec
}

func planField(name string, fd *schema.FieldDefinition, names map[string]string) (*fieldPlan, error) {
	s, err := computeShape(fd.Type)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}
	leaf, err := leafForType(s.leaf, names)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}

	argNames := make([]string, 0, len(fd.Arguments))
	for n := range fd.Arguments {
		argNames = append(argNames, n)
	}
	sort.Strings(argNames)

	var args []argSpec
	for _, n := range argNames {
		def := fd.Arguments[n]
		as, err := computeShape(def.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s, argument %s: %w", name, n, err)
		}
		al, err := leafForType(as.leaf, names)
		if err != nil {
			return nil, fmt.Errorf("field %s, argument %s: %w", name, n, err)
		}
		if al.isReferenceType {
			return nil, fmt.Errorf("field %s, argument %s: %s is not an input type", name, n, as.leaf.TypeName())
		}
		args = append(args, argSpec{name: n, goArg: unexportedName(exportedName(n)), shape: as, leaf: al})
	}

	return &fieldPlan{name: name, shape: s, leaf: leaf, args: args}, nil
}

// sortedFieldNames returns a type's field names in a stable order, so repeated generation runs
// produce byte-identical output.
func sortedFieldNames(fields map[string]*schema.FieldDefinition) []string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedInputFieldNames(fields map[string]*schema.InputValueDefinition) []string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
