package gen

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// exportedName turns a GraphQL name into an exported Go identifier, e.g. "createUserInput"
// becomes "CreateUserInput" and "HTML_PAGE" becomes "HTMLPAGE".
func exportedName(name string) string {
	return strcase.ToCamel(name)
}

// getterName returns the Go method name used for a field's resolver accessor, e.g. "firstName"
// becomes "GetFirstName".
func getterName(fieldName string) string {
	return "Get" + exportedName(fieldName)
}

// enumValueName returns the Go constant name for one value of a generated enum type, e.g. enum
// "Status" and value "NOT_STARTED" becomes "StatusNotStarted".
func enumValueName(enumGoName, value string) string {
	parts := strings.Split(strings.ToLower(value), "_")
	for i, part := range parts {
		parts[i] = strcase.ToCamel(part)
	}
	return enumGoName + strings.Join(parts, "")
}

// unexportedName lower-cases the first rune of an exported Go identifier, used for the parameter
// and local variable names in generated code.
func unexportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
