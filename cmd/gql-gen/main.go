// Command gql-gen generates Go source from a GraphQL schema document. In server mode, it
// generates a resolver skeleton for the schema itself. In client mode, it generates the response
// types for a set of operations validated against the schema, the way cmd/gql-client-gen does,
// but loading the schema from SDL instead of an introspection query result.
package main

import (
	"fmt"
	gofmt "go/format"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ccbrown/graphqlservice/gen"
	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/parser"
	"github.com/ccbrown/graphqlservice/graphql/schema"
)

const version = "0.1.0"

const usage = `usage:
  gql-gen [flags] <schema-file> <output-prefix> <output-namespace>
  gql-gen [flags] <schema-file> <request-file> <prefix> <namespace>

The first form (3 positional arguments) generates a resolver skeleton for the schema itself. The
second form (4 positional arguments) generates response types for the operations and fragments in
<request-file>, validated against the schema.

flags:
`

func loadSchemaDocument(path string) (*ast.Document, error) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, errs := parser.ParseDocument(src)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return doc, nil
}

func runServer(w io.Writer, verbose bool, headerDir, sourceDir string, opts gen.Options, schemaFile, outputPrefix, outputNamespace string) []error {
	doc, err := loadSchemaDocument(schemaFile)
	if err != nil {
		return []error{fmt.Errorf("error loading schema: %w", err)}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "generating resolver skeleton for package %s\n", outputNamespace)
	}

	result, err := gen.GenerateWithOptions(doc, outputNamespace, opts)
	if err != nil {
		return []error{err}
	}

	headerPath := filepath.Join(headerDir, outputPrefix+".go")
	sourcePath := filepath.Join(sourceDir, outputPrefix+"_schema.go")

	if verbose {
		fmt.Fprintf(os.Stderr, "writing %s\n", headerPath)
	}
	if err := ioutil.WriteFile(headerPath, []byte(result.Declarations), 0644); err != nil {
		return []error{fmt.Errorf("error writing %s: %w", headerPath, err)}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "writing %s\n", sourcePath)
	}
	if err := ioutil.WriteFile(sourcePath, []byte(result.Definitions), 0644); err != nil {
		return []error{fmt.Errorf("error writing %s: %w", sourcePath, err)}
	}

	return nil
}

func runClient(w io.Writer, verbose bool, schemaFile, requestFile, prefix, namespace string) []error {
	doc, err := loadSchemaDocument(schemaFile)
	if err != nil {
		return []error{fmt.Errorf("error loading schema: %w", err)}
	}

	s, err := gen.BuildSchema(doc)
	if err != nil {
		return []error{fmt.Errorf("error building schema: %w", err)}
	}

	query, err := ioutil.ReadFile(requestFile)
	if err != nil {
		return []error{fmt.Errorf("error reading %s: %w", requestFile, err)}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "generating client types for package %s from %s\n", namespace, requestFile)
	}

	output, errs := generateClientTypes(s, namespace, string(query))
	if len(errs) > 0 {
		return errs
	}

	outputPath := prefix + ".go"
	if verbose {
		fmt.Fprintf(os.Stderr, "writing %s\n", outputPath)
	}
	if err := ioutil.WriteFile(outputPath, []byte(output), 0644); err != nil {
		return []error{fmt.Errorf("error writing %s: %w", outputPath, err)}
	}

	return nil
}

// generateClientTypes is a thin wrapper around the generateState machinery in cmd/gql-client-gen:
// the same selection-set-to-struct generator, driven directly by request-file text instead of
// scanning Go source files for wrapped query literals.
func generateClientTypes(s *schema.Schema, pkg string, query string) (string, []error) {
	state := &generateState{
		schema:      s,
		outputEnums: map[string]struct{}{},
	}

	if errs := state.processQuery(query); len(errs) > 0 {
		return "", errs
	}

	tmp := state.output
	state.output = "package " + pkg + "\n\n"
	if state.requiresJSONImport {
		state.output += "import \"encoding/json\"\n\n"
	}
	state.output += tmp

	out, err := gofmt.Source([]byte(state.output))
	if err != nil {
		return "", []error{fmt.Errorf("error formatting result: %w", err)}
	}
	return string(out), nil
}

func Run(w io.Writer, args ...string) []error {
	flags := pflag.NewFlagSet("gql-gen", pflag.ContinueOnError)
	flags.SetOutput(ioutil.Discard)

	headerDir := flags.String("header-dir", "", "directory to write the declarations file to (server mode)")
	sourceDir := flags.String("source-dir", "", "directory to write the definitions file to (server mode)")
	noIntrospection := flags.Bool("no-introspection", false, "omit __schema/__type resolver registration (server mode)")
	verbose := flags.Bool("verbose", false, "print progress to stderr")
	showVersion := flags.Bool("version", false, "print the version and exit")
	showHelp := flags.BoolP("help", "h", false, "print usage and exit")

	if err := flags.Parse(args); err != nil {
		fmt.Fprint(w, usage)
		fmt.Fprint(w, flags.FlagUsages())
		return []error{err}
	}

	if *showHelp {
		fmt.Fprint(w, usage)
		fmt.Fprint(w, flags.FlagUsages())
		return nil
	}

	if *showVersion {
		fmt.Fprintln(w, version)
		return nil
	}

	positional := flags.Args()

	switch len(positional) {
	case 3:
		opts := gen.Options{NoIntrospection: *noIntrospection}
		hd, sd := *headerDir, *sourceDir
		if hd == "" {
			hd = "."
		}
		if sd == "" {
			sd = "."
		}
		return runServer(w, *verbose, hd, sd, opts, positional[0], positional[1], positional[2])
	case 4:
		return runClient(w, *verbose, positional[0], positional[1], positional[2], positional[3])
	default:
		fmt.Fprint(w, usage)
		fmt.Fprint(w, flags.FlagUsages())
		return []error{fmt.Errorf("expected 3 positional arguments (server mode) or 4 (client mode), got %d", len(positional))}
	}
}

func main() {
	if errs := Run(os.Stdout, os.Args[1:]...); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}
