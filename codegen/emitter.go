package codegen

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gqlgo/tsgenc/document"
)

const generatedHeader = "// Code generated by tsgenc, DO NOT EDIT."

// GenerateFile renders the declaration file for one source document file.
// Output is deterministic for a given (schema, file, options) triple; the
// orchestrator relies on byte-identical reruns for build caching.
func (g *Generator) GenerateFile(file *document.File) (string, error) {
	type assembled struct {
		op      *document.Operation
		full    *TypeSet
		partial *TypeSet
	}

	imports := make(map[string]struct{})
	collect := func(ts *TypeSet) {
		for _, name := range ts.Imports {
			imports[name] = struct{}{}
		}
	}

	operations := make([]*assembled, 0, len(file.Operations))
	for _, op := range file.Operations {
		full, err := g.AssembleOperation(op, false)
		if err != nil {
			return "", err
		}
		collect(full)

		a := &assembled{op: op, full: full}
		if g.options.Partial {
			partial, err := g.AssembleOperation(op, true)
			if err != nil {
				return "", err
			}
			collect(partial)
			a.partial = partial
		}
		operations = append(operations, a)
	}

	fragments := make([]*TypeSet, 0, 2*len(file.Fragments))
	for _, fragment := range file.Fragments {
		full, err := g.AssembleFragment(fragment, false)
		if err != nil {
			return "", err
		}
		collect(full)
		fragments = append(fragments, full)

		if g.options.Partial {
			partial, err := g.AssembleFragment(fragment, true)
			if err != nil {
				return "", err
			}
			collect(partial)
			fragments = append(fragments, partial)
		}
	}

	sections := []string{generatedHeader}

	var importLines []string
	if len(operations) > 0 {
		importLines = append(importLines, `import { DocumentNode } from "graphql-typed";`)
	}
	if len(imports) > 0 {
		names := slices.Sorted(maps.Keys(imports))
		importLines = append(importLines,
			"import { "+strings.Join(names, ", ")+` } from "`+relativeImportPath(file.Path, g.options.SchemaTypesPath)+`";`)
	}
	if len(importLines) > 0 {
		sections = append(sections, strings.Join(importLines, "\n"))
	}

	for _, a := range operations {
		sections = append(sections, renderTypeSet(a.full)...)
		if a.partial != nil {
			sections = append(sections, renderTypeSet(a.partial)...)
		}
	}
	for _, ts := range fragments {
		sections = append(sections, renderTypeSet(ts)...)
	}

	if len(operations) > 0 {
		var lines []string
		for _, a := range operations {
			lines = append(lines, "export declare const "+DocumentConstName(a.op)+": DocumentNode<"+g.documentParams(a.op, a.full, a.partial)+">;")
		}
		if len(operations) == 1 {
			lines = append(lines, "export default "+DocumentConstName(operations[0].op)+";")
		} else {
			// Several operations share one source document; the default
			// export is the unresolved base document.
			lines = append(lines, "declare const document: DocumentNode;", "export default document;")
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n", nil
}

func (g *Generator) documentParams(op *document.Operation, full, partial *TypeSet) string {
	variables := "never"
	if full.Variables != nil {
		variables = full.Variables.Name
	}
	params := []string{full.RootName(), variables}
	if partial != nil {
		params = append(params, partial.RootName())
	}
	return strings.Join(params, ", ")
}

// renderTypeSet renders the declarations of one assembly pass as sections:
// the root declaration, the auxiliary namespace when non-empty, and the
// variables type when present.
func renderTypeSet(ts *TypeSet) []string {
	var sections []string

	if ts.RootAlias != nil {
		for _, decl := range ts.Namespace {
			sections = append(sections, renderInterface(decl, ""))
		}
		sections = append(sections, "export type "+ts.RootAlias.Name+" = "+ts.RootAlias.Type.String()+";")
		return sections
	}

	sections = append(sections, renderInterface(ts.Root, ""))
	if len(ts.Namespace) > 0 {
		sections = append(sections, renderNamespace(ts.Root.Name, ts.Namespace))
	}
	if ts.Variables != nil {
		sections = append(sections, renderInterface(ts.Variables, ""))
	}

	return sections
}

func renderInterface(decl *Interface, indent string) string {
	if len(decl.Properties) == 0 {
		return indent + "export interface " + decl.Name + " {}"
	}

	var b strings.Builder
	b.WriteString(indent + "export interface " + decl.Name + " {\n")
	for _, prop := range decl.Properties {
		b.WriteString(indent + "  " + prop.Name)
		if prop.Optional {
			b.WriteString("?")
		}
		b.WriteString(": " + prop.Type.String() + ";\n")
	}
	b.WriteString(indent + "}")
	return b.String()
}

func renderNamespace(name string, decls []*Interface) string {
	var b strings.Builder
	b.WriteString("export namespace " + name + " {\n")
	for i, decl := range decls {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderInterface(decl, "  "))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// relativeImportPath computes the TypeScript import path from the source
// file's directory to the shared schema-types artifact.
func relativeImportPath(fromFile, target string) string {
	rel, err := filepath.Rel(filepath.Dir(fromFile), target)
	if err != nil {
		rel = target
	}
	rel = filepath.ToSlash(strings.TrimSuffix(rel, ".ts"))
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
