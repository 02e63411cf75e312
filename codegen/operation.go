package codegen

import (
	"maps"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/tsgenc/document"
)

// Options control code generation for one run.
type Options struct {
	// SchemaTypesPath is the location of the shared schema-types artifact
	// that enums, custom scalars and input types are imported from.
	SchemaTypesPath string
	// AddTypename injects a required __typename property into every
	// selection level that does not request one explicitly.
	AddTypename bool
	// Partial additionally emits an all-optional projection of every data
	// type, used for generated-but-incomplete mock data.
	Partial bool
}

// Generator assembles the generated declarations for compiled operations and
// fragments. It holds no per-call state; one Generator may be used for any
// number of files.
type Generator struct {
	schema  *ast.Schema
	options Options
}

func NewGenerator(schema *ast.Schema, options Options) *Generator {
	return &Generator{schema: schema, options: options}
}

// Alias is an emitted type-alias declaration, used when a root type is a
// union of branches rather than a single interface.
type Alias struct {
	Name string
	Type TSType
}

// TypeSet is the assembled output for one operation or fragment: the root
// declaration (Root or RootAlias, never both), the auxiliary named types
// produced while printing, the optional variables type, and the external
// schema type names the declarations reference.
type TypeSet struct {
	Root      *Interface
	RootAlias *Alias
	Namespace []*Interface
	Variables *Interface
	Imports   []string
}

// RootName returns the name of the root declaration.
func (ts *TypeSet) RootName() string {
	if ts.RootAlias != nil {
		return ts.RootAlias.Name
	}
	return ts.Root.Name
}

// AssembleOperation builds the data type for one operation. With partial set
// the same traversal runs with every property forced optional and the Data
// name suffix replaced by PartialData; the variables type is only produced by
// the non-partial pass.
func (g *Generator) AssembleOperation(op *document.Operation, partial bool) (*TypeSet, error) {
	root := g.rootDefinition(op.Type)
	if root == nil {
		return nil, &document.MissingRootTypeError{Operation: op.Type, FilePath: op.FilePath}
	}

	name := operationTypeName(op, partial)
	p := newPrinter(g.schema, g.options.AddTypename, partial, name)

	rootDecl := &Interface{Name: name}
	rootDecl.Properties = p.printFields(op.Fields, []*ast.Definition{root}, nil)

	ts := &TypeSet{
		Root:      rootDecl,
		Namespace: p.decls,
	}
	if !partial {
		ts.Variables = g.assembleVariables(op, p)
	}
	ts.Imports = sortedImports(p.imports)

	return ts, nil
}

// AssembleFragment builds the data type for one named fragment. A fragment
// carrying inline fragments assembles to a union alias over its branches; in
// that case the branch types are emitted at top level rather than inside a
// namespace.
func (g *Generator) AssembleFragment(fragment *document.Fragment, partial bool) (*TypeSet, error) {
	name := fragmentTypeName(fragment, partial)

	if len(fragment.InlineFragments) > 0 {
		p := newPrinter(g.schema, g.options.AddTypename, partial, "")

		// The fragment is structurally an inline-fragment carrier; reuse the
		// abstract-field resolution with the root name as the naming seed.
		carrier := &document.Field{
			ResponseName:    name,
			Fields:          fragment.Fields,
			InlineFragments: fragment.InlineFragments,
		}
		union := p.resolveAbstract(carrier, fragment.TypeCondition, (*Stack)(nil).Nested(carrier, fragment.TypeCondition))

		return &TypeSet{
			RootAlias: &Alias{Name: name, Type: union},
			Namespace: p.decls,
			Imports:   sortedImports(p.imports),
		}, nil
	}

	p := newPrinter(g.schema, g.options.AddTypename, partial, name)
	p.injectRoot = true

	rootDecl := &Interface{Name: name}
	rootDecl.Properties = p.printFields(fragment.Fields, concreteTypes(fragment.TypeCondition, fragment.PossibleTypes), nil)

	return &TypeSet{
		Root:      rootDecl,
		Namespace: p.decls,
		Imports:   sortedImports(p.imports),
	}, nil
}

// assembleVariables builds the variables type, or nil when the operation
// declares no typed variables.
func (g *Generator) assembleVariables(op *document.Operation, p *printer) *Interface {
	properties := make([]*Property, 0, len(op.Variables))
	for _, variable := range op.Variables {
		if variable.Type == nil {
			continue
		}
		properties = append(properties, &Property{
			Name:     variable.Name,
			Type:     p.structuralType(variable.Type, false),
			Optional: !variable.Type.NonNull,
		})
	}
	if len(properties) == 0 {
		return nil
	}

	return &Interface{
		Name:       operationBaseName(op) + "Variables",
		Properties: properties,
	}
}

func (g *Generator) rootDefinition(operation ast.Operation) *ast.Definition {
	switch operation {
	case ast.Query:
		return g.schema.Query
	case ast.Mutation:
		return g.schema.Mutation
	case ast.Subscription:
		return g.schema.Subscription
	}
	return nil
}

func operationBaseName(op *document.Operation) string {
	return ucFirst(op.Name) + ucFirst(string(op.Type))
}

func operationTypeName(op *document.Operation, partial bool) string {
	if partial {
		return operationBaseName(op) + "PartialData"
	}
	return operationBaseName(op) + "Data"
}

func fragmentTypeName(fragment *document.Fragment, partial bool) string {
	if partial {
		return ucFirst(fragment.Name) + "FragmentPartialData"
	}
	return ucFirst(fragment.Name) + "FragmentData"
}

func sortedImports(imports map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(imports))
}

// DocumentConstName is the exported name of an operation's typed document
// declaration.
func DocumentConstName(op *document.Operation) string {
	return operationBaseName(op) + "Document"
}
