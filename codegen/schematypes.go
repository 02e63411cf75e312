package codegen

import (
	"maps"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// GenerateSchemaTypes renders the shared schema-types artifact: the enums,
// custom scalars and input objects that generated declaration files import.
// Object, interface and union shapes are operation-specific and are emitted
// per document file instead.
func (g *Generator) GenerateSchemaTypes() string {
	sections := []string{generatedHeader}

	p := newPrinter(g.schema, false, false, "")

	for _, name := range slices.Sorted(maps.Keys(g.schema.Types)) {
		def := g.schema.Types[name]
		if builtinSchemaType(def) {
			continue
		}

		switch def.Kind {
		case ast.Enum:
			sections = append(sections, renderEnum(def))
		case ast.Scalar:
			// The runtime representation of a custom scalar is unknown to
			// the generator.
			sections = append(sections, "export type "+def.Name+" = any;")
		case ast.InputObject:
			sections = append(sections, renderInputObject(p, def))
		}
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func renderEnum(def *ast.Definition) string {
	var b strings.Builder
	b.WriteString("export enum " + def.Name + " {\n")
	for _, value := range def.EnumValues {
		b.WriteString("  " + value.Name + " = \"" + value.Name + "\",\n")
	}
	b.WriteString("}")
	return b.String()
}

func renderInputObject(p *printer, def *ast.Definition) string {
	decl := &Interface{Name: def.Name}
	for _, field := range def.Fields {
		decl.Properties = append(decl.Properties, &Property{
			Name:     field.Name,
			Type:     p.structuralType(field.Type, false),
			Optional: !field.Type.NonNull,
		})
	}
	return renderInterface(decl, "")
}

func builtinSchemaType(def *ast.Definition) bool {
	if strings.HasPrefix(def.Name, "__") {
		return true
	}
	switch def.Name {
	case "String", "ID", "Int", "Float", "Boolean":
		return true
	}
	return false
}
