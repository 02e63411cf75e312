package document

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// File groups the operations and fragments declared in one query source file.
// Code generation runs once per File and never shares state across files.
type File struct {
	Path       string
	Operations []*Operation
	Fragments  []*Fragment
}

// Operation is one named query, mutation or subscription, resolved against
// the schema.
type Operation struct {
	Name      string
	Type      ast.Operation
	FilePath  string
	Variables []*Variable
	Fields    []*Field
}

// Field is one selected schema field. ResponseName is the alias when the
// document declares one, otherwise the schema field name; it is the key the
// field appears under in the response payload.
type Field struct {
	Name            string
	ResponseName    string
	Type            *ast.Type
	IsConditional   bool
	Fields          []*Field
	InlineFragments []*InlineFragment
}

// InlineFragment is a type-conditioned sub-selection narrowing an abstract
// field to one of its possible concrete types.
type InlineFragment struct {
	TypeCondition *ast.Definition
	PossibleTypes []*ast.Definition
	Fields        []*Field
}

// Fragment is a named fragment definition. Structurally it is an
// InlineFragment with a name and a declaring file attached; when the fragment
// body itself narrows an abstract condition, the narrowing branches live in
// InlineFragments.
type Fragment struct {
	InlineFragment

	Name            string
	FilePath        string
	InlineFragments []*InlineFragment
}

// Variable is one declared operation variable. Type is nil when the
// declaration could not be resolved; such variables are excluded from the
// generated variables type.
type Variable struct {
	Name string
	Type *ast.Type
}
