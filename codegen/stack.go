package codegen

import (
	"slices"
	"strings"
	"unicode"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/tsgenc/document"
)

// Stack derives a deterministic, collision-free type name for a nested
// selection position from the chain of parent fields. It is an immutable
// append-only chain: Nested and Fragment return a new leaf and never mutate
// existing frames, so sibling branches of the recursion cannot alias each
// other's state. The nil *Stack is the root.
type Stack struct {
	parent   *Stack
	field    *document.Field
	typ      *ast.Definition
	fragment bool
}

// Nested appends an ordinary frame for a field of the given named type.
func (s *Stack) Nested(field *document.Field, typ *ast.Definition) *Stack {
	return &Stack{parent: s, field: field, typ: typ}
}

// Fragment appends a frame for a type-conditioned branch of the nearest
// ancestor field. A nil condition marks the synthesized residual branch and
// contributes the literal "Other". Sibling branches on the same field share
// the ancestor chain, so their names are siblings rather than nested.
func (s *Stack) Fragment(typ *ast.Definition) *Stack {
	return &Stack{parent: s, typ: typ, fragment: true}
}

// Name renders the chain in root-to-leaf order: the capitalized response name
// for ordinary frames, the type condition (or "Other") for fragment frames.
// An ordinary leaf additionally gets its type name appended, so sibling
// selections of the same type stay distinguishable from the field path alone
// while fragment branches under different conditions never alias.
func (s *Stack) Name() string {
	var parts []string
	for frame := s; frame != nil; frame = frame.parent {
		switch {
		case frame.fragment && frame.typ == nil:
			parts = append(parts, "Other")
		case frame.fragment:
			parts = append(parts, frame.typ.Name)
		default:
			parts = append(parts, ucFirst(frame.field.ResponseName))
		}
	}
	slices.Reverse(parts)

	if s != nil && !s.fragment && s.typ != nil {
		parts = append(parts, s.typ.Name)
	}

	return strings.Join(parts, "")
}

func ucFirst(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
