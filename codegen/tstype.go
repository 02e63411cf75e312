package codegen

import (
	"strconv"
	"strings"
)

// TSType is the closed set of TypeScript structural types the printer
// composes. Every implementation lives in this file.
type TSType interface {
	// String renders the type in TypeScript syntax.
	String() string

	tsType()
}

// Primitive is a built-in TypeScript type.
type Primitive string

const (
	TSString  Primitive = "string"
	TSNumber  Primitive = "number"
	TSBoolean Primitive = "boolean"
	TSNull    Primitive = "null"
	TSAny     Primitive = "any"
	TSNever   Primitive = "never"
)

func (p Primitive) String() string { return string(p) }
func (Primitive) tsType()          {}

// NamedRef is a reference to a named type, possibly namespace-qualified.
type NamedRef string

func (n NamedRef) String() string { return string(n) }
func (NamedRef) tsType()          {}

// StringLiteral is a string-literal type, used for __typename properties.
type StringLiteral string

func (s StringLiteral) String() string { return strconv.Quote(string(s)) }
func (StringLiteral) tsType()          {}

// Array is an array of Elem. Union element types are parenthesized so that
// nullable members render as (T | null)[] rather than T | null[].
type Array struct {
	Elem TSType
}

func (a Array) String() string {
	if _, ok := a.Elem.(Union); ok {
		return "(" + a.Elem.String() + ")[]"
	}
	return a.Elem.String() + "[]"
}
func (Array) tsType() {}

// Union is a union of its members, rendered in member order.
type Union []TSType

func (u Union) String() string {
	parts := make([]string, 0, len(u))
	for _, member := range u {
		parts = append(parts, member.String())
	}
	return strings.Join(parts, " | ")
}
func (Union) tsType() {}

// nullUnion unions t with null, flattening when t is already a union.
func nullUnion(t TSType) TSType {
	if u, ok := t.(Union); ok {
		out := make(Union, 0, len(u)+1)
		out = append(out, u...)
		return append(out, TSNull)
	}
	return Union{t, TSNull}
}

// builtinScalar maps the five standard GraphQL scalars to their fixed
// primitive types.
func builtinScalar(name string) (Primitive, bool) {
	switch name {
	case "String", "ID":
		return TSString, true
	case "Int", "Float":
		return TSNumber, true
	case "Boolean":
		return TSBoolean, true
	}
	return "", false
}
