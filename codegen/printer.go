package codegen

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlgo/tsgenc/document"
)

// Interface is one emitted interface declaration.
type Interface struct {
	Name       string
	Properties []*Property
}

// Property is one member of an Interface.
type Property struct {
	Name     string
	Type     TSType
	Optional bool
}

// printer walks one operation's or fragment's selection tree and accumulates
// the auxiliary declarations and external type imports it needs. One printer
// is created per assembly pass and discarded afterwards.
type printer struct {
	schema      *ast.Schema
	addTypename bool
	partial     bool

	// injectRoot allows __typename injection at the top selection level.
	// False for operations: the root never resolves to anything but the root
	// type. True for fragments, whose condition can be abstract.
	injectRoot bool

	// prefix qualifies references to auxiliary declarations when they are
	// emitted inside a namespace; empty when they are emitted at top level.
	prefix  string
	decls   []*Interface
	imports map[string]struct{}
}

func newPrinter(schema *ast.Schema, addTypename, partial bool, prefix string) *printer {
	return &printer{
		schema:      schema,
		addTypename: addTypename,
		partial:     partial,
		prefix:      prefix,
		imports:     make(map[string]struct{}),
	}
}

func (p *printer) declare(decl *Interface) {
	p.decls = append(p.decls, decl)
}

func (p *printer) ref(name string) NamedRef {
	if p.prefix == "" {
		return NamedRef(name)
	}
	return NamedRef(p.prefix + "." + name)
}

// printFields prints one selection level against the possible parent types.
// Fields repeated at the same level (contributed by multiple fragment
// spreads) are deduplicated by response name, first occurrence wins. The seen
// set is local to this level; each recursion level starts fresh.
func (p *printer) printFields(fields []*document.Field, parents []*ast.Definition, stack *Stack) []*Property {
	properties := make([]*Property, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	if p.addTypename && (stack != nil || p.injectRoot) && !hasTypename(fields) {
		seen["__typename"] = struct{}{}
		properties = append(properties, &Property{
			Name:     "__typename",
			Type:     typenameType(parents),
			Optional: p.partial,
		})
	}

	for _, field := range fields {
		if _, ok := seen[field.ResponseName]; ok {
			continue
		}
		seen[field.ResponseName] = struct{}{}
		properties = append(properties, p.printField(field, parents, stack))
	}

	return properties
}

// printField prints one field as a property, producing nested named
// declarations for composite selections.
func (p *printer) printField(field *document.Field, parents []*ast.Definition, stack *Stack) *Property {
	if field.Name == "__typename" {
		// An explicitly requested __typename stays required even in the
		// partial projection.
		return &Property{
			Name:     field.ResponseName,
			Type:     typenameType(parents),
			Optional: field.IsConditional,
		}
	}

	forceNullable := field.IsConditional || p.partial
	optional := forceNullable || !field.Type.NonNull

	if len(field.Fields) == 0 && len(field.InlineFragments) == 0 {
		return &Property{
			Name:     field.ResponseName,
			Type:     p.structuralType(field.Type, forceNullable),
			Optional: optional,
		}
	}

	def := p.schema.Types[field.Type.Name()]
	if def == nil {
		return &Property{
			Name:     field.ResponseName,
			Type:     p.wrapType(TSAny, field.Type, forceNullable),
			Optional: optional,
		}
	}

	nested := stack.Nested(field, def)

	var base TSType
	if len(field.InlineFragments) > 0 {
		base = p.resolveAbstract(field, def, nested)
	} else {
		decl := &Interface{Name: nested.Name()}
		p.declare(decl)
		decl.Properties = p.printFields(field.Fields, []*ast.Definition{def}, nested)
		base = p.ref(decl.Name)
	}

	return &Property{
		Name:     field.ResponseName,
		Type:     p.wrapType(base, field.Type, forceNullable),
		Optional: optional,
	}
}

// resolveAbstract prints an interface/union field that carries inline
// fragments. Each fragment becomes a named branch; if the branches do not
// cover every concrete type the schema declares possible for the abstract
// type, a residual "Other" branch is synthesized from the field's own
// top-level selection so the returned union always covers 100% of them.
func (p *printer) resolveAbstract(field *document.Field, abstract *ast.Definition, stack *Stack) TSType {
	members := make(Union, 0, len(field.InlineFragments)+1)
	covered := make(map[string]struct{})

	for _, fragment := range field.InlineFragments {
		branch := stack.Fragment(fragment.TypeCondition)
		decl := &Interface{Name: branch.Name()}
		p.declare(decl)

		branchFields := make([]*document.Field, 0, len(fragment.Fields)+len(field.Fields))
		branchFields = append(branchFields, fragment.Fields...)
		branchFields = append(branchFields, field.Fields...)

		decl.Properties = p.printFields(branchFields, concreteTypes(fragment.TypeCondition, fragment.PossibleTypes), branch)
		members = append(members, p.ref(decl.Name))

		for _, t := range fragment.PossibleTypes {
			covered[t.Name] = struct{}{}
		}
	}

	possible := p.schema.PossibleTypes[abstract.Name]
	var missing []*ast.Definition
	for _, t := range possible {
		if _, ok := covered[t.Name]; !ok {
			missing = append(missing, t)
		}
	}
	// A single-member abstract type is treated as open: members added by
	// later schema versions fall into the residual branch until a matching
	// inline fragment exists for them. Such a branch covers types unknown
	// today, so it carries no concrete parent set.
	openWorld := len(missing) == 0 && len(possible) == 1

	if len(missing) > 0 || openWorld {
		branch := stack.Fragment(nil)
		decl := &Interface{Name: branch.Name()}
		p.declare(decl)
		decl.Properties = p.printFields(field.Fields, missing, branch)
		members = append(members, p.ref(decl.Name))
	}

	if len(members) == 1 {
		return members[0]
	}
	return members
}

// structuralType maps a schema type to its structural TypeScript type.
// forceNullable applies to the outermost position only; directives weaken
// nullability but never tighten it.
func (p *printer) structuralType(t *ast.Type, forceNullable bool) TSType {
	if t == nil {
		return TSAny
	}
	return p.wrapType(p.namedType(t.Name()), t, forceNullable)
}

// wrapType rebuilds the list/null structure of a schema type around a base
// structural type.
func (p *printer) wrapType(base TSType, t *ast.Type, forceNullable bool) TSType {
	var out TSType
	if t.NamedType == "" && t.Elem != nil {
		out = Array{Elem: p.wrapType(base, t.Elem, false)}
	} else {
		out = base
	}
	if !t.NonNull || forceNullable {
		out = nullUnion(out)
	}
	return out
}

// namedType resolves a named schema type to a primitive or an imported
// reference. Unknown kinds degrade to any rather than failing generation.
func (p *printer) namedType(name string) TSType {
	if primitive, ok := builtinScalar(name); ok {
		return primitive
	}

	def := p.schema.Types[name]
	if def == nil {
		return TSAny
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum, ast.InputObject:
		p.imports[name] = struct{}{}
		return NamedRef(name)
	default:
		return TSAny
	}
}

// typenameType is the string-literal type of a __typename property: one
// literal for a single enclosing type, a union of literals when printed for
// a residual branch covering several concrete types. With no known parent
// types the property can hold any name, so it degrades to string.
func typenameType(parents []*ast.Definition) TSType {
	if len(parents) == 0 {
		return TSString
	}
	if len(parents) == 1 {
		return StringLiteral(parents[0].Name)
	}
	union := make(Union, 0, len(parents))
	for _, parent := range parents {
		union = append(union, StringLiteral(parent.Name))
	}
	return union
}

// concreteTypes narrows a branch condition to the object types a __typename
// inside the branch can resolve to.
func concreteTypes(condition *ast.Definition, possible []*ast.Definition) []*ast.Definition {
	if condition.Kind == ast.Object {
		return []*ast.Definition{condition}
	}
	return possible
}

func hasTypename(fields []*document.Field) bool {
	for _, field := range fields {
		if field.Name == "__typename" {
			return true
		}
	}
	return false
}
