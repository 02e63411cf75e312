package document

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// MissingRootTypeError is returned when a document declares an operation kind
// the schema defines no root type for. It is fatal for the declaring file
// only; other files still compile.
type MissingRootTypeError struct {
	Operation ast.Operation
	FilePath  string
}

func (e *MissingRootTypeError) Error() string {
	return fmt.Sprintf("%s: schema does not define a root type for %s operations", e.FilePath, e.Operation)
}

// CompileQueryDocument resolves a validated query document into the per-file
// intermediate representation consumed by codegen. A compile failure removes
// only the file that caused it; the remaining files are still returned
// together with the collected errors.
func CompileQueryDocument(schema *ast.Schema, doc *ast.QueryDocument) ([]*File, []error) {
	c := &compiler{schema: schema}

	files := make(map[string]*File)
	failed := make(map[string]bool)
	var order []string

	fileFor := func(pos *ast.Position) *File {
		var name string
		if pos != nil && pos.Src != nil {
			name = pos.Src.Name
		}
		file, ok := files[name]
		if !ok {
			file = &File{Path: name}
			files[name] = file
			order = append(order, name)
		}
		return file
	}

	var errs []error
	for _, op := range doc.Operations {
		file := fileFor(op.Position)
		operation, err := c.compileOperation(file.Path, op)
		if err != nil {
			errs = append(errs, err)
			failed[file.Path] = true
			continue
		}
		file.Operations = append(file.Operations, operation)
	}

	for _, fragment := range doc.Fragments {
		file := fileFor(fragment.Position)
		file.Fragments = append(file.Fragments, c.compileFragment(file.Path, fragment))
	}

	out := make([]*File, 0, len(order))
	for _, name := range order {
		if failed[name] {
			continue
		}
		out = append(out, files[name])
	}

	return out, errs
}

type compiler struct {
	schema *ast.Schema
}

func (c *compiler) compileOperation(path string, op *ast.OperationDefinition) (*Operation, error) {
	if op.Name == "" {
		return nil, fmt.Errorf("%s: anonymous operations are not supported, name the %s", path, op.Operation)
	}

	root := c.rootDefinition(op.Operation)
	if root == nil {
		return nil, &MissingRootTypeError{Operation: op.Operation, FilePath: path}
	}

	fields, _ := c.compileSelectionSet(root, op.SelectionSet, false)

	variables := make([]*Variable, 0, len(op.VariableDefinitions))
	for _, v := range op.VariableDefinitions {
		variables = append(variables, &Variable{Name: v.Variable, Type: v.Type})
	}

	return &Operation{
		Name:      op.Name,
		Type:      op.Operation,
		FilePath:  path,
		Variables: variables,
		Fields:    fields,
	}, nil
}

func (c *compiler) compileFragment(path string, fragment *ast.FragmentDefinition) *Fragment {
	condition := fragment.Definition
	fields, inlineFragments := c.compileSelectionSet(condition, fragment.SelectionSet, false)

	return &Fragment{
		InlineFragment: InlineFragment{
			TypeCondition: condition,
			PossibleTypes: c.possibleTypes(condition),
			Fields:        fields,
		},
		Name:            fragment.Name,
		FilePath:        path,
		InlineFragments: inlineFragments,
	}
}

func (c *compiler) rootDefinition(operation ast.Operation) *ast.Definition {
	switch operation {
	case ast.Query:
		return c.schema.Query
	case ast.Mutation:
		return c.schema.Mutation
	case ast.Subscription:
		return c.schema.Subscription
	}
	return nil
}

// compileSelectionSet walks one selection level. Fragment spreads whose type
// condition applies to the parent unconditionally are flattened into plain
// fields; narrowing spreads and inline fragments become InlineFragment
// entries carrying the concrete types they cover.
func (c *compiler) compileSelectionSet(parent *ast.Definition, selectionSet ast.SelectionSet, conditional bool) ([]*Field, []*InlineFragment) {
	fields := make([]*Field, 0, len(selectionSet))
	var inlineFragments []*InlineFragment

	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *ast.Field:
			fields = append(fields, c.compileField(sel, conditional))
		case *ast.FragmentSpread:
			cond := conditional || isConditional(sel.Directives)
			f, ifs := c.compileFragmentSelection(parent, sel.Definition.Definition, sel.Definition.SelectionSet, cond)
			fields = append(fields, f...)
			inlineFragments = append(inlineFragments, ifs...)
		case *ast.InlineFragment:
			cond := conditional || isConditional(sel.Directives)
			condition := parent
			if sel.TypeCondition != "" {
				condition = c.schema.Types[sel.TypeCondition]
			}
			f, ifs := c.compileFragmentSelection(parent, condition, sel.SelectionSet, cond)
			fields = append(fields, f...)
			inlineFragments = append(inlineFragments, ifs...)
		}
	}

	return fields, inlineFragments
}

func (c *compiler) compileField(field *ast.Field, conditional bool) *Field {
	cond := conditional || isConditional(field.Directives)

	if field.Name == "__typename" {
		return &Field{
			Name:          field.Name,
			ResponseName:  field.Alias,
			Type:          ast.NonNullNamedType("String", nil),
			IsConditional: cond,
		}
	}

	f := &Field{
		Name:          field.Name,
		ResponseName:  field.Alias,
		Type:          field.Definition.Type,
		IsConditional: cond,
	}

	if len(field.SelectionSet) > 0 {
		if child := c.schema.Types[field.Definition.Type.Name()]; child != nil {
			f.Fields, f.InlineFragments = c.compileSelectionSet(child, field.SelectionSet, false)
		}
	}

	return f
}

func (c *compiler) compileFragmentSelection(parent, condition *ast.Definition, selectionSet ast.SelectionSet, conditional bool) ([]*Field, []*InlineFragment) {
	if condition == nil || c.appliesDirectly(parent, condition) {
		return c.compileSelectionSet(parent, selectionSet, conditional)
	}

	fields, nested := c.compileSelectionSet(condition, selectionSet, conditional)
	fragment := &InlineFragment{
		TypeCondition: condition,
		PossibleTypes: c.possibleTypes(condition),
		Fields:        fields,
	}

	// A condition nested inside another narrowing condition narrows the same
	// field; hoist it next to its parent fragment.
	return nil, append([]*InlineFragment{fragment}, nested...)
}

// appliesDirectly reports whether the condition adds no narrowing over the
// parent's declared type, in which case the conditioned fields apply
// unconditionally. A concrete condition on an abstract parent always narrows,
// even when it is the only declared member: the schema may grow members later,
// and the branch must survive for the residual case to be derivable.
func (c *compiler) appliesDirectly(parent, condition *ast.Definition) bool {
	if parent.Name == condition.Name {
		return true
	}
	if parent.Kind != ast.Object || condition.Kind == ast.Object {
		return false
	}

	// An abstract condition on an object parent it includes restricts nothing.
	for _, t := range c.possibleTypes(condition) {
		if t.Name == parent.Name {
			return true
		}
	}
	return false
}

func (c *compiler) possibleTypes(def *ast.Definition) []*ast.Definition {
	if def.Kind == ast.Object {
		return []*ast.Definition{def}
	}
	return c.schema.PossibleTypes[def.Name]
}

func isConditional(directives ast.DirectiveList) bool {
	return directives.ForName("include") != nil || directives.ForName("skip") != nil
}
