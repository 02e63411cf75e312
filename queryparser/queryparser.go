package queryparser

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// LoadQuerySources reads every file matched by the glob patterns, in sorted
// path order so a run is deterministic regardless of filesystem ordering.
func LoadQuerySources(patterns []string) ([]*ast.Source, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob query files: %w", err)
		}
		if matches == nil {
			return nil, fmt.Errorf("query file not found: %s", pattern)
		}
		paths = append(paths, matches...)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	sources := make([]*ast.Source, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read query file: %w", err)
		}
		sources = append(sources, &ast.Source{Name: path, Input: string(content)})
	}

	return sources, nil
}

// QueryDocument parses every source into one query document and validates it
// against the schema. Validation resolves field and fragment definitions in
// place; the returned document is ready for compilation.
func QueryDocument(schema *ast.Schema, sources []*ast.Source) (*ast.QueryDocument, error) {
	doc := &ast.QueryDocument{}
	for _, source := range sources {
		parsed, err := parser.ParseQuery(source)
		if err != nil {
			return nil, fmt.Errorf("parse query %s failed: %w", source.Name, err)
		}
		doc.Operations = append(doc.Operations, parsed.Operations...)
		doc.Fragments = append(doc.Fragments, parsed.Fragments...)
	}

	if errs := validator.Validate(schema, doc); len(errs) > 0 {
		return nil, fmt.Errorf("query validation failed: %w", errs)
	}

	return doc, nil
}
