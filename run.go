package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gqlgo/tsgenc/codegen"
	"github.com/gqlgo/tsgenc/config"
	"github.com/gqlgo/tsgenc/document"
	"github.com/gqlgo/tsgenc/queryparser"
)

func run(ctx context.Context) error {
	cfgFile, err := config.FindConfigFile(".", []string{".tsgenc.yml", "tsgenc.yml", ".tsgenc.yaml", "tsgenc.yaml"})
	if err != nil {
		return fmt.Errorf("failed to find config file: %w", err)
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadSchema(ctx); err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	schema := cfg.TSGenc.GQLSchema

	sources, err := queryparser.LoadQuerySources(cfg.TSGenc.Query)
	if err != nil {
		return fmt.Errorf("failed to load query sources: %w", err)
	}

	doc, err := queryparser.QueryDocument(schema, sources)
	if err != nil {
		return fmt.Errorf("failed to parse queries: %w", err)
	}

	files, failures := document.CompileQueryDocument(schema, doc)

	generator := codegen.NewGenerator(schema, codegen.Options{
		SchemaTypesPath: cfg.TSGenc.SchemaTypesPath,
		AddTypename:     cfg.TSGenc.AddTypename,
		Partial:         cfg.TSGenc.Partial,
	})

	if err := writeFile(cfg.TSGenc.SchemaTypesPath, generator.GenerateSchemaTypes()); err != nil {
		return err
	}

	// One failing document must not stop the rest of the batch.
	for _, file := range files {
		text, err := generator.GenerateFile(file)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if err := writeFile(file.Path+".d.ts", text); err != nil {
			return err
		}
	}

	for _, failure := range failures {
		fmt.Fprintln(os.Stderr, failure)
	}
	if len(failures) > 0 {
		return fmt.Errorf("generation failed for %d document(s)", len(failures))
	}

	return nil
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}
