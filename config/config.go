package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	gqlparser "github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Config represents the config file.
type Config struct {
	TSGenc *TSGencConfig `yaml:"tsgenc"`
}

type TSGencConfig struct {
	Schema          []string        `yaml:"schema,omitempty"`
	Endpoint        *EndPointConfig `yaml:"endpoint,omitempty"`
	Query           []string        `yaml:"query"`
	SchemaTypesPath string          `yaml:"schema_types_path"`
	AddTypename     bool            `yaml:"add_typename,omitempty"`
	Partial         bool            `yaml:"partial,omitempty"`

	GQLSchema *ast.Schema `yaml:"-"`
}

// EndPointConfig are the allowed options for the 'endpoint' config.
type EndPointConfig struct {
	Headers http.Header  `yaml:"headers,omitempty"`
	URL     string       `yaml:"url"`
	Client  *http.Client `yaml:"-"`
}

// FindConfigFile returns the first of the candidate file names that exists
// in dir.
func FindConfigFile(dir string, names []string) (string, error) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("config file not found in %s (looked for %s)", dir, strings.Join(names, ", "))
}

// LoadConfig loads and parses the tsgenc config file.
func LoadConfig(configFilename string) (*Config, error) {
	configContent, err := os.ReadFile(configFilename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var c Config

	yamlDecoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(configContent)))), yaml.DisallowUnknownField())
	if err := yamlDecoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	// validation
	if c.TSGenc == nil {
		return nil, errors.New("'tsgenc' section is missing")
	}

	if c.TSGenc.Schema != nil && c.TSGenc.Endpoint != nil {
		return nil, errors.New("'schema' and 'endpoint' both specified. Use schema to load from local files, use endpoint to load from a remote server (using introspection)")
	}

	if c.TSGenc.Schema == nil && c.TSGenc.Endpoint == nil {
		return nil, errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from local files, use endpoint to load from a remote server (using introspection)")
	}

	if len(c.TSGenc.Query) == 0 {
		return nil, errors.New("'query' must list at least one query document glob")
	}

	if c.TSGenc.SchemaTypesPath == "" {
		return nil, errors.New("'schema_types_path' must be set; generated files import shared schema types from it")
	}

	return &c, nil
}

// LoadSchema resolves the schema from local SDL files or the introspection
// endpoint and normalizes it for deterministic generation.
func (c *Config) LoadSchema(ctx context.Context) error {
	switch {
	case c.TSGenc.Schema != nil:
		sources, err := schemaFileSources(c.TSGenc.Schema)
		if err != nil {
			return err
		}
		schema, err := gqlparser.LoadSchema(sources...)
		if err != nil {
			return fmt.Errorf("load local schema failed: %w", err)
		}
		c.TSGenc.GQLSchema = schema
	case c.TSGenc.Endpoint != nil:
		schema, err := introspectionSchema(ctx, c.TSGenc.Endpoint)
		if err != nil {
			return fmt.Errorf("introspect schema failed: %w", err)
		}
		c.TSGenc.GQLSchema = schema
	default:
		return errors.New("neither 'schema' nor 'endpoint' specified")
	}

	// sort Implements and PossibleTypes to ensure a deterministic output
	for _, implements := range c.TSGenc.GQLSchema.Implements {
		slices.SortFunc(implements, func(a, b *ast.Definition) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	for _, possible := range c.TSGenc.GQLSchema.PossibleTypes {
		slices.SortFunc(possible, func(a, b *ast.Definition) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	return nil
}

func schemaFileSources(patterns []string) ([]*ast.Source, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob schema files: %w", err)
		}
		if matches == nil {
			return nil, fmt.Errorf("schema file not found: %s", pattern)
		}
		paths = append(paths, matches...)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	sources := make([]*ast.Source, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read schema file: %w", err)
		}
		sources = append(sources, &ast.Source{Name: path, Input: string(content)})
	}

	return sources, nil
}
