package config

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/gqlgo/tsgenc/client"
	"github.com/gqlgo/tsgenc/introspection"
)

// introspectionSchema rebuilds an *ast.Schema from a remote endpoint.
func introspectionSchema(ctx context.Context, endpoint *EndPointConfig) (*ast.Schema, error) {
	httpClient := endpoint.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	tsgencClient := client.NewClient(endpoint.URL,
		client.WithHTTPClient(httpClient),
		client.WithHTTPHeader(endpoint.Headers),
	)

	var res introspection.Query
	if err := tsgencClient.Post(ctx, "IntrospectionQuery", introspection.Introspection, nil, &res); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}

	doc := introspection.SchemaFromIntrospection(endpoint.URL, res)
	schema, err := validator.ValidateSchemaDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	// Some servers report no query root; synthesize an empty one so the
	// rest of the pipeline can rely on schema.Query being non-nil.
	if schema.Query == nil {
		schema.Query = &ast.Definition{
			Kind: ast.Object,
			Name: "Query",
		}
		schema.Types["Query"] = schema.Query
	}

	return schema, nil
}
