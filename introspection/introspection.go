package introspection

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// Introspection is the query sent to a remote endpoint to recover its schema.
const Introspection = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      ...FullType
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}`

// SchemaFromIntrospection rebuilds a schema document from an introspection
// response. Built-in scalars, directives and the __ meta types come from the
// validator prelude and are skipped here. Input-value default values are not
// recoverable from the introspection string form and are dropped; they have
// no bearing on generated types.
func SchemaFromIntrospection(source string, query Query) *ast.SchemaDocument {
	pos := &ast.Position{Src: &ast.Source{Name: source}}
	doc := &ast.SchemaDocument{}

	schemaDef := &ast.SchemaDefinition{Position: pos}
	for _, root := range []struct {
		operation ast.Operation
		typ       *NamedTypeRef
	}{
		{ast.Query, query.Schema.QueryType},
		{ast.Mutation, query.Schema.MutationType},
		{ast.Subscription, query.Schema.SubscriptionType},
	} {
		if root.typ == nil || root.typ.Name == nil {
			continue
		}
		schemaDef.OperationTypes = append(schemaDef.OperationTypes, &ast.OperationTypeDefinition{
			Operation: root.operation,
			Type:      *root.typ.Name,
			Position:  pos,
		})
	}
	doc.Schema = append(doc.Schema, schemaDef)

	for _, full := range query.Schema.Types {
		if full.Name == nil || builtinType(*full.Name) {
			continue
		}
		if def := definition(full, pos); def != nil {
			doc.Definitions = append(doc.Definitions, def)
		}
	}

	return doc
}

func definition(full *FullType, pos *ast.Position) *ast.Definition {
	def := &ast.Definition{
		Name:        *full.Name,
		Description: deref(full.Description),
		Position:    pos,
	}

	switch full.Kind {
	case TypeKindScalar:
		def.Kind = ast.Scalar
	case TypeKindObject:
		def.Kind = ast.Object
		def.Interfaces = typeNames(full.Interfaces)
		def.Fields = fieldList(full.Fields, pos)
	case TypeKindInterface:
		def.Kind = ast.Interface
		def.Interfaces = typeNames(full.Interfaces)
		def.Fields = fieldList(full.Fields, pos)
	case TypeKindUnion:
		def.Kind = ast.Union
		def.Types = typeNames(full.PossibleTypes)
	case TypeKindEnum:
		def.Kind = ast.Enum
		for _, value := range full.EnumValues {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
				Name:        value.Name,
				Description: deref(value.Description),
				Position:    pos,
			})
		}
	case TypeKindInputObject:
		def.Kind = ast.InputObject
		for _, input := range full.InputFields {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Name:        input.Name,
				Description: deref(input.Description),
				Type:        astType(&input.Type, pos),
				Position:    pos,
			})
		}
	default:
		return nil
	}

	return def
}

func fieldList(fields []*FieldValue, pos *ast.Position) ast.FieldList {
	list := make(ast.FieldList, 0, len(fields))
	for _, field := range fields {
		fd := &ast.FieldDefinition{
			Name:        field.Name,
			Description: deref(field.Description),
			Type:        astType(&field.Type, pos),
			Position:    pos,
		}
		for _, arg := range field.Args {
			fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
				Name:        arg.Name,
				Description: deref(arg.Description),
				Type:        astType(&arg.Type, pos),
				Position:    pos,
			})
		}
		list = append(list, fd)
	}
	return list
}

func astType(ref *TypeRef, pos *ast.Position) *ast.Type {
	switch ref.Kind {
	case TypeKindNonNull:
		t := astType(ref.OfType, pos)
		t.NonNull = true
		return t
	case TypeKindList:
		return ast.ListType(astType(ref.OfType, pos), pos)
	default:
		return ast.NamedType(*ref.Name, pos)
	}
}

func typeNames(refs []*TypeRef) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Name != nil {
			names = append(names, *ref.Name)
		}
	}
	return names
}

func builtinType(name string) bool {
	switch name {
	case "String", "ID", "Int", "Float", "Boolean":
		return true
	}
	return len(name) >= 2 && name[:2] == "__"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
