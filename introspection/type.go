package introspection

type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

// Query is the response shape of the Introspection query.
type Query struct {
	Schema struct {
		QueryType        *NamedTypeRef `json:"queryType"`
		MutationType     *NamedTypeRef `json:"mutationType"`
		SubscriptionType *NamedTypeRef `json:"subscriptionType"`
		Types            []*FullType   `json:"types"`
	} `json:"__schema"`
}

type NamedTypeRef struct {
	Name *string `json:"name"`
}

type FullType struct {
	Kind          TypeKind      `json:"kind"`
	Name          *string       `json:"name"`
	Description   *string       `json:"description"`
	Fields        []*FieldValue `json:"fields"`
	InputFields   []*InputValue `json:"inputFields"`
	Interfaces    []*TypeRef    `json:"interfaces"`
	EnumValues    []*EnumValue  `json:"enumValues"`
	PossibleTypes []*TypeRef    `json:"possibleTypes"`
}

type FieldValue struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Args        []*InputValue `json:"args"`
	Type        TypeRef       `json:"type"`
}

type InputValue struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Type         TypeRef `json:"type"`
	DefaultValue *string `json:"defaultValue"`
}

type EnumValue struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}
