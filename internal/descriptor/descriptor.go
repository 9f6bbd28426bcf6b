package descriptor

import "slices"

// Method is an HTTP method as it appears in an endpoint definition.
type Method string

const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	DELETE  Method = "DELETE"
	PATCH   Method = "PATCH"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
)

// TagAdmin marks administrative/maintenance endpoints. Mutations carrying
// this tag are never exposed through the adapted surface.
const TagAdmin = "admin"

// SchemaRef is an opaque handle to an endpoint's input schema. The adapter
// carries it through to tool registration without interpreting it; each key
// is a parameter name mapped to its JSON Schema property.
type SchemaRef map[string]SchemaProperty

// SchemaProperty is a single JSON Schema property declaration.
type SchemaProperty struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Descriptor describes one HTTP endpoint of the underlying backend.
// Immutable once produced by a Source.
type Descriptor struct {
	Method  Method
	Path    string
	Tags    []string
	Summary string
	Schema  SchemaRef
}

// HasTag reports whether the descriptor carries the given tag.
func (d Descriptor) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// Mutating reports whether the method is one of the mutation verbs the
// classifier treats as invokable actions.
func (d Descriptor) Mutating() bool {
	switch d.Method {
	case POST, PUT, DELETE:
		return true
	}
	return false
}

// Source supplies the endpoint descriptors of a backend API. Implementations
// must return a fresh slice on every call so callers can treat the result as
// their own.
type Source interface {
	Endpoints() ([]Descriptor, error)
}
