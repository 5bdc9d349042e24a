package registry

import (
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

// Catalog is the fixed set of actions deckhand can dispatch.
// It is built once and never mutated.
type Catalog struct {
	specs   []domain.ActionSpec
	index   map[string]int
	schemas map[string]*openapi3.Schema
}

// New builds a catalog from the given specs. Later specs with a duplicate name are ignored.
func New(specs ...domain.ActionSpec) *Catalog {
	c := &Catalog{
		index:   make(map[string]int, len(specs)),
		schemas: make(map[string]*openapi3.Schema, len(specs)),
	}
	for _, spec := range specs {
		if _, dup := c.index[spec.Name]; dup {
			continue
		}
		c.index[spec.Name] = len(c.specs)
		c.specs = append(c.specs, spec)
		c.schemas[spec.Name] = buildSchema(spec)
	}
	return c
}

// Default returns the catalog of the five built-in actions.
func Default() *Catalog {
	return New(Builtins()...)
}

// List returns the registered specs in declaration order.
// The returned slice is a copy.
func (c *Catalog) List() []domain.ActionSpec {
	out := make([]domain.ActionSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup returns the spec registered under name.
func (c *Catalog) Lookup(name string) (domain.ActionSpec, bool) {
	i, ok := c.index[name]
	if !ok {
		return domain.ActionSpec{}, false
	}
	return c.specs[i], true
}

// Schema returns the argument schema of the named action, or nil if it is not registered.
func (c *Catalog) Schema(name string) *openapi3.Schema {
	return c.schemas[name]
}

func buildSchema(spec domain.ActionSpec) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, p := range spec.Params {
		schema.WithProperty(p.Name, paramSchema(p))
	}
	schema.Required = spec.RequiredParams()
	return schema
}

func paramSchema(p domain.ParamSpec) *openapi3.Schema {
	var s *openapi3.Schema
	switch p.Type {
	case domain.ParamArray:
		items := openapi3.NewStringSchema()
		if p.Items != "" && p.Items != domain.ParamString {
			items = &openapi3.Schema{Type: &openapi3.Types{p.Items}}
		}
		s = openapi3.NewArraySchema().WithItems(items)
	default:
		s = openapi3.NewStringSchema()
	}
	s.Description = p.Description
	return s
}
