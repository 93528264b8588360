// Package entities defines the example domain schemas used to drive
// entity extraction: GTD task management, Arabic language tutoring, and
// Islamic finance. The schemas are fixtures; they describe shapes and
// carry no behavior.
package entities

// FieldKind is the closed set of field value kinds a schema supports.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindInt    FieldKind = "int"
	KindFloat  FieldKind = "float"
	KindBool   FieldKind = "bool"
	KindList   FieldKind = "list"
)

// Field describes a single schema field.
type Field struct {
	Name        string
	Kind        FieldKind
	Required    bool
	Description string
	// Enum lists allowed values for string fields; empty means free-form.
	Enum []string
}

// EntityType is a named schema used to guide extraction of nodes.
type EntityType struct {
	Name        string
	Description string
	Fields      []Field
}

// EdgeType is a named schema used to guide extraction of relationships.
type EdgeType struct {
	Name        string
	Description string
	Fields      []Field
}

// Domain bundles one example domain's entity and edge schemas. The
// EdgeMap keys are "Source-Target" entity type pairs.
type Domain struct {
	Name        string
	EntityTypes map[string]EntityType
	EdgeTypes   map[string]EdgeType
	EdgeMap     map[string][]string
}

// Field looks up a field by name on an entity type.
func (t EntityType) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// TypeNames returns the entity type names of a domain, for embedding in
// episode bodies and source descriptions.
func (d Domain) TypeNames() []string {
	names := make([]string, 0, len(d.EntityTypes))
	for name := range d.EntityTypes {
		names = append(names, name)
	}
	return names
}

// Domains returns all example domains keyed by name.
func Domains() map[string]Domain {
	return map[string]Domain{
		"gtd":     GTD(),
		"arabic":  Arabic(),
		"finance": Finance(),
	}
}

// AllEntityTypes flattens every domain's entity types into one map.
// Later domains do not collide; type names are unique across fixtures.
func AllEntityTypes() map[string]EntityType {
	out := make(map[string]EntityType)
	for _, d := range Domains() {
		for name, t := range d.EntityTypes {
			out[name] = t
		}
	}
	return out
}
