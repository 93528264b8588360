package validation

import (
	"fmt"
	"sync"

	"github.com/graphprobe/graphprobe/pkg/entities"
)

// Validator interface defines validation operations
type Validator interface {
	Validate(entityType string, data map[string]interface{}) (bool, []string)
	HasSchema(entityType string) bool
}

// SchemaValidator validates records against the registered entity
// schemas. Unknown entity types pass validation; the side store accepts
// arbitrary shapes and the schemas only constrain the known fixtures.
type SchemaValidator struct {
	schemas map[string]entities.EntityType
	mu      sync.RWMutex
}

// NewSchemaValidator creates a validator over a schema set
func NewSchemaValidator(schemas map[string]entities.EntityType) *SchemaValidator {
	if schemas == nil {
		schemas = make(map[string]entities.EntityType)
	}
	return &SchemaValidator{schemas: schemas}
}

// Register adds or replaces a schema
func (v *SchemaValidator) Register(t entities.EntityType) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schemas[t.Name] = t
}

// HasSchema checks if a schema is registered for an entity type
func (v *SchemaValidator) HasSchema(entityType string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[entityType]
	return ok
}

// Validate checks a record against its entity type schema. Returns
// validity plus a list of human-readable problems.
func (v *SchemaValidator) Validate(entityType string, data map[string]interface{}) (bool, []string) {
	v.mu.RLock()
	schema, ok := v.schemas[entityType]
	v.mu.RUnlock()

	if !ok {
		return true, nil
	}

	var problems []string

	for _, field := range schema.Fields {
		value, present := data[field.Name]
		if !present || value == nil {
			if field.Required {
				problems = append(problems, fmt.Sprintf("missing required field: %s", field.Name))
			}
			continue
		}

		if !kindMatches(field.Kind, value) {
			problems = append(problems, fmt.Sprintf("field %s: expected %s, got %T", field.Name, field.Kind, value))
			continue
		}

		if len(field.Enum) > 0 {
			if s, ok := value.(string); ok && !contains(field.Enum, s) {
				problems = append(problems, fmt.Sprintf("field %s: %q not in allowed values", field.Name, s))
			}
		}
	}

	return len(problems) == 0, problems
}

// kindMatches accepts the JSON-decoded representation of each kind.
// Numbers arrive as float64 after a JSON round trip, so int fields
// accept whole floats too.
func kindMatches(kind entities.FieldKind, value interface{}) bool {
	switch kind {
	case entities.KindString:
		_, ok := value.(string)
		return ok
	case entities.KindBool:
		_, ok := value.(bool)
		return ok
	case entities.KindFloat:
		switch value.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case entities.KindInt:
		switch n := value.(type) {
		case int, int64:
			return true
		case float64:
			return n == float64(int64(n))
		}
		return false
	case entities.KindList:
		switch value.(type) {
		case []interface{}, []string:
			return true
		}
		return false
	default:
		return true
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
