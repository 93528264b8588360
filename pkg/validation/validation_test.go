package validation_test

import (
	"testing"

	"github.com/graphprobe/graphprobe/pkg/entities"
	"github.com/graphprobe/graphprobe/pkg/validation"
)

func TestValidateAccount(t *testing.T) {
	v := validation.NewSchemaValidator(entities.AllEntityTypes())

	t.Run("valid account", func(t *testing.T) {
		valid, problems := v.Validate("Account", map[string]interface{}{
			"account_name": "Savings-001",
			"account_type": "mudarabah",
			"institution":  "Example Bank",
			"balance":      50000.0,
			"opened_date":  "2024-01-15",
		})
		if !valid {
			t.Errorf("Expected valid, got problems: %v", problems)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		valid, problems := v.Validate("Account", map[string]interface{}{
			"account_name": "Savings-001",
		})
		if valid {
			t.Error("Expected validation failure")
		}
		if len(problems) == 0 {
			t.Error("Expected problem messages")
		}
	})

	t.Run("bad enum value", func(t *testing.T) {
		valid, _ := v.Validate("Account", map[string]interface{}{
			"account_name": "Savings-001",
			"account_type": "conventional",
			"institution":  "Example Bank",
			"opened_date":  "2024-01-15",
		})
		if valid {
			t.Error("Expected rejection of unknown account_type")
		}
	})
}

func TestValidateKinds(t *testing.T) {
	v := validation.NewSchemaValidator(entities.AllEntityTypes())

	t.Run("int field accepts whole float", func(t *testing.T) {
		// JSON decode turns numbers into float64
		valid, problems := v.Validate("Task", map[string]interface{}{
			"description":   "Write report",
			"time_estimate": float64(30),
		})
		if !valid {
			t.Errorf("Whole float should satisfy int field: %v", problems)
		}
	})

	t.Run("int field rejects fraction", func(t *testing.T) {
		valid, _ := v.Validate("Task", map[string]interface{}{
			"description":   "Write report",
			"time_estimate": 30.5,
		})
		if valid {
			t.Error("Fractional value should fail int field")
		}
	})

	t.Run("list field", func(t *testing.T) {
		valid, problems := v.Validate("Student", map[string]interface{}{
			"student_name":   "Fatima",
			"learning_goals": []interface{}{"reading", "conversation"},
		})
		if !valid {
			t.Errorf("List field should validate: %v", problems)
		}
	})

	t.Run("wrong kind", func(t *testing.T) {
		valid, _ := v.Validate("Task", map[string]interface{}{
			"description": 42,
		})
		if valid {
			t.Error("Number should fail string field")
		}
	})
}

func TestUnknownTypePasses(t *testing.T) {
	v := validation.NewSchemaValidator(entities.AllEntityTypes())

	valid, problems := v.Validate("Widget", map[string]interface{}{"anything": true})
	if !valid {
		t.Errorf("Unknown entity type should pass: %v", problems)
	}
	if v.HasSchema("Widget") {
		t.Error("Widget should not have a schema")
	}
	if !v.HasSchema("Account") {
		t.Error("Account schema should be registered")
	}
}
