package service

import (
	"bitwise74/task-api/internal/model"
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

var (
	TaskFields    = []string{"description", "completed"}
	AccountFields = []string{"name", "age", "email", "password"}
)

func taskTargets(t *model.Task) map[string]any {
	return map[string]any{
		"description": &t.Description,
		"completed":   &t.Completed,
	}
}

func accountTargets(a *model.Account) map[string]any {
	return map[string]any{
		"name":     &a.Name,
		"age":      &a.Age,
		"email":    &a.Email,
		"password": &a.Password,
	}
}

// Merge applies fields onto the pointers in targets. A single field outside
// allowed rejects the whole batch before anything is written. A JSON null
// resets the field to its zero value
func Merge(fields map[string]json.RawMessage, allowed []string, targets map[string]any) error {
	if err := checkAllowed(fields, allowed); err != nil {
		return err
	}

	for name := range fields {
		if _, ok := targets[name]; !ok {
			return fmt.Errorf("%w: field %q can't be updated", ErrInvalidUpdate, name)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(fields)) {
		raw := bytes.TrimSpace(fields[name])
		ptr := targets[name]

		if bytes.Equal(raw, []byte("null")) {
			reflect.ValueOf(ptr).Elem().SetZero()
			continue
		}

		if err := json.Unmarshal(raw, ptr); err != nil {
			return &ValidationError{Field: name, Err: fmt.Errorf("invalid value, %w", err)}
		}
	}

	return nil
}

func checkAllowed(fields map[string]json.RawMessage, allowed []string) error {
	for name := range fields {
		if !slices.Contains(allowed, name) {
			return fmt.Errorf("%w: field %q can't be updated", ErrInvalidUpdate, name)
		}
	}

	return nil
}
