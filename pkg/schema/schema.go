package schema

import "sort"

// Field describes one collectible field of a node.
type Field struct {
	Type        Type
	Description string
	Required    bool
}

// Schema maps field names to their specs.
// Example: {"complaint": {Type: String(), Required: true}}
type Schema map[string]Field

// Resolve shapes raw arguments against the schema. It always returns a
// usable map covering every declared field; the error, when non-nil, is an
// *AggregateError listing what was missing or coerced, for logging only.
func Resolve(s Schema, args map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(s))
	var errs []error

	for name, field := range s {
		value, exists := args[name]
		if !exists || value == nil {
			zero, _ := field.Type.Coerce(nil)
			resolved[name] = zero
			if field.Required {
				errs = append(errs, &ValidationError{Key: name, Reason: "required field missing"})
			}
			continue
		}

		coerced, err := field.Type.Coerce(value)
		resolved[name] = coerced
		if err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return resolved, &AggregateError{Errors: errs}
	}
	return resolved, nil
}

// JSONSchema renders the schema as a JSON-schema object suitable for a
// tool/function declaration. The required list is sorted for determinism.
func JSONSchema(s Schema) map[string]any {
	properties := make(map[string]any, len(s))
	var required []string

	for name, field := range s {
		prop := field.Type.JSONSchema()
		if field.Description != "" {
			prop["description"] = field.Description
		}
		properties[name] = prop
		if field.Required {
			required = append(required, name)
		}
	}

	out := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sort.Strings(required)
		out["required"] = required
	}
	return out
}
