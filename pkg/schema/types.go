package schema

import (
	"fmt"
	"strings"
)

// Type defines the contract for field coercion. Coerce never leaves the
// caller without a usable value: on mismatch it returns the type's zero
// value alongside an advisory error.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string").
	Name() string
	// Coerce shapes a raw value into this type, falling back to the zero
	// value when the input cannot be interpreted.
	Coerce(value any) (any, error)
	// JSONSchema returns the JSON-schema fragment describing this type,
	// used when exposing fields as tool parameters.
	JSONSchema() map[string]any
}

// --- Built-in Type Implementations ---

// StringType coerces free-text values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", value)
	}
}

func (t *StringType) JSONSchema() map[string]any {
	return map[string]any{"type": "string"}
}

// BoolType coerces booleans. String renditions of truth ("true", "yes") are
// accepted because tool-call layers occasionally stringify them.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		clean := strings.ToLower(strings.TrimSpace(v))
		return clean == "true" || clean == "yes", nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected bool, got %T", value)
	}
}

func (t *BoolType) JSONSchema() map[string]any {
	return map[string]any{"type": "boolean"}
}

// StringListType coerces lists of free text. JSON unmarshaling yields
// []any, so that shape is handled explicitly; a bare string becomes a
// one-element list.
type StringListType struct{}

func (t *StringListType) Name() string { return "[string]" }

func (t *StringListType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		var firstErr error
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				if firstErr == nil {
					firstErr = fmt.Errorf("element %d: expected string, got %T", i, elem)
				}
				continue
			}
			out = append(out, s)
		}
		return out, firstErr
	case string:
		if v == "" {
			return []string{}, nil
		}
		return []string{v}, nil
	case nil:
		return []string{}, nil
	default:
		return []string{}, fmt.Errorf("expected string list, got %T", value)
	}
}

func (t *StringListType) JSONSchema() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// RecordListType coerces lists of structured records (e.g. medications with
// name/dosage/frequency). Record contents stay loosely typed here; handlers
// decode them into their own structs.
type RecordListType struct {
	properties map[string]Type
}

func (t *RecordListType) Name() string { return "[record]" }

func (t *RecordListType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case []map[string]any:
		return v, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		var firstErr error
		for i, elem := range v {
			m, ok := elem.(map[string]any)
			if !ok {
				if firstErr == nil {
					firstErr = fmt.Errorf("element %d: expected object, got %T", i, elem)
				}
				continue
			}
			out = append(out, m)
		}
		return out, firstErr
	case nil:
		return []map[string]any{}, nil
	default:
		return []map[string]any{}, fmt.Errorf("expected record list, got %T", value)
	}
}

func (t *RecordListType) JSONSchema() map[string]any {
	item := map[string]any{"type": "object"}
	if len(t.properties) > 0 {
		props := make(map[string]any, len(t.properties))
		for name, pt := range t.properties {
			props[name] = pt.JSONSchema()
		}
		item["properties"] = props
	}
	return map[string]any{"type": "array", "items": item}
}

// --- Factory Functions ---

// String creates a free-text type.
func String() Type { return &StringType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// StringList creates a list-of-string type.
func StringList() Type { return &StringListType{} }

// RecordList creates a list-of-record type. The optional properties describe
// the record shape for tool-parameter generation only.
func RecordList(properties map[string]Type) Type {
	return &RecordListType{properties: properties}
}
