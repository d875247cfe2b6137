// Package schema checks JSON documents against JSON Schemas embedded in the
// packages that own them (snapshot documents, rendered reports).
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FieldError is a single violation at a JSON path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation of one document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("document does not match schema:")
	for _, e := range ve.Errors {
		fmt.Fprintf(&sb, " %s: %s;", e.Field, e.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Check validates doc against schema. Both are JSON text. It returns a
// *ValidationError when doc is well-formed but violates the schema.
func Check(schema, doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// CheckValue validates an already decoded value (for example one read from
// YAML) against schema.
func CheckValue(schema []byte, v any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(v),
	)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	return ve
}
