package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON shape the model must return.
type ExtractionSchema struct {
	Name   string
	Fields []SchemaField
}

// SchemaField describes one output field.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // type hint shown to the model, e.g. "number|null"
	Description string
	Required    bool
}

// ArrayFormat renders the schema as the instruction for a JSON array of objects.
func (s ExtractionSchema) ArrayFormat() string {
	var sb strings.Builder
	sb.WriteString("Return ONLY a valid JSON array of objects with exactly these fields:\n[\n  {\n")
	for i, field := range s.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		fmt.Fprintf(&sb, "    %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  }\n]\n")
	return sb.String()
}
