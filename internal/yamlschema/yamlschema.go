// Package yamlschema validates YAML documents against JSON Schemas before
// they are decoded into Go structs.
package yamlschema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Schema is a compiled JSON Schema applied to YAML input.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// MustCompile compiles src and panics on error. Use for package-level
// schemas embedded as string constants.
func MustCompile(name, src string) *Schema {
	s, err := jsonschema.CompileString(name, src)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

// Validate parses raw as YAML and validates the resulting document.
func (s *Schema) Validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}

	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

// Decode validates raw and then unmarshals it into out.
func (s *Schema) Decode(raw []byte, out any) error {
	if err := s.Validate(raw); err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}
