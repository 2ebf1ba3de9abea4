// Package schema builds and validates the JSON Schemas that describe tool
// parameters.
//
// Tools declare their parameters with the builder functions and the agent
// validates model-supplied arguments against the compiled schema before
// the tool runs:
//
//	params := schema.Object(map[string]*schema.Property{
//	    "command": schema.String("Shell command to execute"),
//	    "timeout": schema.Integer("Seconds before the command is killed").Min(1).Default(30),
//	}, "command") // "command" is required
//
// See [Object] and [Property] for the full builder surface.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema pairs a raw schema map (sent to the model as the tool's parameter
// description) with a compiled validator used at execution time.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the map representation, suitable for serializing into a
// tool definition.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate checks arguments against the schema. A nil schema accepts
// everything.
func (s *Schema) Validate(args map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(args); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError reports arguments that failed schema validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid tool arguments: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile turns a raw schema map into a Schema with a compiled validator.
// A nil map compiles to a nil Schema (accept everything).
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal failed: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("schema: parse failed: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("schema: add resource failed: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("schema: compile failed: %w", err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Use for schemas fixed
// at program start.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Object builds an object schema from named properties. Names passed as
// trailing arguments are marked required.
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, p := range properties {
		props[name] = p.build()
	}

	obj := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		obj["required"] = required
	}
	return obj
}

// Property is a single field of an object schema, assembled with the
// chainable setters below.
type Property struct {
	typ         string
	description string
	enum        []any
	minimum     *float64
	maximum     *float64
	items       map[string]any
	def         any
}

func (p *Property) build() map[string]any {
	m := map[string]any{}
	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.def != nil {
		m["default"] = p.def
	}
	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a floating-point property.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array creates an array property with the given item schema.
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// Enum restricts the property to the given values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Min sets the minimum for numeric properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the maximum for numeric properties.
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}

// Default records a default value for the property.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}
