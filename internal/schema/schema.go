// Package schema validates JSON-shaped payloads (editor settings, problem
// banks) against compiled JSON schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Definition names a JSON schema document.
type Definition struct {
	Name   string
	Source string // JSON schema text
}

// ValidationError is returned when a payload does not satisfy a schema.
type ValidationError struct {
	Schema string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Schema, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// cache holds compiled schemas by name.
var cache sync.Map // map[string]*jsonschema.Schema

// ValidateJSON parses raw and validates it against def.
func ValidateJSON(def Definition, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ValidationError{Schema: def.Name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return validate(def, parsed)
}

// ValidateValue validates an already decoded value (for example a YAML
// document) by normalizing it through JSON first.
func ValidateValue(def Definition, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &ValidationError{Schema: def.Name, Err: fmt.Errorf("marshal value: %w", err)}
	}
	return ValidateJSON(def, b)
}

func validate(def Definition, parsed any) error {
	compiled, err := Compile(def)
	if err != nil {
		return &ValidationError{Schema: def.Name, Err: err}
	}
	if err := compiled.Validate(parsed); err != nil {
		return &ValidationError{Schema: def.Name, Err: err}
	}
	return nil
}

// Compile returns the cached compiled schema for def, compiling it on first use.
func Compile(def Definition) (*jsonschema.Schema, error) {
	if cached, ok := cache.Load(def.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var doc any
	if err := json.Unmarshal([]byte(def.Source), &doc); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", def.Name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	cache.Store(def.Name, compiled)
	return compiled, nil
}
