/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas from Go types for payload
// documentation and tool input descriptions.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with project defaults.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator returns a generator that inlines nested types and honors
// `jsonschema:"required"` tags.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the schema for v.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// Reflect derives the schema for v using the default generator.
func Reflect(v any) *jsonschema.Schema {
	return NewGenerator().Reflect(v)
}

// ReflectType reflects the zero value of T.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}

// Document renders the schema of T as indented JSON with the given title.
func Document[T any](title string) ([]byte, error) {
	s := ReflectType[T]()
	s.Title = title
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling schema: %w", err)
	}
	return b, nil
}
