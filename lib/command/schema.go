// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"encoding/json"
	"reflect"
	"time"
)

// Schema is a JSON Schema representation of a command's arguments.
// It covers the subset needed to describe CLI input as structured
// data: object schemas with typed properties, enums for choice
// arguments, and array schemas for repeated values.
type Schema struct {
	// Type is the JSON Schema type: "object", "string", "boolean",
	// "integer", "number", or "array".
	Type string `json:"type,omitempty"`

	// Description is the argument's help text.
	Description string `json:"description,omitempty"`

	// Properties maps argument names to their schemas. Only set when
	// Type is "object".
	Properties map[string]*Schema `json:"properties,omitempty"`

	// Required lists argument names that must be provided.
	Required []string `json:"required,omitempty"`

	// Enum lists the permitted values for choice arguments.
	Enum []string `json:"enum,omitempty"`

	// Default is the argument's default value.
	Default any `json:"default,omitempty"`

	// Items describes the element type for array schemas.
	Items *Schema `json:"items,omitempty"`

	// Format is an optional format hint ("duration" for
	// time.Duration arguments, "date-time" for time.Time).
	Format string `json:"format,omitempty"`

	// OneOf holds the subcommand variants when the command
	// dispatches to subcommands.
	OneOf map[string]*Schema `json:"oneOf,omitempty"`
}

// CommandSchema generates a JSON Schema describing the command's
// arguments and, recursively, its subcommand variants. Property names
// are the backend names (long flag name without dashes), so the
// schema doubles as the key space for defaults files.
func CommandSchema(cmd *Command) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}

	for _, arg := range cmd.Arguments {
		if arg.Action.IsMeta() || arg.Hidden {
			continue
		}
		prop := argSchema(arg)
		schema.Properties[arg.BackendName()] = prop
		if arg.Required && !arg.HasDefault {
			schema.Required = append(schema.Required, arg.BackendName())
		}
	}

	if cmd.Sub != nil {
		schema.OneOf = make(map[string]*Schema, len(cmd.Sub.Names))
		for _, name := range cmd.Sub.Names {
			schema.OneOf[name] = CommandSchema(cmd.Sub.Options[name])
		}
	}

	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}
	return schema
}

// argSchema builds the schema for a single argument from its
// collected metadata.
func argSchema(arg *Arg) *Schema {
	schema := schemaForType(arg.Type)
	schema.Description = arg.Help
	schema.Enum = arg.Choices
	if arg.HasDefault {
		schema.Default = arg.Default
	}
	return schema
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

func schemaForType(t reflect.Type) *Schema {
	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case durationType:
		return &Schema{Type: "string", Format: "duration"}
	}

	switch t.Kind() {
	case reflect.Pointer:
		return schemaForType(t.Elem())
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: schemaForType(t.Elem())}
	case reflect.Map:
		// Set-shaped maps serialize as arrays of their keys.
		return &Schema{Type: "array", Items: schemaForType(t.Key())}
	default:
		// Unions and file handles have no fixed JSON type.
		return &Schema{}
	}
}

// SchemaJSON generates the command's JSON Schema and marshals it to
// indented JSON.
func SchemaJSON(cmd *Command) ([]byte, error) {
	return json.MarshalIndent(CommandSchema(cmd), "", "  ")
}
