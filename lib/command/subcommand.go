// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"reflect"
)

// Subcommand is a sum-type dispatch node: it maps a discriminator
// name typed on the command line to a nested Command schema. The
// chosen variant's parsed instance is assigned to the parent's
// interface-typed field.
type Subcommand struct {
	// FieldName is the struct field receiving the chosen variant.
	// Empty for method dispatch, where selection only picks the
	// handler and produces no field value.
	FieldName string

	// Required is true unless the field's tag says optional.
	Required bool

	// Names preserves variant declaration order for help listings
	// and completion scripts.
	Names []string

	// Options maps each variant name to its collected schema.
	Options map[string]*Command

	fieldIndex int
}

// collectSubcommand builds the dispatch table for an interface-typed
// field tagged arg:"subcommand" from the registered variants.
func collectSubcommand(field reflect.StructField, index int, tag argTag, variants []any) (*Subcommand, error) {
	if field.Type.Kind() != reflect.Interface {
		return nil, fmt.Errorf("subcommand field must be interface-typed, got %s", field.Type)
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("subcommand field requires registered variants")
	}

	sub := &Subcommand{
		FieldName:  field.Name,
		Required:   !tag.optional,
		Options:    make(map[string]*Command, len(variants)),
		fieldIndex: index,
	}

	for _, variant := range variants {
		option, err := variantCommand(variant)
		if err != nil {
			return nil, err
		}

		// The parsed variant is assigned as a pointer, so either the
		// pointer or the value must satisfy the field's interface.
		pointer := reflect.PointerTo(option.Type)
		if !pointer.AssignableTo(field.Type) && !option.Type.AssignableTo(field.Type) {
			return nil, fmt.Errorf("variant %s does not satisfy subcommand field type %s",
				option.Type, field.Type)
		}

		if _, exists := sub.Options[option.Name]; exists {
			return nil, fmt.Errorf("duplicate subcommand name %q", option.Name)
		}
		sub.Names = append(sub.Names, option.Name)
		sub.Options[option.Name] = option
	}
	return sub, nil
}

// variantCommand accepts either a pre-collected schema or a struct
// prototype.
func variantCommand(variant any) (*Command, error) {
	if option, ok := variant.(*Command); ok {
		return option, nil
	}
	return Collect(variant, Spec{})
}

// collectMethods exposes the exported methods of *T as leaf
// subcommands. Each method becomes a command named after its
// dash-cased name, holding the method as its invoke target; the
// receiver is the parent's parsed instance.
func collectMethods(t reflect.Type) (*Subcommand, error) {
	pointer := reflect.PointerTo(t)
	if pointer.NumMethod() == 0 {
		return nil, fmt.Errorf("method subcommands requested but %s has no exported methods", t)
	}

	sub := &Subcommand{
		Required: true,
		Options:  make(map[string]*Command, pointer.NumMethod()),
	}
	for i := range pointer.NumMethod() {
		method := pointer.Method(i)
		name := dashCase(method.Name)
		sub.Names = append(sub.Names, name)
		sub.Options[name] = &Command{
			Type:   t,
			Name:   name,
			Invoke: method.Func.Interface(),
		}
	}
	return sub, nil
}
