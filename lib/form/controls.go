// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"fmt"
	"strings"

	"github.com/akgerber/cappa/lib/command"
)

// ControlKind selects the widget a field renders as. Derived once
// from the argument's schema shape.
type ControlKind int

const (
	// ControlText is a free-form value edited with an inline line
	// editor.
	ControlText ControlKind = iota

	// ControlFlag is an on/off checkbox for bare flags.
	ControlFlag

	// ControlCount is a repetition counter (e.g. -vvv).
	ControlCount

	// ControlChoice is a single-select dropdown over the argument's
	// declared choices.
	ControlChoice

	// ControlMulti is a multi-select dropdown: a choice argument
	// that accumulates a sequence.
	ControlMulti

	// ControlList is a growable list of free-form values for
	// repeated arguments without declared choices.
	ControlList
)

// Field is the live form state for one argument: the control kind
// plus whatever the user has entered so far. A field with no entered
// state contributes nothing to the composed command line.
type Field struct {
	Arg *command.Arg

	// Level indexes the command path the field belongs to, so tokens
	// land between the right subcommand names.
	Level int

	Kind ControlKind

	// Values holds entered text values: one entry for ControlText
	// and ControlChoice, any number for ControlMulti and ControlList.
	Values []string

	// Enabled is the checkbox state for ControlFlag.
	Enabled bool

	// Count is the repetition count for ControlCount.
	Count int
}

// fieldFor derives the control kind from the argument's schema shape.
func fieldFor(arg *command.Arg, level int) *Field {
	field := &Field{Arg: arg, Level: level}
	switch {
	case arg.Action == command.ActionCount:
		field.Kind = ControlCount
	case arg.NumArgs == 0:
		field.Kind = ControlFlag
	case len(arg.Choices) > 0 && multiValued(arg):
		field.Kind = ControlMulti
	case len(arg.Choices) > 0:
		field.Kind = ControlChoice
	case multiValued(arg):
		field.Kind = ControlList
	default:
		field.Kind = ControlText
	}
	return field
}

// multiValued reports whether the argument accumulates more than one
// value on the command line.
func multiValued(arg *command.Arg) bool {
	return arg.Action == command.ActionAppend ||
		arg.NumArgs == -1 || arg.NumArgs > 1
}

// Filled reports whether the user has entered anything for the field.
func (field *Field) Filled() bool {
	switch field.Kind {
	case ControlFlag:
		return field.Enabled
	case ControlCount:
		return field.Count > 0
	default:
		return len(field.Values) > 0
	}
}

// Clear resets the field to its unset state.
func (field *Field) Clear() {
	field.Values = nil
	field.Enabled = false
	field.Count = 0
}

// Summary renders the field's current value for the field list.
// Empty fields show their default (when one exists) as a hint.
func (field *Field) Summary() string {
	if !field.Filled() {
		if field.Arg.HasDefault {
			return fmt.Sprintf("(%v)", field.Arg.Default)
		}
		return ""
	}
	switch field.Kind {
	case ControlFlag:
		return "on"
	case ControlCount:
		return fmt.Sprintf("×%d", field.Count)
	default:
		return strings.Join(field.Values, ", ")
	}
}

// Tokens renders the field's contribution to the composed argv.
// Unfilled fields contribute nothing: the parser's own default chain
// handles them.
func (field *Field) Tokens() []string {
	if !field.Filled() {
		return nil
	}

	switch field.Kind {
	case ControlFlag:
		return []string{flagSpelling(field.Arg)}
	case ControlCount:
		tokens := make([]string, field.Count)
		for i := range tokens {
			tokens[i] = flagSpelling(field.Arg)
		}
		return tokens
	}

	if field.Arg.Positional() {
		return field.Values
	}

	flag := flagSpelling(field.Arg)
	if field.Arg.Action == command.ActionAppend {
		// Repeated flags: one occurrence per value.
		tokens := make([]string, 0, 2*len(field.Values))
		for _, v := range field.Values {
			tokens = append(tokens, flag, v)
		}
		return tokens
	}
	if multiValued(field.Arg) {
		// Fixed-arity and unbounded options take one comma-joined
		// token.
		return []string{flag, strings.Join(field.Values, ",")}
	}
	return []string{flag, field.Values[0]}
}

// flagSpelling picks the spelling shown in the preview, preferring
// the long form.
func flagSpelling(arg *command.Arg) string {
	if len(arg.Long) > 0 {
		return arg.Long[0]
	}
	return arg.Short[0]
}
