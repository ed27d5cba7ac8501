// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/akgerber/cappa/lib/value"
)

// Group identifies a named help-text grouping for arguments. The
// default groups are "Options" (order 0) for named flags and
// "Arguments" (order 1) for positionals; custom groups come from the
// group= tag option.
type Group struct {
	Order     int
	Name      string
	Exclusive bool
}

// Arg is a single CLI option or positional derived from one struct
// field. Built once during collection and immutable thereafter.
type Arg struct {
	// FieldName is the Go struct field this argument populates.
	FieldName string

	// ValueName is the placeholder shown in usage text. Defaults to
	// the dash-cased field name; "name ..." for unbounded arguments.
	ValueName string

	// Short and Long hold the flag spellings including their dashes
	// ("-v", "--verbose"). Both empty for positional arguments.
	Short []string
	Long  []string

	Action  Action
	NumArgs int // token arity: 0 for bare flags, -1 for unbounded
	Choices []string

	// Default is the typed fallback value when the argument is
	// absent from the CLI, the environment, and the defaults file.
	Default    any
	HasDefault bool

	// EnvVars are consulted in order when the CLI omits the argument.
	EnvVars []string

	Required   bool
	Help       string
	Hidden     bool
	Deprecated string
	Group      Group

	// Parse converts raw backend tokens into the field's typed value.
	Parse value.Func

	// Type is the struct field's type, kept for schema export and
	// form control selection.
	Type reflect.Type

	fieldIndex int
}

// Positional reports whether the argument is consumed by position
// rather than by flag name.
func (arg *Arg) Positional() bool {
	return len(arg.Short) == 0 && len(arg.Long) == 0
}

// Names returns all flag spellings, short before long.
func (arg *Arg) Names() []string {
	names := make([]string, 0, len(arg.Short)+len(arg.Long))
	names = append(names, arg.Short...)
	names = append(names, arg.Long...)
	return names
}

// NamesString renders the argument's identity for error and help
// text: joined flag names for options, the value name for
// positionals.
func (arg *Arg) NamesString() string {
	if names := arg.Names(); len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return arg.ValueName
}

// BackendName is the canonical long name (without dashes) used for
// flag registration and as the defaults-file key.
func (arg *Arg) BackendName() string {
	if len(arg.Long) > 0 {
		return strings.TrimLeft(arg.Long[0], "-")
	}
	return dashCase(arg.FieldName)
}

// Shorthand returns the single-character short spelling without its
// dash, or "" when the argument has no short name.
func (arg *Arg) Shorthand() string {
	if len(arg.Short) == 0 {
		return ""
	}
	name := strings.TrimLeft(arg.Short[0], "-")
	if len(name) == 1 {
		return name
	}
	return ""
}

// argTag is the parsed form of an arg:"..." struct tag.
type argTag struct {
	short     []string
	long      []string
	shortAuto bool
	longAuto  bool

	count      bool
	required   bool
	optional   bool
	hidden     bool
	exclusive  bool
	subcommand bool

	env        []string
	group      string
	order      int
	hasOrder   bool
	valueName  string
	numArgs    int
	hasNum     bool
	deprecated string
}

// parseArgTag splits an arg tag into its comma-separated options.
// Unknown options are collection errors: a typo in a tag should fail
// loudly at schema build time, not silently change CLI behavior.
func parseArgTag(tag string) (argTag, error) {
	var spec argTag
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		switch key {
		case "short":
			if hasVal {
				spec.short = splitFlagNames(val, "-")
			} else {
				spec.shortAuto = true
			}
		case "long":
			if hasVal {
				spec.long = splitFlagNames(val, "--")
			} else {
				spec.longAuto = true
			}
		case "count":
			spec.count = true
		case "required":
			spec.required = true
		case "optional":
			spec.optional = true
		case "hidden":
			spec.hidden = true
		case "exclusive":
			spec.exclusive = true
		case "subcommand":
			spec.subcommand = true
		case "env":
			spec.env = strings.Split(val, "/")
		case "group":
			spec.group = val
		case "order":
			order, err := strconv.Atoi(val)
			if err != nil {
				return spec, fmt.Errorf("order option: %w", err)
			}
			spec.order = order
			spec.hasOrder = true
		case "name":
			spec.valueName = val
		case "num":
			numArgs, err := strconv.Atoi(val)
			if err != nil {
				return spec, fmt.Errorf("num option: %w", err)
			}
			spec.numArgs = numArgs
			spec.hasNum = true
		case "deprecated":
			if hasVal {
				spec.deprecated = val
			} else {
				spec.deprecated = "deprecated"
			}
		default:
			return spec, fmt.Errorf("unknown arg tag option %q", key)
		}
	}
	return spec, nil
}

// splitFlagNames splits a slash-separated name list and ensures each
// entry carries the given dash prefix.
func splitFlagNames(val, prefix string) []string {
	parts := strings.Split(val, "/")
	for i, part := range parts {
		if !strings.HasPrefix(part, prefix) {
			parts[i] = prefix + part
		}
	}
	return parts
}

// collectArg derives a normalized Arg from one struct field. The
// inference chain mirrors the precedence rules of the schema: each
// property is either taken from the tag or derived from the field's
// type and default.
func collectArg(field reflect.StructField, index int, defaultShort, defaultLong bool) (*Arg, error) {
	spec, err := parseArgTag(field.Tag.Get("arg"))
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}

	var choices []string
	if tag := field.Tag.Get("choices"); tag != "" {
		choices = strings.Split(tag, ",")
	}

	parser, err := value.ParserFor(field.Type, value.Meta{
		Choices:  choices,
		FileMode: field.Tag.Get("mode"),
	})
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}

	name := dashCase(field.Name)
	short := inferShort(spec, name, defaultShort)
	long := inferLong(spec, field.Type, name, defaultLong)

	arg := &Arg{
		FieldName:  field.Name,
		Short:      short,
		Long:       long,
		Choices:    choices,
		EnvVars:    spec.env,
		Help:       field.Tag.Get("desc"),
		Hidden:     spec.hidden,
		Deprecated: spec.deprecated,
		Parse:      parser,
		Type:       field.Type,
		fieldIndex: index,
	}

	defaultTag, hasDefaultTag := field.Tag.Lookup("default")
	if hasDefaultTag {
		parsed, err := parseDefaultTag(defaultTag, field.Type, parser)
		if err != nil {
			return nil, fmt.Errorf("field %s: default tag: %w", field.Name, err)
		}
		arg.Default = parsed
		arg.HasDefault = true
	}

	arg.Action, err = inferAction(spec, field.Type, arg)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}
	arg.NumArgs = inferNumArgs(spec, field.Type, arg.Action)
	arg.Required, err = inferRequired(spec, field.Type, arg.HasDefault)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}
	arg.Group, err = inferGroup(spec, arg)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}
	arg.ValueName = inferValueName(spec, name, arg.NumArgs)

	if err := verifyTypeCompatibility(arg, field.Type); err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}
	return arg, nil
}

// inferShort resolves the short flag spellings. A bare "short" uses
// the first letter of the dash-cased field name.
func inferShort(spec argTag, name string, defaultShort bool) []string {
	if len(spec.short) > 0 {
		return spec.short
	}
	if spec.shortAuto || defaultShort {
		return []string{"-" + name[:1]}
	}
	return nil
}

// inferLong resolves the long flag spellings. Bools auto-promote to
// long flags even without a tag: a bare positional bool has no
// sensible CLI shape.
func inferLong(spec argTag, t reflect.Type, name string, defaultLong bool) []string {
	if len(spec.long) > 0 {
		return spec.long
	}
	if spec.longAuto || defaultLong || isBoolShaped(t) {
		return []string{"--" + name}
	}
	return nil
}

// inferAction resolves the token-consumption behavior for the field.
func inferAction(spec argTag, t reflect.Type, arg *Arg) (Action, error) {
	if spec.count {
		if underlying(t).Kind() != reflect.Int {
			return ActionSet, fmt.Errorf("count requires an int field, got %s", t)
		}
		return ActionCount, nil
	}

	if isBoolShaped(t) {
		// A true default flips the flag's sense: passing it stores
		// false.
		if arg.HasDefault {
			if enabled, ok := arg.Default.(bool); ok && enabled {
				return ActionStoreFalse, nil
			}
		}
		return ActionStoreTrue, nil
	}

	if isSequence(t) && !arg.Positional() {
		if spec.hasNum && spec.numArgs != 1 {
			return ActionSet, nil
		}
		return ActionAppend, nil
	}

	return ActionSet, nil
}

// inferNumArgs resolves the token arity for the field.
func inferNumArgs(spec argTag, t reflect.Type, action Action) int {
	if spec.hasNum {
		return spec.numArgs
	}
	if !action.consumesValue() {
		return 0
	}
	if t.Kind() == reflect.Array {
		return t.Len()
	}
	if isSequence(t) && action != ActionAppend {
		// Positional lists and sets consume every remaining token.
		return -1
	}
	return 1
}

// inferRequired decides whether the argument must be supplied.
// Optionals (pointers), bools, and containers have inherent defaults
// and are never required; everything else is required unless a
// default exists.
func inferRequired(spec argTag, t reflect.Type, hasDefault bool) (bool, error) {
	if spec.required {
		return true, nil
	}

	hasImplicitDefault := t.Kind() == reflect.Pointer ||
		isBoolShaped(t) || isSequence(t)
	if !hasDefault && !hasImplicitDefault {
		if spec.optional {
			return false, fmt.Errorf("optional requires a default, a pointer type, or a container type")
		}
		return true, nil
	}
	return false, nil
}

// inferGroup resolves the help-text group. The exclusive option only
// makes sense on a named group shared by the mutually-exclusive
// arguments.
func inferGroup(spec argTag, arg *Arg) (Group, error) {
	group := Group{Name: spec.group, Exclusive: spec.exclusive}
	if spec.hasOrder {
		group.Order = spec.order
	}

	if group.Name == "" {
		if group.Exclusive {
			return group, fmt.Errorf("exclusive requires a group= name")
		}
		if arg.Positional() {
			group.Name = "Arguments"
			group.Order = 1
		} else {
			group.Name = "Options"
		}
	}
	return group, nil
}

// inferValueName renders the usage placeholder, repeating it for
// fixed multi-token arguments and marking unbounded ones with "...".
func inferValueName(spec argTag, name string, numArgs int) string {
	if spec.valueName != "" {
		return spec.valueName
	}
	if numArgs == -1 {
		return name + " ..."
	}
	if numArgs > 1 {
		return strings.TrimSpace(strings.Repeat(name+" ", numArgs))
	}
	return name
}

// parseDefaultTag converts a default:"..." tag through the field's
// own parser so defaults are typed at collection time. Sequence and
// array defaults are comma-separated; scalar defaults pass through
// verbatim, commas included.
func parseDefaultTag(raw string, t reflect.Type, parser value.Func) (any, error) {
	if t.Kind() == reflect.Array || isSequence(t) {
		return parser(strings.Split(raw, ","))
	}
	return parser(raw)
}

// verifyTypeCompatibility rejects tag/type combinations that cannot
// map cleanly: scalar fields must not receive multiple tokens, and
// sequence fields must not be limited to a single stored token.
func verifyTypeCompatibility(arg *Arg, t reflect.Type) error {
	if t.Kind() == reflect.Array {
		if arg.NumArgs != t.Len() {
			return fmt.Errorf("array of %d elements cannot take num=%d", t.Len(), arg.NumArgs)
		}
		return nil
	}

	if isSequence(t) {
		if arg.NumArgs == 1 && arg.Action != ActionAppend {
			return fmt.Errorf("%s produces a sequence, but num=1 with action=%s stores a single value",
				t, arg.Action)
		}
		return nil
	}

	if arg.Action == ActionAppend {
		return fmt.Errorf("%s produces a scalar, but action=%s accumulates a sequence", t, arg.Action)
	}
	if arg.NumArgs != 0 && arg.NumArgs != 1 {
		return fmt.Errorf("%s produces a scalar, but num=%d consumes multiple tokens", t, arg.NumArgs)
	}
	return nil
}

// underlying dereferences pointer types.
func underlying(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// isBoolShaped reports whether the field behaves as a flag: a bool
// or pointer-to-bool.
func isBoolShaped(t reflect.Type) bool {
	return underlying(t).Kind() == reflect.Bool
}

// isSequence reports whether the field accumulates multiple values:
// a slice or a set-shaped map.
func isSequence(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice:
		return true
	case reflect.Map:
		elem := t.Elem()
		return elem.Kind() == reflect.Bool ||
			(elem.Kind() == reflect.Struct && elem.NumField() == 0)
	}
	return false
}
