// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"reflect"
	"unicode"
)

// Command is the normalized schema derived from one struct type: its
// name, help text, arguments, optional subcommand dispatch table, and
// optional invoke target. Built once by [Collect]; treated as
// immutable afterwards (meta-action injection returns a copy).
type Command struct {
	// Type is the struct type the command was collected from.
	Type reflect.Type

	// Name is the command name as typed by the user. Defaults to the
	// dash-cased struct type name.
	Name string

	// Help is the one-line summary shown in a parent's command
	// listing.
	Help string

	// Description is the extended help body, rendered as markdown in
	// terminal help output.
	Description string

	// Version enables the --version meta action when non-empty.
	Version string

	// Examples are shown in help output after the description.
	Examples []Example

	// Arguments are the value-producing entries in field order.
	Arguments []*Arg

	// Sub is the subcommand dispatch table, nil for leaf commands.
	Sub *Subcommand

	// Invoke is an optional handler; see [Invoke] for the calling
	// convention. When nil, invocation falls back to a Run method on
	// the parsed struct.
	Invoke any

	// Hidden commands are omitted from parent help listings.
	Hidden bool

	// DefaultShort and DefaultLong give every collected argument a
	// short (or long) flag spelling unless its tag says otherwise.
	DefaultShort bool
	DefaultLong  bool

	collected bool
}

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string
	// Command is the literal command line.
	Command string
}

// Spec configures collection. The zero value derives everything from
// the struct itself.
type Spec struct {
	Name        string
	Help        string
	Description string
	Version     string
	Examples    []Example

	DefaultShort bool
	DefaultLong  bool
	Hidden       bool

	// Variants supplies the concrete subcommand types assignable to
	// the struct's interface-typed subcommand field. Entries may be
	// struct values or pre-collected *Command schemas.
	Variants []any

	// Methods exposes the struct's exported methods as leaf
	// subcommands dispatched by dash-cased method name.
	Methods bool

	// Invoke is the handler called by [Invoke] after parsing.
	Invoke any
}

// Collect derives a Command schema from a struct prototype (a value
// or pointer). Collection fails on malformed tags, underivable field
// types, and inconsistent group definitions — all programming errors
// surfaced at schema build time.
func Collect(prototype any, spec Spec) (*Command, error) {
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("command prototype must be a struct, got %T", prototype)
	}

	cmd := &Command{
		Type:         t,
		Name:         spec.Name,
		Help:         spec.Help,
		Description:  spec.Description,
		Version:      spec.Version,
		Examples:     spec.Examples,
		Invoke:       spec.Invoke,
		Hidden:       spec.Hidden,
		DefaultShort: spec.DefaultShort,
		DefaultLong:  spec.DefaultLong,
	}
	if cmd.Name == "" {
		cmd.Name = dashCase(t.Name())
	}

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag, err := parseArgTag(field.Tag.Get("arg"))
		if err != nil {
			return nil, fmt.Errorf("%s: field %s: %w", cmd.Name, field.Name, err)
		}
		if tag.subcommand {
			if cmd.Sub != nil {
				return nil, fmt.Errorf("%s: multiple subcommand fields", cmd.Name)
			}
			sub, err := collectSubcommand(field, i, tag, spec.Variants)
			if err != nil {
				return nil, fmt.Errorf("%s: field %s: %w", cmd.Name, field.Name, err)
			}
			cmd.Sub = sub
			continue
		}

		arg, err := collectArg(field, i, spec.DefaultShort, spec.DefaultLong)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Name, err)
		}
		cmd.Arguments = append(cmd.Arguments, arg)
	}

	if spec.Methods {
		if cmd.Sub != nil {
			return nil, fmt.Errorf("%s: method subcommands cannot combine with a subcommand field", cmd.Name)
		}
		sub, err := collectMethods(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Name, err)
		}
		cmd.Sub = sub
	}

	if cmd.Sub != nil {
		for _, arg := range cmd.Arguments {
			if arg.Positional() && arg.NumArgs == -1 {
				return nil, fmt.Errorf("%s: unbounded positional %s cannot precede a subcommand",
					cmd.Name, arg.ValueName)
			}
		}
	}

	if err := checkGroupIdentity(cmd.Arguments); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return cmd, nil
}

// checkGroupIdentity enforces that every recurrence of a group name
// carries identical order and exclusivity. Divergent definitions
// would render the same group twice with conflicting placement.
func checkGroupIdentity(args []*Arg) error {
	seen := make(map[string]Group)
	for _, arg := range args {
		identity, ok := seen[arg.Group.Name]
		if ok && identity != arg.Group {
			return fmt.Errorf("group details between %+v and %+v must match", identity, arg.Group)
		}
		seen[arg.Group.Name] = arg.Group
	}
	return nil
}

// WithMetaActions returns a copy of the command tree with --help,
// --version (when a version is set), and --completion arguments
// appended. Idempotent: a tree that already carries meta actions is
// returned unchanged.
func (c *Command) WithMetaActions() *Command {
	if c.collected {
		return c
	}

	cmd := c.clone()
	cmd.Arguments = append(cmd.Arguments, helpArg())
	if cmd.Version != "" {
		cmd.Arguments = append(cmd.Arguments, versionArg())
	}
	cmd.Arguments = append(cmd.Arguments, completionArg())

	cmd.Sub = withSubHelp(cmd.Sub)
	cmd.collected = true
	return cmd
}

// withSubHelp rebuilds a dispatch table so every option in the tree,
// at any depth, carries its own --help argument.
func withSubHelp(sub *Subcommand) *Subcommand {
	if sub == nil {
		return nil
	}
	rebuilt := &Subcommand{
		FieldName:  sub.FieldName,
		Required:   sub.Required,
		fieldIndex: sub.fieldIndex,
		Names:      sub.Names,
		Options:    make(map[string]*Command, len(sub.Options)),
	}
	for name, option := range sub.Options {
		withHelp := option.clone()
		withHelp.Arguments = append(withHelp.Arguments, helpArg())
		withHelp.Sub = withSubHelp(option.Sub)
		withHelp.collected = true
		rebuilt.Options[name] = withHelp
	}
	return rebuilt
}

// clone returns a shallow copy with its own argument slice, the
// structural-replace primitive behind meta-action injection.
func (c *Command) clone() *Command {
	cmd := *c
	cmd.Arguments = make([]*Arg, len(c.Arguments))
	copy(cmd.Arguments, c.Arguments)
	return &cmd
}

func helpArg() *Arg {
	return &Arg{
		FieldName: "help",
		ValueName: "help",
		Short:     []string{"-h"},
		Long:      []string{"--help"},
		Action:    ActionHelp,
		Help:      "Show this message and exit.",
		Group:     Group{Name: "Help", Order: 2},
	}
}

func versionArg() *Arg {
	return &Arg{
		FieldName: "version",
		ValueName: "version",
		Long:      []string{"--version"},
		Action:    ActionVersion,
		Help:      "Show the version and exit.",
		Group:     Group{Name: "Help", Order: 2},
	}
}

func completionArg() *Arg {
	return &Arg{
		FieldName: "completion",
		ValueName: "completion",
		Long:      []string{"--completion"},
		Action:    ActionCompletion,
		NumArgs:   1,
		Choices:   []string{"bash", "zsh"},
		Help:      "Emit a shell completion script and exit.",
		Hidden:    true,
		Group:     Group{Name: "Help", Order: 2},
	}
}

// dashCase converts a CamelCase type or method name to its CLI
// spelling: "RequiredProvidedOne" becomes "required-provided-one",
// "HTTPServe" becomes "http-serve".
func dashCase(name string) string {
	runes := []rune(name)
	var out []rune
	for i, r := range runes {
		if unicode.IsUpper(r) {
			startsWord := i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if startsWord {
				out = append(out, '-')
			}
			out = append(out, unicode.ToLower(r))
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
