// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/akgerber/cappa/lib/command"
)

// Result is the outcome of one parse: either a raw value tree ready
// for result mapping, or a meta action that short-circuits it.
type Result struct {
	Parsed *command.Parsed

	// Meta is non-nil when a meta flag (--help, --version,
	// --completion) was typed; the caller renders the requested
	// output instead of mapping values.
	Meta *Meta
}

// Meta describes a requested meta action and where in the command
// tree it was typed, so help renders for the right subcommand.
type Meta struct {
	Action  command.Action
	Command *command.Command
	Prog    string

	// Shell is the completion target ("bash" or "zsh").
	Shell string
}

// Parse consumes argv tokens (excluding the program name) against the
// command schema. Unknown flags and unrecognized trailing tokens are
// [command.Exit] errors with code 2, carrying a typo suggestion when
// a defined name is close.
func Parse(cmd *command.Command, prog string, args []string) (*Result, error) {
	flagSet := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	if cmd.Sub != nil {
		// Tokens after the subcommand name belong to the subcommand.
		flagSet.SetInterspersed(false)
	}

	if err := registerFlags(flagSet, cmd); err != nil {
		return nil, err
	}

	if err := flagSet.Parse(args); err != nil {
		message := err.Error()
		if suggestion := suggestFlag(args, flagSet); suggestion != "" {
			message = fmt.Sprintf("%s (did you mean %s?)", message, suggestion)
		}
		return nil, &command.Exit{Message: message, Code: 2, Prog: prog}
	}

	if meta := metaRequest(flagSet, cmd, prog); meta != nil {
		return &Result{Meta: meta}, nil
	}

	parsed := &command.Parsed{Values: make(map[string]any)}
	for _, arg := range cmd.Arguments {
		if arg.Positional() || arg.Action.IsMeta() {
			continue
		}
		if raw, ok := flagValue(flagSet, arg); ok {
			parsed.Values[arg.FieldName] = raw
		}
	}

	rest := distributePositionals(cmd, parsed, flagSet.Args())

	if cmd.Sub != nil && len(rest) > 0 {
		name := rest[0]
		chosen, ok := cmd.Sub.Options[name]
		if !ok {
			message := fmt.Sprintf("unrecognized arguments: %s", name)
			if suggestion := suggestName(name, cmd.Sub.Names); suggestion != "" {
				message = fmt.Sprintf("%s (did you mean %q?)", message, suggestion)
			}
			return nil, &command.Exit{Message: message, Code: 2, Prog: prog}
		}

		sub, err := Parse(chosen, prog+" "+name, rest[1:])
		if err != nil {
			return nil, err
		}
		if sub.Meta != nil {
			return sub, nil
		}
		parsed.Sub = &command.SelectedSub{Name: name, Command: chosen, Parsed: sub.Parsed}
		return &Result{Parsed: parsed}, nil
	}

	if len(rest) > 0 {
		return nil, &command.Exit{
			Message: fmt.Sprintf("unrecognized arguments: %s", strings.Join(rest, " ")),
			Code:    2,
			Prog:    prog,
		}
	}
	return &Result{Parsed: parsed}, nil
}

// registerFlags binds every non-positional argument into the flag
// set, choosing the pflag value kind from the argument's action.
func registerFlags(flagSet *pflag.FlagSet, cmd *command.Command) error {
	for _, arg := range cmd.Arguments {
		if arg.Positional() {
			continue
		}
		names := longNames(arg)
		primary := names[0]

		for i, name := range names {
			shorthand := ""
			if i == 0 {
				shorthand = arg.Shorthand()
			}
			registerOne(flagSet, arg, name, shorthand)
			if i > 0 || arg.Hidden {
				// Aliases stay out of usage listings.
				if err := flagSet.MarkHidden(name); err != nil {
					return err
				}
			}
		}
		if arg.Deprecated != "" {
			if err := flagSet.MarkDeprecated(primary, arg.Deprecated); err != nil {
				return err
			}
		}
	}
	return nil
}

// registerOne adds a single flag spelling for the argument.
func registerOne(flagSet *pflag.FlagSet, arg *command.Arg, name, shorthand string) {
	switch {
	case arg.Action == command.ActionCount:
		flagSet.CountP(name, shorthand, arg.Help)
	case arg.NumArgs == 0:
		flagSet.BoolP(name, shorthand, false, arg.Help)
	case arg.Action == command.ActionAppend:
		flagSet.StringArrayP(name, shorthand, nil, arg.Help)
	case arg.NumArgs > 1 || arg.NumArgs == -1:
		// Fixed-arity and unbounded options take comma-separated
		// values in a single token.
		flagSet.StringSliceP(name, shorthand, nil, arg.Help)
	default:
		flagSet.StringP(name, shorthand, "", arg.Help)
	}
}

// flagValue extracts the raw token value for an argument, checking
// the primary name first and then any aliases.
func flagValue(flagSet *pflag.FlagSet, arg *command.Arg) (any, bool) {
	for _, name := range longNames(arg) {
		if !flagSet.Changed(name) {
			continue
		}
		switch {
		case arg.Action == command.ActionCount:
			count, _ := flagSet.GetCount(name)
			return count, true
		case arg.Action == command.ActionStoreTrue:
			return true, true
		case arg.Action == command.ActionStoreFalse:
			return false, true
		case arg.Action == command.ActionAppend:
			tokens, _ := flagSet.GetStringArray(name)
			return tokens, true
		case arg.NumArgs > 1 || arg.NumArgs == -1:
			tokens, _ := flagSet.GetStringSlice(name)
			return tokens, true
		default:
			token, _ := flagSet.GetString(name)
			return token, true
		}
	}
	return nil, false
}

// longNames returns the backend flag names for the argument: each
// long spelling without dashes, or the canonical name for short-only
// flags.
func longNames(arg *command.Arg) []string {
	if len(arg.Long) == 0 {
		return []string{arg.BackendName()}
	}
	names := make([]string, len(arg.Long))
	for i, name := range arg.Long {
		names[i] = strings.TrimLeft(name, "-")
	}
	return names
}

// metaRequest reports the first typed meta flag, if any. Help wins
// over version so "--version --help" shows help.
func metaRequest(flagSet *pflag.FlagSet, cmd *command.Command, prog string) *Meta {
	var found *Meta
	for _, arg := range cmd.Arguments {
		if !arg.Action.IsMeta() || !flagSet.Changed(arg.BackendName()) {
			continue
		}
		meta := &Meta{Action: arg.Action, Command: cmd, Prog: prog}
		if arg.Action == command.ActionCompletion {
			meta.Shell, _ = flagSet.GetString(arg.BackendName())
		}
		if arg.Action == command.ActionHelp {
			return meta
		}
		if found == nil {
			found = meta
		}
	}
	return found
}

// distributePositionals hands leftover tokens to positional arguments
// in declaration order. Fixed-arity positionals take their count,
// unbounded ones take everything remaining. Shortfalls surface later
// as missing-required errors during result mapping.
func distributePositionals(cmd *command.Command, parsed *command.Parsed, tokens []string) []string {
	for _, arg := range cmd.Arguments {
		if !arg.Positional() {
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		switch {
		case arg.NumArgs == -1:
			parsed.Values[arg.FieldName] = tokens
			tokens = nil
		case arg.NumArgs > 1:
			take := min(arg.NumArgs, len(tokens))
			parsed.Values[arg.FieldName] = tokens[:take]
			tokens = tokens[take:]
		default:
			parsed.Values[arg.FieldName] = tokens[0]
			tokens = tokens[1:]
		}
	}
	return tokens
}
