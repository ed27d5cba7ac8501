// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
	"reflect"
	"strings"
)

// Parsed holds the raw token values the backend extracted for one
// command: values keyed by field name, plus the chosen subcommand
// branch, recursively.
type Parsed struct {
	// Values maps field names to raw tokens: string, []string, bool,
	// or int (for counted flags). Absent keys mean the argument was
	// not supplied on the command line.
	Values map[string]any

	// Sub is the selected subcommand branch, nil when none was named.
	Sub *SelectedSub
}

// SelectedSub records which subcommand variant the user chose.
type SelectedSub struct {
	Name    string
	Command *Command
	Parsed  *Parsed
}

// MapResult converts raw parsed tokens into a typed instance of the
// command's struct (returned as a pointer). Each field resolves
// through the precedence chain: CLI value, environment variable,
// defaults-file entry, tag default, zero value. Missing required
// arguments and failed value parses surface as [Exit] with code 2.
func (c *Command) MapResult(prog string, parsed *Parsed, defaults map[string]any) (any, error) {
	instance := reflect.New(c.Type)
	fields := instance.Elem()

	exclusive := make(map[string]*Arg)
	for _, arg := range c.Arguments {
		if arg.Action.IsMeta() {
			continue
		}

		raw, supplied := parsed.Values[arg.FieldName]
		if supplied && arg.Group.Exclusive {
			if prior, taken := exclusive[arg.Group.Name]; taken {
				return nil, &Exit{
					Message: fmt.Sprintf("Argument '%s' is not allowed with argument '%s'",
						arg.NamesString(), prior.NamesString()),
					Code: 2,
					Prog: prog,
				}
			}
			exclusive[arg.Group.Name] = arg
		}
		if !supplied {
			if env, ok := lookupEnv(arg); ok {
				raw = splitIfSequence(arg, env)
			} else if fallback, ok := defaults[arg.BackendName()]; ok {
				raw = coerceRaw(arg, fallback)
			} else if arg.HasDefault {
				if err := setField(fields.Field(arg.fieldIndex), arg.Default); err != nil {
					return nil, fmt.Errorf("%s: default for %s: %w", prog, arg.NamesString(), err)
				}
				continue
			} else if arg.Required {
				return nil, &Exit{
					Message: fmt.Sprintf("the following arguments are required: %s", arg.NamesString()),
					Code:    2,
					Prog:    prog,
				}
			} else {
				// Optionals stay nil, containers stay empty.
				continue
			}
		}

		typed, err := arg.Parse(raw)
		if err != nil {
			return nil, &Exit{
				Message: fmt.Sprintf("Invalid value for '%s': %v", arg.NamesString(), err),
				Code:    2,
				Prog:    prog,
			}
		}
		if err := setField(fields.Field(arg.fieldIndex), typed); err != nil {
			return nil, fmt.Errorf("%s: value for %s: %w", prog, arg.NamesString(), err)
		}
	}

	if c.Sub != nil {
		if parsed.Sub == nil {
			if c.Sub.Required {
				return nil, &Exit{
					Message: fmt.Sprintf("the following arguments are required: {%s}",
						strings.Join(c.Sub.Names, ",")),
					Code: 2,
					Prog: prog,
				}
			}
		} else {
			chosen := parsed.Sub.Command
			subInstance, err := chosen.MapResult(prog+" "+parsed.Sub.Name, parsed.Sub.Parsed, defaults)
			if err != nil {
				return nil, err
			}
			if c.Sub.FieldName != "" {
				if err := setField(fields.Field(c.Sub.fieldIndex), subInstance); err != nil {
					return nil, fmt.Errorf("%s: subcommand %s: %w", prog, parsed.Sub.Name, err)
				}
			}
		}
	}

	return instance.Interface(), nil
}

// Deepest walks the selected subcommand chain and returns the most
// deeply chosen command together with its parsed instance — the pair
// the invoke step operates on. For method dispatch the instance stays
// with the parent, since methods have no struct of their own.
func Deepest(cmd *Command, instance any, parsed *Parsed) (*Command, any) {
	for parsed.Sub != nil && cmd.Sub != nil {
		chosen := parsed.Sub.Command
		if cmd.Sub.FieldName != "" {
			holder := reflect.ValueOf(instance).Elem()
			instance = holder.Field(cmd.Sub.fieldIndex).Interface()
		}
		cmd = chosen
		parsed = parsed.Sub.Parsed
	}
	return cmd, instance
}

// lookupEnv returns the first set environment variable among the
// argument's env sources. A variable set to the empty string counts
// as supplied.
func lookupEnv(arg *Arg) (string, bool) {
	for _, name := range arg.EnvVars {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
	}
	return "", false
}

// splitIfSequence turns a comma-separated environment value into
// tokens for sequence-shaped arguments; scalar arguments take the
// value verbatim.
func splitIfSequence(arg *Arg, env string) any {
	if arg.Action == ActionAppend || arg.NumArgs == -1 || arg.NumArgs > 1 {
		return strings.Split(env, ",")
	}
	return env
}

// coerceRaw converts a defaults-file value (decoded YAML) into the
// raw token shape the argument's parser accepts.
func coerceRaw(arg *Arg, v any) any {
	switch typed := v.(type) {
	case bool:
		return typed
	case string:
		return splitIfSequence(arg, typed)
	case []any:
		tokens := make([]string, len(typed))
		for i, item := range typed {
			tokens[i] = fmt.Sprint(item)
		}
		return tokens
	default:
		return fmt.Sprint(v)
	}
}

// setField assigns a typed value into a struct field, converting
// named types as needed.
func setField(field reflect.Value, v any) error {
	if v == nil {
		return nil
	}
	val := reflect.ValueOf(v)
	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case val.Type().ConvertibleTo(field.Type()):
		field.Set(val.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %s to field of type %s", val.Type(), field.Type())
	}
	return nil
}
