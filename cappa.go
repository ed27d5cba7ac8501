// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package cappa derives command-line interfaces from annotated
// structs. A struct type describes the schema: fields become flags
// and positionals, tags refine their shape, interface fields tagged
// arg:"subcommand" dispatch across variants. [Parse] populates an
// instance from argv; [Invoke] additionally calls the selected
// command's handler with dependency injection; [OpenForm] presents
// the schema as an interactive terminal form.
package cappa

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akgerber/cappa/lib/backend"
	"github.com/akgerber/cappa/lib/command"
	"github.com/akgerber/cappa/lib/completion"
	"github.com/akgerber/cappa/lib/form"
	"github.com/akgerber/cappa/lib/help"
)

// config accumulates the per-call options.
type config struct {
	spec         command.Spec
	prog         string
	argv         []string
	argvSet      bool
	defaultsPath string
	deps         []any
	output       *command.Output
}

// Option customizes collection and parsing.
type Option func(*config)

// Name overrides the command name (default: the dash-cased struct
// type name).
func Name(name string) Option {
	return func(c *config) { c.spec.Name = name }
}

// Help sets the one-line command summary.
func Help(text string) Option {
	return func(c *config) { c.spec.Help = text }
}

// Description sets the extended help body, rendered as markdown.
func Description(text string) Option {
	return func(c *config) { c.spec.Description = text }
}

// Version enables the --version flag.
func Version(version string) Option {
	return func(c *config) { c.spec.Version = version }
}

// Example adds a worked invocation to the help output.
func Example(description, commandLine string) Option {
	return func(c *config) {
		c.spec.Examples = append(c.spec.Examples, command.Example{
			Description: description,
			Command:     commandLine,
		})
	}
}

// Variants registers the concrete types assignable to the struct's
// subcommand interface field.
func Variants(variants ...any) Option {
	return func(c *config) { c.spec.Variants = append(c.spec.Variants, variants...) }
}

// MethodSubcommands exposes the struct's exported methods as leaf
// subcommands.
func MethodSubcommands() Option {
	return func(c *config) { c.spec.Methods = true }
}

// Handler sets the function [Invoke] calls after parsing.
func Handler(handler any) Option {
	return func(c *config) { c.spec.Invoke = handler }
}

// ShortFlags gives every argument an inferred single-letter flag.
func ShortFlags() Option {
	return func(c *config) { c.spec.DefaultShort = true }
}

// LongFlags gives every argument an inferred long flag.
func LongFlags() Option {
	return func(c *config) { c.spec.DefaultLong = true }
}

// Prog overrides the program name shown in usage and error text
// (default: the command name).
func Prog(name string) Option {
	return func(c *config) { c.prog = name }
}

// Args overrides the tokens to parse (default: os.Args[1:]).
func Args(argv ...string) Option {
	return func(c *config) {
		c.argv = argv
		c.argvSet = true
	}
}

// DefaultsFile names a YAML file consulted between environment
// variables and tag defaults. A missing file is not an error.
func DefaultsFile(path string) Option {
	return func(c *config) { c.defaultsPath = path }
}

// Dep registers a dependency value or provider function for handler
// injection; see [command.DepSet].
func Dep(dep any) Option {
	return func(c *config) { c.deps = append(c.deps, dep) }
}

// Output overrides the writer pair used for help, version, and error
// text.
func Output(output *command.Output) Option {
	return func(c *config) { c.output = output }
}

func newConfig(options []Option) *config {
	cfg := &config{}
	for _, option := range options {
		option(cfg)
	}
	if cfg.output == nil {
		cfg.output = command.NewOutput()
	}
	return cfg
}

func (c *config) progName(cmd *command.Command) string {
	if c.prog != "" {
		return c.prog
	}
	if len(os.Args) > 0 && !c.argvSet {
		return filepath.Base(os.Args[0])
	}
	return cmd.Name
}

// depSet builds the dependency registry for an invocation. The
// ambient dependencies every handler may ask for — a context, the
// output pair, a structured logger — register first, so explicit
// [Dep] registrations of the same type override them.
func (c *config) depSet() (*command.DepSet, error) {
	deps := command.NewDepSet()
	if err := deps.Provide(context.Background()); err != nil {
		return nil, err
	}
	if err := deps.Provide(c.output); err != nil {
		return nil, err
	}
	if err := deps.Provide(command.NewLogger()); err != nil {
		return nil, err
	}
	for _, dep := range c.deps {
		if err := deps.Provide(dep); err != nil {
			return nil, err
		}
	}
	return deps, nil
}

func (c *config) args() []string {
	if c.argvSet {
		return c.argv
	}
	if len(os.Args) > 1 {
		return os.Args[1:]
	}
	return nil
}

// Collect derives the command schema for a struct type without
// parsing anything. Useful for schema export and custom front-ends.
func Collect[T any](options ...Option) (*command.Command, error) {
	cfg := newConfig(options)
	var prototype T
	cmd, err := command.Collect(prototype, cfg.spec)
	if err != nil {
		return nil, err
	}
	return cmd.WithMetaActions(), nil
}

// Parse populates a T from the command line. Meta flags (--help,
// --version, --completion) and parse failures surface as
// [command.Exit]; pass the error to [command.Output.Report] (or use
// [Main]) for conventional printing and status codes.
func Parse[T any](options ...Option) (*T, error) {
	cfg := newConfig(options)
	_, _, instance, err := parse[T](cfg)
	if err != nil {
		return nil, err
	}
	return instance, nil
}

// Invoke parses the command line and calls the selected command's
// handler: the Invoke function given at collection, or the deepest
// chosen subcommand's Run method. Handler parameters resolve from
// the parsed instance and registered [Dep] values.
func Invoke[T any](options ...Option) (any, error) {
	cfg := newConfig(options)
	cmd, parsed, instance, err := parse[T](cfg)
	if err != nil {
		return nil, err
	}

	deepest, target := command.Deepest(cmd, instance, parsed)

	deps, err := cfg.depSet()
	if err != nil {
		return nil, err
	}
	return command.Invoke(deepest, target, deps)
}

// Main is the top-level entry point: Invoke plus error reporting and
// process exit. It only returns on success.
func Main[T any](options ...Option) {
	cfg := newConfig(options)
	cmd, parsed, instance, err := parse[T](cfg)
	if err == nil {
		var deps *command.DepSet
		deps, err = cfg.depSet()
		if err == nil {
			deepest, target := command.Deepest(cmd, instance, parsed)
			_, err = command.Invoke(deepest, target, deps)
		}
	}
	if err != nil {
		os.Exit(cfg.output.Report(err))
	}
}

// OpenForm presents the command schema as an interactive terminal
// form and, once accepted, parses the composed command line. A
// cancelled form surfaces as a silent [command.Exit] with status 130.
func OpenForm[T any](options ...Option) (*T, error) {
	cfg := newConfig(options)
	var prototype T
	cmd, err := command.Collect(prototype, cfg.spec)
	if err != nil {
		return nil, err
	}
	prog := cfg.progName(cmd)

	argv, accepted, err := form.Run(cmd, prog)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, &command.Exit{Code: 130, Prog: prog}
	}

	cfg.argv = argv
	cfg.argvSet = true
	_, _, instance, err := parseCommand(cmd, cfg)
	if err != nil {
		return nil, err
	}
	typed, ok := instance.(*T)
	if !ok {
		return nil, fmt.Errorf("mapped %T, expected %T", instance, typed)
	}
	return typed, nil
}

// ParseCommand parses against a pre-collected schema, returning the
// populated instance (a pointer to the schema's struct type) and the
// raw parse tree. Front-ends that collect once and parse many times,
// or compose a schema by hand, enter here; [Parse] is the typed
// convenience over it.
func ParseCommand(cmd *command.Command, options ...Option) (any, *command.Parsed, error) {
	cfg := newConfig(options)
	_, parsed, instance, err := parseCommand(cmd, cfg)
	return instance, parsed, err
}

// parse collects the schema for T and runs the shared pipeline.
func parse[T any](cfg *config) (*command.Command, *command.Parsed, *T, error) {
	var prototype T
	cmd, err := command.Collect(prototype, cfg.spec)
	if err != nil {
		return nil, nil, nil, err
	}
	effective, parsed, instance, err := parseCommand(cmd, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	typed, ok := instance.(*T)
	if !ok {
		return nil, nil, nil, fmt.Errorf("mapped %T, expected %T", instance, typed)
	}
	return effective, parsed, typed, nil
}

// parseCommand is the shared pipeline: install meta actions, run the
// token backend, handle meta short-circuits, and map the raw values
// into a typed instance. Returns the meta-equipped command so
// invocation walks the same tree the backend parsed.
func parseCommand(cmd *command.Command, cfg *config) (*command.Command, *command.Parsed, any, error) {
	cmd = cmd.WithMetaActions()
	prog := cfg.progName(cmd)

	result, err := backend.Parse(cmd, prog, cfg.args())
	if err != nil {
		return nil, nil, nil, err
	}
	if result.Meta != nil {
		return nil, nil, nil, metaExit(cmd, result.Meta, cfg)
	}

	defaults, err := command.LoadDefaults(cfg.defaultsPath)
	if err != nil {
		return nil, nil, nil, err
	}

	instance, err := cmd.MapResult(prog, result.Parsed, defaults)
	if err != nil {
		return nil, nil, nil, err
	}
	return cmd, result.Parsed, instance, nil
}

// metaExit renders the requested meta action (help, version, or a
// completion script) into a zero-status Exit for the caller to print.
func metaExit(root *command.Command, meta *backend.Meta, cfg *config) error {
	var text strings.Builder
	switch meta.Action {
	case command.ActionHelp:
		help.Format(&text, meta.Command, meta.Prog, help.Options{Color: cfg.output.Color})
	case command.ActionVersion:
		text.WriteString(help.Version(meta.Command, meta.Prog))
	case command.ActionCompletion:
		script, err := completion.Script(root, meta.Prog, meta.Shell)
		if err != nil {
			return &command.Exit{Message: err.Error(), Code: 2, Prog: meta.Prog}
		}
		text.WriteString(script)
	}
	return &command.Exit{
		Message: strings.TrimRight(text.String(), "\n"),
		Code:    0,
		Prog:    meta.Prog,
	}
}
