// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// cappa-demo is a worked example of a struct-derived CLI: a small
// pet-shelter tool with flag inference, choice validation, counted
// verbosity, and Run-method subcommands.
//
// Usage:
//
//	cappa-demo adopt <name> --species cat
//	cappa-demo feed --portion 2 whiskers mittens
//	cappa-demo --form
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/akgerber/cappa"
	"github.com/akgerber/cappa/lib/command"
	"github.com/akgerber/cappa/lib/form"
)

// Adopt registers a new animal.
type Adopt struct {
	Name    string `desc:"name for the new arrival"`
	Species string `arg:"long" choices:"cat,dog,rabbit" default:"cat" desc:"kind of animal"`
	Chipped bool   `arg:"long" desc:"already microchipped"`
}

// Run handles "cappa-demo adopt".
func (a *Adopt) Run(logger *slog.Logger) {
	logger.Info("adopted", "name", a.Name, "species", a.Species, "chipped", a.Chipped)
	fmt.Printf("welcome, %s the %s\n", a.Name, a.Species)
}

// Feed records a feeding round.
type Feed struct {
	Names   []string `desc:"animals to feed"`
	Portion int      `arg:"short,long" default:"1" desc:"scoops per animal"`
}

// Run handles "cappa-demo feed".
func (f *Feed) Run(logger *slog.Logger) {
	logger.Info("fed", "count", len(f.Names), "portion", f.Portion)
	fmt.Printf("fed %s (%d scoops each)\n", strings.Join(f.Names, ", "), f.Portion)
}

type shelterCmd interface{ isShelterCmd() }

func (Adopt) isShelterCmd() {}
func (Feed) isShelterCmd()  {}

// Shelter is the root command.
type Shelter struct {
	Verbose int        `arg:"short,count" desc:"increase log detail (-vv for debug)"`
	Form    bool       `arg:"long,optional" desc:"fill the command in interactively"`
	Cmd     shelterCmd `arg:"subcommand,optional"`
}

func main() {
	options := []cappa.Option{
		cappa.Name("cappa-demo"),
		cappa.Help("look after the animals"),
		cappa.Version("1.0.0"),
		cappa.Variants(Adopt{}, Feed{}),
		cappa.Example("register a chipped cat", "cappa-demo adopt whiskers --species cat --chipped"),
		cappa.Example("evening feeding round", "cappa-demo feed --portion 2 whiskers mittens"),
		cappa.Handler(run),
	}

	// --form swaps the argv front-end for the interactive one: the
	// form composes a command line, which then parses as usual.
	if len(os.Args) > 1 && os.Args[1] == "--form" {
		runForm(options)
		return
	}

	cappa.Main[Shelter](options...)
}

// run handles a bare "cappa-demo" with no subcommand; chosen
// subcommands dispatch straight to their own Run methods.
func run(s *Shelter, logger *slog.Logger) error {
	logger.Debug("no subcommand given", "verbosity", s.Verbose)
	fmt.Println("the shelter is quiet — try 'cappa-demo --help'")
	return nil
}

// runForm collects the schema, lets the user fill it interactively,
// and re-enters the normal pipeline with the composed tokens.
func runForm(options []cappa.Option) {
	output := command.NewOutput()

	cmd, err := cappa.Collect[Shelter](options...)
	if err != nil {
		os.Exit(output.Report(err))
	}
	argv, accepted, err := form.Run(cmd, "cappa-demo")
	if err != nil {
		os.Exit(output.Report(err))
	}
	if !accepted {
		os.Exit(130)
	}

	fmt.Printf("$ cappa-demo %s\n", strings.Join(argv, " "))
	cappa.Main[Shelter](append(options, cappa.Args(argv...))...)
}
