// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/akgerber/cappa/lib/command"
)

func collect(t *testing.T, prototype any, spec command.Spec) *command.Command {
	t.Helper()
	cmd, err := command.Collect(prototype, spec)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return cmd
}

func TestParseFlagsAndPositionals(t *testing.T) {
	type example struct {
		URL     string
		Output  string   `arg:"short=o,long"`
		Headers []string `arg:"short=H,long=header"`
		Verbose bool     `arg:"short"`
	}
	cmd := collect(t, example{}, command.Spec{})

	result, err := Parse(cmd, "fetch",
		[]string{"-o", "out.txt", "--header", "A: 1", "-H", "B: 2", "-v", "http://x"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	values := result.Parsed.Values
	if values["URL"] != "http://x" {
		t.Errorf("URL = %v, want http://x", values["URL"])
	}
	if values["Output"] != "out.txt" {
		t.Errorf("Output = %v, want out.txt", values["Output"])
	}
	if want := []string{"A: 1", "B: 2"}; !reflect.DeepEqual(values["Headers"], want) {
		t.Errorf("Headers = %v, want %v", values["Headers"], want)
	}
	if values["Verbose"] != true {
		t.Errorf("Verbose = %v, want true", values["Verbose"])
	}
}

func TestParseOmittedFlagsAbsent(t *testing.T) {
	type example struct {
		Output string `arg:"long" default:"a.txt"`
	}
	cmd := collect(t, example{}, command.Spec{})

	result, err := Parse(cmd, "example", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := result.Parsed.Values["Output"]; ok {
		t.Error("omitted flag should not produce a value; defaults apply during mapping")
	}
}

func TestParseCountedFlag(t *testing.T) {
	type example struct {
		Verbosity int `arg:"short=v,count"`
	}
	cmd := collect(t, example{}, command.Spec{})

	result, err := Parse(cmd, "example", []string{"-vvv"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.Parsed.Values["Verbosity"]; got != 3 {
		t.Errorf("Verbosity = %v, want 3", got)
	}
}

func TestParseStoreFalse(t *testing.T) {
	type example struct {
		Color bool `default:"true"`
	}
	cmd := collect(t, example{}, command.Spec{})

	result, err := Parse(cmd, "example", []string{"--color"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := result.Parsed.Values["Color"]; got != false {
		t.Errorf("Color = %v, want false (true default flips the flag)", got)
	}
}

func TestParsePositionalDistribution(t *testing.T) {
	type example struct {
		Source string
		Window [2]string
		Rest   []string
	}
	cmd := collect(t, example{}, command.Spec{})

	result, err := Parse(cmd, "example", []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	values := result.Parsed.Values
	if values["Source"] != "a" {
		t.Errorf("Source = %v, want a", values["Source"])
	}
	if want := []string{"b", "c"}; !reflect.DeepEqual(values["Window"], want) {
		t.Errorf("Window = %v, want %v", values["Window"], want)
	}
	if want := []string{"d", "e"}; !reflect.DeepEqual(values["Rest"], want) {
		t.Errorf("Rest = %v, want %v", values["Rest"], want)
	}
}

func TestParseUnknownFlagSuggests(t *testing.T) {
	type example struct {
		Verbose bool
	}
	cmd := collect(t, example{}, command.Spec{})

	_, err := Parse(cmd, "example", []string{"--verbos"})
	var exit *command.Exit
	if !errors.As(err, &exit) {
		t.Fatalf("expected Exit, got %v", err)
	}
	if exit.Code != 2 {
		t.Errorf("Code = %d, want 2", exit.Code)
	}
	if !strings.Contains(exit.Message, "did you mean --verbose?") {
		t.Errorf("Message = %q, want a suggestion", exit.Message)
	}
}

func TestParseUnrecognizedTrailing(t *testing.T) {
	type example struct {
		Path string
	}
	cmd := collect(t, example{}, command.Spec{})

	_, err := Parse(cmd, "example", []string{"a", "b"})
	var exit *command.Exit
	if !errors.As(err, &exit) {
		t.Fatalf("expected Exit, got %v", err)
	}
	if want := "unrecognized arguments: b"; exit.Message != want {
		t.Errorf("Message = %q, want %q", exit.Message, want)
	}
}

type pushCmd struct {
	Remote string `arg:"long" default:"origin"`
}

type pullCmd struct {
	Rebase bool `arg:"long"`
}

type gitLike interface{ isGitCmd() }

func (pushCmd) isGitCmd() {}
func (pullCmd) isGitCmd() {}

type gitRoot struct {
	Verbose bool    `arg:"short"`
	Sub     gitLike `arg:"subcommand"`
}

func gitCommand(t *testing.T) *command.Command {
	t.Helper()
	return collect(t, gitRoot{}, command.Spec{
		Version:  "2.0.0",
		Variants: []any{pushCmd{}, pullCmd{}},
	}).WithMetaActions()
}

func TestParseSubcommandDispatch(t *testing.T) {
	cmd := gitCommand(t)

	result, err := Parse(cmd, "git", []string{"-v", "push-cmd", "--remote", "upstream"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	parsed := result.Parsed
	if parsed.Values["Verbose"] != true {
		t.Error("parent flag before the subcommand should parse")
	}
	if parsed.Sub == nil || parsed.Sub.Name != "push-cmd" {
		t.Fatalf("Sub = %+v, want push-cmd", parsed.Sub)
	}
	if got := parsed.Sub.Parsed.Values["Remote"]; got != "upstream" {
		t.Errorf("Remote = %v, want upstream", got)
	}
}

func TestParseUnknownSubcommandSuggests(t *testing.T) {
	cmd := gitCommand(t)

	_, err := Parse(cmd, "git", []string{"push-cmx"})
	var exit *command.Exit
	if !errors.As(err, &exit) {
		t.Fatalf("expected Exit, got %v", err)
	}
	if !strings.Contains(exit.Message, `did you mean "push-cmd"?`) {
		t.Errorf("Message = %q, want a suggestion", exit.Message)
	}
}

func TestParseHelpShortCircuits(t *testing.T) {
	cmd := gitCommand(t)

	result, err := Parse(cmd, "git", []string{"--help"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Meta == nil || result.Meta.Action != command.ActionHelp {
		t.Fatalf("Meta = %+v, want help", result.Meta)
	}
	if result.Meta.Command != cmd {
		t.Error("help should target the root command")
	}
}

func TestParseSubcommandHelp(t *testing.T) {
	cmd := gitCommand(t)

	result, err := Parse(cmd, "git", []string{"pull-cmd", "--help"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Meta == nil || result.Meta.Action != command.ActionHelp {
		t.Fatalf("Meta = %+v, want help", result.Meta)
	}
	if result.Meta.Prog != "git pull-cmd" {
		t.Errorf("Prog = %q, want %q", result.Meta.Prog, "git pull-cmd")
	}
	if result.Meta.Command.Name != "pull-cmd" {
		t.Errorf("help targets %q, want pull-cmd", result.Meta.Command.Name)
	}
}

type stashOp interface{ isStashOp() }

type stashPush struct {
	Keep bool `arg:"long"`
}

type stashPop struct {
	Index int `arg:"long" default:"0"`
}

func (stashPush) isStashOp() {}
func (stashPop) isStashOp()  {}

// stashGroup is a mid-level command: a variant of the root that
// dispatches further down.
type stashGroup struct {
	Op stashOp `arg:"subcommand"`
}

func (stashGroup) isGitCmd() {}

func TestParseNestedSubcommandHelp(t *testing.T) {
	group := collect(t, stashGroup{}, command.Spec{
		Variants: []any{stashPush{}, stashPop{}},
	})
	cmd := collect(t, gitRoot{}, command.Spec{
		Variants: []any{pushCmd{}, group},
	}).WithMetaActions()

	// --help two levels down resolves to the leaf, not a parse error.
	result, err := Parse(cmd, "git", []string{"stash-group", "stash-push", "--help"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Meta == nil || result.Meta.Action != command.ActionHelp {
		t.Fatalf("Meta = %+v, want help", result.Meta)
	}
	if result.Meta.Prog != "git stash-group stash-push" {
		t.Errorf("Prog = %q, want %q", result.Meta.Prog, "git stash-group stash-push")
	}
	if result.Meta.Command.Name != "stash-push" {
		t.Errorf("help targets %q, want stash-push", result.Meta.Command.Name)
	}

	// The mid level carries its own help too.
	result, err = Parse(cmd, "git", []string{"stash-group", "--help"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Meta == nil || result.Meta.Command.Name != "stash-group" {
		t.Fatalf("Meta = %+v, want stash-group help", result.Meta)
	}
}

func TestParseVersion(t *testing.T) {
	cmd := gitCommand(t)

	result, err := Parse(cmd, "git", []string{"--version"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Meta == nil || result.Meta.Action != command.ActionVersion {
		t.Fatalf("Meta = %+v, want version", result.Meta)
	}
}

func TestParseCompletion(t *testing.T) {
	cmd := gitCommand(t)

	result, err := Parse(cmd, "git", []string{"--completion", "zsh"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.Meta == nil || result.Meta.Action != command.ActionCompletion {
		t.Fatalf("Meta = %+v, want completion", result.Meta)
	}
	if result.Meta.Shell != "zsh" {
		t.Errorf("Shell = %q, want zsh", result.Meta.Shell)
	}
}

func TestSuggestName(t *testing.T) {
	cases := []struct {
		unknown string
		want    string
	}{
		{"psuh", "push"},
		{"pull", "pull"},
		{"status", ""},
	}
	candidates := []string{"push", "pull"}
	for _, c := range cases {
		if got := suggestName(c.unknown, candidates); got != c.want {
			t.Errorf("suggestName(%q) = %q, want %q", c.unknown, got, c.want)
		}
	}
}
