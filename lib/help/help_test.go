// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"strings"
	"testing"

	"github.com/akgerber/cappa/lib/command"
)

type convertCmd struct {
	Input  string   `desc:"file to convert"`
	Output string   `arg:"short=o,long" desc:"destination path" default:"out.txt"`
	Format string   `arg:"long" choices:"json,yaml" desc:"output format" default:"json"`
	Tags   []string `arg:"long" desc:"tags to attach"`
	Debug  bool     `arg:"long,hidden"`
}

func convertCommand(t *testing.T) *command.Command {
	t.Helper()
	cmd, err := command.Collect(convertCmd{}, command.Spec{
		Help: "Convert files between formats.",
		Examples: []command.Example{
			{Description: "Convert to yaml", Command: "convert-cmd in.json --format yaml"},
		},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return cmd
}

func TestFormatSections(t *testing.T) {
	var out strings.Builder
	Format(&out, convertCommand(t), "convert-cmd", Options{})
	rendered := out.String()

	for _, want := range []string{
		"Convert files between formats.",
		"Usage:\n  convert-cmd [flags] <input>",
		"Options:",
		"Arguments:",
		"-o, --output",
		"destination path",
		"(default: out.txt)",
		"(one of: json, yaml)",
		"Examples:",
		"# Convert to yaml",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("help output missing %q:\n%s", want, rendered)
		}
	}

	if strings.Contains(rendered, "--debug") {
		t.Error("hidden arguments must not appear in help output")
	}
}

func TestFormatGroupOrder(t *testing.T) {
	var out strings.Builder
	Format(&out, convertCommand(t), "convert-cmd", Options{})
	rendered := out.String()

	options := strings.Index(rendered, "Options:")
	arguments := strings.Index(rendered, "Arguments:")
	if options < 0 || arguments < 0 || options > arguments {
		t.Errorf("Options (at %d) should precede Arguments (at %d)", options, arguments)
	}
}

type listSub struct{}
type addSub struct{}

type anyCmd interface{ isCmd() }

func (listSub) isCmd() {}
func (addSub) isCmd()  {}

type parentCmd struct {
	Sub anyCmd `arg:"subcommand"`
}

func TestFormatSubcommands(t *testing.T) {
	cmd, err := command.Collect(parentCmd{}, command.Spec{
		Variants: []any{
			listSub{},
			addSub{},
		},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var out strings.Builder
	Format(&out, cmd, "parent", Options{})
	rendered := out.String()

	if !strings.Contains(rendered, "Commands:") {
		t.Fatalf("missing Commands section:\n%s", rendered)
	}
	if !strings.Contains(rendered, "list-sub") || !strings.Contains(rendered, "add-sub") {
		t.Errorf("missing subcommand names:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Run 'parent <command> --help'") {
		t.Errorf("missing footer hint:\n%s", rendered)
	}
	if !strings.Contains(rendered, "parent <command>") {
		t.Errorf("usage should mention the command slot:\n%s", rendered)
	}
}

func TestUsageOptionalMarkers(t *testing.T) {
	type example struct {
		Source string
		Level  string `default:"info"`
	}
	cmd, err := command.Collect(example{}, command.Spec{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got, want := Usage(cmd, "example"), "example <source> [level]"; got != want {
		t.Errorf("Usage = %q, want %q", got, want)
	}
}

func TestVersion(t *testing.T) {
	cmd, err := command.Collect(struct{}{}, command.Spec{Name: "tool", Version: "1.4.0"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got, want := Version(cmd, "tool"), "tool 1.4.0"; got != want {
		t.Errorf("Version = %q, want %q", got, want)
	}
}

func TestRenderMarkdownReflowsParagraphs(t *testing.T) {
	input := "A line\nthat was\nhard wrapped."
	got := renderMarkdown(input, 80, false)
	if !strings.Contains(got, "A line that was hard wrapped.") {
		t.Errorf("soft breaks should become spaces, got:\n%s", got)
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	input := "Items:\n\n- first\n- second\n\n1. one\n2. two"
	got := renderMarkdown(input, 80, false)
	for _, want := range []string{"- first", "- second", "1. one", "2. two"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderMarkdownCodeBlock(t *testing.T) {
	input := "Run:\n\n```\nexample --format json\n```"
	got := renderMarkdown(input, 80, false)
	if !strings.Contains(got, "  example --format json") {
		t.Errorf("code block should be indented verbatim, got:\n%s", got)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := renderMarkdown("", 80, false); got != "" {
		t.Errorf("renderMarkdown(\"\") = %q, want empty", got)
	}
}
