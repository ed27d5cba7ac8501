// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akgerber/cappa/lib/command"
)

type buildOptions struct {
	Output   string   `arg:"short,long" desc:"output file" default:"a.out"`
	Optimize string   `arg:"long" choices:"none,speed,size" default:"none"`
	Verbose  bool     `arg:"short,long" desc:"verbose output"`
	Tags     []string `arg:"long" desc:"build tags"`
	Source   string   `desc:"main source file"`
}

func buildCommand(t *testing.T) *command.Command {
	t.Helper()
	cmd, err := command.Collect(buildOptions{}, command.Spec{Name: "compile"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	return cmd
}

type serveSub struct {
	Port int `arg:"long" default:"8080"`
}

type migrateSub struct {
	DryRun bool `arg:"long"`
}

type appCmd interface{ isAppCmd() }

func (serveSub) isAppCmd()   {}
func (migrateSub) isAppCmd() {}

type appRoot struct {
	Config string `arg:"long" default:"app.yaml"`
	Action appCmd `arg:"subcommand"`
}

func appCommand(t *testing.T) *command.Command {
	t.Helper()
	cmd, err := command.Collect(appRoot{}, command.Spec{
		Name:     "app",
		Variants: []any{serveSub{}, migrateSub{}},
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	return cmd
}

func press(t *testing.T, model tea.Model, messages ...tea.Msg) Model {
	t.Helper()
	for _, message := range messages {
		model, _ = model.Update(message)
	}
	return model.(Model)
}

func runes(text string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func keyOf(keyType tea.KeyType) tea.Msg {
	return tea.KeyMsg{Type: keyType}
}

func TestPreviewStartsEmpty(t *testing.T) {
	model := New(buildCommand(t), "compile")
	if got := model.CommandLine(); got != "compile" {
		t.Fatalf("empty form preview = %q, want %q", got, "compile")
	}
}

func TestEditTextFieldUpdatesPreview(t *testing.T) {
	model := New(buildCommand(t), "compile")

	// Open the editor on the first field (--output), type a value,
	// commit with enter.
	updated := press(t, model, keyOf(tea.KeyEnter), runes("main.bin"), keyOf(tea.KeyEnter))

	if updated.focusRegion != FocusFields {
		t.Fatalf("focus after commit = %v, want FocusFields", updated.focusRegion)
	}
	want := "compile --output main.bin"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}
}

func TestToggleFlag(t *testing.T) {
	model := New(buildCommand(t), "compile")

	// Move down to --verbose (output, optimize, verbose) and toggle.
	updated := press(t, model, runes("j"), runes("j"), keyOf(tea.KeySpace))

	want := "compile --verbose"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}

	// Toggling again switches it back off.
	updated = press(t, updated, keyOf(tea.KeySpace))
	if got := updated.CommandLine(); got != "compile" {
		t.Fatalf("preview after second toggle = %q, want %q", got, "compile")
	}
}

func TestChoiceDropdownSelection(t *testing.T) {
	model := New(buildCommand(t), "compile")

	// Move to --optimize and open the dropdown.
	updated := press(t, model, runes("j"), keyOf(tea.KeyEnter))
	if updated.focusRegion != FocusDropdown {
		t.Fatalf("focus = %v, want FocusDropdown", updated.focusRegion)
	}

	// Move past "none" and "speed" to "size", select.
	updated = press(t, updated, keyOf(tea.KeyDown), keyOf(tea.KeyDown), keyOf(tea.KeyEnter))

	want := "compile --optimize size"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}
}

func TestListFieldAccumulatesValues(t *testing.T) {
	model := New(buildCommand(t), "compile")

	// Move to --tags and enter two values.
	updated := press(t, model,
		runes("j"), runes("j"), runes("j"),
		keyOf(tea.KeyEnter), runes("linux"), keyOf(tea.KeyEnter),
		keyOf(tea.KeyEnter), runes("arm64"), keyOf(tea.KeyEnter),
	)

	want := "compile --tags linux --tags arm64"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}

	// Backspace drops the most recent value.
	updated = press(t, updated, keyOf(tea.KeyBackspace))
	want = "compile --tags linux"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview after backspace = %q, want %q", got, want)
	}
}

func TestPositionalAppearsAfterFlags(t *testing.T) {
	model := New(buildCommand(t), "compile")

	updated := press(t, model,
		runes("j"), runes("j"), keyOf(tea.KeySpace), // toggle --verbose
		runes("j"), runes("j"), // down to the source positional
		keyOf(tea.KeyEnter), runes("main.c"), keyOf(tea.KeyEnter),
	)

	want := "compile --verbose main.c"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}
}

func TestShellQuotingInPreview(t *testing.T) {
	model := New(buildCommand(t), "compile")

	updated := press(t, model,
		keyOf(tea.KeyEnter), runes("my output.bin"), keyOf(tea.KeyEnter))

	want := "compile --output 'my output.bin'"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}
}

func TestSubcommandPathSelection(t *testing.T) {
	model := New(appCommand(t), "app")

	if len(model.paths) != 2 {
		t.Fatalf("paths = %d, want 2 (serve-sub, migrate-sub)", len(model.paths))
	}

	// Switch to the tree, move to the second path, return to fields,
	// and toggle --dry-run.
	updated := press(t, model,
		keyOf(tea.KeyTab), runes("j"), keyOf(tea.KeyTab),
		runes("j"), keyOf(tea.KeySpace),
	)

	want := "app migrate-sub --dry-run"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}
}

func TestPathStateSurvivesSwitching(t *testing.T) {
	model := New(appCommand(t), "app")

	// Fill --port on the first path.
	updated := press(t, model,
		runes("j"), keyOf(tea.KeyEnter), runes("9090"), keyOf(tea.KeyEnter))

	want := "app serve-sub --port 9090"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}

	// Switch away and back; the value persists.
	updated = press(t, updated,
		keyOf(tea.KeyTab), runes("j"), runes("k"), keyOf(tea.KeyTab))
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview after path round-trip = %q, want %q", got, want)
	}
}

func TestFilterNarrowsFields(t *testing.T) {
	model := New(buildCommand(t), "compile")

	updated := press(t, model, runes("/"), runes("verbose"))
	if visible := updated.visibleFields(); len(visible) != 1 {
		t.Fatalf("visible fields = %d, want 1", len(visible))
	}

	// Enter keeps the filter and returns focus; space then toggles
	// the single visible field.
	updated = press(t, updated, keyOf(tea.KeyEnter), keyOf(tea.KeySpace))
	want := "compile --verbose"
	if got := updated.CommandLine(); got != want {
		t.Fatalf("preview = %q, want %q", got, want)
	}

	// Escape clears the filter.
	updated = press(t, updated, keyOf(tea.KeyEscape))
	if visible := updated.visibleFields(); len(visible) != 5 {
		t.Fatalf("visible fields after clear = %d, want 5", len(visible))
	}
}

func TestAcceptProducesArgv(t *testing.T) {
	model := New(buildCommand(t), "compile")

	updated := press(t, model,
		runes("j"), runes("j"), keyOf(tea.KeySpace),
		keyOf(tea.KeyCtrlR),
	)

	if !updated.Accepted() {
		t.Fatal("form not accepted after ctrl+r")
	}
	argv := updated.Argv()
	want := []string{"compile", "--verbose"}
	if len(argv) != len(want) || argv[0] != want[0] || argv[1] != want[1] {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
}

func TestViewShowsRequiredMarkerAndPreview(t *testing.T) {
	model := New(buildCommand(t), "compile")
	model.width = 100
	model.height = 30

	view := model.View()
	if !strings.Contains(view, "--output") {
		t.Fatalf("view missing flag name:\n%s", view)
	}
	if !strings.Contains(view, "$ compile") {
		t.Fatalf("view missing invocation preview:\n%s", view)
	}
	// Source has no default and is required: its row carries the
	// marker.
	if !strings.Contains(view, "*") {
		t.Fatalf("view missing required marker:\n%s", view)
	}
}

func TestTreeHiddenWithoutSubcommands(t *testing.T) {
	model := New(buildCommand(t), "compile")
	if model.treeWidth() != 0 {
		t.Fatalf("treeWidth = %d, want 0 for a leaf command", model.treeWidth())
	}
	if !strings.Contains(New(appCommand(t), "app").View(), "serve-sub") {
		t.Fatal("subcommand tree not rendered for a dispatching command")
	}
}
