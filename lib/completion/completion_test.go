// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package completion

import (
	"strings"
	"testing"

	"github.com/akgerber/cappa/lib/command"
)

type deploySub struct {
	Target string `arg:"long"`
}

type statusSub struct{}

type vcsCmd interface{ isVcs() }

func (deploySub) isVcs() {}
func (statusSub) isVcs() {}

type vcsRoot struct {
	Verbose bool   `arg:"short,long"`
	Sub     vcsCmd `arg:"subcommand"`
}

func vcsCommand(t *testing.T) *command.Command {
	t.Helper()
	cmd, err := command.Collect(vcsRoot{}, command.Spec{
		Name:     "vcs",
		Variants: []any{deploySub{}, statusSub{}},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return cmd
}

func TestBashScript(t *testing.T) {
	script, err := Script(vcsCommand(t), "vcs", "bash")
	if err != nil {
		t.Fatalf("Script: %v", err)
	}

	for _, want := range []string{
		"_vcs_completions()",
		"complete -F _vcs_completions vcs",
		"deploy-sub status-sub",
		"--verbose",
		`"deploy-sub"*`,
		"--target",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("bash script missing %q:\n%s", want, script)
		}
	}
}

func TestBashScriptSpecificPathsFirst(t *testing.T) {
	script, err := Script(vcsCommand(t), "vcs", "bash")
	if err != nil {
		t.Fatalf("Script: %v", err)
	}
	deploy := strings.Index(script, `"deploy-sub"*`)
	root := strings.Index(script, "*)")
	if deploy < 0 || root < 0 || deploy > root {
		t.Errorf("subcommand case (at %d) should precede the root catch-all (at %d)", deploy, root)
	}
}

func TestZshScript(t *testing.T) {
	script, err := Script(vcsCommand(t), "vcs", "zsh")
	if err != nil {
		t.Fatalf("Script: %v", err)
	}

	for _, want := range []string{
		"#compdef vcs",
		"compdef _vcs vcs",
		"candidates=(deploy-sub status-sub",
		"--verbose",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("zsh script missing %q:\n%s", want, script)
		}
	}
}

func TestScriptDashedProgName(t *testing.T) {
	script, err := Script(vcsCommand(t), "my-tool", "bash")
	if err != nil {
		t.Fatalf("Script: %v", err)
	}
	if !strings.Contains(script, "_my_tool_completions") {
		t.Errorf("function name should sanitize dashes:\n%s", script)
	}
}

func TestScriptUnsupportedShell(t *testing.T) {
	if _, err := Script(vcsCommand(t), "vcs", "fish"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
