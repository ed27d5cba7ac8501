// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/akgerber/cappa/lib/command"
)

// Options controls rendering.
type Options struct {
	// Color enables ANSI styling for markdown descriptions.
	Color bool

	// Width is the wrap width for markdown content. Zero means 80.
	Width int
}

// Format writes full help output for the command to w. prog is the
// command path as typed ("git push").
func Format(w io.Writer, cmd *command.Command, prog string, opts Options) {
	width := opts.Width
	if width == 0 {
		width = 80
	}

	if cmd.Description != "" {
		fmt.Fprintf(w, "%s\n\n", renderMarkdown(cmd.Description, width, opts.Color))
	} else if cmd.Help != "" {
		fmt.Fprintf(w, "%s\n\n", cmd.Help)
	}

	fmt.Fprintf(w, "Usage:\n  %s\n", Usage(cmd, prog))

	if cmd.Sub != nil {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, name := range cmd.Sub.Names {
			sub := cmd.Sub.Options[name]
			if sub.Hidden {
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\n", name, sub.Help)
		}
		tw.Flush()
	}

	for _, group := range argumentGroups(cmd) {
		fmt.Fprintf(w, "\n%s:\n", group.name)
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, arg := range group.args {
			fmt.Fprintf(tw, "  %s\t%s\n", argSynopsis(arg), argHelp(arg))
		}
		tw.Flush()
	}

	if len(cmd.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range cmd.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
			if example.Description != "" {
				fmt.Fprintln(w)
			}
		}
	}

	if cmd.Sub != nil {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", prog)
	}
}

// Usage synthesizes the one-line usage string: flags placeholder,
// positionals in declaration order, then the subcommand slot.
func Usage(cmd *command.Command, prog string) string {
	parts := []string{prog}

	hasFlags := false
	for _, arg := range cmd.Arguments {
		if !arg.Positional() && !arg.Hidden {
			hasFlags = true
			break
		}
	}
	if hasFlags {
		parts = append(parts, "[flags]")
	}

	for _, arg := range cmd.Arguments {
		if !arg.Positional() || arg.Hidden {
			continue
		}
		if arg.Required {
			parts = append(parts, "<"+arg.ValueName+">")
		} else {
			parts = append(parts, "["+arg.ValueName+"]")
		}
	}

	if cmd.Sub != nil {
		if cmd.Sub.Required {
			parts = append(parts, "<command>")
		} else {
			parts = append(parts, "[command]")
		}
	}
	return strings.Join(parts, " ")
}

// Version renders the --version output line.
func Version(cmd *command.Command, prog string) string {
	return fmt.Sprintf("%s %s", prog, cmd.Version)
}

type group struct {
	order int
	name  string
	args  []*command.Arg
}

// argumentGroups partitions visible arguments into their help groups,
// ordered by group order then name, preserving declaration order
// within a group.
func argumentGroups(cmd *command.Command) []*group {
	byName := make(map[string]*group)
	var groups []*group
	for _, arg := range cmd.Arguments {
		if arg.Hidden {
			continue
		}
		g, ok := byName[arg.Group.Name]
		if !ok {
			g = &group{order: arg.Group.Order, name: arg.Group.Name}
			byName[arg.Group.Name] = g
			groups = append(groups, g)
		}
		g.args = append(g.args, arg)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].order != groups[j].order {
			return groups[i].order < groups[j].order
		}
		return groups[i].name < groups[j].name
	})
	return groups
}

// argSynopsis renders the left column of an argument row: joined flag
// spellings with a value placeholder, or the bare value name for
// positionals.
func argSynopsis(arg *command.Arg) string {
	if arg.Positional() {
		return arg.ValueName
	}
	synopsis := strings.Join(arg.Names(), ", ")
	if arg.NumArgs != 0 {
		synopsis += " " + arg.ValueName
	}
	return synopsis
}

// argHelp renders the right column: help text with choice and default
// annotations.
func argHelp(arg *command.Arg) string {
	parts := []string{arg.Help}
	if len(arg.Choices) > 0 {
		parts = append(parts, fmt.Sprintf("(one of: %s)", strings.Join(arg.Choices, ", ")))
	}
	if arg.HasDefault {
		parts = append(parts, fmt.Sprintf("(default: %v)", arg.Default))
	}
	if arg.Deprecated != "" {
		parts = append(parts, fmt.Sprintf("(deprecated: %s)", arg.Deprecated))
	}
	joined := strings.Join(parts, " ")
	return strings.TrimSpace(joined)
}
