// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package completion generates shell completion scripts from a
// collected command schema. The scripts are self-contained: the
// subcommand tree and flag spellings are baked in at generation time,
// so the shell never calls back into the program.
package completion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/akgerber/cappa/lib/command"
)

const bashTemplate = `# bash completion for %[1]s

_%[2]s_completions()
{
    local cur path word
    cur="${COMP_WORDS[COMP_CWORD]}"
    path=""
    for word in "${COMP_WORDS[@]:1:COMP_CWORD-1}"; do
        case "$word" in
            -*) continue ;;
        esac
        path="$path $word"
    done
    path="${path# }"

    local opts
    case "$path" in
%[3]s
    esac
    COMPREPLY=($(compgen -W "$opts" -- "$cur"))
}

complete -F _%[2]s_completions %[1]s
`

const zshTemplate = `#compdef %[1]s

_%[2]s() {
    local path word
    path=""
    for word in "${words[@]:1:$((CURRENT-2))}"; do
        case "$word" in
            -*) continue ;;
        esac
        path="$path $word"
    done
    path="${path# }"

    local -a candidates
    case "$path" in
%[3]s
    esac
    compadd -a candidates
}

compdef _%[2]s %[1]s
`

// Script renders the completion script for the given shell ("bash" or
// "zsh").
func Script(cmd *command.Command, prog, shell string) (string, error) {
	switch shell {
	case "bash":
		return bashScript(cmd, prog), nil
	case "zsh":
		return zshScript(cmd, prog), nil
	default:
		return "", fmt.Errorf("unsupported completion shell %q (choose from bash, zsh)", shell)
	}
}

func bashScript(cmd *command.Command, prog string) string {
	var cases []string
	for _, entry := range pathEntries(cmd, "") {
		cases = append(cases, fmt.Sprintf("        %s)\n            opts=%q ;;",
			casePattern(entry.path), strings.Join(entry.words, " ")))
	}
	return fmt.Sprintf(bashTemplate, prog, identifier(prog), strings.Join(cases, "\n"))
}

func zshScript(cmd *command.Command, prog string) string {
	var cases []string
	for _, entry := range pathEntries(cmd, "") {
		cases = append(cases, fmt.Sprintf("        %s)\n            candidates=(%s) ;;",
			casePattern(entry.path), strings.Join(entry.words, " ")))
	}
	return fmt.Sprintf(zshTemplate, prog, identifier(prog), strings.Join(cases, "\n"))
}

type pathEntry struct {
	path  string
	words []string
}

// pathEntries flattens the command tree into (path, completable
// words) pairs, deepest paths first so shell case matching picks the
// most specific entry.
func pathEntries(cmd *command.Command, path string) []pathEntry {
	var entries []pathEntry
	if cmd.Sub != nil {
		for _, name := range cmd.Sub.Names {
			sub := cmd.Sub.Options[name]
			if sub.Hidden {
				continue
			}
			subPath := name
			if path != "" {
				subPath = path + " " + name
			}
			entries = append(entries, pathEntries(sub, subPath)...)
		}
	}
	return append(entries, pathEntry{path: path, words: completableWords(cmd)})
}

// completableWords lists everything offerable at a command: visible
// subcommand names, then flag spellings.
func completableWords(cmd *command.Command) []string {
	var words []string
	if cmd.Sub != nil {
		for _, name := range cmd.Sub.Names {
			if !cmd.Sub.Options[name].Hidden {
				words = append(words, name)
			}
		}
	}

	var flags []string
	for _, arg := range cmd.Arguments {
		if arg.Positional() || arg.Hidden {
			continue
		}
		flags = append(flags, arg.Names()...)
	}
	sort.Strings(flags)
	return append(words, flags...)
}

// casePattern renders the shell case pattern for a command path. The
// root matches anything not claimed by a deeper entry.
func casePattern(path string) string {
	if path == "" {
		return "*"
	}
	return fmt.Sprintf("%q*", path)
}

// identifier sanitizes the program name for use in shell function
// names.
func identifier(prog string) string {
	var out strings.Builder
	for _, r := range prog {
		if r == '-' || r == '.' || r == '/' || r == ' ' {
			out.WriteRune('_')
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
