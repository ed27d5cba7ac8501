// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package form

import "strings"

// Argv composes the command-line tokens the current form state would
// produce: the program name, then for each command along the chosen
// path its flag tokens, its positional tokens, and the next
// subcommand name.
func (m *Model) Argv() []string {
	path := m.paths[m.pathIndex]
	argv := []string{m.prog}

	for level := range path.commands {
		for _, field := range m.fields {
			if field.Level == level && !field.Arg.Positional() {
				argv = append(argv, field.Tokens()...)
			}
		}
		for _, field := range m.fields {
			if field.Level == level && field.Arg.Positional() {
				argv = append(argv, field.Tokens()...)
			}
		}
		if level+1 < len(path.names) {
			argv = append(argv, path.names[level+1])
		}
	}
	return argv
}

// CommandLine renders the argv as a shell-pasteable string.
func (m *Model) CommandLine() string {
	tokens := m.Argv()
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = shellQuote(token)
	}
	return strings.Join(quoted, " ")
}

// shellQuote wraps a token in single quotes when it contains
// characters the shell would interpret. Embedded single quotes close
// the quoting, emit an escaped quote, and reopen.
func shellQuote(token string) string {
	if token == "" {
		return "''"
	}
	if !strings.ContainsAny(token, " \t\n\"'`$&|;<>(){}[]*?!\\~#") {
		return token
	}
	return "'" + strings.ReplaceAll(token, "'", `'\''`) + "'"
}
