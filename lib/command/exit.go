// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Exit is a deliberate program exit carrying a status code. Parse
// errors use code 2, --help and --version use code 0. The top-level
// runner prints Message (when non-empty) and exits with Code rather
// than treating the value as an internal failure.
type Exit struct {
	Message string
	Code    int
	Prog    string
}

func (e *Exit) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

// ExitCode returns the process exit status the error requests.
func (e *Exit) ExitCode() int {
	return e.Code
}

// Output is the writer pair commands print through. Help and version
// text go to Stdout, errors to Stderr.
type Output struct {
	Stdout io.Writer
	Stderr io.Writer

	// Color reports whether Stdout is an interactive terminal.
	Color bool
}

// NewOutput builds the standard output pair, detecting whether stdout
// is a terminal.
func NewOutput() *Output {
	return &Output{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Report prints the error in the conventional shape and returns the
// exit status to use. Exit errors print "Error: <message>" prefixed
// with the program name; other errors are internal failures and exit
// with status 1.
func (o *Output) Report(err error) int {
	var exit *Exit
	if errors.As(err, &exit) {
		if exit.Message != "" {
			if exit.Code == 0 {
				fmt.Fprintln(o.Stdout, exit.Message)
			} else if exit.Prog != "" {
				fmt.Fprintf(o.Stderr, "%s: error: %s\n", exit.Prog, exit.Message)
			} else {
				fmt.Fprintf(o.Stderr, "error: %s\n", exit.Message)
			}
		}
		return exit.Code
	}
	fmt.Fprintf(o.Stderr, "error: %v\n", err)
	return 1
}
