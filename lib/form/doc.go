// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package form renders a collected command schema as an interactive
// terminal form. Each argument becomes a fillable control chosen from
// its schema shape: free-form values get an inline text editor,
// flags a checkbox, choice arguments a dropdown, repeated arguments
// a growable value list. Commands with subcommands get a tree
// sidebar for picking the invocation path.
//
// The form maintains a live preview of the command line the current
// state would produce; accepting the form hands the argv tokens back
// to the caller, which can print them or execute the parse directly.
package form
