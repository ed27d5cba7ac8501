// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package help renders usage and help text for collected command
// schemas. Sections follow the conventional layout: description,
// usage line, subcommand listing, grouped argument tables, examples.
// Extended descriptions are treated as markdown and rendered with
// terminal styling when the output supports it.
package help
