// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package command turns an annotated struct type into a normalized
// command schema and maps parsed argv tokens back into typed
// instances.
//
// Collection walks a struct's fields once, reading the arg/desc/
// default/choices/env/mode struct tags, and produces an immutable
// [Command]: its arguments (with value parsers derived by lib/value),
// its subcommand dispatch table, and its help metadata. Result
// mapping applies the per-field precedence chain — CLI value,
// environment variable, defaults file, tag default, zero value — and
// constructs the struct via reflection. Invocation resolves a
// handler's parameters from a dependency provider set and calls it.
//
// The argv tokenizer itself lives in lib/backend; help rendering in
// lib/help. This package owns the schema and the mapping rules.
package command
