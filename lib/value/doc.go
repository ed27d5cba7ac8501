// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package value derives value parsers from Go types. A value parser
// converts the raw tokens produced by the argv backend (a string, a
// list of strings, or a bare flag presence) into a typed Go value.
//
// Derivation is a recursive walk over a closed set of type shapes:
// restricted choices, primitives, time.Duration and time.Time, types
// implementing encoding.TextUnmarshaler, pointers (optional values),
// slices (lists), set-shaped maps, fixed-size arrays (tuples), open
// unions via the empty interface, and *os.File handles. The command
// collection layer calls [ParserFor] once per field at schema build
// time; the returned parser is then applied to raw CLI tokens during
// result mapping.
package value
