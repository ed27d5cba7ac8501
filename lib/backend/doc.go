// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package backend turns raw argv tokens into parsed values for a
// collected command schema. Flag parsing delegates to pflag; this
// package adds positional distribution, subcommand dispatch, typo
// suggestions, and meta-action short-circuiting on top.
package backend
