// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface components for
// the interactive command form. Built on bubbletea (Elm
// architecture), these components handle the common mechanics:
// dropdown overlays for choice arguments, a single-line value editor
// with cursor tracking, overlay splicing, and scrollbars.
//
// The form front-end (lib/form) composes these with layout and
// schema-driven control selection; this package stays free of command
// schema knowledge so the pieces can be reused by other viewers.
package tui
