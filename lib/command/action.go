// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

// Action describes how the backend consumes tokens for an argument.
type Action int

const (
	// ActionSet stores the given CLI value directly.
	ActionSet Action = iota
	// ActionStoreTrue stores a literal true without consuming a value.
	ActionStoreTrue
	// ActionStoreFalse stores a literal false without consuming a value.
	ActionStoreFalse
	// ActionAppend accumulates repeated occurrences into a list.
	ActionAppend
	// ActionCount increments an integer for each occurrence.
	ActionCount
	// ActionHelp cancels parsing and prints help text.
	ActionHelp
	// ActionVersion cancels parsing and prints the CLI version.
	ActionVersion
	// ActionCompletion cancels parsing and emits a shell completion
	// script.
	ActionCompletion
)

// String returns the action name used in error messages and the
// schema export.
func (action Action) String() string {
	switch action {
	case ActionSet:
		return "set"
	case ActionStoreTrue:
		return "store_true"
	case ActionStoreFalse:
		return "store_false"
	case ActionAppend:
		return "append"
	case ActionCount:
		return "count"
	case ActionHelp:
		return "help"
	case ActionVersion:
		return "version"
	case ActionCompletion:
		return "completion"
	}
	return "unknown"
}

// IsMeta reports whether the action short-circuits parsing instead of
// producing a field value. Meta arguments are skipped during result
// mapping.
func (action Action) IsMeta() bool {
	return action == ActionHelp || action == ActionVersion || action == ActionCompletion
}

// consumesValue reports whether the argument consumes CLI tokens
// beyond its own flag name.
func (action Action) consumesValue() bool {
	switch action {
	case ActionStoreTrue, ActionStoreFalse, ActionCount, ActionHelp, ActionVersion:
		return false
	}
	return true
}
