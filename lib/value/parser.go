// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Func converts a raw token value into a typed value assignable to
// the type the parser was derived for. Raw values are a string for
// single-token arguments, a []string for multi-token arguments, a
// bool for bare flags, an int for counted flags, and nil when the
// argument was omitted.
type Func func(raw any) (any, error)

// Meta carries per-field metadata that influences derivation beyond
// the field's Go type.
type Meta struct {
	// Choices restricts scalar values to a fixed set. For container
	// types the restriction applies to the element type.
	Choices []string

	// FileMode selects how *os.File fields open their path argument:
	// "r" (read, the default), "w" (create/truncate), or "a" (append).
	FileMode string
}

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType        = reflect.TypeFor[time.Duration]()
	timeType            = reflect.TypeFor[time.Time]()
	fileType            = reflect.TypeFor[*os.File]()
)

// ParserFor derives a value parser for the given type. Container
// shapes (pointer, slice, set-shaped map, fixed array) recurse into
// their element type; scalar shapes resolve to a concrete converter.
// Types outside the supported set return an error, which collection
// surfaces as a schema construction failure rather than a runtime
// parse failure.
func ParserFor(t reflect.Type, meta Meta) (Func, error) {
	switch {
	case t == fileType:
		return fileParser(meta.FileMode), nil

	case t.Kind() == reflect.Pointer:
		inner, err := ParserFor(t.Elem(), meta)
		if err != nil {
			return nil, err
		}
		return optionalParser(t, inner), nil

	case t.Kind() == reflect.Slice:
		inner, err := ParserFor(t.Elem(), meta)
		if err != nil {
			return nil, err
		}
		return listParser(t, inner), nil

	case isSetMap(t):
		inner, err := ParserFor(t.Key(), meta)
		if err != nil {
			return nil, err
		}
		return setParser(t, inner), nil

	case t.Kind() == reflect.Array:
		inner, err := ParserFor(t.Elem(), meta)
		if err != nil {
			return nil, err
		}
		return tupleParser(t, inner), nil
	}

	scalar, err := scalarParser(t)
	if err != nil {
		return nil, err
	}
	if len(meta.Choices) > 0 {
		return choiceParser(scalar, meta.Choices), nil
	}
	return scalar, nil
}

// isSetMap reports whether t is a set-shaped map: map[K]struct{} or
// map[K]bool.
func isSetMap(t reflect.Type) bool {
	if t.Kind() != reflect.Map {
		return false
	}
	elem := t.Elem()
	if elem.Kind() == reflect.Bool {
		return true
	}
	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

// scalarParser derives a parser for a non-container type.
func scalarParser(t reflect.Type) (Func, error) {
	switch {
	case t == durationType:
		return durationParser(), nil
	case t == timeType:
		return timeParser(), nil
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return textParser(t), nil
	}

	switch t.Kind() {
	case reflect.String:
		return stringParser(t), nil
	case reflect.Bool:
		return boolParser(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intParser(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintParser(t), nil
	case reflect.Float32, reflect.Float64:
		return floatParser(t), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return anyParser(), nil
		}
	}

	return nil, fmt.Errorf("cannot derive a value parser for type %s", t)
}

// Member is one branch of a union parser: a display name used in
// error text plus the parser to attempt.
type Member struct {
	Name  string
	Parse Func
}

// Union returns a parser that tries each member in order and returns
// the first successful result. Callers order members by type
// priority: narrower parses (numbers) before universally-succeeding
// ones (strings). When every member fails, the error lists the
// member names.
func Union(members ...Member) Func {
	return func(raw any) (any, error) {
		for _, member := range members {
			parsed, err := member.Parse(raw)
			if err == nil {
				return parsed, nil
			}
		}

		names := make([]string, len(members))
		for i, member := range members {
			names[i] = member.Name
		}
		display, _ := rawString(raw)
		return nil, fmt.Errorf("could not parse %q given options: %s",
			display, strings.Join(names, ", "))
	}
}

// anyParser handles fields declared as the empty interface. Members
// are ordered float, int, bool, string: a float accepts every numeric
// token, so integers come out as float64 by design, matching the
// priority ordering used for open unions.
func anyParser() Func {
	return Union(
		Member{Name: "<float>", Parse: floatParser(reflect.TypeFor[float64]())},
		Member{Name: "<int>", Parse: intParser(reflect.TypeFor[int64]())},
		Member{Name: "<bool>", Parse: boolParser(reflect.TypeFor[bool]())},
		Member{Name: "<str>", Parse: stringParser(reflect.TypeFor[string]())},
	)
}

// choiceParser enforces membership in a fixed choice set before
// delegating to the underlying scalar parser.
func choiceParser(inner Func, choices []string) Func {
	return func(raw any) (any, error) {
		s, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(choices, s) {
			return nil, fmt.Errorf("invalid choice: %q (choose from %s)",
				s, strings.Join(choices, ", "))
		}
		return inner(raw)
	}
}

// optionalParser maps nil to a nil pointer and anything else through
// the element parser.
func optionalParser(t reflect.Type, inner Func) Func {
	return func(raw any) (any, error) {
		if raw == nil {
			return reflect.Zero(t).Interface(), nil
		}
		parsed, err := inner(raw)
		if err != nil {
			return nil, err
		}
		pointer := reflect.New(t.Elem())
		pointer.Elem().Set(convert(parsed, t.Elem()))
		return pointer.Interface(), nil
	}
}

func listParser(t reflect.Type, inner Func) Func {
	return func(raw any) (any, error) {
		tokens, err := rawTokens(raw)
		if err != nil {
			return nil, err
		}
		out := reflect.MakeSlice(t, 0, len(tokens))
		for _, token := range tokens {
			parsed, err := inner(token)
			if err != nil {
				return nil, err
			}
			out = reflect.Append(out, convert(parsed, t.Elem()))
		}
		return out.Interface(), nil
	}
}

func setParser(t reflect.Type, inner Func) Func {
	return func(raw any) (any, error) {
		tokens, err := rawTokens(raw)
		if err != nil {
			return nil, err
		}
		out := reflect.MakeMapWithSize(t, len(tokens))
		element := reflect.Zero(t.Elem())
		if t.Elem().Kind() == reflect.Bool {
			element = reflect.ValueOf(true)
		}
		for _, token := range tokens {
			parsed, err := inner(token)
			if err != nil {
				return nil, err
			}
			out.SetMapIndex(convert(parsed, t.Key()), element)
		}
		return out.Interface(), nil
	}
}

func tupleParser(t reflect.Type, inner Func) Func {
	return func(raw any) (any, error) {
		tokens, err := rawTokens(raw)
		if err != nil {
			return nil, err
		}
		if len(tokens) != t.Len() {
			return nil, fmt.Errorf("expected %d values, got %d", t.Len(), len(tokens))
		}
		out := reflect.New(t).Elem()
		for i, token := range tokens {
			parsed, err := inner(token)
			if err != nil {
				return nil, err
			}
			out.Index(i).Set(convert(parsed, t.Elem()))
		}
		return out.Interface(), nil
	}
}

func fileParser(mode string) Func {
	return func(raw any) (any, error) {
		path, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		switch mode {
		case "", "r":
			if path == "-" {
				return os.Stdin, nil
			}
			file, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			return file, nil
		case "w":
			if path == "-" {
				return os.Stdout, nil
			}
			file, err := os.Create(path)
			if err != nil {
				return nil, err
			}
			return file, nil
		case "a":
			if path == "-" {
				return os.Stdout, nil
			}
			file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, err
			}
			return file, nil
		}
		return nil, fmt.Errorf("unsupported file mode %q", mode)
	}
}

func stringParser(t reflect.Type) Func {
	return func(raw any) (any, error) {
		s, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		out := reflect.New(t).Elem()
		out.SetString(s)
		return out.Interface(), nil
	}
}

func boolParser(t reflect.Type) Func {
	return func(raw any) (any, error) {
		var parsed bool
		switch v := raw.(type) {
		case bool:
			parsed = v
		default:
			s, err := rawString(raw)
			if err != nil {
				return nil, err
			}
			parsed, err = strconv.ParseBool(s)
			if err != nil {
				return nil, err
			}
		}
		out := reflect.New(t).Elem()
		out.SetBool(parsed)
		return out.Interface(), nil
	}
}

func intParser(t reflect.Type) Func {
	return func(raw any) (any, error) {
		var parsed int64
		switch v := raw.(type) {
		case int:
			// Counted flags deliver their tally as an int.
			parsed = int64(v)
		default:
			s, err := rawString(raw)
			if err != nil {
				return nil, err
			}
			parsed, err = strconv.ParseInt(s, 10, t.Bits())
			if err != nil {
				return nil, err
			}
		}
		out := reflect.New(t).Elem()
		out.SetInt(parsed)
		return out.Interface(), nil
	}
}

func uintParser(t reflect.Type) Func {
	return func(raw any) (any, error) {
		s, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		parsed, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		out := reflect.New(t).Elem()
		out.SetUint(parsed)
		return out.Interface(), nil
	}
}

func floatParser(t reflect.Type) Func {
	return func(raw any) (any, error) {
		s, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		parsed, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return nil, err
		}
		out := reflect.New(t).Elem()
		out.SetFloat(parsed)
		return out.Interface(), nil
	}
}

func durationParser() Func {
	return func(raw any) (any, error) {
		s, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
}

func timeParser() Func {
	return func(raw any) (any, error) {
		s, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
}

func textParser(t reflect.Type) Func {
	return func(raw any) (any, error) {
		s, err := rawString(raw)
		if err != nil {
			return nil, err
		}
		pointer := reflect.New(t)
		if err := pointer.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return pointer.Elem().Interface(), nil
	}
}

// rawString coerces a raw token value to a single string.
func rawString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []string:
		if len(v) == 1 {
			return v[0], nil
		}
		return "", fmt.Errorf("expected a single value, got %d", len(v))
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case nil:
		return "", fmt.Errorf("missing value")
	}
	return "", fmt.Errorf("unsupported raw value of type %T", raw)
}

// rawTokens coerces a raw token value to a token list. A single
// string becomes a one-element list so scalar-shaped input still maps
// into container types.
func rawTokens(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported raw value of type %T", raw)
}

// convert adapts a parsed value to the target type, handling named
// types and interface targets.
func convert(parsed any, target reflect.Type) reflect.Value {
	v := reflect.ValueOf(parsed)
	if v.Type() == target {
		return v
	}
	return v.Convert(target)
}
