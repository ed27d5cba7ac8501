// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"reflect"
)

// DepSet is a registry of dependency providers keyed by the type they
// produce. During invocation, each parameter of the invoked function
// resolves from the set: first as a literal value, then through a
// provider function whose own parameters resolve recursively. Results
// are memoized so a provider runs at most once per invocation.
type DepSet struct {
	values    map[reflect.Type]reflect.Value
	providers map[reflect.Type]reflect.Value
}

// NewDepSet builds an empty dependency set.
func NewDepSet() *DepSet {
	return &DepSet{
		values:    make(map[reflect.Type]reflect.Value),
		providers: make(map[reflect.Type]reflect.Value),
	}
}

// Provide registers a dependency. A function value registers as a
// provider for its first return type; anything else registers as a
// literal value for its own type. Providers may return (T) or
// (T, error).
func (d *DepSet) Provide(dep any) error {
	v := reflect.ValueOf(dep)
	if !v.IsValid() {
		return fmt.Errorf("cannot provide nil dependency")
	}
	t := v.Type()
	if t.Kind() != reflect.Func {
		d.values[t] = v
		return nil
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if !t.Out(1).Implements(errorType) {
			return fmt.Errorf("provider %s: second return value must be error", t)
		}
	default:
		return fmt.Errorf("provider %s: must return (T) or (T, error)", t)
	}
	d.providers[t.Out(0)] = v
	return nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// resolve produces a value of type t, running providers as needed.
// The seen set breaks provider cycles.
func (d *DepSet) resolve(t reflect.Type, seen map[reflect.Type]bool) (reflect.Value, error) {
	if v, ok := d.values[t]; ok {
		return v, nil
	}
	provider, ok := d.providers[t]
	if !ok {
		// Interface parameters match any registered value that
		// implements them.
		if t.Kind() == reflect.Interface {
			for vt, v := range d.values {
				if vt.Implements(t) {
					return v, nil
				}
			}
		}
		return reflect.Value{}, fmt.Errorf("no dependency registered for %s", t)
	}
	if seen[t] {
		return reflect.Value{}, fmt.Errorf("dependency cycle resolving %s", t)
	}
	seen[t] = true

	args, err := d.resolveArgs(provider.Type(), seen)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("provider for %s: %w", t, err)
	}
	out := provider.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, fmt.Errorf("provider for %s: %w", t, out[1].Interface().(error))
	}
	d.values[t] = out[0]
	return out[0], nil
}

func (d *DepSet) resolveArgs(fn reflect.Type, seen map[reflect.Type]bool) ([]reflect.Value, error) {
	args := make([]reflect.Value, fn.NumIn())
	for i := range args {
		v, err := d.resolve(fn.In(i), seen)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// Invoke runs the command's behavior against its parsed instance. The
// callable is, in order of preference: the command's explicit Invoke
// function, or a Run method on the instance. The instance itself is
// registered into the dependency set (by pointer and value type) so
// the callable can ask for it alongside injected dependencies.
//
// Callables may return nothing, (error), (T), or (T, error). The
// first non-error return value is handed back to the caller.
func Invoke(cmd *Command, instance any, deps *DepSet) (any, error) {
	if deps == nil {
		deps = NewDepSet()
	}
	registerInstance(deps, instance)

	callable := cmd.Invoke
	if callable == nil {
		if m := reflect.ValueOf(instance).MethodByName("Run"); m.IsValid() {
			callable = m.Interface()
		}
	}
	if callable == nil {
		return nil, &Exit{
			Message: fmt.Sprintf("%s is not invokable", cmd.Name),
			Code:    1,
		}
	}

	fn := reflect.ValueOf(callable)
	args, err := deps.resolveArgs(fn.Type(), map[reflect.Type]bool{})
	if err != nil {
		return nil, fmt.Errorf("invoking %s: %w", cmd.Name, err)
	}
	return splitResults(fn.Call(args))
}

// registerInstance makes the parsed struct reachable as a dependency
// under both its pointer and value types.
func registerInstance(deps *DepSet, instance any) {
	v := reflect.ValueOf(instance)
	if !v.IsValid() {
		return
	}
	deps.values[v.Type()] = v
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		deps.values[v.Elem().Type()] = v.Elem()
	}
}

func splitResults(out []reflect.Value) (any, error) {
	var result any
	var err error
	for _, v := range out {
		if v.Type().Implements(errorType) {
			if !v.IsNil() {
				err = v.Interface().(error)
			}
			continue
		}
		if result == nil {
			result = v.Interface()
		}
	}
	return result, err
}
