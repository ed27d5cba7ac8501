// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestInvokeFunction(t *testing.T) {
	type Example struct {
		Name string
	}
	cmd, err := Collect(Example{}, Spec{
		Invoke: func(e *Example) string { return "hello " + e.Name },
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	result, err := Invoke(cmd, &Example{Name: "world"}, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result != "hello world" {
		t.Errorf("result = %v, want %q", result, "hello world")
	}
}

func TestInvokeRunMethod(t *testing.T) {
	cmd, err := Collect(runner{}, Spec{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	instance := &runner{Times: 2}
	if _, err := Invoke(cmd, instance, nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if instance.ran != 2 {
		t.Errorf("ran = %d, want 2", instance.ran)
	}
}

type runner struct {
	Times int `arg:"long" default:"1"`
	ran   int
}

func (r *runner) Run() {
	r.ran = r.Times
}

func TestInvokeInjectsDependencies(t *testing.T) {
	type Example struct{}
	type database struct{ dsn string }

	cmd, err := Collect(Example{}, Spec{
		Invoke: func(e *Example, db *database) string { return db.dsn },
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	deps := NewDepSet()
	if err := deps.Provide(&database{dsn: "app.db"}); err != nil {
		t.Fatalf("Provide: %v", err)
	}

	result, err := Invoke(cmd, &Example{}, deps)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result != "app.db" {
		t.Errorf("result = %v, want %q", result, "app.db")
	}
}

func TestInvokeRunsProviderChain(t *testing.T) {
	type Example struct{}
	type config struct{ url string }
	type client struct{ base string }

	providerRuns := 0
	deps := NewDepSet()
	if err := deps.Provide(&config{url: "http://x"}); err != nil {
		t.Fatalf("Provide config: %v", err)
	}
	err := deps.Provide(func(c *config) (*client, error) {
		providerRuns++
		return &client{base: c.url}, nil
	})
	if err != nil {
		t.Fatalf("Provide provider: %v", err)
	}

	cmd, err := Collect(Example{}, Spec{
		Invoke: func(a, b *client) string { return a.base + b.base },
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	result, err := Invoke(cmd, &Example{}, deps)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result != "http://xhttp://x" {
		t.Errorf("result = %v, want doubled url", result)
	}
	if providerRuns != 1 {
		t.Errorf("provider ran %d times, want 1 (memoized)", providerRuns)
	}
}

func TestInvokeProviderError(t *testing.T) {
	type Example struct{}
	type client struct{}

	deps := NewDepSet()
	if err := deps.Provide(func() (*client, error) {
		return nil, fmt.Errorf("connection refused")
	}); err != nil {
		t.Fatalf("Provide: %v", err)
	}

	cmd, err := Collect(Example{}, Spec{
		Invoke: func(c *client) {},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	_, err = Invoke(cmd, &Example{}, deps)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v, want provider failure", err)
	}
}

func TestInvokeMissingDependency(t *testing.T) {
	type Example struct{}
	type client struct{}

	cmd, err := Collect(Example{}, Spec{
		Invoke: func(c *client) {},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	_, err = Invoke(cmd, &Example{}, nil)
	if err == nil || !strings.Contains(err.Error(), "no dependency registered") {
		t.Errorf("err = %v, want missing-dependency error", err)
	}
}

func TestInvokeDependencyCycle(t *testing.T) {
	type Example struct{}
	type a struct{}
	type b struct{}

	deps := NewDepSet()
	if err := deps.Provide(func(x *b) *a { return &a{} }); err != nil {
		t.Fatalf("Provide a: %v", err)
	}
	if err := deps.Provide(func(x *a) *b { return &b{} }); err != nil {
		t.Fatalf("Provide b: %v", err)
	}

	cmd, err := Collect(Example{}, Spec{Invoke: func(x *a) {}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	_, err = Invoke(cmd, &Example{}, deps)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("err = %v, want cycle error", err)
	}
}

func TestInvokeReturnsError(t *testing.T) {
	type Example struct{}
	wantErr := errors.New("boom")
	cmd, err := Collect(Example{}, Spec{
		Invoke: func(e *Example) error { return wantErr },
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	_, err = Invoke(cmd, &Example{}, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestInvokeMethodSubcommand(t *testing.T) {
	cmd, err := Collect(toolkit{}, Spec{Methods: true})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	instance := &toolkit{Root: "/tmp"}
	leaf := cmd.Sub.Options["report"]
	result, err := Invoke(leaf, instance, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if result != "report:/tmp" {
		t.Errorf("result = %v, want %q", result, "report:/tmp")
	}
}

type toolkit struct {
	Root string `arg:"long" default:"."`
}

func (t *toolkit) Report() string { return "report:" + t.Root }
