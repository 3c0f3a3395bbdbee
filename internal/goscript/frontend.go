// Package goscript is the Go-syntax script frontend, backed by the yaegi
// interpreter.
//
// A configuration script is an ordinary Go source file with package main
// that imports the injected "eval" package and defines a Configure
// function. Configure drives the engine through eval's callbacks and its
// return value becomes the run's result.
package goscript

import (
	"context"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/vk/evalforge/internal/script"
)

const entrypoint = "Configure"

// Frontend implements script.Frontend for Go-syntax sources.
type Frontend struct{}

// NewFrontend creates the frontend.
func NewFrontend() *Frontend {
	return &Frontend{}
}

// Compile syntax-checks the source against a throwaway interpreter. The
// real interpreter is created per run, so compiled programs stay reusable
// and concurrent runs never share interpreter state.
func (f *Frontend) Compile(src *script.Source) (script.Program, error) {
	i, err := newInterpreter(noHostExports())
	if err != nil {
		return nil, err
	}
	if _, err := i.Compile(string(src.Data)); err != nil {
		return nil, &script.CompileError{Source: src.Name, Err: err}
	}
	return &program{src: src}, nil
}

// program re-evaluates its source on a fresh interpreter each run.
type program struct {
	src *script.Source
}

// Run implements script.Program.
func (p *program) Run(ctx context.Context, host script.Host) (any, error) {
	i, err := newInterpreter(hostExports(ctx, host))
	if err != nil {
		return nil, err
	}
	if _, err := i.Eval(string(p.src.Data)); err != nil {
		return nil, fmt.Errorf("evaluate script %s: %w", p.src.Name, err)
	}
	fn, err := i.Eval(entrypoint)
	if err != nil {
		return nil, fmt.Errorf("script %s must define %s: %w", p.src.Name, entrypoint, err)
	}
	return callEntrypoint(fn)
}

func newInterpreter(exports interp.Exports) (*interp.Interpreter, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load interpreter stdlib: %w", err)
	}
	if err := i.Use(exports); err != nil {
		return nil, fmt.Errorf("load interpreter host symbols: %w", err)
	}
	return i, nil
}

// callEntrypoint invokes Configure, accepting the signature shapes
// func() (any, error), func() any, func() error and func().
func callEntrypoint(value reflect.Value) (any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", entrypoint)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", entrypoint)
	}
	if value.Type().NumIn() != 0 {
		return nil, fmt.Errorf("%s must take no arguments", entrypoint)
	}
	results := value.Call(nil)
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return splitResult(results[0])
	case 2:
		if err := asError(results[1]); err != nil {
			return nil, err
		}
		return results[0].Interface(), nil
	default:
		return nil, fmt.Errorf("%s must return at most two values", entrypoint)
	}
}

// splitResult treats a single return value as either an error or a result.
func splitResult(v reflect.Value) (any, error) {
	if err := asError(v); err != nil {
		return nil, err
	}
	if v.Type() == reflect.TypeOf((*error)(nil)).Elem() {
		return nil, nil
	}
	return v.Interface(), nil
}

func asError(v reflect.Value) error {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	if err, ok := v.Interface().(error); ok {
		return err
	}
	return nil
}
