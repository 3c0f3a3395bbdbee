package script

import "fmt"

// CompileError reports a source that is not valid in its scripting surface.
type CompileError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("script %s failed to compile: %v", e.Source, e.Err)
}

// Unwrap returns the frontend's diagnostic.
func (e *CompileError) Unwrap() error { return e.Err }

// ConfigurationError reports a script that compiled but failed while
// running. The original cause is preserved; a failed run produces no
// environment.
type ConfigurationError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("error running configuration script %s: %v", e.Source, e.Err)
}

// Unwrap returns the original cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }
