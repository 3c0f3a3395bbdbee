package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietConfig(t *testing.T, scriptPath string, roots ...string) *Config {
	t.Helper()
	cfg, err := NewConfig(Config{ScriptPath: scriptPath, ResourceRoots: roots, LogLevel: "error"})
	require.NoError(t, err)
	return cfg
}

func TestRunHCLScript(t *testing.T) {
	script := writeScript(t, t.TempDir(), "eval.hcl", `
task "trainTest" "eval-ml100k" {
  arguments = {
    source     = "ml-100k"
    partitions = 5
  }
}

result = "configured"
`)

	out := &bytes.Buffer{}
	a, err := NewApp(out, quietConfig(t, script))
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Loaded 1 task(s)")
	assert.Contains(t, out.String(), "eval-ml100k")
	assert.Contains(t, out.String(), "Result: configured")
}

func TestRunGoScript(t *testing.T) {
	script := writeScript(t, t.TempDir(), "eval.go", `
package main

import "eval"

func Configure() (any, error) {
	if _, err := eval.Build("report", map[string]any{"name": "summary", "file": "out.txt"}); err != nil {
		return nil, err
	}
	return "scripted", nil
}
`)

	out := &bytes.Buffer{}
	a, err := NewApp(out, quietConfig(t, script))
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "summary")
	assert.Contains(t, out.String(), "Result: scripted")
}

func TestRunScriptDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b.hcl", `
task "trainTest" "second" {
  arguments = { source = "ml-100k" }
}
`)
	writeScript(t, dir, "a.hcl", `
task "trainTest" "first" {
  arguments = { source = "ml-100k" }
}
`)

	out := &bytes.Buffer{}
	a, err := NewApp(out, quietConfig(t, dir))
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	first := bytes.Index(out.Bytes(), []byte("first"))
	second := bytes.Index(out.Bytes(), []byte("second"))
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestResourceRootOverridesEmbedded(t *testing.T) {
	root := t.TempDir()
	methodDir := filepath.Join(root, "evalforge", "methods")
	require.NoError(t, os.MkdirAll(methodDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(methodDir, "custom.properties"),
		[]byte("builder=output.ReportBuilder\n"), 0o644,
	))

	script := writeScript(t, t.TempDir(), "eval.hcl", `
task "custom" "user-report" {
  arguments = { file = "report.txt" }
}
`)

	out := &bytes.Buffer{}
	a, err := NewApp(out, quietConfig(t, script, root))
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "user-report")
}

func TestRunScriptFailure(t *testing.T) {
	script := writeScript(t, t.TempDir(), "eval.hcl", `
task "trainTest" "missing-source" {
}
`)

	a, err := NewApp(&bytes.Buffer{}, quietConfig(t, script))
	require.NoError(t, err)
	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-source")
}

func TestNewAppRejectsBadResourceRoot(t *testing.T) {
	cfg := quietConfig(t, "eval.hcl", filepath.Join(t.TempDir(), "missing"))
	_, err := NewApp(&bytes.Buffer{}, cfg)
	assert.Error(t, err)
}

func TestRunMissingScriptPath(t *testing.T) {
	a, err := NewApp(&bytes.Buffer{}, quietConfig(t, filepath.Join(t.TempDir(), "nope.hcl")))
	require.NoError(t, err)
	assert.Error(t, a.Run(context.Background()))
}
