// Package hclscript is the declarative HCL frontend.
//
// An HCL configuration script is a list of task blocks plus an optional
// result attribute:
//
//	task "trainTest" "eval-ml100k" {
//	  arguments = {
//	    source     = "ml-100k"
//	    partitions = 5
//	  }
//	}
//
//	result = "done"
//
// Each block names the builder to use and the task's name; the block's
// arguments become the builder config. Blocks are applied in file order
// through the same Host callbacks the Go-syntax frontend uses, so task
// accumulation and builder resolution behave identically.
package hclscript

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/evalforge/internal/builder"
	"github.com/vk/evalforge/internal/ctxlog"
	"github.com/vk/evalforge/internal/script"
)

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "task", LabelNames: []string{"builder", "name"}},
	},
	Attributes: []hcl.AttributeSchema{
		{Name: "result", Required: false},
	},
}

var taskSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "arguments", Required: false},
	},
}

// Frontend implements script.Frontend for HCL sources.
type Frontend struct{}

// NewFrontend creates the frontend.
func NewFrontend() *Frontend {
	return &Frontend{}
}

// Compile parses and structurally decodes the source. Expression values
// are left unevaluated until the program runs.
func (f *Frontend) Compile(src *script.Source) (script.Program, error) {
	file, diags := hclparse.NewParser().ParseHCL(src.Data, src.Name)
	if diags.HasErrors() {
		return nil, &script.CompileError{Source: src.Name, Err: diags}
	}
	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, &script.CompileError{Source: src.Name, Err: diags}
	}

	p := &program{src: src}
	if attr, ok := content.Attributes["result"]; ok {
		p.result = attr.Expr
	}
	for _, block := range content.Blocks {
		taskContent, diags := block.Body.Content(taskSchema)
		if diags.HasErrors() {
			return nil, &script.CompileError{Source: src.Name, Err: diags}
		}
		tb := taskBlock{builderName: block.Labels[0], taskName: block.Labels[1]}
		if attr, ok := taskContent.Attributes["arguments"]; ok {
			tb.arguments = attr.Expr
		}
		p.tasks = append(p.tasks, tb)
	}
	return p, nil
}

type taskBlock struct {
	builderName string
	taskName    string
	arguments   hcl.Expression
}

type program struct {
	src    *script.Source
	tasks  []taskBlock
	result hcl.Expression
}

// Run implements script.Program: builds each task block in file order,
// then evaluates the result attribute.
func (p *program) Run(ctx context.Context, host script.Host) (any, error) {
	logger := ctxlog.FromContext(ctx)
	evalCtx := &hcl.EvalContext{}

	for _, tb := range p.tasks {
		cfg := builder.Config{}
		if tb.arguments != nil {
			val, diags := tb.arguments.Value(evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("task %q arguments: %w", tb.taskName, diags)
			}
			m, err := toConfig(val)
			if err != nil {
				return nil, fmt.Errorf("task %q arguments: %w", tb.taskName, err)
			}
			cfg = m
		}
		if _, ok := cfg["name"]; !ok {
			cfg["name"] = tb.taskName
		}
		logger.Debug("Building task block.", "builder", tb.builderName, "task", tb.taskName)
		if _, err := host.Build(ctx, tb.builderName, cfg); err != nil {
			return nil, fmt.Errorf("task %q: %w", tb.taskName, err)
		}
	}

	if p.result == nil {
		return nil, nil
	}
	val, diags := p.result.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("result: %w", diags)
	}
	return fromCty(val)
}
