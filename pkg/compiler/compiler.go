// Package compiler translates programs into a single C source file.
package compiler

import (
	"fmt"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

// DefaultFileName is the name of the generated C file.
const DefaultFileName = "program.c"

type Options struct {
	FileName string
}

type Result struct {
	FileName string
	Files    map[string][]byte
}

type Compiler struct {
	opts Options
}

func New(opts Options) *Compiler {
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	return &Compiler{opts: opts}
}

// Compile generates the C translation of program. Each call builds its own
// declaration environment, so a Compiler may be reused.
func (c *Compiler) Compile(program *ast.Program) (*Result, error) {
	if program == nil || program.Body == nil {
		return nil, fmt.Errorf("compiler: missing program body")
	}
	gen := newGenerator(c.opts)
	if err := gen.collect(program); err != nil {
		return nil, err
	}
	source, err := gen.render(program)
	if err != nil {
		return nil, err
	}
	return &Result{
		FileName: c.opts.FileName,
		Files:    map[string][]byte{c.opts.FileName: source},
	}, nil
}

// Source returns the generated C text.
func (r *Result) Source() string {
	if r == nil {
		return ""
	}
	return string(r.Files[r.FileName])
}

func (r *Result) Write(dir string) error {
	if r == nil {
		return fmt.Errorf("compiler: nil result")
	}
	return writeFiles(dir, r.Files)
}

// Generate returns the C translation of program with default options.
func Generate(program *ast.Program) (string, error) {
	res, err := New(Options{}).Compile(program)
	if err != nil {
		return "", err
	}
	return res.Source(), nil
}
