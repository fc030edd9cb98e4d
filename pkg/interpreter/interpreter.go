package interpreter

import (
	"fmt"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

const (
	// DefaultMaxCallDepth bounds procedure nesting when Options leaves it unset.
	DefaultMaxCallDepth = 10000
	// MaxCallDepthLimit is the largest accepted MaxCallDepth. Deeper nesting
	// would risk exhausting the goroutine stack, which cannot be recovered.
	MaxCallDepthLimit = 100000
)

type Options struct {
	// MaxCallDepth is the deepest procedure activation allowed before a run
	// fails with RecursionLimitExceeded. Zero selects DefaultMaxCallDepth;
	// values above MaxCallDepthLimit are lowered to it.
	MaxCallDepth int
}

// Interpreter executes programs. It holds only configuration, so one value may
// serve any number of runs, including concurrent ones.
type Interpreter struct {
	opts Options
}

func New(opts Options) *Interpreter {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.MaxCallDepth > MaxCallDepthLimit {
		opts.MaxCallDepth = MaxCallDepthLimit
	}
	return &Interpreter{opts: opts}
}

// Run executes program against input and returns everything it wrote.
func Run(program *ast.Program, input string) (string, error) {
	return New(Options{}).Run(program, input)
}

// Run executes program against input and returns everything it wrote. The
// environment, reader and writer are created for this call and discarded
// afterwards.
func (i *Interpreter) Run(program *ast.Program, input string) (string, error) {
	if program == nil || program.Body == nil {
		return "", fmt.Errorf("interpreter: missing program body")
	}
	exec := &execution{
		opts:   i.opts,
		env:    runtime.NewEnvironment(),
		reader: newReader(input),
		writer: &writer{},
	}
	exec.frame = exec.env.Root()
	for _, decl := range program.Declarations {
		if err := exec.env.Declare(exec.frame, decl); err != nil {
			return "", runtime.WithSpan(err, decl)
		}
	}
	if err := exec.execCompound(program.Body); err != nil {
		return "", err
	}
	return exec.writer.String(), nil
}

// execution is the per-run state: the frame arena, the active frame, the call
// depth and the program's input and output.
type execution struct {
	opts   Options
	env    *runtime.Environment
	frame  runtime.FrameID
	depth  int
	reader *reader
	writer *writer
}
