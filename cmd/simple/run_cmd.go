package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/compiler"
	"github.com/jeronimonunes/simple-compiler/pkg/driver"
	"github.com/jeronimonunes/simple-compiler/pkg/examples"
	"github.com/jeronimonunes/simple-compiler/pkg/interpreter"
)

func runProgram(args []string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("simple run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	input := fs.String("input", "", "program input")
	inputFile := fs.String("input-file", "", "read program input from a file")
	maxDepth := fs.Int("max-depth", cfg.MaxCallDepth, "maximum procedure call depth")
	example := fs.String("example", "", "run a built-in example instead of a program file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *maxDepth < 0 || *maxDepth > interpreter.MaxCallDepthLimit {
		fmt.Fprintf(os.Stderr, "simple run: --max-depth must be between 0 and %d\n", interpreter.MaxCallDepthLimit)
		return 2
	}
	if *input != "" && *inputFile != "" {
		fmt.Fprintln(os.Stderr, "simple run: --input and --input-file are mutually exclusive")
		return 2
	}

	var program *ast.Program
	switch {
	case *example != "":
		if fs.NArg() > 0 {
			fmt.Fprintln(os.Stderr, "simple run: --example does not take a program path")
			return 2
		}
		ex, ok := examples.Lookup(*example)
		if !ok {
			fmt.Fprintf(os.Stderr, "simple run: unknown example %q\n", *example)
			return 1
		}
		program = ex.Program
	case fs.NArg() == 1:
		program, err = driver.LoadProgram(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	default:
		fmt.Fprintln(os.Stderr, "simple run: expected exactly one program path")
		printUsage()
		return 2
	}

	stdin := *input
	if *inputFile != "" {
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		stdin = string(data)
	}

	interp := interpreter.New(interpreter.Options{MaxCallDepth: *maxDepth})
	out, err := interp.Run(program, stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simple run: %s: %v\n", program.Name, err)
		return 1
	}
	fmt.Fprint(os.Stdout, out)
	return 0
}

func runCheck(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "simple check: expected exactly one program path")
		printUsage()
		return 2
	}
	program, err := driver.LoadProgram(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err := compiler.Generate(program); err != nil {
		fmt.Fprintf(os.Stderr, "simple check: %s: %v\n", program.Name, err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "simple check: %s ok\n", program.Name)
	return 0
}
