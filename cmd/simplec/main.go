package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeronimonunes/simple-compiler/pkg/compiler"
	"github.com/jeronimonunes/simple-compiler/pkg/driver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := driver.ResolveConfig(wd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("simplec", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	outputDir := fs.String("o", cfg.Compiler.OutputDir, "output directory for generated C code")
	fileName := fs.String("file", cfg.Compiler.FileName, "name of the generated C file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	entry := fs.Arg(0)
	if entry == "" || fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: simplec [options] <program.yml>")
		fs.PrintDefaults()
		return 2
	}
	if filepath.Ext(*fileName) != ".c" {
		fmt.Fprintln(os.Stderr, "simplec: -file must end in .c")
		return 2
	}

	program, err := driver.LoadProgram(entry)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	comp := compiler.New(compiler.Options{FileName: *fileName})
	result, err := comp.Compile(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := result.Write(*outputDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
