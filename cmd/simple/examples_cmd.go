package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeronimonunes/simple-compiler/pkg/driver"
	"github.com/jeronimonunes/simple-compiler/pkg/examples"
)

func runExamples(args []string) int {
	if len(args) == 0 {
		for _, ex := range examples.All() {
			fmt.Fprintf(os.Stdout, "%-14s %s\n", ex.Name, ex.Description)
		}
		return 0
	}
	if args[0] != "export" || len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: simple examples export <dir>")
		return 2
	}

	dir := args[1]
	compiles := true
	for _, ex := range examples.All() {
		manifest := &driver.FixtureManifest{
			Description: ex.Description,
			Input:       ex.Input,
			Expect: driver.FixtureExpect{
				Stdout:   ex.Output,
				Compiles: &compiles,
			},
		}
		if err := driver.WriteFixture(filepath.Join(dir, ex.Name), ex.Program, manifest); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	fmt.Fprintf(os.Stdout, "exported %d examples to %s\n", len(examples.Names()), dir)
	return 0
}
