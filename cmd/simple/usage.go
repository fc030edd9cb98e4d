package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  simple run [--input text | --input-file path] [--max-depth n] <program.yml>")
	fmt.Fprintln(os.Stderr, "  simple run [--input text] --example <name>")
	fmt.Fprintln(os.Stderr, "  simple <program.yml>")
	fmt.Fprintln(os.Stderr, "  simple check <program.yml>")
	fmt.Fprintln(os.Stderr, "  simple test [--repo url] [--rev rev] [--max-depth n] [dir]")
	fmt.Fprintln(os.Stderr, "  simple fetch [--repo url] [--rev rev]")
	fmt.Fprintln(os.Stderr, "  simple examples [export <dir>]")
	fmt.Fprintln(os.Stderr, "  simple version")
}
