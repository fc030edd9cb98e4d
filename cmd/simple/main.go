package main

import (
	"fmt"
	"os"

	"github.com/jeronimonunes/simple-compiler/pkg/driver"
)

const cliToolVersion = "simple-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runProgram(args[1:])
	case "check":
		return runCheck(args[1:])
	case "test":
		return runTest(args[1:])
	case "fetch":
		return runFetch(args[1:])
	case "examples":
		return runExamples(args[1:])
	default:
		return runProgram(args)
	}
}

// loadConfig resolves simple.yml from the working directory.
func loadConfig() (*driver.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return driver.ResolveConfig(wd)
}
