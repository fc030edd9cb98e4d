package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeronimonunes/simple-compiler/pkg/driver"
	"github.com/jeronimonunes/simple-compiler/pkg/interpreter"
)

const defaultFixtureRoot = "fixtures"

func runTest(args []string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("simple test", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	repo := fs.String("repo", "", "fetch fixtures from this git repository")
	rev := fs.String("rev", cfg.Fixtures.Rev, "revision of the fixture repository")
	maxDepth := fs.Int("max-depth", cfg.MaxCallDepth, "maximum procedure call depth")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *maxDepth < 0 || *maxDepth > interpreter.MaxCallDepthLimit {
		fmt.Fprintf(os.Stderr, "simple test: --max-depth must be between 0 and %d\n", interpreter.MaxCallDepthLimit)
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "simple test: expected at most one fixture directory")
		return 2
	}

	root := fs.Arg(0)
	url := *repo
	if url == "" && root == "" {
		url = cfg.Fixtures.Repo
	}
	if url != "" {
		corpus, err := driver.FetchCorpus(url, *rev, cfg.Fixtures.CacheDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		root = filepath.Join(corpus.Dir, root)
	} else if root == "" {
		root = defaultFixtureRoot
	}

	results, err := driver.RunFixtures(root, driver.FixtureOptions{MaxCallDepth: *maxDepth})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stdout, "simple test: no fixtures found in %s\n", root)
		return 0
	}

	failed := 0
	for _, res := range results {
		name := driver.FixtureName(root, res.Dir)
		if res.Passed() {
			fmt.Fprintf(os.Stdout, "PASS %s\n", name)
			continue
		}
		failed++
		fmt.Fprintf(os.Stdout, "FAIL %s\n", name)
		for _, failure := range res.Failures {
			fmt.Fprintf(os.Stdout, "  %s\n", failure)
		}
	}
	fmt.Fprintf(os.Stdout, "%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func runFetch(args []string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("simple fetch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	repo := fs.String("repo", cfg.Fixtures.Repo, "git repository holding fixtures")
	rev := fs.String("rev", cfg.Fixtures.Rev, "revision to check out")
	cacheDir := fs.String("cache", cfg.Fixtures.CacheDir, "checkout cache directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *repo == "" {
		fmt.Fprintln(os.Stderr, "simple fetch: no repository given and none configured")
		return 2
	}

	corpus, err := driver.FetchCorpus(*repo, *rev, *cacheDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "fetched %s@%s into %s\n", corpus.URL, corpus.Commit, corpus.Dir)
	return 0
}
