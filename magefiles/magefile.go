//go:build mage

// Package main contains Mage build targets for section-engine developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"content/_drafts",
	"blueprints/pages",
	"blueprints/files",
	"index",
	".secrets",
}

// Init creates the project directory structure and a starter site
// blueprint when none exists.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	site := filepath.Join("blueprints", "site.yaml")
	if _, err := os.Stat(site); os.IsNotExist(err) {
		if err := os.WriteFile(site, []byte(starterSite), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", site, err)
		}
		fmt.Println("  ", site)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const starterSite = `title: Site
sections:
  pages:
    type: pages
    status: all
  files:
    type: files
`

const (
	binDir  = "bin"
	binName = "section-engine"
	cmdPkg  = "./cmd/section-engine"
)

func binPath() string {
	return filepath.Join(binDir, binName)
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	if err := sh.RunV("go", "build", "-o", binPath(), cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath())
	return nil
}

// Ingest builds the CLI and indexes the content tree.
func Ingest() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "ingest")
}

// Serve builds the CLI, refreshes the index and serves the HTTP API.
func Serve() error {
	mg.SerialDeps(Build, Ingest)
	return sh.RunV(binPath(), "serve")
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	var prod, tests, words int
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), "_") || d.Name() == ".git") {
				return filepath.SkipDir
			}
			return nil
		}

		switch filepath.Ext(path) {
		case ".go":
			n, err := countLines(path)
			if err != nil {
				return err
			}
			if strings.HasSuffix(path, "_test.go") {
				tests += n
			} else {
				prod += n
			}
		case ".md", ".yaml", ".yml":
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			words += len(strings.Fields(string(data)))
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Words (documentation):           %d\n", words)
	return nil
}

// countLines counts the non-blank lines of a file.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
