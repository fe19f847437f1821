//go:build stave

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// All runs the complete build pipeline: lint, test, and build.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles every milkcat binary.
func Build() error {
	st.Deps(Init)
	st.Deps(Build_CLI, Build_Bench, Build_Compile, Build_Neko)
	return nil
}

// Build_CLI compiles the milkcat-cli binary with version information.
func Build_CLI() error {
	st.Deps(Init)
	return buildBinary("milkcat-cli")
}

// Build_Bench compiles the milkcat-bench binary.
func Build_Bench() error {
	st.Deps(Init)
	return buildBinary("milkcat-bench")
}

// Build_Compile compiles the milkcat-compile binary.
func Build_Compile() error {
	st.Deps(Init)
	return buildBinary("milkcat-compile")
}

// Build_Neko compiles the milkcat-neko new word discovery binary.
func Build_Neko() error {
	st.Deps(Init)
	return buildBinary("milkcat-neko")
}

// buildBinary builds ./cmd/<name> into bin/<name> when sources changed.
func buildBinary(name string) error {
	out := "bin/" + name
	rebuild, err := target.Glob(out, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Printf("%s is up to date\n", name)
		}
		return nil
	}

	ldflags := buildLdflags()
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, "./cmd/"+name)
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode (skips long-running tests).
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// TestVerbose runs tests with verbose output.
func TestVerbose() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "-v", "./...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// LintFix runs golangci-lint with auto-fix enabled.
func LintFix() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	artifacts := []string{
		"bin/",
		"milkcat-cli",
		"milkcat-bench",
		"milkcat-compile",
		"milkcat-neko",
		"coverage.out",
		"coverage.html",
	}
	for _, a := range artifacts {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds and installs the binaries to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	binaries := []string{"milkcat-cli", "milkcat-bench", "milkcat-compile", "milkcat-neko"}
	for _, name := range binaries {
		src := "bin/" + name
		dst := bin + "/" + name
		if runtime.GOOS == "windows" {
			dst += ".exe"
		}
		if err := sh.Copy(dst, src); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		if st.Verbose() {
			fmt.Printf("Installed %s to %s\n", name, dst)
		}
	}
	return nil
}

// Model namespace for model bundle targets.
type Model st.Namespace

// Compile converts the text bundle in MILKCAT_MODEL into a binary bundle
// under bin/model. Set MILKCAT_ZSTD=1 to compress the tables.
func (Model) Compile() error {
	st.Deps(Build_Compile)

	args := []string{"-src", modelDir(), "-dst", "bin/model"}
	if os.Getenv("MILKCAT_ZSTD") == "1" {
		args = append(args, "-zstd")
	}
	return sh.RunV("./bin/milkcat-compile", args...)
}

// Corpus converts UD Chinese GSD treebank files into the gold corpus format.
func (Model) Corpus() error {
	if _, err := os.Stat("testdata/ud-gsd"); os.IsNotExist(err) {
		return fmt.Errorf("treebank not found: testdata/ud-gsd")
	}
	return sh.RunV("go", "run", "./scripts/process-ud-gsd.go")
}

// Dict builds dictionary and bigram tables from the gold corpus.
func (Model) Dict() error {
	return sh.RunV("go", "run", "./scripts/build-dict.go")
}

// Neko discovers new words in the corpus file named by MILKCAT_CORPUS and
// writes them to bin/new_words.txt.
func (Model) Neko() error {
	st.Deps(Build_Neko)

	corpus := os.Getenv("MILKCAT_CORPUS")
	if corpus == "" {
		return fmt.Errorf("MILKCAT_CORPUS is not set")
	}
	return sh.RunV("./bin/milkcat-neko", "-model", modelDir(), corpus, "bin/new_words.txt")
}

// modelDir returns MILKCAT_MODEL or the fixture bundle.
func modelDir() string {
	if dir := os.Getenv("MILKCAT_MODEL"); dir != "" {
		return dir
	}
	return "testdata/model"
}

// Bench namespace for benchmark-related targets.
type Bench st.Namespace

// Run evaluates every processor type against the gold corpus.
func (Bench) Run() error {
	st.Deps(Build_Bench)

	return sh.RunV("./bin/milkcat-bench",
		"-model", modelDir(),
		"-corpus", "testdata/corpus",
	)
}

// Sweep runs a beam size sweep to find optimal parameters.
func (Bench) Sweep() error {
	st.Deps(Build_Bench)

	return sh.RunV("./bin/milkcat-bench",
		"-model", modelDir(),
		"-corpus", "testdata/corpus",
		"-sweep",
	)
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs quick validation (vet, lint, short tests).
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

// Coverage generates a coverage report.
func Coverage() error {
	st.Deps(Init)
	if err := sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Tidy runs go mod tidy and verifies the go.sum is clean.
func Tidy() error {
	if err := sh.Run("go", "mod", "tidy"); err != nil {
		return err
	}
	// Verify no changes to go.sum (useful for CI)
	output, err := sh.Output("git", "diff", "--exit-code", "go.sum")
	if err != nil {
		if output != "" {
			return fmt.Errorf("go.sum is not clean:\n%s", output)
		}
	}
	return nil
}
