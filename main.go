package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel"
	"github.com/chazu/trisect/pkg/kernel/manifold"
	"github.com/chazu/trisect/pkg/kernel/sdfx"
	"golang.org/x/term"
)

// Exit codes.
const (
	exitOK           = 0
	exitFailure      = 1
	exitInterference = 2
)

const usage = `usage:
  trisect eval  [-epsilon e] [-kernel sdfx|manifold] [-cells n] FILE
  trisect check [-epsilon e] [-workers n] FILE FILE...
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("trisect: ")
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one CLI invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return exitFailure
	}
	switch args[0] {
	case "eval":
		return runEval(args[1:], stdout, stderr)
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	}
	fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
	return exitFailure
}

func runEval(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	epsilon := fs.Float64("epsilon", -1, "mesh epsilon overriding the script's defaults (negative keeps the script's)")
	kernelName := fs.String("kernel", "sdfx", "solid modeling kernel: sdfx or manifold")
	cells := fs.Int("cells", sdfx.DefaultMeshCells, "marching cubes resolution for the sdfx kernel")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if fs.NArg() != 1 {
		fmt.Fprint(stderr, usage)
		return exitFailure
	}

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		log.Printf("read script: %v", err)
		return exitFailure
	}
	if *epsilon >= 0 {
		// Same line as the script's first line, so error lines still match.
		prefix := "(defaults :epsilon " + strconv.FormatFloat(*epsilon, 'f', -1, 64) + ") "
		source = append([]byte(prefix), source...)
	}

	var app *App
	if *kernelName == "sdfx" && *cells == sdfx.DefaultMeshCells {
		app = NewApp()
	} else {
		k, err := newKernel(*kernelName, *cells)
		if err != nil {
			log.Printf("kernel: %v", err)
			return exitFailure
		}
		app = NewAppWithKernel(k)
	}
	result := app.Evaluate(string(source))
	if err := writeJSON(stdout, result); err != nil {
		log.Printf("write result: %v", err)
		return exitFailure
	}

	switch {
	case len(result.Errors) > 0:
		return exitFailure
	case len(result.Interferences) > 0:
		return exitInterference
	}
	return exitOK
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	epsilon := fs.Float64("epsilon", isect.DefaultMeshEpsilon, "snapping tolerance for signed distances")
	workers := fs.Int("workers", 0, "goroutines checking mesh pairs (0 uses GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if fs.NArg() < 2 {
		fmt.Fprint(stderr, usage)
		return exitFailure
	}

	app := NewAppWithKernel(nil)
	result, err := app.CheckFiles(fs.Args(), *epsilon, *workers)
	if err != nil {
		log.Printf("check: %v", err)
		return exitFailure
	}
	if err := writeJSON(stdout, result); err != nil {
		log.Printf("write result: %v", err)
		return exitFailure
	}
	if len(result.Interferences) > 0 {
		return exitInterference
	}
	return exitOK
}

// newKernel builds the named solid modeling kernel.
func newKernel(name string, cells int) (kernel.Kernel, error) {
	switch name {
	case "sdfx":
		return sdfx.NewWithCells(cells), nil
	case "manifold":
		return manifold.New()
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}

// writeJSON encodes v, indented when w is an interactive terminal.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
