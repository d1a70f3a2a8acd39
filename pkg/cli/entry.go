// Package cli implements the typemint command.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/typemint/typemint/internal/gen"
)

// Exit codes. Drift gets its own code so CI can distinguish "your generated
// files are stale" from a broken run.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
	exitDrift = 3
)

// Run executes the typemint command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("typemint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "path to typemint.yaml (default: discovered from the working directory upward)")
		output     = fs.String("output", "", "generated file name per package (default: unique_typemint.go)")
		verify     = fs.Bool("verify", false, "check generated files are current instead of writing them")
		list       = fs.Bool("list", false, "list directive sites and their fingerprints without writing")
		verbose    = fs.Bool("v", false, "report every package, not just written ones")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: typemint [flags] [packages]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Generates unique marker types for //unique:type directives.")
		fmt.Fprintln(stderr, "Packages default to ./... (or the patterns in typemint.yaml).")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	opts := gen.Options{
		ConfigPath: *configPath,
		Patterns:   fs.Args(),
		Output:     *output,
		Verify:     *verify,
	}

	if *list {
		return runList(opts, stdout, stderr)
	}

	result, err := gen.Run(opts)
	if err != nil {
		if errors.Is(err, gen.ErrDrift) {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintln(stderr, colorize(line, colorYellow))
			}
			return exitDrift
		}
		fmt.Fprintln(stderr, colorize("typemint: "+err.Error(), colorRed))
		return exitError
	}

	for _, pr := range result.Packages {
		switch {
		case *verify:
			if *verbose {
				fmt.Fprintf(stdout, "%s: %d marker types, current\n", pr.PkgPath, pr.Types)
			}
		case pr.Wrote:
			fmt.Fprintf(stdout, "%s: wrote %s (%d marker types)\n", pr.PkgPath, pr.OutputPath, pr.Types)
		case *verbose:
			fmt.Fprintf(stdout, "%s: %s up to date\n", pr.PkgPath, pr.OutputPath)
		}
	}
	if *verbose || *verify {
		fmt.Fprintln(stdout, colorize(fmt.Sprintf("typemint: %d fingerprints minted across %d packages", result.Minted, len(result.Packages)), colorGreen))
	}
	return exitOK
}

// runList prints every directive site with its minted fingerprint.
func runList(opts gen.Options, stdout, stderr io.Writer) int {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	scanned, err := gen.Scan(opts.Dir, patterns)
	if err != nil {
		fmt.Fprintln(stderr, colorize("typemint: "+err.Error(), colorRed))
		return exitError
	}

	for _, ps := range scanned {
		for _, s := range ps.Sites {
			fmt.Fprintf(stdout, "%s\t%s.%s\t%s:%d:%d\n",
				gen.Derive(ps.PkgPath, s), ps.PkgName, s.Name, s.File, s.Line, s.Col)
		}
	}
	return exitOK
}

// =============================================================================
// Color support detection
// =============================================================================

const (
	colorRed    = "31"
	colorGreen  = "32"
	colorYellow = "33"
)

var (
	colorOnce sync.Once
	colorOn   bool
)

func colorEnabled() bool {
	colorOnce.Do(func() {
		// NO_COLOR convention: https://no-color.org/
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return
		}
		if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			return
		}
		if os.Getenv("TERM") == "dumb" {
			return
		}
		colorOn = true
	})
	return colorOn
}

// colorize wraps s in an ANSI color when the terminal supports it.
func colorize(s, code string) string {
	if !colorEnabled() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
