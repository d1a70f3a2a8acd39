package gen

import (
	"errors"
	"path/filepath"

	"github.com/typemint/typemint/internal/config"
)

// Options controls one generator run.
type Options struct {
	// Dir is the working directory for package loading. Empty means the
	// process working directory.
	Dir string

	// ConfigPath points at an explicit typemint.yaml. Empty means discover
	// one from Dir upward; none found means defaults.
	ConfigPath string

	// Patterns overrides the config's package patterns when non-empty.
	Patterns []string

	// Output overrides the config's output file name when non-empty.
	Output string

	// Verify makes the run check emitted files instead of writing them.
	Verify bool
}

// PackageResult describes the outcome for one package that had directives.
type PackageResult struct {
	// PkgPath is the package import path.
	PkgPath string

	// OutputPath is the absolute path of the generated file.
	OutputPath string

	// Types is the number of marker types minted.
	Types int

	// Wrote is true if the file was (re)written. False means it was already
	// current, or the run was verify-only.
	Wrote bool
}

// Result is the outcome of a full generator run.
type Result struct {
	// Packages holds one entry per package containing directives, in
	// deterministic (import path) order.
	Packages []PackageResult

	// Minted is the total number of fingerprints registered this run.
	Minted int
}

// Run executes a full generation (or verification) pass: load configuration,
// scan for directives, mint fingerprints, emit per-package files.
func Run(opts Options) (*Result, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	patterns := cfg.Packages
	if len(opts.Patterns) > 0 {
		patterns = opts.Patterns
	}
	output := cfg.Output
	if opts.Output != "" {
		output = opts.Output
	}

	scanned, err := Scan(opts.Dir, patterns)
	if err != nil {
		return nil, err
	}

	// Mint every fingerprint up front so cross-package collisions are caught
	// before any file is touched.
	ledger := NewLedger()
	for _, ps := range scanned {
		for _, s := range ps.Sites {
			if err := ledger.Register(ps.PkgPath, s, Derive(ps.PkgPath, s)); err != nil {
				return nil, err
			}
		}
	}

	emitter := NewEmitter(cfg.MarkerImport, cfg.Tags, config.GeneratedBy)

	result := &Result{Minted: ledger.Count()}
	var driftErrs []error
	for _, ps := range scanned {
		content, err := emitter.Emit(ps, Digest(ps))
		if err != nil {
			return nil, err
		}

		outputPath := filepath.Join(ps.Dir, output)
		pr := PackageResult{
			PkgPath:    ps.PkgPath,
			OutputPath: outputPath,
			Types:      len(ps.Sites),
		}

		if opts.Verify {
			if err := VerifyOutput(outputPath, content); err != nil {
				if !errors.Is(err, ErrDrift) {
					return nil, err
				}
				driftErrs = append(driftErrs, err)
			}
		} else {
			wrote, err := WriteOutput(outputPath, content)
			if err != nil {
				return nil, err
			}
			pr.Wrote = wrote
		}

		result.Packages = append(result.Packages, pr)
	}

	if len(driftErrs) > 0 {
		return result, errors.Join(driftErrs...)
	}
	return result, nil
}

// resolveConfig loads the effective configuration for a run.
func resolveConfig(opts Options) (*Config, error) {
	if opts.ConfigPath != "" {
		return LoadConfig(opts.ConfigPath)
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := &Config{}
		cfg.setDefaults()
		return cfg, nil
	}
	return LoadConfig(path)
}
