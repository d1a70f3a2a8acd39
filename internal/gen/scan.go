package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/typemint/typemint/internal/config"
)

// Site is one //unique:type directive occurrence. Its position within the
// package is the identity the fingerprint is derived from.
type Site struct {
	// Name is the marker type name to generate.
	Name string

	// File is the base name of the source file containing the directive.
	File string

	// Line and Col locate the directive within File. Two directives can share
	// a line only if their columns differ, so the triple is unique per site.
	Line int
	Col  int

	// Doc holds extra comment lines attached to the directive, carried onto
	// the generated declaration.
	Doc []string
}

// PackageSites groups the directive sites found in one package.
type PackageSites struct {
	// PkgPath is the package import path.
	PkgPath string

	// PkgName is the package identifier for the generated file's package clause.
	PkgName string

	// Dir is the directory the generated file will be written to.
	Dir string

	// Sites are the directive sites, sorted by file then position.
	Sites []Site
}

// Scan loads the given package patterns and collects all directive sites.
// Packages without directives are dropped from the result.
func Scan(dir string, patterns []string) ([]PackageSites, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var result []PackageSites
	for _, pkg := range pkgs {
		for _, perr := range pkg.Errors {
			// Syntax errors make positions unreliable; type errors in the
			// scanned code are irrelevant to directive collection.
			if perr.Kind == packages.ParseError {
				return nil, fmt.Errorf("scanning %s: %s", pkg.PkgPath, perr.Msg)
			}
		}

		ps, err := scanPackage(pkg)
		if err != nil {
			return nil, err
		}
		if len(ps.Sites) > 0 {
			result = append(result, ps)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PkgPath < result[j].PkgPath
	})
	return result, nil
}

// scanPackage collects directive sites from one loaded package.
func scanPackage(pkg *packages.Package) (PackageSites, error) {
	ps := PackageSites{
		PkgPath: pkg.PkgPath,
		PkgName: pkg.Name,
	}

	seen := make(map[string]Site) // name → first site (for duplicate detection)

	for _, file := range pkg.Syntax {
		pos := pkg.Fset.Position(file.Pos())
		if ps.Dir == "" {
			ps.Dir = filepath.Dir(pos.Filename)
		}
		if isGeneratedFile(file) {
			continue
		}

		sites, err := scanFile(pkg.Fset, file)
		if err != nil {
			return PackageSites{}, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		for _, s := range sites {
			if prev, ok := seen[s.Name]; ok {
				return PackageSites{}, fmt.Errorf("%s: duplicate marker type %q at %s:%d (first minted at %s:%d)",
					pkg.PkgPath, s.Name, s.File, s.Line, prev.File, prev.Line)
			}
			seen[s.Name] = s
			ps.Sites = append(ps.Sites, s)
		}
	}

	sort.Slice(ps.Sites, func(i, j int) bool {
		a, b := ps.Sites[i], ps.Sites[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return ps, nil
}

// ScanSource scans a single source buffer without loading its package. The
// returned sites have no package context, so fingerprints derived from them
// are only meaningful relative to a caller-chosen package path.
func ScanSource(filename string, src []byte) ([]Site, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if isGeneratedFile(file) {
		return nil, nil
	}
	return scanFile(fset, file)
}

// scanFile extracts directive sites from a single parsed file.
func scanFile(fset *token.FileSet, file *ast.File) ([]Site, error) {
	var sites []Site

	for _, group := range file.Comments {
		var doc []string
		for _, c := range group.List {
			name, isDirective, err := parseDirective(c.Text)
			if err != nil {
				pos := fset.Position(c.Pos())
				return nil, fmt.Errorf("%s:%d:%d: %w", filepath.Base(pos.Filename), pos.Line, pos.Column, err)
			}
			if !isDirective {
				// Plain line comments preceding a directive become its doc.
				if !strings.HasPrefix(c.Text, "//") {
					doc = nil
					continue
				}
				if text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//")); text != "" {
					doc = append(doc, text)
				} else {
					doc = nil
				}
				continue
			}

			pos := fset.Position(c.Pos())
			sites = append(sites, Site{
				Name: name,
				File: filepath.Base(pos.Filename),
				Line: pos.Line,
				Col:  pos.Column,
				Doc:  doc,
			})
			doc = nil
		}
	}

	return sites, nil
}

// parseDirective interprets one comment line. It reports whether the line is
// a //unique:type directive, and if so the declared type name.
func parseDirective(text string) (name string, isDirective bool, err error) {
	if !strings.HasPrefix(text, config.DirectivePrefix) {
		return "", false, nil
	}

	rest := text[len(config.DirectivePrefix):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		// Something like //unique:typeX — a different (unknown) directive.
		return "", false, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false, fmt.Errorf("directive %q is missing a type name", strings.TrimSpace(text))
	}
	if len(fields) > 1 {
		return "", false, fmt.Errorf("directive %q has trailing tokens after the type name", strings.TrimSpace(text))
	}
	if !validTypeName(fields[0]) {
		return "", false, fmt.Errorf("directive name %q is not a valid Go identifier", fields[0])
	}

	return fields[0], true, nil
}

// isGeneratedFile reports whether the file carries a generated-code header in
// its first comment group, per the "Code generated ... DO NOT EDIT." convention.
func isGeneratedFile(file *ast.File) bool {
	for _, group := range file.Comments {
		// Only headers above or beside the package clause count.
		if group.Pos() > file.Package {
			break
		}
		for _, c := range group.List {
			if strings.HasPrefix(c.Text, "// Code generated ") && strings.HasSuffix(c.Text, " DO NOT EDIT.") {
				return true
			}
		}
	}
	return false
}
