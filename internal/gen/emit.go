package gen

import (
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/typemint/typemint/pkg/unique"
)

// outputFileTemplate is the shape of one generated file. One marker type per
// directive site, each embedding Marker and pinning its minted fingerprint.
const outputFileTemplate = `{{.GeneratedBy}}
//
// Input digest: sha256:{{.Digest}}
{{if .Tags}}
//go:build {{.Tags}}
{{end}}
package {{.PkgName}}

import "{{.MarkerImport}}"

{{range .Types}}
// {{.Name}} is a unique marker type minted at {{.Site}}.
{{- range .Doc}}
// {{.}}
{{- end}}
type {{.Name}} struct{ unique.Marker }

// UniqueFingerprint reports the identity minted for {{.Name}}.
func ({{.Name}}) UniqueFingerprint() unique.Fingerprint { return {{.Fingerprint}} }
{{end}}`

// emittedType is the template context for one generated marker type.
type emittedType struct {
	// Name is the generated type name.
	Name string

	// Site is the human-readable mint site (file:line:col).
	Site string

	// Doc holds extra doc lines from the directive's comment group.
	Doc []string

	// Fingerprint is the minted fingerprint as a Go literal.
	Fingerprint string
}

// Emitter renders generated files for scanned packages.
type Emitter struct {
	// markerImport is the import path of the package providing Marker.
	markerImport string

	// tags is an optional //go:build constraint for generated files.
	tags string

	// generatedBy is the header line marking output as generated.
	generatedBy string
}

// NewEmitter creates an emitter. markerImport must be non-empty; tags may be
// empty for unconstrained output.
func NewEmitter(markerImport, tags, generatedBy string) *Emitter {
	return &Emitter{markerImport: markerImport, tags: tags, generatedBy: generatedBy}
}

// Emit renders the generated file for one package. Fingerprints must already
// be registered in the ledger; Emit derives them again deterministically.
// Output is formatted and byte-stable for identical input.
func (e *Emitter) Emit(ps PackageSites, digest string) ([]byte, error) {
	types := make([]emittedType, 0, len(ps.Sites))
	for _, s := range ps.Sites {
		fp := Derive(ps.PkgPath, s)
		types = append(types, emittedType{
			Name:        s.Name,
			Site:        fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col),
			Doc:         s.Doc,
			Fingerprint: fingerprintLiteral(fp),
		})
	}

	tmpl, err := template.New("output").Parse(outputFileTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing output template: %w", err)
	}

	data := struct {
		GeneratedBy  string
		Digest       string
		Tags         string
		PkgName      string
		MarkerImport string
		Types        []emittedType
	}{
		GeneratedBy:  e.generatedBy,
		Digest:       digest,
		Tags:         e.tags,
		PkgName:      ps.PkgName,
		MarkerImport: e.markerImport,
		Types:        types,
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing output template: %w", err)
	}

	// FormatOnly: the template already states its single import.
	formatted, err := imports.Process(ps.PkgName+".go", []byte(buf.String()), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for %s: %w", ps.PkgPath, err)
	}
	return formatted, nil
}

// fingerprintLiteral renders a fingerprint as the hex literal emitted into
// generated source.
func fingerprintLiteral(fp unique.Fingerprint) string {
	return fmt.Sprintf("0x%016x", uint64(fp))
}
