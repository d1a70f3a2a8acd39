package gen

import (
	"fmt"
	"hash/fnv"

	"github.com/typemint/typemint/pkg/unique"
)

// Derive computes the fingerprint for a directive site. The identity fed to
// the hash is the package path plus file base name, line and column — the
// same triple-plus-scope the site is reported at. Package-relative file names
// keep fingerprints stable across checkouts of the same tree.
func Derive(pkgPath string, s Site) unique.Fingerprint {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%s:%d:%d", pkgPath, s.File, s.Line, s.Col)
	return unique.Fingerprint(h.Sum64())
}

// mintedAt records where a fingerprint was minted, for collision reports.
type mintedAt struct {
	pkgPath string
	site    Site
}

// Ledger tracks every fingerprint minted during one generator run. Distinct
// sites hashing to the same fingerprint would silently collapse two marker
// types into interchangeable ones, so the ledger turns that into a loud
// failure of the run instead.
type Ledger struct {
	minted map[unique.Fingerprint]mintedAt
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{minted: make(map[unique.Fingerprint]mintedAt)}
}

// Register records a fingerprint for a site. It fails if the fingerprint was
// already minted this run, whether by the same site (a scan bug) or by a
// different one (a hash collision).
func (l *Ledger) Register(pkgPath string, s Site, fp unique.Fingerprint) error {
	if prev, ok := l.minted[fp]; ok {
		return fmt.Errorf("fingerprint collision: %s between %s/%s:%d:%d (%s) and %s/%s:%d:%d (%s)",
			fp,
			prev.pkgPath, prev.site.File, prev.site.Line, prev.site.Col, prev.site.Name,
			pkgPath, s.File, s.Line, s.Col, s.Name)
	}
	l.minted[fp] = mintedAt{pkgPath: pkgPath, site: s}
	return nil
}

// Count reports how many fingerprints have been minted.
func (l *Ledger) Count() int {
	return len(l.minted)
}
