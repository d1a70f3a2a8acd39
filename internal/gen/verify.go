package gen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/typemint/typemint/internal/config"
)

// Digest computes the input digest for one package's generated file. The key
// covers every directive site, its minted fingerprint and the tool semantics
// version, so the digest changes exactly when the output should.
func Digest(ps PackageSites) string {
	h := sha256.New()
	fmt.Fprintf(h, "typemint %s\n", config.ToolVersion)
	fmt.Fprintf(h, "package %s\n", ps.PkgPath)
	for _, s := range ps.Sites {
		fmt.Fprintf(h, "%s %s:%d:%d %s\n", s.Name, s.File, s.Line, s.Col, Derive(ps.PkgPath, s))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// WriteOutput writes rendered content to path, leaving the file untouched
// when it already has the wanted bytes (keeps mtimes stable for build tools).
// Returns true if the file was written.
func WriteOutput(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// ErrDrift is wrapped by VerifyOutput when a generated file is missing or
// does not match what the current sources would generate.
var ErrDrift = errors.New("generated file is out of date")

// VerifyOutput checks that the file at path matches the rendered content
// without writing anything. Used by -verify for CI drift detection.
func VerifyOutput(path string, content []byte) error {
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: missing: %w", path, ErrDrift)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if !bytes.Equal(existing, content) {
		return fmt.Errorf("%s: stale: %w", path, ErrDrift)
	}
	return nil
}
