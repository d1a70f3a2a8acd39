// Package unique provides zero-size marker types that are guaranteed to be
// distinct from every other marker type in a program.
//
// Marker types carry no data and no behavior beyond their identity. They exist
// so that structurally identical values can be made distinguishable to the
// type system, for example two unit systems both represented as float64.
//
// Types are minted at build time by the typemint tool: a //unique:type
// directive in a Go source file causes a fresh nominal type to be generated
// for that exact site, parameterized by a Fingerprint derived from the site's
// file, line and column. Because Go types are nominal, two generated types are
// never interchangeable even when their declarations look identical.
//
// Typical setup:
//
//	//go:generate go run github.com/typemint/typemint/cmd/typemint
//
//	//unique:type Kilometers
//	//unique:type Miles
//
// For cases where a fresh identity is needed per call rather than per source
// site (loops, generic functions instantiated many times), New mints a
// runtime-checked Token instead. Tokens are weaker: their distinctness is a
// property of values, not of types, and is enforced by comparison rather than
// by the compiler.
package unique

import (
	"fmt"
	"reflect"
)

// Fingerprint identifies the source site a marker type was minted at.
//
// Fingerprints are unique within one generator run over one program; they are
// not required to be stable across checkouts or machines (they are in
// practice, since they hash package-relative positions).
type Fingerprint uint64

// String renders the fingerprint as fixed-width hex.
func (f Fingerprint) String() string {
	return fmt.Sprintf("0x%016x", uint64(f))
}

// Unique is satisfied exactly by marker types produced through the sanctioned
// generation path. Generic code that needs a compile-time discriminator
// should bound on Unique rather than on any concrete marker type.
//
// The interface is sealed: the unexported method can only be obtained by
// embedding Marker, and UniqueFingerprint is emitted by the generator.
type Unique interface {
	// UniqueFingerprint reports the identity minted for this type.
	UniqueFingerprint() Fingerprint

	uniqueMarker()
}

// Marker is the zero-size base that every generated marker type embeds.
//
// Marker must be reachable from generated code in arbitrary modules, so it is
// exported even though it is machinery. Embedding it by hand is possible but
// carries an obligation: a hand-declared marker type must not return a
// fingerprint already minted by the generator, or the distinctness guarantee
// silently breaks for both types. Let the generator mint types instead.
//
// The zero-width func field makes every marker type incomparable, so marker
// values cannot be used as map keys or compared with ==; their only legitimate
// use is as a type argument.
type Marker struct {
	_ [0]func()
}

func (Marker) uniqueMarker() {}

// Of reports the fingerprint of a marker type without needing a value of it.
func Of[T Unique]() Fingerprint {
	var zero T
	return zero.UniqueFingerprint()
}

// Same reports whether A and B are the same minted type.
//
// Distinctness of generated types is a compile-time fact; Same exists so that
// tests and diagnostics can state it at runtime.
func Same[A, B Unique]() bool {
	return reflect.TypeOf((*A)(nil)) == reflect.TypeOf((*B)(nil))
}
