package unique

// Tagged pairs a value with a marker type M used purely as a compile-time
// discriminator. M is never instantiated; it only keeps two Tagged types with
// identical T from being assignable to each other.
//
// Typical use, with Kilometers and Miles minted by the generator:
//
//	type distance = unique.Tagged[float64, Kilometers]
//
//	km := unique.Tag[Kilometers](42.0)
//	mi := unique.Tag[Miles](26.2)
//	// km = mi does not compile.
type Tagged[T any, M Unique] struct {
	Value T
}

// Tag wraps v with the marker type M.
func Tag[M Unique, T any](v T) Tagged[T, M] {
	return Tagged[T, M]{Value: v}
}

// Unwrap returns the underlying value, dropping the tag.
func (t Tagged[T, M]) Unwrap() T {
	return t.Value
}

// TagFingerprint reports the fingerprint of the tag M.
func (t Tagged[T, M]) TagFingerprint() Fingerprint {
	return Of[M]()
}

// Retag converts a value tagged M into one tagged N. Crossing tags is exactly
// what Tagged exists to prevent, so the crossing must be spelled out.
func Retag[N, M Unique, T any](t Tagged[T, M]) Tagged[T, N] {
	return Tagged[T, N]{Value: t.Value}
}
