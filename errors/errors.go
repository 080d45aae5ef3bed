// Package errors defines all exported error sentinels for the primeindex library.
//
// This is the single source of truth for error values. The top-level
// primeindex package and the internal packages import from here, so
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Derivation errors
var (
	ErrInvalidDivisor     = errors.New("primeindex: divisor must be odd and greater than 2")
	ErrNotPrime           = errors.New("primeindex: divisor is not prime")
	ErrInvariantViolation = errors.New("primeindex: magic constants do not reproduce exact division")
)

// Catalog errors
var (
	ErrEmptyCatalog    = errors.New("primeindex: catalog has no entries")
	ErrUnsortedCatalog = errors.New("primeindex: catalog divisors are not strictly increasing")
)

// Catalog file errors
var (
	ErrInvalidMagic     = errors.New("primeindex: invalid magic number")
	ErrInvalidVersion   = errors.New("primeindex: unsupported version")
	ErrChecksumFailed   = errors.New("primeindex: catalog checksum verification failed")
	ErrTruncatedFile    = errors.New("primeindex: catalog file is truncated")
	ErrCorruptedCatalog = errors.New("primeindex: catalog data is corrupted")
)
