package primeindex

import (
	"context"
	"fmt"
	"math"
	"math/big"

	primeerrors "github.com/tamirms/primeindex/errors"
	intbits "github.com/tamirms/primeindex/internal/bits"
	"github.com/tamirms/primeindex/internal/magic"
)

// PrimeInfo is a prime table capacity together with the constants that
// replace division by it with a widening multiply and a shift.
//
// PrimeInfo is an immutable value: copy it freely and compare with ==. The
// zero value has no divisor and must not be evaluated; obtain one from
// NewPrimeInfo, PrimeInfoFromConstants or a Catalog.
type PrimeInfo struct {
	multiplier uint64
	divisor    uint32
	shift      uint8
}

// NewPrimeInfo derives the constants for divisor.
// Returns ErrInvalidDivisor for even values and values <= 2, and
// ErrNotPrime for odd composites.
func NewPrimeInfo(divisor uint32) (PrimeInfo, error) {
	if err := validatePrime(divisor); err != nil {
		return PrimeInfo{}, err
	}
	m, s, err := DeriveMagic(divisor)
	if err != nil {
		return PrimeInfo{}, err
	}
	return PrimeInfo{multiplier: m, divisor: divisor, shift: s}, nil
}

// MustPrimeInfo is like NewPrimeInfo but panics on error.
// Intended for package-level tables of known primes.
func MustPrimeInfo(divisor uint32) PrimeInfo {
	p, err := NewPrimeInfo(divisor)
	if err != nil {
		panic(err)
	}
	return p
}

// PrimeInfoFromConstants validates precomputed constants, for example ones
// generated offline by primegen. The pair must be the minimal exact one that
// DeriveMagic would return; anything else is ErrInvariantViolation.
func PrimeInfoFromConstants(divisor uint32, multiplier uint64, shift uint8) (PrimeInfo, error) {
	if err := validatePrime(divisor); err != nil {
		return PrimeInfo{}, err
	}
	if shift > magic.MaxShift || multiplier != magic.Multiplier(divisor, shift) {
		return PrimeInfo{}, fmt.Errorf("%w: divisor %d: multiplier %#x shift %d is not ceil(2^(32+shift)/divisor)",
			primeerrors.ErrInvariantViolation, divisor, multiplier, shift)
	}
	if !magic.Exact(divisor, multiplier, shift) {
		return PrimeInfo{}, fmt.Errorf("%w: divisor %d: shift %d is too small",
			primeerrors.ErrInvariantViolation, divisor, shift)
	}
	if !magic.Minimal(divisor, shift) {
		return PrimeInfo{}, fmt.Errorf("%w: divisor %d: shift %d is not minimal",
			primeerrors.ErrInvariantViolation, divisor, shift)
	}
	remember(divisor, multiplier, shift)
	return PrimeInfo{multiplier: multiplier, divisor: divisor, shift: shift}, nil
}

// MustPrimeInfoFromConstants is like PrimeInfoFromConstants but panics on error.
func MustPrimeInfoFromConstants(divisor uint32, multiplier uint64, shift uint8) PrimeInfo {
	p, err := PrimeInfoFromConstants(divisor, multiplier, shift)
	if err != nil {
		panic(err)
	}
	return p
}

// Divisor returns the prime capacity.
func (p PrimeInfo) Divisor() uint32 { return p.divisor }

// Multiplier returns the magic multiplier ceil(2^(32+Shift) / Divisor).
func (p PrimeInfo) Multiplier() uint64 { return p.multiplier }

// Shift returns the shift applied on top of the fixed 32.
func (p PrimeInfo) Shift() uint8 { return p.shift }

// Narrow reports whether the multiplier fits in 32 bits, in which case the
// whole product fits in a single 64-bit register.
func (p PrimeInfo) Narrow() bool { return p.multiplier <= math.MaxUint32 }

// Quotient returns hash / Divisor without a divide instruction.
func (p PrimeInfo) Quotient(hash uint32) uint32 {
	return intbits.MulShift(hash, p.multiplier, p.shift)
}

// Remainder returns hash % Divisor without a divide instruction.
// The quotient is exact, so the subtraction neither underflows nor leaves a
// value >= Divisor.
func (p PrimeInfo) Remainder(hash uint32) uint32 {
	return hash - p.Quotient(hash)*p.divisor
}

// BucketIndex maps a 32-bit hash to a slot in [0, Divisor).
func (p PrimeInfo) BucketIndex(hash uint32) uint32 {
	return p.Remainder(hash)
}

// Verify re-checks the constants at the inputs that decide exactness for the
// whole 32-bit domain. A failure means the constants were mis-derived.
func (p PrimeInfo) Verify() error {
	if !magic.Exact(p.divisor, p.multiplier, p.shift) {
		return fmt.Errorf("%w: %v", primeerrors.ErrInvariantViolation, p)
	}
	return nil
}

// VerifyMultiples compares Quotient against a real division at every
// multiple of Divisor and the value below it. Cost is about 2^33/Divisor
// evaluations.
func (p PrimeInfo) VerifyMultiples(ctx context.Context) error {
	return magic.CheckMultiples(ctx, p.divisor, p.multiplier, p.shift)
}

// String implements fmt.Stringer.
func (p PrimeInfo) String() string {
	return fmt.Sprintf("PrimeInfo{divisor=%d multiplier=%#x shift=%d}", p.divisor, p.multiplier, p.shift)
}

// validatePrime rejects invalid divisors first, then odd composites.
// ProbablyPrime(0) is exact for values below 2^64.
func validatePrime(divisor uint32) error {
	if err := magic.ValidateDivisor(divisor); err != nil {
		return err
	}
	if !new(big.Int).SetUint64(uint64(divisor)).ProbablyPrime(0) {
		return fmt.Errorf("%w: %d", primeerrors.ErrNotPrime, divisor)
	}
	return nil
}
