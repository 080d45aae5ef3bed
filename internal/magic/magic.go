// Package magic derives the multiply-and-shift constants that replace
// unsigned 32-bit division by a fixed odd divisor.
//
// For a divisor d and shift s the multiplier is m = ceil(2^(32+s) / d) and
// the quotient of a 32-bit n is (n * m) >> (32 + s), with the product taken
// at full width. Writing e = m*d - 2^(32+s) (the rounding excess, e >= 0),
// the formula is exact for n = q*d + r if and only if
//
//	n * e < (d - r) * 2^(32+s)
//
// For a fixed q the left side grows and the right side shrinks with r, and
// for r = d-1 the left side grows with q. Every input is therefore dominated
// either by the largest numerator 2^32-1 or by the largest numerator
// congruent to d-1 below the last full multiple, so Exact only evaluates
// those two points.
package magic

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	primeerrors "github.com/tamirms/primeindex/errors"
	intbits "github.com/tamirms/primeindex/internal/bits"
)

const (
	// MaxShift bounds the search. With s = ceil(log2 d) the excess e is
	// below 2^s and the condition holds for every 32-bit numerator, so for
	// any d < 2^32 the search stops at or before 32.
	MaxShift = 32

	// maxNumerator is the largest value in the 32-bit domain.
	maxNumerator = math.MaxUint32

	// cancelCheckInterval is how many multiples CheckMultiples walks between
	// context checks.
	cancelCheckInterval = 1 << 16
)

// Derive returns the minimal shift and its multiplier for divisor.
// divisor must be odd and greater than 2.
func Derive(divisor uint32) (multiplier uint64, shift uint8, err error) {
	if err := ValidateDivisor(divisor); err != nil {
		return 0, 0, err
	}
	for s := uint8(0); s <= MaxShift; s++ {
		m := Multiplier(divisor, s)
		if Exact(divisor, m, s) {
			return m, s, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no shift up to %d for divisor %d",
		primeerrors.ErrInvariantViolation, MaxShift, divisor)
}

// ValidateDivisor rejects divisors the derivation does not support:
// zero, one, two and every even value.
func ValidateDivisor(divisor uint32) error {
	if divisor <= 2 || divisor&1 == 0 {
		return fmt.Errorf("%w: %d", primeerrors.ErrInvalidDivisor, divisor)
	}
	return nil
}

// Multiplier returns ceil(2^(32+shift) / divisor).
// Precondition: divisor > 1 and shift <= MaxShift.
func Multiplier(divisor uint32, shift uint8) uint64 {
	hi, lo := pow2(shift)
	q, r := bits.Div64(hi, lo, uint64(divisor))
	if r != 0 {
		q++
	}
	return q
}

// Quotient evaluates (n * m) >> (32 + shift).
func Quotient(n uint32, m uint64, shift uint8) uint32 {
	return intbits.MulShift(n, m, shift)
}

// Exact reports whether (m, shift) reproduces n / divisor for every 32-bit n.
// Multipliers below 2^(32+shift) / divisor are always rejected; for the rest
// the two dominating inputs decide (see the package comment).
func Exact(divisor uint32, m uint64, shift uint8) bool {
	if divisor == 0 || shift > MaxShift {
		return false
	}
	// m * divisor must not fall short of 2^(32+shift).
	hi, lo := bits.Mul64(m, uint64(divisor))
	phi, plo := pow2(shift)
	if hi < phi || (hi == phi && lo < plo) {
		return false
	}

	last := uint32(maxNumerator)
	if Quotient(last, m, shift) != last/divisor {
		return false
	}
	edge := (last/divisor)*divisor - 1
	return Quotient(edge, m, shift) == edge/divisor
}

// Minimal reports whether shift is the smallest shift that works for divisor,
// that is, whether shift-1 with its own multiplier fails.
func Minimal(divisor uint32, shift uint8) bool {
	if shift == 0 {
		return true
	}
	return !Exact(divisor, Multiplier(divisor, shift-1), shift-1)
}

// CheckMultiples walks every multiple k*divisor in the 32-bit domain and the
// value just below it, plus 0 and 2^32-1, comparing the formula against a
// real division. It returns the first failing input wrapped in
// ErrInvariantViolation, or ctx.Err() when cancelled.
func CheckMultiples(ctx context.Context, divisor uint32, m uint64, shift uint8) error {
	if err := checkOne(divisor, m, shift, 0); err != nil {
		return err
	}
	if err := checkOne(divisor, m, shift, maxNumerator); err != nil {
		return err
	}
	d := uint64(divisor)
	var k uint64
	for n := d; n <= maxNumerator; n += d {
		if err := checkOne(divisor, m, shift, uint32(n)); err != nil {
			return err
		}
		if err := checkOne(divisor, m, shift, uint32(n-1)); err != nil {
			return err
		}
		k++
		if k%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckRange compares the formula against a real division for every n in
// [lo, hi], checking ctx every 65536 inputs.
func CheckRange(ctx context.Context, divisor uint32, m uint64, shift uint8, lo, hi uint32) error {
	for n := uint64(lo); n <= uint64(hi); n++ {
		if err := checkOne(divisor, m, shift, uint32(n)); err != nil {
			return err
		}
		if n&(cancelCheckInterval-1) == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkOne(divisor uint32, m uint64, shift uint8, n uint32) error {
	if got, want := Quotient(n, m, shift), n/divisor; got != want {
		return fmt.Errorf("%w: divisor %d multiplier %#x shift %d: %d/%d gave %d, want %d",
			primeerrors.ErrInvariantViolation, divisor, m, shift, n, divisor, got, want)
	}
	return nil
}

// pow2 returns 2^(32+shift) as a 128-bit (hi, lo) pair.
func pow2(shift uint8) (hi, lo uint64) {
	if w := 32 + uint(shift); w < 64 {
		return 0, 1 << w
	}
	return 1 << (32 + uint(shift) - 64), 0
}
