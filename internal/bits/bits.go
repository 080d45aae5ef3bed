// Package bits provides low-level multiply primitives.
package bits

import "math/bits"

// MulShift returns uint32((n * m) >> (32 + shift)) where the product is
// formed at full 128-bit width, so m may use all 64 bits.
// shift must be at most 32.
func MulShift(n uint32, m uint64, shift uint8) uint32 {
	hi, lo := bits.Mul64(uint64(n), m)
	return uint32(hi<<(32-shift) | lo>>(32+shift))
}

// Fold64 folds a 64-bit hash to 32 bits, keeping entropy from both halves.
func Fold64(h uint64) uint32 {
	return uint32(h ^ h>>32)
}
