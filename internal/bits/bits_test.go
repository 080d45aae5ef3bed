package bits

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/big"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// refMulShift computes (n * m) >> (32 + shift) with math/big.
func refMulShift(n uint32, m uint64, shift uint8) uint32 {
	p := new(big.Int).Mul(new(big.Int).SetUint64(uint64(n)), new(big.Int).SetUint64(m))
	p.Rsh(p, uint(32+shift))
	mask := new(big.Int).SetUint64(math.MaxUint32)
	return uint32(p.And(p, mask).Uint64())
}

// TestMulShiftMatchesBigInt compares against arbitrary precision arithmetic
// for random operands at every legal shift.
func TestMulShiftMatchesBigInt(t *testing.T) {
	rng := newTestRNG(t)
	const iterations = 2000

	for shift := uint8(0); shift <= 32; shift++ {
		for i := 0; i < iterations; i++ {
			n := rng.Uint32()
			m := rng.Uint64()
			if got, want := MulShift(n, m, shift), refMulShift(n, m, shift); got != want {
				t.Fatalf("MulShift(%d, 0x%X, %d) = %d, want %d", n, m, shift, got, want)
			}
		}
	}
}

// TestMulShiftNarrowMultiplier verifies that a multiplier below 2^32 gives
// the plain 64-bit product shifted right.
func TestMulShiftNarrowMultiplier(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 10000; i++ {
		n := rng.Uint32()
		m := uint64(rng.Uint32())
		shift := uint8(rng.UintN(32))
		want := uint32((uint64(n) * m) >> (32 + shift))
		if got := MulShift(n, m, shift); got != want {
			t.Fatalf("MulShift(%d, %d, %d) = %d, want %d", n, m, shift, got, want)
		}
	}
}

// TestMulShiftEdgeCases tests zero operands and the extreme shifts.
func TestMulShiftEdgeCases(t *testing.T) {
	cases := []struct {
		n     uint32
		m     uint64
		shift uint8
		want  uint32
	}{
		{0, math.MaxUint64, 0, 0},
		{math.MaxUint32, 0, 7, 0},
		{1, 1 << 32, 0, 1},
		{math.MaxUint32, 1 << 32, 0, math.MaxUint32},
		{math.MaxUint32, 1 << 32, 32, 0},
		{math.MaxUint32, math.MaxUint64, 32, math.MaxUint32 - 1},
		{2, 1 << 63, 32, 1},
	}
	for _, tc := range cases {
		if got := MulShift(tc.n, tc.m, tc.shift); got != tc.want {
			t.Errorf("MulShift(%d, 0x%X, %d) = %d, want %d", tc.n, tc.m, tc.shift, got, tc.want)
		}
	}
}

func TestFold64(t *testing.T) {
	cases := []struct {
		h    uint64
		want uint32
	}{
		{0, 0},
		{0x00000000FFFFFFFF, 0xFFFFFFFF},
		{0xFFFFFFFF00000000, 0xFFFFFFFF},
		{0xFFFFFFFFFFFFFFFF, 0},
		{0x1234567800000001, 0x12345679},
	}
	for _, tc := range cases {
		if got := Fold64(tc.h); got != tc.want {
			t.Errorf("Fold64(0x%X) = 0x%X, want 0x%X", tc.h, got, tc.want)
		}
	}
}
