package primeindex

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a generator seeded from the test name, so each test
// sees its own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// extraPrimes are primes outside the default catalog that stress the ends
// of the domain.
var extraPrimes = []uint32{5, 13, 641, 65537, 1000003, 2147483647, 4294967291}

// testPrimes returns the default capacities followed by extraPrimes.
func testPrimes() []uint32 {
	return append(DefaultPrimes(), extraPrimes...)
}

// mustInfo derives constants for p or fails the test.
func mustInfo(t testing.TB, p uint32) PrimeInfo {
	t.Helper()
	info, err := NewPrimeInfo(p)
	if err != nil {
		t.Fatalf("NewPrimeInfo(%d): %v", p, err)
	}
	return info
}

// checkAgainstDivision compares quotient, remainder and bucket index of n
// with the hardware operators.
func checkAgainstDivision(t testing.TB, info PrimeInfo, n uint32) {
	t.Helper()
	p := info.Divisor()
	if got, want := info.Quotient(n), n/p; got != want {
		t.Fatalf("%v: Quotient(%d) = %d, want %d", info, n, got, want)
	}
	if got, want := info.Remainder(n), n%p; got != want {
		t.Fatalf("%v: Remainder(%d) = %d, want %d", info, n, got, want)
	}
	if got := info.BucketIndex(n); got >= p {
		t.Fatalf("%v: BucketIndex(%d) = %d out of range", info, n, got)
	}
}
