package pool

import (
	"fmt"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/tamirms/primeindex/internal/bits"
)

// Hasher selects the 32-bit hash used to place strings in the pool.
type Hasher uint8

const (
	// HasherXXH3 folds the 64-bit XXH3 hash. This is the default.
	HasherXXH3 Hasher = iota
	// HasherXXHash folds the 64-bit xxHash64 hash.
	HasherXXHash
	// HasherMurmur3 uses the 32-bit MurmurHash3 hash.
	HasherMurmur3
)

// String returns the hasher name as accepted by ParseHasher.
func (h Hasher) String() string {
	switch h {
	case HasherXXH3:
		return "xxh3"
	case HasherXXHash:
		return "xxhash"
	case HasherMurmur3:
		return "murmur3"
	default:
		return fmt.Sprintf("Hasher(%d)", uint8(h))
	}
}

// ParseHasher parses a hasher name.
func ParseHasher(s string) (Hasher, error) {
	switch s {
	case "xxh3":
		return HasherXXH3, nil
	case "xxhash":
		return HasherXXHash, nil
	case "murmur3":
		return HasherMurmur3, nil
	default:
		return 0, fmt.Errorf("unknown hasher %q", s)
	}
}

// Sum returns the 32-bit hash of b.
func (h Hasher) Sum(b []byte) uint32 {
	switch h {
	case HasherXXHash:
		return bits.Fold64(xxhash.Sum64(b))
	case HasherMurmur3:
		return murmur3.Sum32(b)
	default:
		return bits.Fold64(xxh3.Hash(b))
	}
}

// SumString returns the 32-bit hash of s without copying it.
func (h Hasher) SumString(s string) uint32 {
	return h.Sum(stringBytes(s))
}

// stringBytes views s as a byte slice. The result must not be modified.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
