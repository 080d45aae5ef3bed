package pool

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

func TestHasherSum(t *testing.T) {
	data := []byte("prime capacity")
	tests := []struct {
		h    Hasher
		want uint32
	}{
		{HasherXXH3, fold(xxh3.Hash(data))},
		{HasherXXHash, fold(xxhash.Sum64(data))},
		{HasherMurmur3, murmur3.Sum32(data)},
	}
	for _, tt := range tests {
		if got := tt.h.Sum(data); got != tt.want {
			t.Errorf("%v.Sum = %#x, want %#x", tt.h, got, tt.want)
		}
		if got := tt.h.SumString(string(data)); got != tt.want {
			t.Errorf("%v.SumString = %#x, want %#x", tt.h, got, tt.want)
		}
	}
}

func fold(h uint64) uint32 { return uint32(h ^ h>>32) }

func TestParseHasher(t *testing.T) {
	for _, h := range []Hasher{HasherXXH3, HasherXXHash, HasherMurmur3} {
		got, err := ParseHasher(h.String())
		if err != nil || got != h {
			t.Errorf("ParseHasher(%q) = %v, %v", h.String(), got, err)
		}
	}
	if _, err := ParseHasher("fnv"); err == nil {
		t.Error("ParseHasher accepted an unknown name")
	}
	if got := Hasher(9).String(); got != "Hasher(9)" {
		t.Errorf("String = %q", got)
	}
}
