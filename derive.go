package primeindex

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tamirms/primeindex/internal/magic"
)

// magicPair is a memoized derivation result.
type magicPair struct {
	multiplier uint64
	shift      uint8
}

// derived memoizes derivations per divisor for the life of the process.
// Entries are only ever added, and two derivations of the same divisor agree,
// so a lost race costs one redundant computation and nothing else.
var (
	derived     sync.Map // uint32 -> magicPair
	deriveGroup singleflight.Group
)

// DeriveMagic returns the minimal (multiplier, shift) pair such that
// (n * multiplier) >> (32 + shift) == n / divisor for every 32-bit n.
//
// divisor must be odd and greater than 2; anything else returns
// ErrInvalidDivisor. Results are memoized, and concurrent first calls for
// the same divisor share one derivation.
func DeriveMagic(divisor uint32) (multiplier uint64, shift uint8, err error) {
	if v, ok := derived.Load(divisor); ok {
		p := v.(magicPair)
		return p.multiplier, p.shift, nil
	}
	if err := magic.ValidateDivisor(divisor); err != nil {
		return 0, 0, err
	}

	v, err, _ := deriveGroup.Do(strconv.FormatUint(uint64(divisor), 10), func() (any, error) {
		m, s, err := magic.Derive(divisor)
		if err != nil {
			return nil, err
		}
		p := magicPair{multiplier: m, shift: s}
		derived.Store(divisor, p)
		return p, nil
	})
	if err != nil {
		return 0, 0, err
	}
	p := v.(magicPair)
	return p.multiplier, p.shift, nil
}

// remember seeds the memo with constants validated elsewhere.
func remember(divisor uint32, multiplier uint64, shift uint8) {
	derived.LoadOrStore(divisor, magicPair{multiplier: multiplier, shift: shift})
}
