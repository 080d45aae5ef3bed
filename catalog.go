package primeindex

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	primeerrors "github.com/tamirms/primeindex/errors"
)

// Catalog is an immutable, ordered set of prime capacities and their magic
// constants, one per size an owning hash table may grow to.
//
// Thread Safety:
//   - All methods are safe for concurrent use; nothing is written after
//     construction
//   - Entries are returned by value
type Catalog struct {
	entries []PrimeInfo // strictly increasing by divisor
	workers int
}

// defaultPrimes are the classic prime hash table capacities, from 3 up to
// 7199369, spaced about 1.2x apart at the large end.
var defaultPrimes = []uint32{
	3, 7, 11, 17, 23, 29, 37, 47, 59, 71, 89, 107, 131, 163, 197, 239, 293, 353, 431, 521, 631, 761, 919,
	1103, 1327, 1597, 1931, 2333, 2801, 3371, 4049, 4861, 5839, 7013, 8419, 10103, 12143, 14591,
	17519, 21023, 25229, 30293, 36353, 43627, 52361, 62851, 75431, 90523, 108631, 130363, 156437,
	187751, 225307, 270371, 324449, 389357, 467237, 560689, 672827, 807403, 968897, 1162687, 1395263,
	1674319, 2009191, 2411033, 2893249, 3471899, 4166287, 4999559, 5999471, 7199369,
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(defaultPrimes)
	if err != nil {
		panic(fmt.Sprintf("primeindex: default catalog: %v", err))
	}
	return c
})

// DefaultCatalog returns the shared catalog of default capacities.
// It is built on first use and never changes afterwards.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// DefaultPrimes returns a copy of the capacities behind DefaultCatalog.
func DefaultPrimes() []uint32 {
	return slices.Clone(defaultPrimes)
}

// NewCatalog derives and verifies an entry for every prime.
//
// primes must be non-empty, strictly increasing, and contain only odd primes
// greater than 2. Construction fails fast on the first bad divisor: a catalog
// is never returned with an entry that would mis-index.
func NewCatalog(primes []uint32, opts ...CatalogOption) (*Catalog, error) {
	cfg := defaultCatalogConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := checkOrder(primes); err != nil {
		return nil, err
	}

	entries := make([]PrimeInfo, len(primes))
	err := forEachParallel(context.Background(), cfg.workers, len(primes), func(ctx context.Context, i int) error {
		info, err := NewPrimeInfo(primes[i])
		if err != nil {
			return fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if err := verifyEntry(ctx, info, cfg.verify); err != nil {
			return fmt.Errorf("catalog entry %d: %w", i, err)
		}
		entries[i] = info
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Catalog{entries: entries, workers: cfg.workers}, nil
}

// newCatalogFromEntries builds a catalog from already-validated entries.
func newCatalogFromEntries(entries []PrimeInfo, cfg *catalogConfig) (*Catalog, error) {
	divisors := make([]uint32, len(entries))
	for i, e := range entries {
		divisors[i] = e.divisor
	}
	if err := checkOrder(divisors); err != nil {
		return nil, err
	}
	c := &Catalog{entries: entries, workers: cfg.workers}
	if cfg.verify != VerifyNone {
		if err := c.Verify(context.Background(), cfg.verify); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func checkOrder(primes []uint32) error {
	if len(primes) == 0 {
		return primeerrors.ErrEmptyCatalog
	}
	for i := 1; i < len(primes); i++ {
		if primes[i] <= primes[i-1] {
			return fmt.Errorf("%w: %d at position %d follows %d",
				primeerrors.ErrUnsortedCatalog, primes[i], i, primes[i-1])
		}
	}
	return nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the i-th entry in increasing divisor order.
// Panics if i is out of range.
func (c *Catalog) At(i int) PrimeInfo { return c.entries[i] }

// Min returns the smallest entry.
func (c *Catalog) Min() PrimeInfo { return c.entries[0] }

// Max returns the largest entry.
func (c *Catalog) Max() PrimeInfo { return c.entries[len(c.entries)-1] }

// All iterates over the entries in increasing divisor order.
func (c *Catalog) All() iter.Seq2[int, PrimeInfo] {
	return func(yield func(int, PrimeInfo) bool) {
		for i, e := range c.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Divisors returns a copy of the catalog's divisors.
func (c *Catalog) Divisors() []uint32 {
	out := make([]uint32, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.divisor
	}
	return out
}

// Lookup returns the entry whose divisor equals capacity.
func (c *Catalog) Lookup(capacity uint32) (PrimeInfo, bool) {
	i, found := c.search(capacity)
	if !found {
		return PrimeInfo{}, false
	}
	return c.entries[i], true
}

// Ceil returns the smallest entry whose divisor is >= minCapacity.
// Returns false when minCapacity exceeds the largest entry.
func (c *Catalog) Ceil(minCapacity uint32) (PrimeInfo, bool) {
	i, _ := c.search(minCapacity)
	if i == len(c.entries) {
		return PrimeInfo{}, false
	}
	return c.entries[i], true
}

// Next returns the first entry whose divisor is strictly greater than capacity.
func (c *Catalog) Next(capacity uint32) (PrimeInfo, bool) {
	i, found := c.search(capacity)
	if found {
		i++
	}
	if i == len(c.entries) {
		return PrimeInfo{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) search(capacity uint32) (int, bool) {
	return slices.BinarySearchFunc(c.entries, capacity, func(e PrimeInfo, target uint32) int {
		return cmp.Compare(e.divisor, target)
	})
}

// Verify re-checks every entry with the given mode, spreading the work over
// the catalog's workers. It returns the first failure, wrapped in
// ErrInvariantViolation, or ctx.Err() when cancelled.
func (c *Catalog) Verify(ctx context.Context, mode VerifyMode) error {
	return forEachParallel(ctx, c.workers, len(c.entries), func(ctx context.Context, i int) error {
		return verifyEntry(ctx, c.entries[i], mode)
	})
}

func verifyEntry(ctx context.Context, info PrimeInfo, mode VerifyMode) error {
	switch mode {
	case VerifyNone:
		return nil
	case VerifyMultiples:
		if err := info.Verify(); err != nil {
			return err
		}
		return info.VerifyMultiples(ctx)
	default:
		return info.Verify()
	}
}

// forEachParallel runs fn for 0..n-1 on up to workers goroutines and stops
// scheduling new work after the first error.
func forEachParallel(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
