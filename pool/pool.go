// Package pool interns short strings in an open-addressing table whose
// capacity is always a prime from a primeindex.Catalog.
//
// Slots are located with PrimeInfo.BucketIndex and collisions are resolved by
// linear probing. The table grows to the next catalog prime of at least twice
// the entry count whenever an insert would push the load factor past 1/2.
//
// A StringPool is not safe for concurrent use.
package pool

import (
	"github.com/tamirms/primeindex"
)

type slot struct {
	s    string
	hash uint32
	used bool
}

// Stats counts pool activity since construction.
type Stats struct {
	Hits     uint64 // lookups that found a pooled string
	Misses   uint64 // lookups that added a new string
	Unpooled uint64 // strings returned without pooling: too long, or pool full
	Grows    uint64 // table resizes
}

// StringPool is a single-writer string interning table.
type StringPool struct {
	cfg     *config
	catalog *primeindex.Catalog
	info    primeindex.PrimeInfo // current capacity
	limit   primeindex.PrimeInfo // largest capacity allowed
	slots   []slot
	count   int
	stats   Stats
}

// New creates an empty pool.
func New(opts ...Option) *StringPool {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cat := cfg.catalog
	if cat == nil {
		cat = primeindex.DefaultCatalog()
	}

	limit := cat.Min()
	for _, e := range cat.All() {
		if e.Divisor() > cfg.maxCapacity {
			break
		}
		limit = e
	}

	info, ok := cat.Ceil(cfg.initialCapacity)
	if !ok || info.Divisor() > limit.Divisor() {
		info = limit
	}

	return &StringPool{
		cfg:     cfg,
		catalog: cat,
		info:    info,
		limit:   limit,
		slots:   make([]slot, info.Divisor()),
	}
}

// Intern returns a string equal to b, sharing storage with earlier calls for
// the same bytes when possible. b is not retained.
func (p *StringPool) Intern(b []byte) string {
	if len(b) > p.cfg.maxStringLength {
		p.stats.Unpooled++
		return string(b)
	}
	h := p.cfg.hasher.Sum(b)
	i, found := p.find(h, b)
	if found {
		p.stats.Hits++
		return p.slots[i].s
	}
	return p.insert(h, string(b))
}

// InternString is Intern for a string. When s is not already pooled, s itself
// is stored and returned.
func (p *StringPool) InternString(s string) string {
	if len(s) > p.cfg.maxStringLength {
		p.stats.Unpooled++
		return s
	}
	b := stringBytes(s)
	h := p.cfg.hasher.Sum(b)
	i, found := p.find(h, b)
	if found {
		p.stats.Hits++
		return p.slots[i].s
	}
	return p.insert(h, s)
}

// find probes from the home bucket of h. It returns the slot holding key, or
// the empty slot that ends the probe sequence.
func (p *StringPool) find(h uint32, key []byte) (int, bool) {
	i := int(p.info.BucketIndex(h))
	for {
		sl := &p.slots[i]
		if !sl.used {
			return i, false
		}
		if sl.hash == h && sl.s == string(key) {
			return i, true
		}
		i++
		if i == len(p.slots) {
			i = 0
		}
	}
}

func (p *StringPool) insert(h uint32, s string) string {
	if 2*(p.count+1) > len(p.slots) && !p.grow() {
		// At the size limit; keep one slot empty so probes terminate.
		if p.count+1 >= len(p.slots) {
			p.stats.Unpooled++
			return s
		}
	}
	i, _ := p.find(h, stringBytes(s))
	p.slots[i] = slot{s: s, hash: h, used: true}
	p.count++
	p.stats.Misses++
	return s
}

// grow rehashes into the next catalog capacity that keeps the load at or
// below 1/2. It reports false when the pool is already at its limit.
func (p *StringPool) grow() bool {
	if p.info.Divisor() >= p.limit.Divisor() {
		return false
	}
	next, ok := p.catalog.Ceil(uint32(2 * (p.count + 1)))
	if !ok || next.Divisor() > p.limit.Divisor() {
		next = p.limit
	}

	old := p.slots
	p.info = next
	p.slots = make([]slot, next.Divisor())
	for _, sl := range old {
		if !sl.used {
			continue
		}
		i := int(next.BucketIndex(sl.hash))
		for p.slots[i].used {
			i++
			if i == len(p.slots) {
				i = 0
			}
		}
		p.slots[i] = sl
	}
	p.stats.Grows++
	return true
}

// Len returns the number of pooled strings.
func (p *StringPool) Len() int { return p.count }

// Cap returns the current number of slots, always a catalog prime.
func (p *StringPool) Cap() int { return len(p.slots) }

// Stats returns the activity counters.
func (p *StringPool) Stats() Stats { return p.stats }

// Reset drops every pooled string. Capacity and stats are kept.
func (p *StringPool) Reset() {
	clear(p.slots)
	p.count = 0
}
