package pool

import "github.com/tamirms/primeindex"

const (
	defaultInitialCapacity = 64
	defaultMaxCapacity     = 1 << 16
	defaultMaxStringLength = 32
)

type config struct {
	hasher          Hasher
	initialCapacity uint32
	maxCapacity     uint32
	maxStringLength int
	catalog         *primeindex.Catalog
}

func defaultConfig() *config {
	return &config{
		hasher:          HasherXXH3,
		initialCapacity: defaultInitialCapacity,
		maxCapacity:     defaultMaxCapacity,
		maxStringLength: defaultMaxStringLength,
	}
}

// Option configures a StringPool.
type Option func(*config)

// WithHasher selects the hash function. Default: HasherXXH3.
func WithHasher(h Hasher) Option {
	return func(c *config) {
		c.hasher = h
	}
}

// WithInitialCapacity sets the minimum number of slots allocated up front.
// The actual capacity is the smallest catalog prime at least n.
func WithInitialCapacity(n uint32) Option {
	return func(c *config) {
		c.initialCapacity = max(n, 1)
	}
}

// WithMaxCapacity bounds growth. The pool never grows past the largest
// catalog prime at most n. Default: 65536.
func WithMaxCapacity(n uint32) Option {
	return func(c *config) {
		c.maxCapacity = max(n, 1)
	}
}

// WithMaxStringLength sets the longest string, in bytes, that is pooled.
// Longer strings are returned unpooled. Default: 32.
func WithMaxStringLength(n int) Option {
	return func(c *config) {
		c.maxStringLength = max(n, 0)
	}
}

// WithCatalog sets the catalog of capacities the pool grows through.
// Default: primeindex.DefaultCatalog().
func WithCatalog(cat *primeindex.Catalog) Option {
	return func(c *config) {
		c.catalog = cat
	}
}
