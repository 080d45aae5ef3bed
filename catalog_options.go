package primeindex

import "fmt"

// VerifyMode selects how much checking NewCatalog and Catalog.Verify do.
type VerifyMode uint8

const (
	// VerifyBoundary checks each entry at the two inputs that decide
	// exactness for the whole domain. Cheap; the default.
	VerifyBoundary VerifyMode = iota

	// VerifyNone trusts the derivation.
	VerifyNone

	// VerifyMultiples evaluates every multiple of each divisor and the value
	// below it against a real division. Cost grows as 2^33/divisor per entry.
	VerifyMultiples
)

// String implements fmt.Stringer.
func (m VerifyMode) String() string {
	switch m {
	case VerifyBoundary:
		return "boundary"
	case VerifyNone:
		return "none"
	case VerifyMultiples:
		return "multiples"
	default:
		return fmt.Sprintf("VerifyMode(%d)", uint8(m))
	}
}

// ParseVerifyMode parses the names produced by VerifyMode.String.
func ParseVerifyMode(s string) (VerifyMode, error) {
	switch s {
	case "boundary":
		return VerifyBoundary, nil
	case "none":
		return VerifyNone, nil
	case "multiples":
		return VerifyMultiples, nil
	default:
		return 0, fmt.Errorf("unknown verify mode %q (want none, boundary or multiples)", s)
	}
}

// CatalogOption is a functional option for configuring catalog construction.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	workers int
	verify  VerifyMode
}

func defaultCatalogConfig() *catalogConfig {
	return &catalogConfig{
		workers: 1, // Single-threaded; use WithWorkers(n) to parallelize
		verify:  VerifyBoundary,
	}
}

// WithWorkers sets the number of parallel workers used for derivation and
// verification. Values below 1 are treated as 1.
func WithWorkers(n int) CatalogOption {
	return func(c *catalogConfig) {
		c.workers = max(n, 1)
	}
}

// WithVerification sets the verification applied to each entry.
func WithVerification(mode VerifyMode) CatalogOption {
	return func(c *catalogConfig) {
		c.verify = mode
	}
}
