// Package primeindex maps 32-bit hashes to buckets of a prime-sized hash
// table without a hardware divide.
//
// For each prime capacity p a pair (multiplier, shift) is derived once such
// that (n * multiplier) >> (32 + shift) == n / p for every 32-bit n. A bucket
// index is then one widening multiply, one shift, one multiply and one
// subtraction, exact over the whole 32-bit domain.
//
// # Basic Usage
//
// Deriving constants for a single capacity:
//
//	info, err := primeindex.NewPrimeInfo(7199369)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	slot := info.BucketIndex(hash) // == hash % 7199369
//
// Growing through the shared catalog of capacities:
//
//	cat := primeindex.DefaultCatalog()
//	info, ok := cat.Ceil(2 * count)
//	if !ok {
//	    info = cat.Max()
//	}
//
// Precomputing a catalog offline and loading it at startup:
//
//	cat, err := primeindex.NewCatalog(primes, primeindex.WithVerification(primeindex.VerifyMultiples))
//	...
//	err = primeindex.WriteCatalogFile("capacities.prmc", cat)
//	...
//	cat, err = primeindex.OpenCatalogFile("capacities.prmc")
//
// # Multiplier Width
//
// The minimal exact multiplier fits in 32 bits for most primes, but not all:
// for 7 it is 0x124924925. Multipliers are therefore stored as uint64 and the
// product is formed at 128-bit width with math/bits.Mul64, which compiles to
// a single instruction on 64-bit platforms. PrimeInfo.Narrow reports whether
// a given multiplier fits in 32 bits.
//
// # Package Structure
//
//   - Evaluation: prime_info.go (PrimeInfo, Quotient, Remainder, BucketIndex)
//   - Derivation: derive.go (DeriveMagic, memoization), internal/magic
//   - Catalog: catalog.go, catalog_options.go
//   - Serialization: catalog_format.go, catalog_writer.go, catalog_reader.go
//   - Reference table: pool/ (string interning over prime capacities)
//   - Platform: fallocate_*.go, fadvise_*.go, prefault_*.go
package primeindex
