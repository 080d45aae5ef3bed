// Bench compares primeindex bucket indexing against the hardware modulo and
// measures string pool throughput.
//
// Usage:
//
//	go run ./cmd/bench -hashes 10000000 -capacity 7199369
//
// Flags:
//
//	-hashes     Number of hashes to index (default: 10,000,000)
//	-capacity   Prime capacity to index into (default: 7199369)
//	-rounds     Passes over the hashes per measurement (default: 5)
//	-strings    Distinct strings for the pool benchmark, 0 to skip (default: 100,000)
//	-cpuprofile Write a CPU profile of the indexing phase to file
package main

import (
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/tamirms/primeindex"
	"github.com/tamirms/primeindex/pool"
)

// sink keeps results alive so the loops are not optimized away.
var sink uint32

func main() {
	hashesFlag := flag.Int("hashes", 10_000_000, "number of hashes")
	capacityFlag := flag.Uint("capacity", 7199369, "prime capacity")
	roundsFlag := flag.Int("rounds", 5, "passes over the hashes per measurement")
	stringsFlag := flag.Int("strings", 100_000, "distinct strings for the pool benchmark (0 to skip)")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (indexing phase only)")
	flag.Parse()

	numHashes := *hashesFlag
	rounds := max(*roundsFlag, 1)

	info, err := primeindex.NewPrimeInfo(uint32(*capacityFlag))
	if err != nil {
		fmt.Printf("Invalid capacity: %v\n", err)
		return
	}

	fmt.Println("Generating hashes...")
	hashes := make([]uint32, numHashes)
	var key [16]byte
	seed := uint32(0x1234)
	hashStart := time.Now()
	for i := range hashes {
		_, _ = rand.Read(key[:8]) // crypto/rand.Read error is fatal system issue; ignore for benchmark
		binary.LittleEndian.PutUint64(key[8:], uint64(i))
		hashes[i] = murmur3.Sum32WithSeed(key[:], seed)
	}
	hashDuration := time.Since(hashStart)

	fmt.Println("Checking BucketIndex against modulo...")
	p := info.Divisor()
	for _, h := range hashes {
		if got, want := info.BucketIndex(h), h%p; got != want {
			fmt.Printf("Mismatch: BucketIndex(%d) = %d, want %d\n", h, got, want)
			return
		}
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	fmt.Println("Benchmarking modulo...")
	// Read the divisor through a slice so the compiler cannot specialize it.
	divisors := []uint32{p}
	modDuration := measure(rounds, func() uint32 {
		var acc uint32
		d := divisors[0]
		for _, h := range hashes {
			acc += h % d
		}
		return acc
	})

	fmt.Println("Benchmarking BucketIndex...")
	magicDuration := measure(rounds, func() uint32 {
		var acc uint32
		for _, h := range hashes {
			acc += info.BucketIndex(h)
		}
		return acc
	})

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}

	ops := float64(numHashes * rounds)
	modNs := float64(modDuration.Nanoseconds()) / ops
	magicNs := float64(magicDuration.Nanoseconds()) / ops

	width := "32-bit"
	if !info.Narrow() {
		width = "33-bit"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════════════╗\n")
	fmt.Printf("║ Capacity            ║ %-22d ║\n", p)
	fmt.Printf("║ Multiplier          ║ %-#22x ║\n", info.Multiplier())
	fmt.Printf("║ Shift / width       ║ %-2d / %-17s ║\n", info.Shift(), width)
	fmt.Printf("╠═════════════════════╬════════════════════════╣\n")
	fmt.Printf("║ Hash time           ║ %6.2f sec             ║\n", hashDuration.Seconds())
	fmt.Printf("║ Modulo              ║ %6.3f ns/op           ║\n", modNs)
	fmt.Printf("║ BucketIndex         ║ %6.3f ns/op           ║\n", magicNs)
	fmt.Printf("║ Speedup             ║ %6.2fx                ║\n", modNs/magicNs)
	fmt.Printf("╚═════════════════════╩════════════════════════╝\n")

	if *stringsFlag > 0 {
		benchPool(*stringsFlag, rounds)
	}
}

// measure runs fn rounds times and returns the total elapsed time.
func measure(rounds int, fn func() uint32) time.Duration {
	sink += fn() // warm up
	start := time.Now()
	for range rounds {
		sink += fn()
	}
	return time.Since(start)
}

func benchPool(numStrings, rounds int) {
	fmt.Println("\nBenchmarking string pool...")
	keys := make([][]byte, numStrings)
	for i := range keys {
		keys[i] = fmt.Appendf(nil, "identifier-%08x", i)
	}

	fmt.Printf("%-10s %12s %12s %10s %8s\n", "hasher", "insert ns/op", "lookup ns/op", "capacity", "grows")
	for _, h := range []pool.Hasher{pool.HasherXXH3, pool.HasherXXHash, pool.HasherMurmur3} {
		sp := pool.New(pool.WithHasher(h), pool.WithMaxCapacity(uint32(4*numStrings)))

		insertStart := time.Now()
		for _, k := range keys {
			sp.Intern(k)
		}
		insertNs := float64(time.Since(insertStart).Nanoseconds()) / float64(numStrings)

		lookupDuration := measure(rounds, func() uint32 {
			var n uint32
			for _, k := range keys {
				n += uint32(len(sp.Intern(k)))
			}
			return n
		})
		lookupNs := float64(lookupDuration.Nanoseconds()) / float64(numStrings*rounds)

		fmt.Printf("%-10s %12.2f %12.2f %10d %8d\n", h, insertNs, lookupNs, sp.Cap(), sp.Stats().Grows)
	}
}
