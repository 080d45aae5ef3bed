// Primegen derives magic constants for a set of prime capacities, verifies
// them and optionally writes a catalog file.
//
// Usage:
//
//	go run ./cmd/primegen -out capacities.prmc -verify multiples
//	go run ./cmd/primegen -min 1000 -max 100000000 -growth 1.5 -format go
//	go run ./cmd/primegen -in capacities.prmc
//
// Flags:
//
//	-min       Smallest capacity of a generated sequence (default: use the default primes)
//	-max       Largest capacity of a generated sequence (default: 7199369)
//	-growth    Ratio between consecutive generated capacities (default: 1.2)
//	-in        Load a catalog file instead of deriving
//	-out       Write the catalog to this file
//	-verify    Verification: none, boundary or multiples (default: boundary)
//	-format    Table format: text, go or none (default: text)
//	-workers   Number of parallel workers (default: GOMAXPROCS)
//	-log       Log level: debug, info, warn or error (default: info)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamirms/primeindex"
)

type options struct {
	min, max uint32
	growth   float64
	in, out  string
	verify   primeindex.VerifyMode
	format   string
	workers  int
}

func main() {
	minFlag := flag.Uint("min", 0, "smallest capacity of a generated sequence (0 = default primes)")
	maxFlag := flag.Uint("max", 7199369, "largest capacity of a generated sequence")
	growthFlag := flag.Float64("growth", 1.2, "ratio between consecutive generated capacities")
	inFlag := flag.String("in", "", "load a catalog file instead of deriving")
	outFlag := flag.String("out", "", "write the catalog to this file")
	verifyFlag := flag.String("verify", "boundary", "verification: none, boundary or multiples")
	formatFlag := flag.String("format", "text", "table format: text, go or none")
	workersFlag := flag.Int("workers", runtime.GOMAXPROCS(0), "number of parallel workers")
	logFlag := flag.String("log", "info", "log level: debug, info, warn or error")
	flag.Parse()

	logger, err := newLogger(*logFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	mode, err := primeindex.ParseVerifyMode(*verifyFlag)
	if err != nil {
		logger.Fatal("invalid -verify", zap.Error(err))
	}
	if *maxFlag > math.MaxUint32 || *minFlag > *maxFlag {
		logger.Fatal("invalid range", zap.Uint("min", *minFlag), zap.Uint("max", *maxFlag))
	}
	if *growthFlag <= 1 {
		logger.Fatal("-growth must be greater than 1", zap.Float64("growth", *growthFlag))
	}

	opts := options{
		min:     uint32(*minFlag),
		max:     uint32(*maxFlag),
		growth:  *growthFlag,
		in:      *inFlag,
		out:     *outFlag,
		verify:  mode,
		format:  *formatFlag,
		workers: *workersFlag,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, opts, os.Stdout); err != nil {
		logger.Fatal("primegen failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, opts options, w io.Writer) error {
	catOpts := []primeindex.CatalogOption{
		primeindex.WithWorkers(opts.workers),
		primeindex.WithVerification(primeindex.VerifyNone),
	}

	var cat *primeindex.Catalog
	start := time.Now()
	if opts.in != "" {
		c, err := primeindex.OpenCatalogFile(opts.in, catOpts...)
		if err != nil {
			return err
		}
		cat = c
		logger.Info("loaded catalog", zap.String("path", opts.in), zap.Int("entries", cat.Len()),
			zap.Duration("elapsed", time.Since(start)))
	} else {
		primes := primeindex.DefaultPrimes()
		if opts.min != 0 {
			primes = growthSequence(opts.min, opts.max, opts.growth)
			if len(primes) == 0 {
				return fmt.Errorf("no primes in [%d, %d]", opts.min, opts.max)
			}
		}
		logger.Debug("deriving", zap.Int("primes", len(primes)), zap.Uint32("first", primes[0]),
			zap.Uint32("last", primes[len(primes)-1]))
		c, err := primeindex.NewCatalog(primes, catOpts...)
		if err != nil {
			return err
		}
		cat = c
		logger.Info("derived catalog", zap.Int("entries", cat.Len()), zap.Duration("elapsed", time.Since(start)))
	}

	if opts.verify != primeindex.VerifyNone {
		start = time.Now()
		if err := cat.Verify(ctx, opts.verify); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		logger.Info("verified catalog", zap.Stringer("mode", opts.verify), zap.Duration("elapsed", time.Since(start)))
	}

	if opts.out != "" {
		if err := primeindex.WriteCatalogFile(opts.out, cat); err != nil {
			return err
		}
		logger.Info("wrote catalog", zap.String("path", opts.out))
	}

	wide := 0
	for _, e := range cat.All() {
		if !e.Narrow() {
			wide++
		}
	}
	logger.Debug("multiplier widths", zap.Int("narrow", cat.Len()-wide), zap.Int("wide", wide))

	switch opts.format {
	case "none":
		return nil
	case "text":
		return writeText(w, cat)
	case "go":
		return writeGo(w, cat)
	default:
		return errors.New("unknown -format " + opts.format)
	}
}

// growthSequence returns primes starting at the first prime >= lo, each next
// one the first prime >= growth times the previous, up to hi.
func growthSequence(lo, hi uint32, growth float64) []uint32 {
	var out []uint32
	target := uint64(max(lo, 3))
	for target <= uint64(hi) {
		p, ok := nextPrime(target, uint64(hi))
		if !ok {
			break
		}
		out = append(out, uint32(p))
		target = max(uint64(math.Ceil(float64(p)*growth)), p+1)
	}
	return out
}

// nextPrime returns the first odd prime in [n, hi].
func nextPrime(n, hi uint64) (uint64, bool) {
	if n <= 3 {
		return 3, hi >= 3
	}
	n |= 1
	var x big.Int
	for ; n <= hi; n += 2 {
		if x.SetUint64(n).ProbablyPrime(0) {
			return n, true
		}
	}
	return 0, false
}

func writeText(w io.Writer, cat *primeindex.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "divisor\tmultiplier\tshift\twidth\t")
	for _, e := range cat.All() {
		width := 32
		if !e.Narrow() {
			width = 33
		}
		fmt.Fprintf(tw, "%d\t%#x\t%d\t%d\t\n", e.Divisor(), e.Multiplier(), e.Shift(), width)
	}
	return tw.Flush()
}

func writeGo(w io.Writer, cat *primeindex.Catalog) error {
	if _, err := fmt.Fprintln(w, "var capacities = []primeindex.PrimeInfo{"); err != nil {
		return err
	}
	for _, e := range cat.All() {
		if _, err := fmt.Fprintf(w, "\tprimeindex.MustPrimeInfoFromConstants(%d, %#x, %d),\n",
			e.Divisor(), e.Multiplier(), e.Shift()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "lvl",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(lvl),
	)), nil
}
