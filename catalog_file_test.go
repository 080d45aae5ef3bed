package primeindex

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cespare/xxhash/v2"

	primeerrors "github.com/tamirms/primeindex/errors"
)

// reseal recomputes the trailing checksum after a test edits the payload,
// so the edit reaches entry validation instead of failing the checksum.
func reseal(buf []byte) {
	off := len(buf) - footerSize
	binary.LittleEndian.PutUint64(buf[off:], xxhash.Sum64(buf[:off]))
}

func entryOffset(i int) int {
	return headerSize + i*entrySize
}

func TestCatalogFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.prmc")
	cat := DefaultCatalog()

	if err := WriteCatalogFile(path, cat); err != nil {
		t.Fatal(err)
	}
	stat, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(fileSize(cat.Len())); stat.Size() != want {
		t.Fatalf("file size = %d, want %d", stat.Size(), want)
	}

	loaded, err := OpenCatalogFile(path, WithVerification(VerifyBoundary))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(loaded.entries, cat.entries) {
		t.Fatal("loaded catalog differs from written catalog")
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	inMemory, err := cat.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(onDisk, inMemory) {
		t.Fatal("WriteCatalogFile and MarshalBinary disagree")
	}
}

func TestCatalogFileOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.prmc")
	if err := WriteCatalogFile(path, DefaultCatalog()); err != nil {
		t.Fatal(err)
	}
	small, err := NewCatalog([]uint32{3, 7})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteCatalogFile(path, small); err != nil {
		t.Fatal(err)
	}
	loaded, err := OpenCatalogFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(loaded.Divisors(), []uint32{3, 7}) {
		t.Fatalf("Divisors() = %v, want [3 7]", loaded.Divisors())
	}
}

func TestMarshalLayout(t *testing.T) {
	cat, err := NewCatalog([]uint32{7, 23})
	if err != nil {
		t.Fatal(err)
	}
	buf, err := cat.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 32+2*16+8 {
		t.Fatalf("len = %d", len(buf))
	}
	if string(buf[0:4]) != "PRMC" {
		t.Errorf("magic = %q", buf[0:4])
	}
	if got := binary.LittleEndian.Uint32(buf[8:12]); got != 2 {
		t.Errorf("count = %d", got)
	}
	d, m, s := decodeEntry(buf[entryOffset(0):])
	if d != 7 || m != 0x124924925 || s != 3 {
		t.Errorf("entry 0 = (%d, %#x, %d)", d, m, s)
	}
	d, m, s = decodeEntry(buf[entryOffset(1):])
	if d != 23 || m != 0xb21642c9 || s != 4 {
		t.Errorf("entry 1 = (%d, %#x, %d)", d, m, s)
	}
}

func TestUnmarshalCatalogCorruption(t *testing.T) {
	cat, err := NewCatalog([]uint32{3, 7, 11, 23, 131})
	if err != nil {
		t.Fatal(err)
	}
	good, err := cat.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		mutate func([]byte) []byte
		want   []error
	}{
		{"bit flip", func(b []byte) []byte {
			b[entryOffset(2)+5] ^= 0x10
			return b
		}, []error{primeerrors.ErrChecksumFailed}},
		{"checksum flip", func(b []byte) []byte {
			b[len(b)-1] ^= 0xFF
			return b
		}, []error{primeerrors.ErrChecksumFailed}},
		{"bad magic", func(b []byte) []byte {
			b[0] = 'X'
			return b
		}, []error{primeerrors.ErrInvalidMagic}},
		{"bad version", func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[4:6], 2)
			return b
		}, []error{primeerrors.ErrInvalidVersion}},
		{"bad entry size", func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[6:8], 12)
			return b
		}, []error{primeerrors.ErrCorruptedCatalog}},
		{"zero count", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[8:12], 0)
			return b
		}, []error{primeerrors.ErrCorruptedCatalog}},
		{"truncated", func(b []byte) []byte {
			return b[:len(b)-1]
		}, []error{primeerrors.ErrTruncatedFile}},
		{"too short", func(b []byte) []byte {
			return b[:minFileSize-1]
		}, []error{primeerrors.ErrTruncatedFile}},
		{"trailing bytes", func(b []byte) []byte {
			return append(b, 0)
		}, []error{primeerrors.ErrCorruptedCatalog}},
		{"wrong multiplier", func(b []byte) []byte {
			off := entryOffset(1) + 4
			m := binary.LittleEndian.Uint64(b[off:])
			binary.LittleEndian.PutUint64(b[off:], m+1)
			reseal(b)
			return b
		}, []error{primeerrors.ErrCorruptedCatalog, primeerrors.ErrInvariantViolation}},
		{"shift too small", func(b []byte) []byte {
			// 23: store the shift-3 multiplier with shift 3
			off := entryOffset(3)
			binary.LittleEndian.PutUint64(b[off+4:], ceilPow2Div(3, 23))
			b[off+12] = 3
			reseal(b)
			return b
		}, []error{primeerrors.ErrCorruptedCatalog, primeerrors.ErrInvariantViolation}},
		{"composite divisor", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[entryOffset(2):], 9)
			reseal(b)
			return b
		}, []error{primeerrors.ErrCorruptedCatalog, primeerrors.ErrNotPrime}},
		{"even divisor", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[entryOffset(0):], 4)
			reseal(b)
			return b
		}, []error{primeerrors.ErrCorruptedCatalog, primeerrors.ErrInvalidDivisor}},
		{"swapped entries", func(b []byte) []byte {
			a := slices.Clone(b[entryOffset(1):entryOffset(2)])
			copy(b[entryOffset(1):], b[entryOffset(2):entryOffset(3)])
			copy(b[entryOffset(2):], a)
			reseal(b)
			return b
		}, []error{primeerrors.ErrCorruptedCatalog, primeerrors.ErrUnsortedCatalog}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := tc.mutate(slices.Clone(good))
			c, err := UnmarshalCatalog(buf)
			if c != nil {
				t.Fatal("returned a catalog for corrupted input")
			}
			for _, want := range tc.want {
				if !errors.Is(err, want) {
					t.Errorf("error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestUnmarshalCatalogDoesNotRetainInput(t *testing.T) {
	buf, err := DefaultCatalog().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	cat, err := UnmarshalCatalog(buf)
	if err != nil {
		t.Fatal(err)
	}
	clear(buf)
	if cat.Min().Divisor() != 3 || cat.Max().Divisor() != 7199369 {
		t.Fatal("catalog changed after input was cleared")
	}
}

func TestOpenCatalogFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := OpenCatalogFile(filepath.Join(dir, "missing.prmc")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	short := filepath.Join(dir, "short.prmc")
	if err := os.WriteFile(short, []byte("PRMC"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenCatalogFile(short); !errors.Is(err, primeerrors.ErrTruncatedFile) {
		t.Errorf("short file error = %v, want ErrTruncatedFile", err)
	}

	buf, err := DefaultCatalog().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	buf[entryOffset(10)] ^= 1
	damaged := filepath.Join(dir, "damaged.prmc")
	if err := os.WriteFile(damaged, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenCatalogFile(damaged); !errors.Is(err, primeerrors.ErrChecksumFailed) {
		t.Errorf("damaged file error = %v, want ErrChecksumFailed", err)
	}
}
