package primeindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	primeerrors "github.com/tamirms/primeindex/errors"
)

// OpenCatalogFile loads a catalog written by WriteCatalogFile.
//
// The file is memory-mapped read-only, validated, copied out and unmapped;
// the returned catalog does not reference the file. Every entry's constants
// are re-validated, so a damaged file fails here rather than mis-indexing at
// lookup time.
func OpenCatalogFile(path string, opts ...CatalogOption) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat catalog file: %w", err)
	}
	if stat.Size() < int64(minFileSize) {
		return nil, primeerrors.ErrTruncatedFile
	}

	fadviseSequential(int(file.Fd()), 0, stat.Size())

	mm, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap catalog file: %w", err)
	}

	c, err := UnmarshalCatalog([]byte(mm), opts...)
	if unmapErr := mm.Unmap(); unmapErr != nil {
		return nil, errors.Join(err, fmt.Errorf("unmap catalog file: %w", unmapErr))
	}
	return c, err
}

// UnmarshalCatalog decodes a catalog from the catalog file format.
// data is not retained.
//
// Options control verification of the decoded entries; by default each
// entry gets the boundary check on top of the structural validation that
// always happens.
func UnmarshalCatalog(data []byte, opts ...CatalogOption) (*Catalog, error) {
	cfg := defaultCatalogConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(data) < minFileSize {
		return nil, primeerrors.ErrTruncatedFile
	}
	hdr, err := decodeHeader(data[:headerSize])
	if err != nil {
		return nil, err
	}

	want := uint64(fileSize(0)) + uint64(hdr.Count)*entrySize
	switch {
	case uint64(len(data)) < want:
		return nil, primeerrors.ErrTruncatedFile
	case uint64(len(data)) > want:
		return nil, fmt.Errorf("%w: %d trailing bytes", primeerrors.ErrCorruptedCatalog, uint64(len(data))-want)
	}

	footerOffset := len(data) - footerSize
	if xxhash.Sum64(data[:footerOffset]) != binary.LittleEndian.Uint64(data[footerOffset:]) {
		return nil, primeerrors.ErrChecksumFailed
	}

	entries := make([]PrimeInfo, hdr.Count)
	offset := headerSize
	for i := range entries {
		d, m, s := decodeEntry(data[offset : offset+entrySize])
		offset += entrySize
		info, err := PrimeInfoFromConstants(d, m, s)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", primeerrors.ErrCorruptedCatalog, i, err)
		}
		entries[i] = info
	}

	c, err := newCatalogFromEntries(entries, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", primeerrors.ErrCorruptedCatalog, err)
	}
	return c, nil
}
