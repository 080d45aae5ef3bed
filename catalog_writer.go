package primeindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
)

// MarshalBinary encodes the catalog in the catalog file format.
func (c *Catalog) MarshalBinary() ([]byte, error) {
	buf := make([]byte, fileSize(len(c.entries)))
	c.encodeTo(buf)
	return buf, nil
}

// encodeTo writes header, entries and checksum into buf, which must be
// exactly fileSize(c.Len()) bytes.
func (c *Catalog) encodeTo(buf []byte) {
	h := header{
		Magic:     fileMagic,
		Version:   fileVersion,
		EntrySize: entrySize,
		Count:     uint32(len(c.entries)),
	}
	h.encodeTo(buf[:headerSize])

	offset := headerSize
	for _, e := range c.entries {
		encodeEntry(buf[offset:offset+entrySize], e)
		offset += entrySize
	}

	binary.LittleEndian.PutUint64(buf[offset:], xxhash.Sum64(buf[:offset]))
}

// WriteCatalogFile writes the catalog to path, replacing any existing file.
// The file is pre-allocated and written through a read-write memory map.
func WriteCatalogFile(path string, c *Catalog) (err error) {
	size := fileSize(len(c.entries))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		return fmt.Errorf("failed to allocate disk space: %w", err)
	}

	mm, err := mmap.MapRegion(file, size, mmap.RDWR, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to mmap catalog file: %w", err)
	}

	data := []byte(mm)
	prefaultRegion(data)
	c.encodeTo(data)

	if err := mm.Flush(); err != nil {
		return errors.Join(fmt.Errorf("failed to flush catalog file: %w", err), mm.Unmap())
	}
	if err := mm.Unmap(); err != nil {
		return fmt.Errorf("failed to unmap catalog file: %w", err)
	}
	return nil
}
