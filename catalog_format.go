package primeindex

import (
	"encoding/binary"

	primeerrors "github.com/tamirms/primeindex/errors"
)

const (
	// magic number for catalog files
	// "PRMC" in little-endian
	fileMagic = uint32(0x434D5250)

	// fileVersion is the current format version
	fileVersion = uint16(0x0001)

	// headerSize is the exact size of the serialized header (32 bytes)
	headerSize = 32

	// entrySize is the size of each serialized PrimeInfo (16 bytes)
	// Format: [Divisor u32][Multiplier u64][Shift u8][pad 3]
	entrySize = 16

	// footerSize is the trailing xxhash64 of header and entries
	footerSize = 8

	// minFileSize is the size of a catalog with a single entry.
	minFileSize = headerSize + entrySize + footerSize
)

// header is the 32-byte catalog file header.
//
// Layout:
//
//	Offset  Size  Field      Type
//	0       4     Magic      0x434D5250 ("PRMC")
//	4       2     Version    0x0001
//	6       2     EntrySize  uint16_le (16)
//	8       4     Count      uint32_le
//	12      20    Reserved   [20]byte (zero)
//
// Entries follow the header; an xxhash64 of header and entries follows the
// last entry.
type header struct {
	Magic     uint32   // 4 bytes: magic number 0x434D5250
	Version   uint16   // 2 bytes: format version
	EntrySize uint16   // 2 bytes: bytes per entry
	Count     uint32   // 4 bytes: number of entries
	Reserved  [20]byte // 20 bytes: reserved (zero)
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.EntrySize)
	binary.LittleEndian.PutUint32(buf[8:12], h.Count)
	copy(buf[12:32], h.Reserved[:])
}

// decodeHeader parses a 32-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, primeerrors.ErrTruncatedFile
	}

	h := &header{
		Magic:     binary.LittleEndian.Uint32(buf[0:4]),
		Version:   binary.LittleEndian.Uint16(buf[4:6]),
		EntrySize: binary.LittleEndian.Uint16(buf[6:8]),
		Count:     binary.LittleEndian.Uint32(buf[8:12]),
	}
	copy(h.Reserved[:], buf[12:32])

	if h.Magic != fileMagic {
		return nil, primeerrors.ErrInvalidMagic
	}
	if h.Version != fileVersion {
		return nil, primeerrors.ErrInvalidVersion
	}
	if h.EntrySize != entrySize {
		return nil, primeerrors.ErrCorruptedCatalog
	}
	if h.Count == 0 {
		return nil, primeerrors.ErrCorruptedCatalog
	}

	return h, nil
}

// fileSize returns the total encoded size for count entries.
func fileSize(count int) int {
	return headerSize + count*entrySize + footerSize
}

// encodeEntry writes a PrimeInfo to a 16-byte slot.
func encodeEntry(buf []byte, p PrimeInfo) {
	_ = buf[entrySize-1]
	binary.LittleEndian.PutUint32(buf[0:4], p.divisor)
	binary.LittleEndian.PutUint64(buf[4:12], p.multiplier)
	buf[12] = p.shift
	buf[13], buf[14], buf[15] = 0, 0, 0
}

// decodeEntry reads the raw fields of a 16-byte slot. The constants are not
// trusted until checked with PrimeInfoFromConstants.
func decodeEntry(buf []byte) (divisor uint32, multiplier uint64, shift uint8) {
	_ = buf[entrySize-1]
	return binary.LittleEndian.Uint32(buf[0:4]),
		binary.LittleEndian.Uint64(buf[4:12]),
		buf[12]
}
