//go:build linux

package primeindex

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves size bytes for a catalog file and sets its length,
// so writes through the mmap cannot SIGBUS on a full disk.
func fallocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	if err := unix.Fallocate(fd, 0, 0, size); err != nil {
		// Filesystems without fallocate support (tmpfs on old kernels, NFS)
		return unix.Ftruncate(fd, size)
	}
	// Fallocate reserves blocks but does not change the file length
	return unix.Ftruncate(fd, size)
}
