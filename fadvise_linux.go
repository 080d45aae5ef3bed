//go:build linux

package primeindex

import "golang.org/x/sys/unix"

// fadviseSequential hints that a catalog file is about to be read front to
// back. Best-effort: errors are ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}
