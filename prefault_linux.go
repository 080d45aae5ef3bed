//go:build linux

package primeindex

import "golang.org/x/sys/unix"

// MADV_POPULATE_WRITE was added in Linux 5.14.
const madvPopulateWrite = 23

// prefaultRegion populates the writable mapping of a catalog file in one
// call instead of taking a fault per page. Older kernels return EINVAL,
// which is ignored along with any other error.
func prefaultRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
