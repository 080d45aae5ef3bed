//go:build !linux && !darwin

package primeindex

import "os"

// fallocateFile sets the catalog file length. Disk blocks may not be
// reserved on platforms without a native preallocation call.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
