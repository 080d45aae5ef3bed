//go:build !linux

package primeindex

// fadviseSequential is a no-op outside Linux.
func fadviseSequential(fd int, offset, length int64) {}
