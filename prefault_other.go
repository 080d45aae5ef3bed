//go:build !linux

package primeindex

// prefaultRegion is a no-op outside Linux.
func prefaultRegion(data []byte) {}
