//go:build !linux && !darwin
// +build !linux,!darwin

package mmap

import "errors"

const supported = false

var errUnsupported = errors.New("mmap is not supported on this platform")

func mmap(fd int, offset int64, length int, prot int, flags int) ([]byte, error) {
	return nil, errUnsupported
}

func munmap(b []byte) error {
	return errUnsupported
}

func madvise(b []byte, advice int) error {
	return nil
}

const (
	protRead       = 0
	mapShared      = 0
	madvRandom     = 0
	madvSequential = 0
	madvWillneed   = 0
)
