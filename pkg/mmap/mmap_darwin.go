//go:build darwin
// +build darwin

package mmap

import (
	"syscall"
	"unsafe"
)

const supported = true

// mmap wraps the mmap system call
func mmap(fd int, offset int64, length int, prot int, flags int) ([]byte, error) {
	return syscall.Mmap(fd, offset, length, prot, flags)
}

// munmap wraps the munmap system call
func munmap(b []byte) error {
	return syscall.Munmap(b)
}

// madvise wraps the madvise system call
func madvise(b []byte, advice int) error {
	// On macOS, we need to use the madvise system call directly
	_, _, err := syscall.Syscall(syscall.SYS_MADVISE, uintptr(unsafe.Pointer(&b[0])), uintptr(len(b)), uintptr(advice))
	if err != 0 {
		return err
	}
	return nil
}

const (
	// Memory protection flags
	protRead = syscall.PROT_READ

	// Memory mapping flags
	mapShared = syscall.MAP_SHARED

	// Memory advice flags
	madvRandom     = 1 // Random page references
	madvSequential = 2 // Sequential page references
	madvWillneed   = 3 // Will need these pages
)
