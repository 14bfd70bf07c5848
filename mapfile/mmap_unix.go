//go:build linux || darwin
// +build linux darwin

package mapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

func mmap(fp *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(fp.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func munmap(data []byte) error {
	return unix.Munmap(data)
}
