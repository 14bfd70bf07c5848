//go:build !linux && !darwin
// +build !linux,!darwin

package mapfile

import (
	"errors"
	"os"
)

func mmap(fp *os.File, size int) ([]byte, error) {
	return nil, errors.New("mmap not supported")
}

func munmap(data []byte) error {
	return nil
}
