// Package mapfile maps files into memory, read-only.
package mapfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var errTooLarge = errors.New("file too large to map")

// A File is the contents of a file, mapped into memory if possible.
type File struct {
	data    []byte
	mmapped bool
}

// Open maps the named file into memory. If the file cannot be mapped, it is
// read instead. The file must be closed to release the mapping.
func Open(name string) (*File, error) {
	fp, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	st, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%s: %w", name, errTooLarge)
	}
	if size == 0 {
		return &File{data: []byte{}}, nil
	}
	data, err := mmap(fp, int(size))
	if err == nil {
		return &File{data: data, mmapped: true}, nil
	}
	logrus.WithField("file", name).Debugln("mmap failed, reading instead:", err)
	data = make([]byte, size)
	if _, err := io.ReadFull(fp, data); err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Data returns the contents of the file. The data must not be modified, and
// must not be used after the file is closed.
func (f *File) Data() []byte {
	return f.data
}

// Mapped returns true if the data is mapped from the file, rather than
// copied.
func (f *File) Mapped() bool {
	return f.mmapped
}

// Close releases the file data.
func (f *File) Close() error {
	data := f.data
	f.data = nil
	if f.mmapped {
		f.mmapped = false
		return munmap(data)
	}
	return nil
}
