//go:build unix

package shm

import (
	"os"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// FileAcquirer maps regular files read-write and shared, so that any other
// process mapping the same path sees the same bytes. No locking is done:
// readers may observe a region while it is being written.
type FileAcquirer struct {
	Perm os.FileMode

	mmap func(fd int, offset int64, length int, prot int, flags int) ([]byte, error)
}

func NewFileAcquirer() *FileAcquirer {
	return &FileAcquirer{Perm: 0666, mmap: unix.Mmap}
}

type fileRegion struct {
	file *os.File
	data []byte
}

func (a *FileAcquirer) Acquire(name string, size int) (Region, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid size %d for %s", size, name)
	}

	file, err := os.OpenFile(name, os.O_CREATE|os.O_RDWR, a.Perm)
	if err != nil {
		return nil, errors.WrapPrefix(err, "open", 0)
	}

	if err = file.Truncate(int64(size)); err != nil {
		file.Close()
		return nil, errors.WrapPrefix(err, "ftruncate "+name, 0)
	}

	mmap := a.mmap
	if mmap == nil {
		mmap = unix.Mmap
	}
	data, err := mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, errors.WrapPrefix(err, "mmap "+name, 0)
	}

	logrus.Debugf("Mapped %s (%d bytes)", name, size)

	return &fileRegion{file: file, data: data}, nil
}

func (r *fileRegion) Bytes() []byte {
	return r.data
}

func (r *fileRegion) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}
