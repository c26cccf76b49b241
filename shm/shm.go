// Package shm allocates shared-memory pixel buffers that can be handed
// to the compositor.
package shm

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// Sys is the set of system calls used to set up a shared buffer.
type Sys interface {
	MemfdCreate(name string, flags int) (fd int, err error)
	Ftruncate(fd int, size int64) error
	Mmap(fd int, size int) (Mmap, error)
	Munmap(mmap Mmap) error
	Close(fd int) error
}

// DefaultSys performs real system calls.
var DefaultSys Sys = unixSys{}

type unixSys struct{}

// MemfdCreate creates an anonymous memory file. If the kernel does not
// support memfd, it falls back to an unlinked file in /dev/shm.
func (unixSys) MemfdCreate(name string, flags int) (int, error) {
	fd, err := unix.MemfdCreate(name, flags)
	if errors.Is(err, unix.ENOSYS) {
		return create(name)
	}
	return fd, err
}

func (unixSys) Ftruncate(fd int, size int64) error {
	return unix.Ftruncate(fd, size)
}

func (unixSys) Mmap(fd int, size int) (Mmap, error) {
	return Map(fd, size, unix.PROT_READ|unix.PROT_WRITE)
}

func (unixSys) Munmap(mmap Mmap) error {
	return mmap.Unmap()
}

func (unixSys) Close(fd int) error {
	return unix.Close(fd)
}

func create(name string) (int, error) {
	path := filepath.Join("/dev/shm", name+"-"+strconv.FormatInt(time.Now().UnixNano(), 36))

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, 0600)
	if err != nil {
		return -1, &os.PathError{Op: "open", Path: path, Err: err}
	}

	err = unix.Unlink(path)
	if err != nil {
		unix.Close(fd)
		return -1, &os.PathError{Op: "unlink", Path: path, Err: err}
	}

	return fd, nil
}

// Mmap is a memory mapping.
type Mmap []byte

// Map maps size bytes of fd, shared with other processes mapping the
// same file.
func Map(fd int, size int, prot int) (Mmap, error) {
	m, err := unix.Mmap(fd, 0, size, prot, unix.MAP_SHARED)
	return Mmap(m), err
}

func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}
