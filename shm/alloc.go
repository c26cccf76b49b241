package shm

import (
	"errors"
	"fmt"
	"math"

	wl "deedles.dev/playland/client"
	"golang.org/x/sys/unix"
)

// BytesPerPixel is the size of an ARGB8888 pixel.
const BytesPerPixel = 4

// DefaultName is the name given to memory files when an Allocator does
// not specify one.
const DefaultName = "playland-shm"

// Steps of an allocation, for use with errors.Is.
var (
	ErrInvalidSize  = errors.New("invalid buffer size")
	ErrCreateFailed = errors.New("create memory file")
	ErrResizeFailed = errors.New("resize memory file")
	ErrMapFailed    = errors.New("map memory file")
)

// AllocationError is returned when a buffer can not be allocated. Step
// is one of the Err* values of this package.
type AllocationError struct {
	Step error
	Err  error
}

func (err *AllocationError) Error() string {
	if err.Err == nil {
		return err.Step.Error()
	}
	return fmt.Sprintf("%v: %v", err.Step, err.Err)
}

func (err *AllocationError) Unwrap() []error {
	return []error{err.Step, err.Err}
}

// PoolFactory creates shared memory pools. It is implemented by
// *wl.Shm.
type PoolFactory interface {
	CreatePool(fd int, size int32) *wl.ShmPool
}

// Allocator creates ARGB8888 buffers backed by anonymous shared
// memory.
type Allocator struct {
	Pools PoolFactory

	// Sys defaults to DefaultSys.
	Sys Sys

	// Name is the name of the memory files. It defaults to
	// DefaultName.
	Name string
}

func (a Allocator) sys() Sys {
	if a.Sys == nil {
		return DefaultSys
	}
	return a.Sys
}

func (a Allocator) name() string {
	if a.Name == "" {
		return DefaultName
	}
	return a.Name
}

// ValidSize reports whether a width by height buffer is non-empty and
// small enough for its size in bytes to fit in an int32, which is the
// limit of the protocol's size arguments.
func ValidSize(width, height int) bool {
	if (width <= 0) || (height <= 0) {
		return false
	}
	if width > math.MaxInt32/BytesPerPixel {
		return false
	}
	return height <= math.MaxInt32/(width*BytesPerPixel)
}

// Allocate creates a width by height buffer. On failure, everything
// acquired before the failing step has been released by the time it
// returns.
func (a Allocator) Allocate(width, height int) (buf *Buffer, err error) {
	if !ValidSize(width, height) {
		return nil, &AllocationError{
			Step: ErrInvalidSize,
			Err:  fmt.Errorf("%vx%v", width, height),
		}
	}
	stride := int64(width) * BytesPerPixel
	size := stride * int64(height)

	sys := a.sys()

	fd, err := sys.MemfdCreate(a.name(), unix.MFD_CLOEXEC)
	if err != nil {
		return nil, &AllocationError{Step: ErrCreateFailed, Err: err}
	}
	defer func() {
		if err != nil {
			if cerr := sys.Close(fd); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close: %w", cerr))
			}
		}
	}()

	err = sys.Ftruncate(fd, size)
	if err != nil {
		return nil, &AllocationError{Step: ErrResizeFailed, Err: err}
	}

	mmap, err := sys.Mmap(fd, int(size))
	if err != nil {
		return nil, &AllocationError{Step: ErrMapFailed, Err: err}
	}

	pool := a.Pools.CreatePool(fd, int32(size))
	wbuf := pool.CreateBuffer(0, int32(width), int32(height), int32(stride), wl.ShmFormatArgb8888)

	buf = &Buffer{
		sys:    sys,
		fd:     fd,
		mmap:   mmap,
		width:  width,
		height: height,
		pool:   pool,
		buf:    wbuf,
	}
	wbuf.Listener = (*bufferListener)(buf)

	return buf, nil
}
