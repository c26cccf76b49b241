package shm_test

import (
	"errors"
	"image/color"
	"math"
	"net"
	"os"
	"testing"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/wltest"
	"deedles.dev/playland/shm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type recordingSys struct {
	shm.Sys

	calls []string

	failCreate bool
	failResize bool
	failMap    bool
}

var errInjected = errors.New("injected")

func (sys *recordingSys) MemfdCreate(name string, flags int) (int, error) {
	sys.calls = append(sys.calls, "create")
	if sys.failCreate {
		return -1, errInjected
	}
	return sys.Sys.MemfdCreate(name, flags)
}

func (sys *recordingSys) Ftruncate(fd int, size int64) error {
	sys.calls = append(sys.calls, "resize")
	if sys.failResize {
		return errInjected
	}
	return sys.Sys.Ftruncate(fd, size)
}

func (sys *recordingSys) Mmap(fd int, size int) (shm.Mmap, error) {
	sys.calls = append(sys.calls, "map")
	if sys.failMap {
		return nil, errInjected
	}
	return sys.Sys.Mmap(fd, size)
}

func (sys *recordingSys) Munmap(mmap shm.Mmap) error {
	sys.calls = append(sys.calls, "unmap")
	return sys.Sys.Munmap(mmap)
}

func (sys *recordingSys) Close(fd int) error {
	sys.calls = append(sys.calls, "close")
	return sys.Sys.Close(fd)
}

func (sys *recordingSys) count(call string) (n int) {
	for _, c := range sys.calls {
		if c == call {
			n++
		}
	}
	return n
}

func newShm(t *testing.T) *wl.Shm {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)

	file := os.NewFile(uintptr(fds[0]), "client")
	c, err := net.FileConn(file)
	file.Close()
	require.NoError(t, err)

	display := wl.Connect(c.(*net.UnixConn))
	t.Cleanup(func() {
		display.Close()
		unix.Close(fds[1])
	})

	return wl.BindShm(display.GetRegistry(), 1, wl.ShmVersion)
}

func TestAllocate(t *testing.T) {
	sys := &recordingSys{Sys: shm.DefaultSys}
	alloc := shm.Allocator{Pools: newShm(t), Sys: sys}

	buf, err := alloc.Allocate(16, 8)
	require.NoError(t, err)

	assert.Equal(t, 16, buf.Width())
	assert.Equal(t, 8, buf.Height())
	assert.Equal(t, 64, buf.Stride())
	assert.Equal(t, 64*8, buf.Len())
	assert.Len(t, buf.Pix(), 64*8)
	assert.Equal(t, buf.Bounds(), buf.Image().Bounds())
	assert.NotZero(t, buf.Buffer().ID())
	assert.Equal(t, []string{"create", "resize", "map"}, sys.calls)

	require.NoError(t, buf.Destroy())
	assert.Equal(t, []string{"create", "resize", "map", "unmap", "close"}, sys.calls)

	require.NoError(t, buf.Destroy())
	assert.Equal(t, 1, sys.count("close"))
}

func TestAllocateCreateFailed(t *testing.T) {
	sys := &recordingSys{Sys: shm.DefaultSys, failCreate: true}
	alloc := shm.Allocator{Pools: newShm(t), Sys: sys}

	buf, err := alloc.Allocate(16, 8)
	assert.Nil(t, buf)
	assert.ErrorIs(t, err, shm.ErrCreateFailed)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, []string{"create"}, sys.calls)
}

func TestAllocateResizeFailed(t *testing.T) {
	sys := &recordingSys{Sys: shm.DefaultSys, failResize: true}
	alloc := shm.Allocator{Pools: newShm(t), Sys: sys}

	buf, err := alloc.Allocate(16, 8)
	assert.Nil(t, buf)

	var aerr *shm.AllocationError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, shm.ErrResizeFailed, aerr.Step)
	assert.Equal(t, 1, sys.count("close"))
	assert.Equal(t, 0, sys.count("map"))
	assert.Equal(t, []string{"create", "resize", "close"}, sys.calls)
}

func TestAllocateMapFailed(t *testing.T) {
	sys := &recordingSys{Sys: shm.DefaultSys, failMap: true}
	alloc := shm.Allocator{Pools: newShm(t), Sys: sys}

	buf, err := alloc.Allocate(16, 8)
	assert.Nil(t, buf)
	assert.ErrorIs(t, err, shm.ErrMapFailed)
	assert.Equal(t, []string{"create", "resize", "map", "close"}, sys.calls)
}

func TestAllocateInvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 10},
		{"negative height", 10, -1},
		{"overflow", 1 << 15, 1 << 15},
		{"wrapping width", math.MaxInt/4 + 2, 1},
		{"wrapping height", 2, math.MaxInt/8 + 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sys := &recordingSys{Sys: shm.DefaultSys}
			alloc := shm.Allocator{Pools: newShm(t), Sys: sys}

			_, err := alloc.Allocate(test.width, test.height)
			assert.ErrorIs(t, err, shm.ErrInvalidSize)
			assert.Empty(t, sys.calls)
		})
	}
}

func TestValidSize(t *testing.T) {
	assert.True(t, shm.ValidSize(1, 1))
	assert.True(t, shm.ValidSize(800, 600))
	assert.True(t, shm.ValidSize(math.MaxInt32/shm.BytesPerPixel, 1))
	assert.False(t, shm.ValidSize(math.MaxInt32/shm.BytesPerPixel+1, 1))
	assert.False(t, shm.ValidSize(1<<14, 1<<15))
	assert.False(t, shm.ValidSize(math.MaxInt/4+2, 1))
	assert.False(t, shm.ValidSize(0, 1))
}

func TestBufferRelease(t *testing.T) {
	srv, conn := wltest.New(t, wltest.Options{
		Globals: []string{wl.CompositorInterface, wl.ShmInterface},
	})
	display := wl.Connect(conn)
	t.Cleanup(func() { display.Close() })

	registry := display.GetRegistry()
	compositor := wl.BindCompositor(registry, 1, wl.CompositorVersion)
	alloc := shm.Allocator{Pools: wl.BindShm(registry, 2, wl.ShmVersion)}

	buf, err := alloc.Allocate(2, 2)
	require.NoError(t, err)
	defer buf.Destroy()
	assert.False(t, buf.Busy())

	surface := compositor.CreateSurface()
	buf.Attach(surface)
	assert.True(t, buf.Busy())

	surface.Commit()
	require.NoError(t, display.RoundTrip())
	release, _ := srv.WaitFor(func(r wltest.Request) bool {
		return r.Event && r.Is(wl.BufferInterface, "release")
	})
	assert.Equal(t, buf.Buffer().ID(), release.Object)
	assert.False(t, buf.Busy())
}

func TestBufferImage(t *testing.T) {
	alloc := shm.Allocator{Pools: newShm(t)}

	buf, err := alloc.Allocate(4, 4)
	require.NoError(t, err)
	defer buf.Destroy()

	assert.Equal(t, make([]byte, buf.Len()), buf.Pix())

	buf.Image().Set(1, 0, color.White)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, buf.Pix()[4:8])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf.Pix()[:4])
}
