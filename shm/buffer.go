package shm

import (
	"errors"
	"image"
	"image/draw"

	wl "deedles.dev/playland/client"
	"deedles.dev/ximage/format"
)

// Buffer is a mapped ARGB8888 pixel buffer shared with the compositor.
type Buffer struct {
	sys  Sys
	fd   int
	mmap Mmap

	width, height int

	pool *wl.ShmPool
	buf  *wl.Buffer
	busy bool
}

// Pix returns the mapped pixel memory. Rows are Stride bytes apart,
// top to bottom.
func (b *Buffer) Pix() []byte {
	return b.mmap
}

func (b *Buffer) Width() int {
	return b.width
}

func (b *Buffer) Height() int {
	return b.height
}

func (b *Buffer) Stride() int {
	return b.width * BytesPerPixel
}

func (b *Buffer) Len() int {
	return b.Stride() * b.height
}

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Image returns a view of the buffer's memory as an image.
func (b *Buffer) Image() draw.Image {
	return &format.Image{
		Format: format.ARGB8888,
		Rect:   b.Bounds(),
		Pix:    b.mmap,
	}
}

// Buffer returns the protocol object wrapping the memory.
func (b *Buffer) Buffer() *wl.Buffer {
	return b.buf
}

// Attach attaches the buffer to s at the origin. The buffer is busy
// until the compositor releases it.
func (b *Buffer) Attach(s *wl.Surface) {
	s.Attach(b.buf, 0, 0)
	b.busy = true
}

// Busy reports whether the compositor may still be reading the buffer.
func (b *Buffer) Busy() bool {
	return b.busy
}

// Destroy destroys the protocol objects, then unmaps and closes the
// memory. It is safe to call more than once.
func (b *Buffer) Destroy() error {
	if b.mmap == nil {
		return nil
	}

	b.buf.Destroy()
	b.pool.Destroy()

	err := errors.Join(
		b.sys.Munmap(b.mmap),
		b.sys.Close(b.fd),
	)
	b.mmap = nil
	b.fd = -1
	return err
}

type bufferListener Buffer

func (lis *bufferListener) Release() {
	lis.busy = false
}
