package wl

import (
	"slices"

	"deedles.dev/playland/wire"
)

type ShmListener interface {
	Format(format ShmFormat)
}

// Shm is the shared memory buffer factory.
type Shm struct {
	wire.ObjectID
	display *Display

	Listener ShmListener

	formats []ShmFormat
}

// BindShm binds the wl_shm global name, advertised at version.
func BindShm(registry *Registry, name, version uint32) *Shm {
	shm := Shm{display: registry.Display()}
	registry.Bind(name, bindVersion(version, ShmVersion), &shm)
	return &shm
}

// Formats returns the pixel formats the compositor has announced so
// far.
func (shm *Shm) Formats() []ShmFormat {
	return slices.Clone(shm.formats)
}

// SupportsFormat reports whether the compositor announced format.
// Argb8888 and Xrgb8888 are always supported.
func (shm *Shm) SupportsFormat(format ShmFormat) bool {
	switch format {
	case ShmFormatArgb8888, ShmFormatXrgb8888:
		return true
	}
	return slices.Contains(shm.formats, format)
}

// CreatePool creates a pool backed by the memory referred to by fd.
// The descriptor is duplicated, so the caller keeps ownership of fd.
func (shm *Shm) CreatePool(fd int, size int32) *ShmPool {
	pool := ShmPool{display: shm.display}
	shm.display.AddObject(&pool)

	msg := wire.NewMessage(shm, opShmCreatePool, "create_pool")
	msg.WriteObject(&pool)
	msg.WriteFD(fd)
	msg.WriteInt(size)
	shm.display.Enqueue(msg)

	return &pool
}

func (shm *Shm) Interface() string {
	return ShmInterface
}

func (shm *Shm) MethodName(op uint16) string {
	return wire.MethodName(shmEvents, op)
}

func (shm *Shm) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		format := ShmFormat(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}

		shm.formats = append(shm.formats, format)
		if shm.Listener != nil {
			shm.Listener.Format(format)
		}
		return nil

	default:
		return unknownOp(shm, msg.Op())
	}
}
