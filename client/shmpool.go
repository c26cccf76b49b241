package wl

import "deedles.dev/playland/wire"

// ShmPool is a region of shared memory from which buffers are carved.
type ShmPool struct {
	wire.ObjectID
	display *Display
}

// CreateBuffer creates a buffer that views the pool's memory starting
// at offset.
func (pool *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat) *Buffer {
	buf := Buffer{display: pool.display}
	pool.display.AddObject(&buf)

	msg := wire.NewMessage(pool, opShmPoolCreateBuffer, "create_buffer")
	msg.WriteObject(&buf)
	msg.WriteInt(offset)
	msg.WriteInt(width)
	msg.WriteInt(height)
	msg.WriteInt(stride)
	msg.WriteUint(uint32(format))
	pool.display.Enqueue(msg)

	return &buf
}

// Destroy destroys the pool. Buffers created from it remain valid.
func (pool *ShmPool) Destroy() {
	pool.display.Enqueue(wire.NewMessage(pool, opShmPoolDestroy, "destroy"))
	pool.display.DeleteObject(pool.ID())
}

func (pool *ShmPool) Interface() string {
	return ShmPoolInterface
}

func (pool *ShmPool) MethodName(op uint16) string {
	return "unknown"
}

func (pool *ShmPool) Dispatch(msg *wire.MessageBuffer) error {
	return unknownOp(pool, msg.Op())
}
