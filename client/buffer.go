package wl

import "deedles.dev/playland/wire"

type BufferListener interface {
	Release()
}

// Buffer is content that can be attached to a surface.
type Buffer struct {
	wire.ObjectID
	display *Display

	Listener BufferListener
}

func (buf *Buffer) Destroy() {
	buf.display.Enqueue(wire.NewMessage(buf, opBufferDestroy, "destroy"))
	buf.display.DeleteObject(buf.ID())
	buf.Listener = nil
}

func (buf *Buffer) Interface() string {
	return BufferInterface
}

func (buf *Buffer) MethodName(op uint16) string {
	return wire.MethodName(bufferEvents, op)
}

func (buf *Buffer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		if buf.Listener != nil {
			buf.Listener.Release()
		}
		return nil

	default:
		return unknownOp(buf, msg.Op())
	}
}
