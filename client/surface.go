package wl

import "deedles.dev/playland/wire"

type SurfaceListener interface {
	Enter(output uint32)
	Leave(output uint32)
}

// Surface is a rectangular area that can display the contents of a
// buffer. Attach and Damage stage state that takes effect on the next
// Commit.
type Surface struct {
	wire.ObjectID
	display *Display

	Listener SurfaceListener
}

func (s *Surface) Display() *Display {
	return s.display
}

// Attach stages buf as the surface's content. A nil buf detaches the
// current buffer.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	msg := wire.NewMessage(s, opSurfaceAttach, "attach")
	msg.WriteObject(buf)
	msg.WriteInt(x)
	msg.WriteInt(y)
	s.display.Enqueue(msg)
}

func (s *Surface) Damage(x, y, width, height int32) {
	msg := wire.NewMessage(s, opSurfaceDamage, "damage")
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.display.Enqueue(msg)
}

// Frame requests a callback that fires when it is a good time to draw
// the next frame. It takes effect on the next Commit.
func (s *Surface) Frame() *Callback {
	callback := Callback{display: s.display}
	s.display.AddObject(&callback)

	msg := wire.NewMessage(s, opSurfaceFrame, "frame")
	msg.WriteObject(&callback)
	s.display.Enqueue(msg)

	return &callback
}

func (s *Surface) Commit() {
	s.display.Enqueue(wire.NewMessage(s, opSurfaceCommit, "commit"))
}

func (s *Surface) Destroy() {
	s.display.Enqueue(wire.NewMessage(s, opSurfaceDestroy, "destroy"))
	s.display.DeleteObject(s.ID())
	s.Listener = nil
}

func (s *Surface) Interface() string {
	return SurfaceInterface
}

func (s *Surface) MethodName(op uint16) string {
	return wire.MethodName(surfaceEvents, op)
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0, 1:
		output := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}

		if s.Listener == nil {
			return nil
		}
		if msg.Op() == 0 {
			s.Listener.Enter(output)
		} else {
			s.Listener.Leave(output)
		}
		return nil

	default:
		return unknownOp(s, msg.Op())
	}
}
