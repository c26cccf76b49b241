package xdg

import (
	wl "deedles.dev/playland/client"
	"deedles.dev/playland/wire"
)

type SurfaceListener interface {
	Configure(serial uint32)
}

// Surface gives a wl_surface a desktop role. Configure events must be
// acknowledged with AckConfigure before the next commit that applies
// them.
type Surface struct {
	wire.ObjectID
	display *wl.Display
	surface *wl.Surface

	Listener SurfaceListener
}

func (xs *Surface) Surface() *wl.Surface {
	return xs.surface
}

func (xs *Surface) GetToplevel() *Toplevel {
	toplevel := Toplevel{display: xs.display}
	xs.display.AddObject(&toplevel)

	msg := wire.NewMessage(xs, opSurfaceGetToplevel, "get_toplevel")
	msg.WriteObject(&toplevel)
	xs.display.Enqueue(msg)

	return &toplevel
}

func (xs *Surface) SetWindowGeometry(x, y, width, height int32) {
	msg := wire.NewMessage(xs, opSurfaceSetWindowGeometry, "set_window_geometry")
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	xs.display.Enqueue(msg)
}

func (xs *Surface) AckConfigure(serial uint32) {
	msg := wire.NewMessage(xs, opSurfaceAckConfigure, "ack_configure")
	msg.WriteUint(serial)
	xs.display.Enqueue(msg)
}

func (xs *Surface) Destroy() {
	xs.display.Enqueue(wire.NewMessage(xs, opSurfaceDestroy, "destroy"))
	xs.display.DeleteObject(xs.ID())
	xs.Listener = nil
}

func (xs *Surface) Interface() string {
	return SurfaceInterface
}

func (xs *Surface) MethodName(op uint16) string {
	return wire.MethodName(surfaceEvents, op)
}

func (xs *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		serial := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if xs.Listener != nil {
			xs.Listener.Configure(serial)
		}
		return nil

	default:
		return unknownOp(xs, msg.Op())
	}
}
