// Package xdg implements the client side of the xdg-shell and
// xdg-decoration protocol extensions.
package xdg

import (
	"encoding/binary"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/wire"
)

func unknownOp(obj wire.Object, op uint16) error {
	return wire.UnknownOpError{
		Interface: obj.Interface(),
		Type:      "event",
		Op:        op,
	}
}

// uint32s decodes a wire array of 32-bit values.
func uint32s[T ~uint32](data []byte) []T {
	vals := make([]T, 0, len(data)/4)
	for len(data) >= 4 {
		vals = append(vals, T(binary.NativeEndian.Uint32(data)))
		data = data[4:]
	}
	return vals
}

type WmBaseListener interface {
	Ping(serial uint32)
}

// WmBase is the global that turns surfaces into desktop windows.
type WmBase struct {
	wire.ObjectID
	display *wl.Display

	Listener WmBaseListener
}

// BindWmBase binds the xdg_wm_base global name, advertised at version.
func BindWmBase(registry *wl.Registry, name, version uint32) *WmBase {
	wm := WmBase{display: registry.Display()}
	registry.Bind(name, min(version, WmBaseVersion), &wm)
	return &wm
}

func (wm *WmBase) GetXdgSurface(surface *wl.Surface) *Surface {
	xs := Surface{display: wm.display, surface: surface}
	wm.display.AddObject(&xs)

	msg := wire.NewMessage(wm, opWmBaseGetXdgSurface, "get_xdg_surface")
	msg.WriteObject(&xs)
	msg.WriteObject(surface)
	wm.display.Enqueue(msg)

	return &xs
}

// Pong answers a ping. The compositor may consider the client
// unresponsive if it does not do so promptly.
func (wm *WmBase) Pong(serial uint32) {
	msg := wire.NewMessage(wm, opWmBasePong, "pong")
	msg.WriteUint(serial)
	wm.display.Enqueue(msg)
}

func (wm *WmBase) Destroy() {
	wm.display.Enqueue(wire.NewMessage(wm, opWmBaseDestroy, "destroy"))
	wm.display.DeleteObject(wm.ID())
	wm.Listener = nil
}

func (wm *WmBase) Interface() string {
	return WmBaseInterface
}

func (wm *WmBase) MethodName(op uint16) string {
	return wire.MethodName(wmBaseEvents, op)
}

func (wm *WmBase) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		serial := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if wm.Listener != nil {
			wm.Listener.Ping(serial)
		}
		return nil

	default:
		return unknownOp(wm, msg.Op())
	}
}
