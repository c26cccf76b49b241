package xdg

import (
	wl "deedles.dev/playland/client"
	"deedles.dev/playland/wire"
)

type ToplevelListener interface {
	// Configure suggests a size for the window. A zero width or
	// height leaves the choice to the client.
	Configure(width, height int32, states []ToplevelState)
	Close()
	ConfigureBounds(width, height int32)
	WmCapabilities(caps []ToplevelWmCapabilities)
}

// Toplevel is a regular desktop window.
type Toplevel struct {
	wire.ObjectID
	display *wl.Display

	Listener ToplevelListener
}

func (t *Toplevel) SetTitle(title string) {
	msg := wire.NewMessage(t, opToplevelSetTitle, "set_title")
	msg.WriteString(title)
	t.display.Enqueue(msg)
}

func (t *Toplevel) SetAppID(id string) {
	msg := wire.NewMessage(t, opToplevelSetAppID, "set_app_id")
	msg.WriteString(id)
	t.display.Enqueue(msg)
}

func (t *Toplevel) SetMinSize(width, height int32) {
	msg := wire.NewMessage(t, opToplevelSetMinSize, "set_min_size")
	msg.WriteInt(width)
	msg.WriteInt(height)
	t.display.Enqueue(msg)
}

func (t *Toplevel) SetMaxSize(width, height int32) {
	msg := wire.NewMessage(t, opToplevelSetMaxSize, "set_max_size")
	msg.WriteInt(width)
	msg.WriteInt(height)
	t.display.Enqueue(msg)
}

func (t *Toplevel) Destroy() {
	t.display.Enqueue(wire.NewMessage(t, opToplevelDestroy, "destroy"))
	t.display.DeleteObject(t.ID())
	t.Listener = nil
}

func (t *Toplevel) Interface() string {
	return ToplevelInterface
}

func (t *Toplevel) MethodName(op uint16) string {
	return wire.MethodName(toplevelEvents, op)
}

func (t *Toplevel) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		width := msg.ReadInt()
		height := msg.ReadInt()
		states := msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}

		if t.Listener != nil {
			t.Listener.Configure(width, height, uint32s[ToplevelState](states))
		}
		return nil

	case 1:
		if t.Listener != nil {
			t.Listener.Close()
		}
		return nil

	case 2:
		width := msg.ReadInt()
		height := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}

		if t.Listener != nil {
			t.Listener.ConfigureBounds(width, height)
		}
		return nil

	case 3:
		caps := msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}

		if t.Listener != nil {
			t.Listener.WmCapabilities(uint32s[ToplevelWmCapabilities](caps))
		}
		return nil

	default:
		return unknownOp(t, msg.Op())
	}
}
