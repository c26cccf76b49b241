package xdg

import (
	wl "deedles.dev/playland/client"
	"deedles.dev/playland/wire"
)

// DecorationManager negotiates who draws window decorations.
type DecorationManager struct {
	wire.ObjectID
	display *wl.Display
}

// BindDecorationManager binds the zxdg_decoration_manager_v1 global
// name, advertised at version.
func BindDecorationManager(registry *wl.Registry, name, version uint32) *DecorationManager {
	dm := DecorationManager{display: registry.Display()}
	registry.Bind(name, min(version, DecorationManagerVersion), &dm)
	return &dm
}

// GetToplevelDecoration creates the decoration object for toplevel.
// It must be called before the toplevel's surface has a buffer
// attached.
func (dm *DecorationManager) GetToplevelDecoration(toplevel *Toplevel) *ToplevelDecoration {
	deco := ToplevelDecoration{display: dm.display}
	dm.display.AddObject(&deco)

	msg := wire.NewMessage(dm, opDecorationManagerGetToplevelDecoration, "get_toplevel_decoration")
	msg.WriteObject(&deco)
	msg.WriteObject(toplevel)
	dm.display.Enqueue(msg)

	return &deco
}

func (dm *DecorationManager) Destroy() {
	dm.display.Enqueue(wire.NewMessage(dm, opDecorationManagerDestroy, "destroy"))
	dm.display.DeleteObject(dm.ID())
}

func (dm *DecorationManager) Interface() string {
	return DecorationManagerInterface
}

func (dm *DecorationManager) MethodName(op uint16) string {
	return "unknown"
}

func (dm *DecorationManager) Dispatch(msg *wire.MessageBuffer) error {
	return unknownOp(dm, msg.Op())
}

type ToplevelDecorationListener interface {
	Configure(mode DecorationMode)
}

type ToplevelDecoration struct {
	wire.ObjectID
	display *wl.Display

	Listener ToplevelDecorationListener
}

// SetMode states the client's preferred decoration mode. The
// compositor has the final say and reports it with a configure event.
func (deco *ToplevelDecoration) SetMode(mode DecorationMode) {
	msg := wire.NewMessage(deco, opToplevelDecorationSetMode, "set_mode")
	msg.WriteUint(uint32(mode))
	deco.display.Enqueue(msg)
}

func (deco *ToplevelDecoration) Destroy() {
	deco.display.Enqueue(wire.NewMessage(deco, opToplevelDecorationDestroy, "destroy"))
	deco.display.DeleteObject(deco.ID())
	deco.Listener = nil
}

func (deco *ToplevelDecoration) Interface() string {
	return ToplevelDecorationInterface
}

func (deco *ToplevelDecoration) MethodName(op uint16) string {
	return wire.MethodName(toplevelDecorationEvents, op)
}

func (deco *ToplevelDecoration) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		mode := DecorationMode(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}

		if deco.Listener != nil {
			deco.Listener.Configure(mode)
		}
		return nil

	default:
		return unknownOp(deco, msg.Op())
	}
}
