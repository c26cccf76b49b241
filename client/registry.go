package wl

import (
	"golang.org/x/exp/maps"

	"deedles.dev/playland/wire"
)

// Global describes an interface advertised by the compositor.
type Global struct {
	Interface string
	Version   uint32
}

type RegistryListener interface {
	Global(name uint32, inter string, version uint32)
	GlobalRemove(name uint32)
}

// Registry tracks the globals advertised by the compositor and binds
// them to client objects.
type Registry struct {
	wire.ObjectID
	display *Display

	Listener RegistryListener

	globals map[uint32]Global
}

func (registry *Registry) Display() *Display {
	return registry.display
}

// Globals returns a copy of the currently advertised globals, keyed by
// name.
func (registry *Registry) Globals() map[uint32]Global {
	return maps.Clone(registry.globals)
}

// Bind creates obj as the client side of the global identified by
// name. obj must not have been added to the display yet.
func (registry *Registry) Bind(name uint32, version uint32, obj wire.Object) {
	registry.display.AddObject(obj)

	msg := wire.NewMessage(registry, opRegistryBind, "bind")
	msg.WriteUint(name)
	msg.WriteNewID(wire.NewID{
		Interface: obj.Interface(),
		Version:   version,
		ID:        obj.ID(),
	})
	registry.display.Enqueue(msg)
}

func (registry *Registry) Interface() string {
	return RegistryInterface
}

func (registry *Registry) MethodName(op uint16) string {
	return wire.MethodName(registryEvents, op)
}

func (registry *Registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		name := msg.ReadUint()
		inter := msg.ReadString()
		version := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		registry.globals[name] = Global{Interface: inter, Version: version}
		if registry.Listener != nil {
			registry.Listener.Global(name, inter, version)
		}
		return nil

	case 1:
		name := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		delete(registry.globals, name)
		if registry.Listener != nil {
			registry.Listener.GlobalRemove(name)
		}
		return nil

	default:
		return unknownOp(registry, msg.Op())
	}
}

// bindVersion returns the version to request for a global advertised
// at advertised when the client implements up to max.
func bindVersion(advertised, max uint32) uint32 {
	return min(advertised, max)
}
