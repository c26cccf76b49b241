package wl

import "deedles.dev/playland/wire"

// Compositor creates surfaces.
type Compositor struct {
	wire.ObjectID
	display *Display
}

// BindCompositor binds the wl_compositor global name, advertised at
// version.
func BindCompositor(registry *Registry, name, version uint32) *Compositor {
	compositor := Compositor{display: registry.Display()}
	registry.Bind(name, bindVersion(version, CompositorVersion), &compositor)
	return &compositor
}

func (compositor *Compositor) CreateSurface() *Surface {
	surface := Surface{display: compositor.display}
	compositor.display.AddObject(&surface)

	msg := wire.NewMessage(compositor, opCompositorCreateSurface, "create_surface")
	msg.WriteObject(&surface)
	compositor.display.Enqueue(msg)

	return &surface
}

func (compositor *Compositor) Interface() string {
	return CompositorInterface
}

func (compositor *Compositor) MethodName(op uint16) string {
	return "unknown"
}

func (compositor *Compositor) Dispatch(msg *wire.MessageBuffer) error {
	return unknownOp(compositor, msg.Op())
}
