package app

import (
	"fmt"
	"strings"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/xdg"
	"github.com/sirupsen/logrus"
)

// Globals holds the bound globals. Compositor, Shm, and WmBase are
// required. Decoration and Seat are nil if the compositor does not
// offer them.
type Globals struct {
	Compositor *wl.Compositor
	Shm        *wl.Shm
	WmBase     *xdg.WmBase
	Decoration *xdg.DecorationManager
	Seat       *wl.Seat
}

func (g Globals) check() error {
	var missing []string
	if g.Compositor == nil {
		missing = append(missing, wl.CompositorInterface)
	}
	if g.Shm == nil {
		missing = append(missing, wl.ShmInterface)
	}
	if g.WmBase == nil {
		missing = append(missing, xdg.WmBaseInterface)
	}

	if len(missing) > 0 {
		return &MissingGlobalsError{Names: missing}
	}
	return nil
}

// MissingGlobalsError is returned by Setup when the compositor does
// not advertise a required interface.
type MissingGlobalsError struct {
	Names []string
}

func (err *MissingGlobalsError) Error() string {
	return fmt.Sprintf("compositor does not support %v", strings.Join(err.Names, ", "))
}

type registryListener App

func (app *registryListener) Global(name uint32, inter string, version uint32) {
	log := app.log.WithFields(logrus.Fields{
		"name":      name,
		"interface": inter,
		"version":   version,
	})

	switch inter {
	case wl.CompositorInterface:
		if app.bind(log, name, inter, app.globals.Compositor == nil) {
			app.globals.Compositor = wl.BindCompositor(app.registry, name, version)
		}

	case wl.ShmInterface:
		if app.bind(log, name, inter, app.globals.Shm == nil) {
			app.globals.Shm = wl.BindShm(app.registry, name, version)
			app.globals.Shm.Listener = (*shmListener)(app)
		}

	case xdg.WmBaseInterface:
		if app.bind(log, name, inter, app.globals.WmBase == nil) {
			app.globals.WmBase = xdg.BindWmBase(app.registry, name, version)
			app.globals.WmBase.Listener = (*wmBaseListener)(app)
		}

	case xdg.DecorationManagerInterface:
		if app.bind(log, name, inter, app.globals.Decoration == nil) {
			app.globals.Decoration = xdg.BindDecorationManager(app.registry, name, version)
		}

	case wl.SeatInterface:
		if app.bind(log, name, inter, app.globals.Seat == nil) {
			app.globals.Seat = wl.BindSeat(app.registry, name, version)
			app.globals.Seat.Listener = (*seatListener)(app)
		}

	default:
		log.Trace("ignoring global")
	}
}

// bind records that name is about to be bound. It returns false if
// name was bound before or if another global already provides the
// interface.
func (app *registryListener) bind(log *logrus.Entry, name uint32, inter string, unbound bool) bool {
	if !unbound {
		log.Debug("interface already bound, ignoring global")
		return false
	}
	if !app.bound.Add(name) {
		log.Debug("global already bound")
		return false
	}

	app.names[name] = inter
	log.Debug("binding global")
	return true
}

func (app *registryListener) GlobalRemove(name uint32) {
	inter, ok := app.names[name]
	if !ok {
		app.log.WithField("name", name).Debug("global removed")
		return
	}

	app.log.WithFields(logrus.Fields{
		"name":      name,
		"interface": inter,
	}).Warn("bound global removed, continuing without re-resolving")
}

type shmListener App

func (app *shmListener) Format(format wl.ShmFormat) {
	app.log.WithField("format", format).Trace("shm format")
}

// Supported returns the interfaces the app binds, mapped to the
// highest version it implements.
func Supported() map[string]uint32 {
	return map[string]uint32{
		wl.CompositorInterface:         wl.CompositorVersion,
		wl.ShmInterface:                wl.ShmVersion,
		xdg.WmBaseInterface:            xdg.WmBaseVersion,
		xdg.DecorationManagerInterface: xdg.DecorationManagerVersion,
		wl.SeatInterface:               wl.SeatVersion,
	}
}
