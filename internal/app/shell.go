package app

import (
	"deedles.dev/playland/internal/config"
	"deedles.dev/playland/xdg"
	"github.com/sirupsen/logrus"
)

func (app *App) createWindow() {
	app.surface = app.globals.Compositor.CreateSurface()
	app.frames.surface = app.surface

	app.xsurface = app.globals.WmBase.GetXdgSurface(app.surface)
	app.xsurface.Listener = (*xdgSurfaceListener)(app)

	app.toplevel = app.xsurface.GetToplevel()
	app.toplevel.Listener = (*toplevelListener)(app)
	app.toplevel.SetTitle(app.cfg.Window.Title)
	app.toplevel.SetAppID(app.cfg.Window.AppID)

	// The buffer is never reallocated, so the window can not be resized.
	width, height := int32(app.cfg.Window.Width), int32(app.cfg.Window.Height)
	app.toplevel.SetMinSize(width, height)
	app.toplevel.SetMaxSize(width, height)

	if app.globals.Decoration != nil {
		app.decoration = app.globals.Decoration.GetToplevelDecoration(app.toplevel)
		app.decoration.Listener = (*decorationListener)(app)

		switch app.cfg.Window.Decorations {
		case config.DecorationsServer:
			app.decoration.SetMode(xdg.DecorationModeServerSide)
		case config.DecorationsClient:
			app.decoration.SetMode(xdg.DecorationModeClientSide)
		}
	}

	app.setState(AwaitingConfigure)
	app.surface.Commit()
}

// close moves the window to Closing, which ends the dispatch loop.
func (app *App) close(reason string) {
	app.log.WithField("reason", reason).Info("closing")
	app.setState(Closing)
	app.Stop()
}

type wmBaseListener App

func (app *wmBaseListener) Ping(serial uint32) {
	app.globals.WmBase.Pong(serial)
	err := app.display.Flush()
	if err != nil {
		(*App)(app).fail(err)
	}
}

type xdgSurfaceListener App

func (app *xdgSurfaceListener) Configure(serial uint32) {
	if app.state == Closing {
		return
	}

	app.xsurface.AckConfigure(serial)
	if app.state == AwaitingConfigure {
		(*App)(app).setState(Configured)
	}
}

type toplevelListener App

func (app *toplevelListener) Configure(width, height int32, states []xdg.ToplevelState) {
	app.log.WithFields(logrus.Fields{
		"width":  width,
		"height": height,
		"states": states,
	}).Debug("toplevel configure")
}

func (app *toplevelListener) Close() {
	(*App)(app).close("compositor requested close")
}

func (app *toplevelListener) ConfigureBounds(width, height int32) {
	app.log.WithFields(logrus.Fields{
		"width":  width,
		"height": height,
	}).Debug("toplevel bounds")
}

func (app *toplevelListener) WmCapabilities(caps []xdg.ToplevelWmCapabilities) {
	app.log.WithField("capabilities", caps).Debug("window manager capabilities")
}

type decorationListener App

func (app *decorationListener) Configure(mode xdg.DecorationMode) {
	app.log.WithField("mode", mode).Info("decoration mode")
}
