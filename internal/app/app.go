// Package app puts a single window on screen, keeps it painted one
// frame at a time, and routes its input, all from one dispatch loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/config"
	"deedles.dev/playland/internal/set"
	"deedles.dev/playland/render"
	"deedles.dev/playland/shm"
	"deedles.dev/playland/xdg"
	"github.com/sirupsen/logrus"
)

// ShellState is the progress of the window through the shell
// handshake.
type ShellState int

const (
	Created ShellState = iota
	AwaitingConfigure
	Configured
	Visible
	Closing
)

func (s ShellState) String() string {
	switch s {
	case Created:
		return "created"
	case AwaitingConfigure:
		return "awaiting configure"
	case Configured:
		return "configured"
	case Visible:
		return "visible"
	case Closing:
		return "closing"
	}

	return fmt.Sprintf("ShellState(%d)", int(s))
}

type Options struct {
	Config   *config.Config
	Log      *logrus.Entry
	Renderer render.Renderer
	Input    InputHandler

	// Sys is used to allocate the window's buffer. It defaults to
	// shm.DefaultSys.
	Sys shm.Sys
}

// App owns every object the client binds or creates, along with the
// live flag that keeps the dispatch loop running. All of its methods
// except Stop and Live must be called from the goroutine that runs the
// dispatch loop.
type App struct {
	cfg      *config.Config
	log      *logrus.Entry
	renderer render.Renderer
	input    InputHandler
	sys      shm.Sys

	display  *wl.Display
	registry *wl.Registry
	bound    set.Set[uint32]
	names    map[uint32]string
	globals  Globals

	surface    *wl.Surface
	xsurface   *xdg.Surface
	toplevel   *xdg.Toplevel
	decoration *xdg.ToplevelDecoration
	keyboard   *wl.Keyboard
	pointer    *wl.Pointer
	buffer     *shm.Buffer
	frames     frameScheduler
	state      ShellState

	live atomic.Bool
	err  error
}

// New creates an App that talks to the compositor through display.
// Missing options get defaults.
func New(display *wl.Display, opts Options) *App {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewNoise(opts.Config.Render.Seed)
	}
	if opts.Input == nil {
		opts.Input = &KeyHandler{
			ExitKey:      opts.Config.Input.ExitKey,
			ReportMotion: opts.Config.Input.ReportMotion,
			Log:          opts.Log,
		}
	}

	app := App{
		cfg:      opts.Config,
		log:      opts.Log,
		renderer: opts.Renderer,
		input:    opts.Input,
		sys:      opts.Sys,
		display:  display,
		bound:    make(set.Set[uint32]),
		names:    make(map[uint32]string),
	}
	app.frames.listener = (*frameListener)(&app)
	app.live.Store(true)

	return &app
}

// Setup binds the globals, negotiates the window, allocates its
// buffer, and paints the first frame. Nothing is shown if it fails.
func (app *App) Setup() error {
	app.registry = app.display.GetRegistry()
	app.registry.Listener = (*registryListener)(app)

	err := app.display.RoundTrip()
	if err != nil {
		return fmt.Errorf("resolve globals: %w", err)
	}
	err = app.globals.check()
	if err != nil {
		return err
	}

	app.createWindow()

	err = app.display.RoundTrip()
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	for (app.state == AwaitingConfigure) && app.Live() {
		err := app.display.Dispatch()
		if err != nil {
			return fmt.Errorf("wait for configure: %w", err)
		}
	}
	if !app.Live() {
		return app.err
	}

	app.log.WithField("formats", app.globals.Shm.Formats()).Debug("shm formats")

	alloc := shm.Allocator{Pools: app.globals.Shm, Sys: app.sys}
	app.buffer, err = alloc.Allocate(app.cfg.Window.Width, app.cfg.Window.Height)
	if err != nil {
		return fmt.Errorf("allocate buffer: %w", err)
	}

	err = app.paint()
	if err != nil {
		return err
	}
	app.setState(Visible)

	return app.display.Flush()
}

// Run dispatches events until the window is closed, the exit key is
// pressed, or ctx is canceled.
func (app *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		app.Stop()
		app.display.Interrupt()
	})
	defer stop()

	for app.Live() {
		err := app.display.Dispatch()
		if err != nil {
			if !app.Live() {
				break
			}
			return fmt.Errorf("dispatch: %w", err)
		}
	}

	return app.err
}

// Stop clears the live flag. The dispatch loop exits once the event
// batch it is processing, if any, is done. It may be called from any
// goroutine.
func (app *App) Stop() {
	app.live.Store(false)
}

// Live reports whether the dispatch loop should keep running.
func (app *App) Live() bool {
	return app.live.Load()
}

// State returns the window's shell state.
func (app *App) State() ShellState {
	return app.state
}

// Globals returns the bound globals.
func (app *App) Globals() Globals {
	return app.globals
}

// Close destroys every object the app created, in the reverse order
// of creation, and flushes the requests. It does not close the
// display.
func (app *App) Close() error {
	app.Stop()

	var errs []error
	if app.buffer != nil {
		errs = append(errs, app.buffer.Destroy())
	}
	if app.decoration != nil {
		app.decoration.Destroy()
	}
	if app.toplevel != nil {
		app.toplevel.Destroy()
	}
	if app.xsurface != nil {
		app.xsurface.Destroy()
	}
	if app.surface != nil {
		app.surface.Destroy()
	}
	if app.pointer != nil {
		app.pointer.Release()
	}
	if app.keyboard != nil {
		app.keyboard.Release()
	}
	if app.globals.Seat != nil {
		app.globals.Seat.Release()
	}
	if app.globals.Decoration != nil {
		app.globals.Decoration.Destroy()
	}
	if app.globals.WmBase != nil {
		app.globals.WmBase.Destroy()
	}

	errs = append(errs, app.display.Flush())
	return errors.Join(errs...)
}

// fail records err as the reason the app stopped.
func (app *App) fail(err error) {
	if app.err == nil {
		app.err = err
	}
	app.Stop()
}

func (app *App) setState(state ShellState) {
	if state == app.state {
		return
	}

	app.log.WithFields(logrus.Fields{
		"from": app.state,
		"to":   state,
	}).Debug("window state changed")
	app.state = state
}

func (app *App) frame() render.Frame {
	return render.Frame{
		Pix:    app.buffer.Pix(),
		Width:  app.buffer.Width(),
		Height: app.buffer.Height(),
		Stride: app.buffer.Stride(),
		Image:  app.buffer.Image(),
	}
}
