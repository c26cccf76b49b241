package app

import (
	"errors"

	wl "deedles.dev/playland/client"
)

// ErrFrameOutstanding is returned when a frame callback is requested
// while another one has yet to fire.
var ErrFrameOutstanding = errors.New("frame callback already outstanding")

// frameScheduler keeps at most one frame callback alive for a
// surface.
type frameScheduler struct {
	surface  *wl.Surface
	listener wl.CallbackListener
	pending  *wl.Callback
}

// Request asks for a callback when the next frame should be drawn. It
// takes effect with the next commit.
func (fs *frameScheduler) Request() error {
	if fs.pending != nil {
		return ErrFrameOutstanding
	}

	fs.pending = fs.surface.Frame()
	fs.pending.Listener = fs.listener
	return nil
}

// Outstanding returns the number of callbacks that have not fired.
func (fs *frameScheduler) Outstanding() int {
	if fs.pending == nil {
		return 0
	}
	return 1
}

func (fs *frameScheduler) done() {
	fs.pending = nil
}

// paint renders into the buffer and shows it. The next frame callback
// is requested before the commit so that its notification can not be
// missed.
func (app *App) paint() error {
	app.renderer.Render(app.frame())

	err := app.frames.Request()
	if err != nil {
		return err
	}

	if app.buffer.Busy() {
		app.log.Trace("buffer not yet released by compositor")
	}
	app.buffer.Attach(app.surface)
	app.surface.Damage(0, 0, int32(app.buffer.Width()), int32(app.buffer.Height()))
	app.surface.Commit()
	return nil
}

type frameListener App

func (app *frameListener) Done(time uint32) {
	app.frames.done()
	if !app.live.Load() {
		return
	}

	err := (*App)(app).paint()
	if err != nil {
		(*App)(app).fail(err)
	}
}
