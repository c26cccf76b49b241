package app

import (
	"os"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/wire"
	"github.com/sirupsen/logrus"
)

// InputHandler decides what to do with input.
type InputHandler interface {
	// Key is called for every key press. Returning true closes the
	// window.
	Key(key uint32) bool

	// Motion is called with the pointer's position in surface
	// coordinates.
	Motion(x, y float64)
}

// KeyHandler closes the window when ExitKey is pressed and optionally
// logs pointer motion.
type KeyHandler struct {
	ExitKey      uint32
	ReportMotion bool
	Log          *logrus.Entry
}

func (h *KeyHandler) Key(key uint32) bool {
	return key == h.ExitKey
}

func (h *KeyHandler) Motion(x, y float64) {
	if h.ReportMotion {
		h.Log.WithFields(logrus.Fields{"x": x, "y": y}).Info("pointer moved")
	}
}

type seatListener App

func (app *seatListener) Capabilities(caps wl.SeatCapability) {
	seat := app.globals.Seat

	if caps.Has(wl.SeatCapabilityKeyboard) && (app.keyboard == nil) {
		app.keyboard = seat.GetKeyboard()
		app.keyboard.Listener = (*keyboardListener)(app)
	}
	if caps.Has(wl.SeatCapabilityPointer) && (app.pointer == nil) {
		app.pointer = seat.GetPointer()
		app.pointer.Listener = (*pointerListener)(app)
	}
}

func (app *seatListener) Name(name string) {
	app.log.WithField("seat", name).Debug("seat name")
}

type keyboardListener App

func (app *keyboardListener) Keymap(format wl.KeyboardKeymapFormat, file *os.File, size uint32) {
	file.Close()
	app.log.WithFields(logrus.Fields{
		"format": format,
		"size":   size,
	}).Trace("keymap ignored")
}

func (app *keyboardListener) Enter(serial, surface uint32, keys []byte) {
	app.log.Trace("keyboard focus entered")
}

func (app *keyboardListener) Leave(serial, surface uint32) {
	app.log.Trace("keyboard focus left")
}

func (app *keyboardListener) Key(serial, time, key uint32, state wl.KeyboardKeyState) {
	if (state != wl.KeyboardKeyStatePressed) || !app.live.Load() {
		return
	}

	if app.input.Key(key) {
		(*App)(app).close("exit key pressed")
	}
}

func (app *keyboardListener) Modifiers(serial, depressed, latched, locked, group uint32) {}

func (app *keyboardListener) RepeatInfo(rate, delay int32) {}

type pointerListener App

func (app *pointerListener) Enter(serial, surface uint32, x, y wire.Fixed) {
	app.log.Trace("pointer entered")
}

func (app *pointerListener) Leave(serial, surface uint32) {
	app.log.Trace("pointer left")
}

func (app *pointerListener) Motion(time uint32, x, y wire.Fixed) {
	if !app.live.Load() {
		return
	}
	app.input.Motion(x.Float(), y.Float())
}

func (app *pointerListener) Button(serial, time uint32, button wl.PointerButton, state wl.PointerButtonState) {
	app.log.WithFields(logrus.Fields{
		"button":  button,
		"pressed": state == wl.PointerButtonStatePressed,
	}).Trace("pointer button")
}

func (app *pointerListener) Axis(time uint32, axis wl.PointerAxis, value wire.Fixed) {}

func (app *pointerListener) Frame() {}

func (app *pointerListener) AxisSource(source wl.PointerAxisSource) {}

func (app *pointerListener) AxisStop(time uint32, axis wl.PointerAxis) {}

func (app *pointerListener) AxisDiscrete(axis wl.PointerAxis, discrete int32) {}
