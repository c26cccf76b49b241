package wl

import "deedles.dev/playland/wire"

type PointerListener interface {
	Enter(serial, surface uint32, x, y wire.Fixed)
	Leave(serial, surface uint32)
	Motion(time uint32, x, y wire.Fixed)
	Button(serial, time uint32, button PointerButton, state PointerButtonState)
	Axis(time uint32, axis PointerAxis, value wire.Fixed)
	Frame()
	AxisSource(source PointerAxisSource)
	AxisStop(time uint32, axis PointerAxis)
	AxisDiscrete(axis PointerAxis, discrete int32)
}

type Pointer struct {
	wire.ObjectID
	display *Display
	version uint32

	Listener PointerListener
}

// Release destroys the pointer. It requires version 3.
func (p *Pointer) Release() {
	p.Listener = nil
	if p.version < 3 {
		return
	}
	p.display.Enqueue(wire.NewMessage(p, opPointerRelease, "release"))
	p.display.DeleteObject(p.ID())
}

func (p *Pointer) Interface() string {
	return PointerInterface
}

func (p *Pointer) MethodName(op uint16) string {
	return wire.MethodName(pointerEvents, op)
}

func (p *Pointer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		serial := msg.ReadUint()
		surface := msg.ReadObject()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.Enter(serial, surface, x, y)
		}
		return nil

	case 1:
		serial := msg.ReadUint()
		surface := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.Leave(serial, surface)
		}
		return nil

	case 2:
		time := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.Motion(time, x, y)
		}
		return nil

	case 3:
		serial := msg.ReadUint()
		time := msg.ReadUint()
		button := PointerButton(msg.ReadUint())
		state := PointerButtonState(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.Button(serial, time, button, state)
		}
		return nil

	case 4:
		time := msg.ReadUint()
		axis := PointerAxis(msg.ReadUint())
		value := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.Axis(time, axis, value)
		}
		return nil

	case 5:
		if p.Listener != nil {
			p.Listener.Frame()
		}
		return nil

	case 6:
		source := PointerAxisSource(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.AxisSource(source)
		}
		return nil

	case 7:
		time := msg.ReadUint()
		axis := PointerAxis(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.AxisStop(time, axis)
		}
		return nil

	case 8:
		axis := PointerAxis(msg.ReadUint())
		discrete := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}

		if p.Listener != nil {
			p.Listener.AxisDiscrete(axis, discrete)
		}
		return nil

	default:
		return unknownOp(p, msg.Op())
	}
}
