package wl

import "deedles.dev/playland/wire"

type SeatListener interface {
	Capabilities(caps SeatCapability)
	Name(name string)
}

// Seat is a group of input devices.
type Seat struct {
	wire.ObjectID
	display *Display
	version uint32

	Listener SeatListener
}

// BindSeat binds the wl_seat global name, advertised at version.
func BindSeat(registry *Registry, name, version uint32) *Seat {
	seat := Seat{
		display: registry.Display(),
		version: bindVersion(version, SeatVersion),
	}
	registry.Bind(name, seat.version, &seat)
	return &seat
}

func (seat *Seat) Version() uint32 {
	return seat.version
}

func (seat *Seat) GetPointer() *Pointer {
	pointer := Pointer{display: seat.display, version: seat.version}
	seat.display.AddObject(&pointer)

	msg := wire.NewMessage(seat, opSeatGetPointer, "get_pointer")
	msg.WriteObject(&pointer)
	seat.display.Enqueue(msg)

	return &pointer
}

func (seat *Seat) GetKeyboard() *Keyboard {
	keyboard := Keyboard{display: seat.display, version: seat.version}
	seat.display.AddObject(&keyboard)

	msg := wire.NewMessage(seat, opSeatGetKeyboard, "get_keyboard")
	msg.WriteObject(&keyboard)
	seat.display.Enqueue(msg)

	return &keyboard
}

// Release destroys the seat. It requires version 5.
func (seat *Seat) Release() {
	seat.Listener = nil
	if seat.version < 5 {
		return
	}
	seat.display.Enqueue(wire.NewMessage(seat, opSeatRelease, "release"))
	seat.display.DeleteObject(seat.ID())
}

func (seat *Seat) Interface() string {
	return SeatInterface
}

func (seat *Seat) MethodName(op uint16) string {
	return wire.MethodName(seatEvents, op)
}

func (seat *Seat) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		caps := SeatCapability(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}

		if seat.Listener != nil {
			seat.Listener.Capabilities(caps)
		}
		return nil

	case 1:
		name := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}

		if seat.Listener != nil {
			seat.Listener.Name(name)
		}
		return nil

	default:
		return unknownOp(seat, msg.Op())
	}
}
