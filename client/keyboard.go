package wl

import (
	"os"

	"deedles.dev/playland/wire"
)

type KeyboardListener interface {
	// Keymap hands over ownership of file. The listener must close
	// it.
	Keymap(format KeyboardKeymapFormat, file *os.File, size uint32)
	Enter(serial, surface uint32, keys []byte)
	Leave(serial, surface uint32)
	Key(serial, time, key uint32, state KeyboardKeyState)
	Modifiers(serial, depressed, latched, locked, group uint32)
	RepeatInfo(rate, delay int32)
}

type Keyboard struct {
	wire.ObjectID
	display *Display
	version uint32

	Listener KeyboardListener
}

// Release destroys the keyboard. It requires version 3.
func (kb *Keyboard) Release() {
	kb.Listener = nil
	if kb.version < 3 {
		return
	}
	kb.display.Enqueue(wire.NewMessage(kb, opKeyboardRelease, "release"))
	kb.display.DeleteObject(kb.ID())
}

func (kb *Keyboard) Interface() string {
	return KeyboardInterface
}

func (kb *Keyboard) MethodName(op uint16) string {
	return wire.MethodName(keyboardEvents, op)
}

func (kb *Keyboard) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		format := KeyboardKeymapFormat(msg.ReadUint())
		file := msg.ReadFile()
		size := msg.ReadUint()
		if err := msg.Err(); err != nil {
			if file != nil {
				file.Close()
			}
			return err
		}

		if kb.Listener == nil {
			return file.Close()
		}
		kb.Listener.Keymap(format, file, size)
		return nil

	case 1:
		serial := msg.ReadUint()
		surface := msg.ReadObject()
		keys := msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}

		if kb.Listener != nil {
			kb.Listener.Enter(serial, surface, keys)
		}
		return nil

	case 2:
		serial := msg.ReadUint()
		surface := msg.ReadObject()
		if err := msg.Err(); err != nil {
			return err
		}

		if kb.Listener != nil {
			kb.Listener.Leave(serial, surface)
		}
		return nil

	case 3:
		serial := msg.ReadUint()
		time := msg.ReadUint()
		key := msg.ReadUint()
		state := KeyboardKeyState(msg.ReadUint())
		if err := msg.Err(); err != nil {
			return err
		}

		if kb.Listener != nil {
			kb.Listener.Key(serial, time, key, state)
		}
		return nil

	case 4:
		serial := msg.ReadUint()
		depressed := msg.ReadUint()
		latched := msg.ReadUint()
		locked := msg.ReadUint()
		group := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if kb.Listener != nil {
			kb.Listener.Modifiers(serial, depressed, latched, locked, group)
		}
		return nil

	case 5:
		rate := msg.ReadInt()
		delay := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}

		if kb.Listener != nil {
			kb.Listener.RepeatInfo(rate, delay)
		}
		return nil

	default:
		return unknownOp(kb, msg.Op())
	}
}
