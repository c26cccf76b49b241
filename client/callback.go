package wl

import "deedles.dev/playland/wire"

type CallbackListener interface {
	Done(data uint32)
}

// Callback is a one-shot notification object. The compositor destroys
// it after sending done.
type Callback struct {
	wire.ObjectID
	display *Display

	Listener CallbackListener
}

// Then sets f as the callback's listener.
func (c *Callback) Then(f func(uint32)) {
	c.Listener = callbackListener(f)
}

func (c *Callback) Interface() string {
	return CallbackInterface
}

func (c *Callback) MethodName(op uint16) string {
	return wire.MethodName(callbackEvents, op)
}

func (c *Callback) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0:
		data := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if c.Listener != nil {
			c.Listener.Done(data)
		}
		return nil

	default:
		return unknownOp(c, msg.Op())
	}
}

type callbackListener func(uint32)

func (lis callbackListener) Done(data uint32) {
	lis(data)
}
