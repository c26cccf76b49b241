// Package wl implements the client side of the core Wayland protocol
// objects needed to put a shared-memory surface on screen and receive
// input for it.
//
// All events are dispatched synchronously on the goroutine calling
// Display.Dispatch or Display.RoundTrip. Listeners must not block.
package wl

import (
	"fmt"

	"deedles.dev/playland/wire"
)

// ConnectionError is returned when the transport to the compositor
// cannot be established.
type ConnectionError struct {
	Path string
	Err  error
}

func (err *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %v: %v", err.Path, err.Err)
}

func (err *ConnectionError) Unwrap() error {
	return err.Err
}

// ProtocolError is a fatal error reported by the compositor through
// wl_display.error.
type ProtocolError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (err *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error on object %v: code %v: %v", err.ObjectID, err.Code, err.Message)
}

func unknownOp(obj wire.Object, op uint16) error {
	return wire.UnknownOpError{
		Interface: obj.Interface(),
		Type:      "event",
		Op:        op,
	}
}
