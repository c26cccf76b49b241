package wire

import (
	"fmt"
)

// UnknownOpError is returned by Object.Dispatch if it is given a
// message with an invalid opcode.
type UnknownOpError struct {
	Interface string
	Type      string
	Op        uint16
}

func (err UnknownOpError) Error() string {
	return fmt.Sprintf("unknown %v opcode for %v: %v", err.Type, err.Interface, err.Op)
}

// MessageSizeError is returned when a message header declares a size
// that cannot hold the header itself.
type MessageSizeError struct {
	Sender uint32
	Size   uint16
}

func (err MessageSizeError) Error() string {
	return fmt.Sprintf("invalid size %v in message from object %v", err.Size, err.Sender)
}
