// Package wire implements the Wayland wire protocol: message framing,
// argument encoding, and file descriptor passing over a Unix domain
// socket. It is primarily intended for use by the protocol object
// implementations in the client and xdg packages.
package wire

import (
	"encoding/binary"
	"io"
)

// byteOrder is the host byte order, which is what Wayland uses on the
// wire.
var byteOrder binary.ByteOrder = binary.NativeEndian

// headerSize is the size of a message header: a sender ID followed by
// a combined size and opcode.
const headerSize = 8

// Object represents a Wayland protocol object.
type Object interface {
	// ID returns the object's ID on the connection, or 0 if it has
	// not yet been assigned one.
	ID() uint32

	// SetID assigns the object's ID.
	SetID(id uint32)

	// Interface returns the protocol name of the object's interface,
	// such as "wl_surface".
	Interface() string

	// Dispatch performs the operation requested by the message in the
	// buffer.
	Dispatch(msg *MessageBuffer) error

	// MethodName returns the name of the event with the given opcode.
	MethodName(op uint16) string
}

// ObjectID implements the ID bookkeeping of Object. It is meant to be
// embedded.
type ObjectID uint32

func (id ObjectID) ID() uint32 {
	return uint32(id)
}

func (id *ObjectID) SetID(v uint32) {
	*id = ObjectID(v)
}

// NewID is an untyped new_id argument, as used by wl_registry.bind.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}

// MethodName looks op up in names, returning a placeholder if it is
// out of range.
func MethodName(names []string, op uint16) string {
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown"
}

func padding(length uint32) uint32 {
	return (4 - (length % 4)) % 4
}

func read[T ~int32 | ~uint32](r io.Reader) (T, error) {
	var data [4]byte
	_, err := io.ReadFull(r, data[:])
	if err != nil {
		return 0, err
	}

	return T(byteOrder.Uint32(data[:])), nil
}

func write[T ~int32 | ~uint32](w io.Writer, v T) error {
	var data [4]byte
	byteOrder.PutUint32(data[:], uint32(v))
	n, err := w.Write(data[:])
	if (err == nil) && (n < len(data)) {
		return io.ErrShortWrite
	}
	return err
}
