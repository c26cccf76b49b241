package wire

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// readSize is the amount of data requested from the socket per
	// read. libwayland uses the same size for its connection buffer.
	readSize = 4096

	// maxFDsPerRead bounds the number of file descriptors accepted
	// alongside a single read.
	maxFDsPerRead = 28
)

func xdgRuntimeDir() string {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if ok {
		return dir
	}
	return fmt.Sprintf("/run/user/%v", os.Getuid())
}

// SocketPath determines the path to the Wayland Unix domain socket
// based on the contents of the $WAYLAND_DISPLAY environment variable.
// It does not attempt to determine if the value corresponds to an
// actual socket.
func SocketPath() string {
	v, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok || (v == "") {
		v = "wayland-0"
	}
	if filepath.IsAbs(v) {
		return v
	}

	return filepath.Join(xdgRuntimeDir(), v)
}

// Conn represents a low-level Wayland connection. It buffers incoming
// data so that messages split across reads are reassembled, and
// collects file descriptors received alongside that data.
type Conn struct {
	conn *net.UnixConn
	in   []byte
	fds  []int
}

// NewConn creates a new Conn that wraps c. After this is called, use
// the provided Close method to close c instead of calling its own
// Close method.
func NewConn(c *net.UnixConn) *Conn {
	return &Conn{
		conn: c,
	}
}

// Dial opens a connection to the Wayland socket based on the current
// environment. It follows the procedure outlined at
// https://wayland-book.com/protocol-design/wire-protocol.html#transports
func Dial() (*Conn, string, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.ParseInt(v, 10, 0)
		if err != nil {
			return nil, "WAYLAND_SOCKET", fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
		}
		file := os.NewFile(uintptr(fd), "WAYLAND_SOCKET")
		defer file.Close()

		c, err := net.FileConn(file)
		if err != nil {
			return nil, "WAYLAND_SOCKET", fmt.Errorf("open WAYLAND_SOCKET connection: %w", err)
		}
		uc, ok := c.(*net.UnixConn)
		if !ok {
			c.Close()
			return nil, "WAYLAND_SOCKET", errors.New("WAYLAND_SOCKET is not a Unix domain socket")
		}
		return NewConn(uc), "WAYLAND_SOCKET", nil
	}

	path := SocketPath()
	s, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, path, err
	}
	return NewConn(s), path, nil
}

// Close closes the underlying connection along with any file
// descriptors that were received but never claimed by a message.
func (c *Conn) Close() error {
	errs := []error{c.conn.Close()}
	for _, fd := range c.fds {
		errs = append(errs, unix.Close(fd))
	}
	c.fds = nil
	return errors.Join(errs...)
}

// SetReadDeadline sets the deadline for reads on the underlying
// connection. A deadline in the past unblocks a pending ReadMessage.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// Buffered reports whether a complete message is available without
// reading from the socket.
func (c *Conn) Buffered() bool {
	if len(c.in) < headerSize {
		return false
	}
	size := int(byteOrder.Uint32(c.in[4:8]) >> 16)
	return (size < headerSize) || (len(c.in) >= size)
}

// fill performs a single read from the socket, appending the data and
// any file descriptors that came with it.
func (c *Conn) fill() error {
	var buf [readSize]byte
	oob := make([]byte, unix.CmsgSpace(maxFDsPerRead*4))
	n, oobn, _, _, err := c.conn.ReadMsgUnix(buf[:], oob)
	c.in = append(c.in, buf[:n]...)

	if oobn > 0 {
		fderr := c.readFDs(oob[:oobn])
		if fderr != nil {
			return fderr
		}
	}

	if err != nil {
		return err
	}
	if n == 0 {
		return io.EOF
	}
	return nil
}

func (c *Conn) readFDs(data []byte) error {
	cmsgs, err := unix.ParseSocketControlMessage(data)
	if err != nil {
		return fmt.Errorf("parse socket control messages: %w", err)
	}
	for _, cmsg := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			if errors.Is(err, unix.EINVAL) {
				continue
			}
			return fmt.Errorf("parse unix control message: %w", err)
		}
		c.fds = append(c.fds, fds...)
	}
	return nil
}

func (c *Conn) popFD() (int, bool) {
	if len(c.fds) == 0 {
		return -1, false
	}

	fd := c.fds[0]
	c.fds = c.fds[1:]
	return fd, true
}

// CloseOrphanedFDs closes the file descriptors left over once every
// buffered byte has been consumed and returns how many there were.
// File descriptors arrive together with the data of the message that
// carries them, so with nothing left to read none of them can belong to
// a later message. Events that were discarded without being decoded
// leave their file descriptors behind, and calling this after each
// batch keeps them from being claimed by the next message that expects
// one. Nothing is closed while part of a message is still buffered.
func (c *Conn) CloseOrphanedFDs() (int, error) {
	if (len(c.in) > 0) || (len(c.fds) == 0) {
		return 0, nil
	}

	n := len(c.fds)
	errs := make([]error, 0, n)
	for _, fd := range c.fds {
		errs = append(errs, unix.Close(fd))
	}
	c.fds = nil
	return n, errors.Join(errs...)
}

// ReadMessage returns the next message from the connection, blocking
// until one has been completely received.
func (c *Conn) ReadMessage() (*MessageBuffer, error) {
	for !c.Buffered() {
		err := c.fill()
		if err != nil {
			if len(c.in) > 0 && errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}

	sender := byteOrder.Uint32(c.in[0:4])
	so := byteOrder.Uint32(c.in[4:8])
	size := uint16(so >> 16)
	if size < headerSize {
		return nil, MessageSizeError{Sender: sender, Size: size}
	}

	msg := MessageBuffer{
		sender: sender,
		op:     uint16(so & 0xFFFF),
		size:   size,
		conn:   c,
	}
	msg.data.Reset(append([]byte(nil), c.in[headerSize:size]...))

	n := copy(c.in, c.in[size:])
	c.in = c.in[:n]

	return &msg, nil
}
