package wl

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"deedles.dev/playland/internal/debug"
	"deedles.dev/playland/internal/objstore"
	"deedles.dev/playland/wire"
)

// Display is the connection to the compositor and the wl_display
// singleton. It owns the object table, the outgoing request queue, and
// the event dispatch loop.
type Display struct {
	obj displayObject

	close    sync.Once
	conn     *wire.Conn
	objects  *objstore.Store
	queue    []*wire.MessageBuilder
	registry *Registry
	err      error
}

// Dial connects to the compositor indicated by the environment.
func Dial() (*Display, error) {
	c, path, err := wire.Dial()
	if err != nil {
		return nil, &ConnectionError{Path: path, Err: err}
	}
	return newDisplay(c), nil
}

// Connect wraps an already established connection.
func Connect(c *net.UnixConn) *Display {
	return newDisplay(wire.NewConn(c))
}

func newDisplay(c *wire.Conn) *Display {
	display := Display{
		conn:    c,
		objects: objstore.New(1),
	}
	display.obj.display = &display
	display.AddObject(&display.obj)

	return &display
}

// displayObject is the wl_display protocol object, always ID 1.
type displayObject struct {
	wire.ObjectID
	display *Display
}

func (obj *displayObject) Interface() string {
	return DisplayInterface
}

func (obj *displayObject) MethodName(op uint16) string {
	return wire.MethodName(displayEvents, op)
}

func (obj *displayObject) Dispatch(msg *wire.MessageBuffer) error {
	display := obj.display

	switch msg.Op() {
	case 0:
		id := msg.ReadObject()
		code := msg.ReadUint()
		message := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		display.err = &ProtocolError{ObjectID: id, Code: code, Message: message}
		return nil

	case 1:
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		display.objects.Delete(id)
		return nil

	default:
		return unknownOp(obj, msg.Op())
	}
}

// Close flushes any queued requests, then closes the connection. It is
// safe to call more than once.
func (display *Display) Close() error {
	var err error
	display.close.Do(func() {
		flushErr := display.Flush()
		err = errors.Join(flushErr, display.conn.Close())
	})
	return err
}

// Interrupt causes a Dispatch blocked on a read to return with an
// error. It may be called from any goroutine.
func (display *Display) Interrupt() error {
	return display.conn.SetReadDeadline(time.Now())
}

// AddObject registers obj with the connection, assigning it an ID.
func (display *Display) AddObject(obj wire.Object) {
	display.objects.Add(obj)
}

func (display *Display) GetObject(id uint32) wire.Object {
	return display.objects.Get(id)
}

// DeleteObject marks an object as destroyed by the client. It remains
// known to the connection until the server acknowledges the deletion.
func (display *Display) DeleteObject(id uint32) {
	display.objects.Zombify(id)
}

// Enqueue queues a request. Requests are sent in order by Flush.
func (display *Display) Enqueue(msg *wire.MessageBuilder) {
	display.queue = append(display.queue, msg)
}

// Flush sends all queued requests.
func (display *Display) Flush() error {
	queue := display.queue
	display.queue = nil

	for i, msg := range queue {
		debug.Printf(" -> %v", msg)
		err := msg.Build(display.conn)
		if err != nil {
			for _, rest := range queue[i+1:] {
				rest.Discard()
			}
			return fmt.Errorf("send %v: %w", msg, err)
		}
	}
	return nil
}

// Dispatch sends queued requests, then waits for the next batch of
// events and delivers each of them, in order, to its object's
// listener. It returns an error if the connection fails or if the
// compositor reports a fatal protocol error.
func (display *Display) Dispatch() error {
	if display.err != nil {
		return display.err
	}

	err := display.Flush()
	if err != nil {
		return err
	}

	msg, err := display.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}
	err = display.dispatch(msg)
	if err != nil {
		return err
	}

	for display.conn.Buffered() {
		msg, err := display.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		err = display.dispatch(msg)
		if err != nil {
			return err
		}
	}

	n, err := display.conn.CloseOrphanedFDs()
	if n > 0 {
		debug.Printf("closed %v file descriptors left by discarded events", n)
	}
	if err != nil {
		return fmt.Errorf("close orphaned file descriptors: %w", err)
	}

	return display.err
}

func (display *Display) dispatch(msg *wire.MessageBuffer) error {
	obj := display.objects.Get(msg.Sender())
	if obj == nil {
		debug.Printf("discarding event %v for unknown object %v", msg.Op(), msg.Sender())
		return nil
	}

	err := obj.Dispatch(msg)
	if debug.Enabled() {
		prefix := ""
		if display.objects.IsZombie(msg.Sender()) {
			prefix = "[zombie] "
		}
		debug.Printf("%v%v", prefix, msg.Debug(obj))
	}
	if err != nil {
		return fmt.Errorf("dispatch %v: %w", msg.Debug(obj), err)
	}
	if display.err != nil {
		return display.err
	}
	return nil
}

// RoundTrip blocks until the server has processed every request sent
// before it, dispatching events in the meantime.
func (display *Display) RoundTrip() error {
	var done bool
	display.Sync().Then(func(uint32) { done = true })

	for !done {
		err := display.Dispatch()
		if err != nil {
			return err
		}
	}
	return nil
}

// Sync requests a callback that fires once the server has processed
// every request sent before it.
func (display *Display) Sync() *Callback {
	callback := Callback{display: display}
	display.AddObject(&callback)

	msg := wire.NewMessage(&display.obj, opDisplaySync, "sync")
	msg.WriteObject(&callback)
	display.Enqueue(msg)

	return &callback
}

// GetRegistry returns the registry, creating it on first use.
func (display *Display) GetRegistry() *Registry {
	if display.registry != nil {
		return display.registry
	}

	registry := Registry{
		display: display,
		globals: make(map[uint32]Global),
	}
	display.AddObject(&registry)

	msg := wire.NewMessage(&display.obj, opDisplayGetRegistry, "get_registry")
	msg.WriteObject(&registry)
	display.Enqueue(msg)

	display.registry = &registry
	return &registry
}
