// Package wltest provides an in-process compositor for testing
// clients. It speaks the real wire protocol over a socket pair,
// records every request it receives, and answers enough of them for a
// client to put a window on screen.
package wltest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/protocol"
	"deedles.dev/playland/shm"
	"deedles.dev/playland/wire"
	"deedles.dev/playland/xdg"
	"golang.org/x/sys/unix"
)

// DefaultGlobals is advertised when Options.Globals is nil.
var DefaultGlobals = []string{
	wl.CompositorInterface,
	wl.ShmInterface,
	xdg.WmBaseInterface,
	xdg.DecorationManagerInterface,
	wl.SeatInterface,
	"wl_output",
}

type Options struct {
	// Globals lists the interfaces to advertise, in order. Global
	// names start at 1. The same interface may appear more than once.
	Globals []string

	SeatCapabilities wl.SeatCapability

	// AutoFrame makes the server fire pending frame callbacks on every
	// commit, at most MaxFrames times. Zero means no limit.
	AutoFrame bool
	MaxFrames int

	// PingOnBind, if non-zero, is sent as a ping as soon as the client
	// binds xdg_wm_base.
	PingOnBind uint32
}

// Request is an entry in the server's log. Most entries are requests
// received from the client; entries with Event set are events that the
// server sent.
type Request struct {
	Interface string
	Object    uint32
	Name      string
	Args      []any
	Event     bool

	// Pixels holds a copy of the buffer contents for a commit that
	// applied a newly attached buffer.
	Pixels []byte

	// Outstanding is the number of frame callbacks waiting to fire,
	// including the one requested, for wl_surface.frame requests.
	Outstanding int

	destructor bool
}

// Is reports whether r is the request called name on an object
// implementing inter.
func (r Request) Is(inter, name string) bool {
	return !r.Event && (r.Interface == inter) && (r.Name == name)
}

func (r Request) String() string {
	dir := "<-"
	if r.Event {
		dir = "->"
	}
	args := make([]string, 0, len(r.Args))
	for _, arg := range r.Args {
		args = append(args, fmt.Sprint(arg))
	}
	return fmt.Sprintf("%v %v@%v.%v(%v)", dir, r.Interface, r.Object, r.Name, strings.Join(args, ", "))
}

type object struct {
	wire.ObjectID
	iface   protocol.Interface
	version uint32
}

func (obj *object) Interface() string {
	return obj.iface.Name
}

func (obj *object) MethodName(op uint16) string {
	if int(op) < len(obj.iface.Events) {
		return obj.iface.Events[op].Name
	}
	return "unknown"
}

func (obj *object) Dispatch(msg *wire.MessageBuffer) error {
	return errors.New("server objects do not receive events")
}

type pool struct {
	file *os.File
	mmap shm.Mmap
}

type buffer struct {
	pool                          uint32
	offset, width, height, stride int32
}

type fd int

// Server is a fake compositor serving a single client.
type Server struct {
	t         testing.TB
	opts      Options
	conn      *wire.Conn
	protocols []protocol.Protocol
	done      chan struct{}
	close     sync.Once

	m       sync.Mutex
	log     []Request
	changed chan struct{}
	err     error
	objects map[uint32]*object
	serial  uint32

	pools   map[uint32]*pool
	buffers map[uint32]buffer
	pending map[uint32]uint32
	frames  []uint32
	fired   int

	wmBase, xdgSurface, toplevel, decoration uint32
	roleSurface, keyboard, pointer           uint32
	decorationMode                           uint32
	configured                               bool
}

// New starts a server and returns it along with the client's end of
// the connection. The server is closed when the test finishes.
func New(t testing.TB, opts Options) (*Server, *net.UnixConn) {
	t.Helper()

	if opts.Globals == nil {
		opts.Globals = DefaultGlobals
	}

	protocols, err := protocol.Builtin()
	if err != nil {
		t.Fatalf("load protocols: %v", err)
	}

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}

	server := Server{
		t:         t,
		opts:      opts,
		conn:      wire.NewConn(fileConn(t, fds[0], "server")),
		protocols: protocols,
		done:      make(chan struct{}),
		changed:   make(chan struct{}),
		objects:   make(map[uint32]*object),
		pools:     make(map[uint32]*pool),
		buffers:   make(map[uint32]buffer),
		pending:   make(map[uint32]uint32),
	}
	server.add(1, wl.DisplayInterface, 1)

	go server.serve()
	t.Cleanup(func() { server.Close() })

	return &server, fileConn(t, fds[1], "client")
}

func fileConn(t testing.TB, fd int, name string) *net.UnixConn {
	file := os.NewFile(uintptr(fd), name)
	defer file.Close()

	c, err := net.FileConn(file)
	if err != nil {
		t.Fatalf("%v connection: %v", name, err)
	}
	return c.(*net.UnixConn)
}

// Close disconnects the client and releases everything the server
// holds. It reports any error the server ran into while handling
// requests.
func (s *Server) Close() {
	s.close.Do(func() {
		s.conn.Close()
		<-s.done

		for _, p := range s.pools {
			p.mmap.Unmap()
			p.file.Close()
		}

		if s.err != nil {
			s.t.Errorf("wltest: %v", s.err)
		}
	})
}

func (s *Server) serve() {
	defer close(s.done)

	for {
		msg, err := s.conn.ReadMessage()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.fail(err)
			}
			return
		}

		err = s.receive(msg)
		if err != nil {
			s.fail(err)
			return
		}
	}
}

func (s *Server) fail(err error) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.err == nil {
		s.err = err
	}
}

func (s *Server) receive(msg *wire.MessageBuffer) error {
	s.m.Lock()
	defer s.m.Unlock()

	r, err := s.decode(msg)
	if err != nil {
		return fmt.Errorf("decode request for object %v: %w", msg.Sender(), err)
	}

	err = s.handle(&r)
	s.record(r)
	if err != nil {
		return fmt.Errorf("handle %v: %w", r, err)
	}

	if r.destructor {
		delete(s.objects, r.Object)
		s.send(1, "delete_id", r.Object)
	}
	return nil
}

func (s *Server) record(r Request) {
	s.log = append(s.log, r)
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Server) lookup(name string) protocol.Interface {
	iface, ok := protocol.FindInterface(s.protocols, name)
	if !ok {
		return protocol.Interface{Name: name, Version: 1}
	}
	return iface
}

func (s *Server) add(id uint32, inter string, version uint32) {
	obj := object{iface: s.lookup(inter), version: version}
	obj.SetID(id)
	s.objects[id] = &obj
}

func (s *Server) decode(msg *wire.MessageBuffer) (Request, error) {
	obj, ok := s.objects[msg.Sender()]
	if !ok {
		return Request{}, errors.New("unknown object")
	}
	if int(msg.Op()) >= len(obj.iface.Requests) {
		return Request{}, wire.UnknownOpError{Interface: obj.iface.Name, Type: "request", Op: msg.Op()}
	}
	op := obj.iface.Requests[msg.Op()]

	r := Request{
		Interface:  obj.iface.Name,
		Object:     obj.ID(),
		Name:       op.Name,
		destructor: op.Type == "destructor",
	}
	for _, arg := range op.Args {
		switch arg.Type {
		case "int":
			r.Args = append(r.Args, msg.ReadInt())
		case "uint", "object":
			r.Args = append(r.Args, msg.ReadUint())
		case "fixed":
			r.Args = append(r.Args, msg.ReadFixed())
		case "string":
			r.Args = append(r.Args, msg.ReadString())
		case "array":
			r.Args = append(r.Args, msg.ReadArray())
		case "fd":
			r.Args = append(r.Args, msg.ReadFile())
		case "new_id":
			if arg.Interface == "" {
				nid := msg.ReadNewID()
				r.Args = append(r.Args, nid)
				s.add(nid.ID, nid.Interface, nid.Version)
				continue
			}
			id := msg.ReadUint()
			r.Args = append(r.Args, id)
			s.add(id, arg.Interface, obj.version)
		default:
			return r, fmt.Errorf("unsupported argument type %q", arg.Type)
		}
	}

	return r, msg.Err()
}

// send sends an event. s.m must be held.
func (s *Server) send(id uint32, event string, args ...any) {
	obj, ok := s.objects[id]
	if !ok {
		s.err = errors.Join(s.err, fmt.Errorf("send %v to unknown object %v", event, id))
		return
	}
	op, ok := protocol.Opcode(obj.iface.Events, event)
	if !ok {
		s.err = errors.Join(s.err, fmt.Errorf("%v has no event %v", obj.iface.Name, event))
		return
	}

	msg := wire.NewMessage(obj, op, event)
	for _, arg := range args {
		switch arg := arg.(type) {
		case int32:
			msg.WriteInt(arg)
		case uint32:
			msg.WriteUint(arg)
		case wire.Fixed:
			msg.WriteFixed(arg)
		case string:
			msg.WriteString(arg)
		case []byte:
			msg.WriteArray(arg)
		case fd:
			msg.WriteFD(int(arg))
		default:
			panic(fmt.Errorf("unsupported argument type %T", arg))
		}
	}

	err := msg.Build(s.conn)
	if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, unix.EPIPE) {
		s.err = errors.Join(s.err, err)
	}

	s.record(Request{
		Interface: obj.iface.Name,
		Object:    id,
		Name:      event,
		Args:      args,
		Event:     true,
	})
}

func (s *Server) nextSerial() uint32 {
	s.serial++
	return s.serial
}

// Requests returns a copy of the log.
func (s *Server) Requests() []Request {
	s.m.Lock()
	defer s.m.Unlock()

	return append([]Request(nil), s.log...)
}

// WaitFor blocks until the log contains an entry for which match
// returns true, then returns the first such entry along with its
// index. The test fails if none shows up within a few seconds.
func (s *Server) WaitFor(match func(Request) bool) (Request, int) {
	s.t.Helper()

	timeout := time.After(5 * time.Second)
	var i int
	for {
		s.m.Lock()
		log, changed := s.log, s.changed
		s.m.Unlock()

		for ; i < len(log); i++ {
			if match(log[i]) {
				return log[i], i
			}
		}

		select {
		case <-changed:
		case <-s.done:
			s.m.Lock()
			n := len(s.log)
			s.m.Unlock()
			if n == len(log) {
				s.t.Fatalf("wltest: connection closed while waiting")
			}
		case <-timeout:
			s.t.Fatalf("wltest: timed out waiting for request")
		}
	}
}

// WaitForRequest waits for the named request.
func (s *Server) WaitForRequest(inter, name string) (Request, int) {
	s.t.Helper()
	return s.WaitFor(func(r Request) bool { return r.Is(inter, name) })
}
