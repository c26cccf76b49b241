package wl_test

import (
	"io"
	"net"
	"os"
	"testing"
	"time"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/wltest"
	"deedles.dev/playland/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type serverObject struct {
	wire.ObjectID
}

func (obj *serverObject) Interface() string { return wl.DisplayInterface }
func (obj *serverObject) Dispatch(msg *wire.MessageBuffer) error { return nil }
func (obj *serverObject) MethodName(op uint16) string { return "" }

func rawPair(t *testing.T) (*wl.Display, *wire.Conn) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)

	conn := func(fd int) *net.UnixConn {
		file := os.NewFile(uintptr(fd), "socketpair")
		defer file.Close()
		c, err := net.FileConn(file)
		require.NoError(t, err)
		return c.(*net.UnixConn)
	}

	display := wl.Connect(conn(fds[0]))
	server := wire.NewConn(conn(fds[1]))
	t.Cleanup(func() {
		display.Close()
		server.Close()
	})
	return display, server
}

func TestRegistryGlobals(t *testing.T) {
	srv, conn := wltest.New(t, wltest.Options{})
	display := wl.Connect(conn)
	defer display.Close()

	registry := display.GetRegistry()
	assert.Same(t, registry, display.GetRegistry())
	require.NoError(t, display.RoundTrip())

	globals := registry.Globals()
	require.Len(t, globals, len(wltest.DefaultGlobals))
	for i, inter := range wltest.DefaultGlobals {
		assert.Equal(t, inter, globals[uint32(i+1)].Interface)
	}
	assert.Equal(t, uint32(9), globals[5].Version)

	delete(globals, 1)
	assert.Len(t, registry.Globals(), len(wltest.DefaultGlobals))

	srv.RemoveGlobal(6)
	require.NoError(t, display.RoundTrip())
	assert.NotContains(t, registry.Globals(), uint32(6))
}

func TestBindVersion(t *testing.T) {
	srv, conn := wltest.New(t, wltest.Options{})
	display := wl.Connect(conn)
	defer display.Close()

	registry := display.GetRegistry()
	require.NoError(t, display.RoundTrip())

	seat := wl.BindSeat(registry, 5, registry.Globals()[5].Version)
	assert.Equal(t, uint32(wl.SeatVersion), seat.Version())
	require.NoError(t, display.RoundTrip())

	bind, _ := srv.WaitForRequest(wl.RegistryInterface, "bind")
	assert.Equal(t, uint32(5), bind.Args[0])
	assert.Equal(t, wire.NewID{Interface: wl.SeatInterface, Version: wl.SeatVersion, ID: seat.ID()}, bind.Args[1])
}

func TestDeleteID(t *testing.T) {
	_, conn := wltest.New(t, wltest.Options{})
	display := wl.Connect(conn)
	defer display.Close()

	registry := display.GetRegistry()
	require.NoError(t, display.RoundTrip())

	compositor := wl.BindCompositor(registry, 1, registry.Globals()[1].Version)
	surface := compositor.CreateSurface()
	require.NoError(t, display.RoundTrip())
	id := surface.ID()
	assert.Same(t, surface, display.GetObject(id))

	surface.Destroy()
	assert.Same(t, surface, display.GetObject(id))

	require.NoError(t, display.RoundTrip())
	assert.Nil(t, display.GetObject(id))
}

func TestSyncCallback(t *testing.T) {
	_, conn := wltest.New(t, wltest.Options{})
	display := wl.Connect(conn)
	defer display.Close()

	var done bool
	display.Sync().Then(func(uint32) { done = true })
	for !done {
		require.NoError(t, display.Dispatch())
	}
}

func TestProtocolError(t *testing.T) {
	display, server := rawPair(t)

	display.Sync()
	require.NoError(t, display.Flush())

	sync, err := server.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), sync.Sender())

	msg := wire.NewMessage(&serverObject{ObjectID: 1}, 0, "error")
	msg.WriteUint(1)
	msg.WriteUint(3)
	msg.WriteString("implementation error")
	require.NoError(t, msg.Build(server))

	err = display.Dispatch()
	var perr *wl.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, wl.ProtocolError{ObjectID: 1, Code: 3, Message: "implementation error"}, *perr)

	assert.ErrorAs(t, display.Dispatch(), &perr)
}

func TestEventForUnknownObject(t *testing.T) {
	display, server := rawPair(t)

	msg := wire.NewMessage(&serverObject{ObjectID: 42}, 0, "done")
	msg.WriteUint(0)
	require.NoError(t, msg.Build(server))

	assert.NoError(t, display.Dispatch())
}

type keymapRecorder struct {
	files []*os.File
}

func (kr *keymapRecorder) Keymap(format wl.KeyboardKeymapFormat, file *os.File, size uint32) {
	kr.files = append(kr.files, file)
}

func (kr *keymapRecorder) Enter(serial, surface uint32, keys []byte) {}
func (kr *keymapRecorder) Leave(serial, surface uint32) {}
func (kr *keymapRecorder) Key(serial, time, key uint32, state wl.KeyboardKeyState) {}
func (kr *keymapRecorder) Modifiers(serial, depressed, latched, locked, group uint32) {}
func (kr *keymapRecorder) RepeatInfo(rate, delay int32) {}

func TestEventForUnknownObjectWithFD(t *testing.T) {
	display, server := rawPair(t)

	registry := display.GetRegistry()
	seat := wl.BindSeat(registry, 1, wl.SeatVersion)
	kb := seat.GetKeyboard()
	var keymaps keymapRecorder
	kb.Listener = &keymaps

	file := func(content string) *os.File {
		f, err := os.CreateTemp(t.TempDir(), content)
		require.NoError(t, err)
		t.Cleanup(func() { f.Close() })
		_, err = f.WriteString(content)
		require.NoError(t, err)
		return f
	}

	stale := wire.NewMessage(&serverObject{ObjectID: 42}, 0, "keymap")
	stale.WriteUint(uint32(wl.KeyboardKeymapFormatXkbV1))
	stale.WriteFD(int(file("stale").Fd()))
	stale.WriteUint(5)
	require.NoError(t, stale.Build(server))
	require.NoError(t, display.Dispatch())

	fresh := wire.NewMessage(&serverObject{ObjectID: wire.ObjectID(kb.ID())}, 0, "keymap")
	fresh.WriteUint(uint32(wl.KeyboardKeymapFormatXkbV1))
	fresh.WriteFD(int(file("fresh").Fd()))
	fresh.WriteUint(5)
	require.NoError(t, fresh.Build(server))
	require.NoError(t, display.Dispatch())

	require.Len(t, keymaps.files, 1)
	defer keymaps.files[0].Close()
	data, err := io.ReadAll(io.NewSectionReader(keymaps.files[0], 0, 5))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestUnknownEvent(t *testing.T) {
	display, server := rawPair(t)

	msg := wire.NewMessage(&serverObject{ObjectID: 1}, 7, "bogus")
	require.NoError(t, msg.Build(server))

	var uerr wire.UnknownOpError
	assert.ErrorAs(t, display.Dispatch(), &uerr)
	assert.Equal(t, uint16(7), uerr.Op)
}

func TestInterrupt(t *testing.T) {
	display, _ := rawPair(t)

	done := make(chan error, 1)
	go func() { done <- display.Dispatch() }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, display.Interrupt())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch was not interrupted")
	}
}

func TestCloseTwice(t *testing.T) {
	display, _ := rawPair(t)
	assert.NoError(t, display.Close())
	assert.NoError(t, display.Close())
}

func TestDialFailure(t *testing.T) {
	t.Setenv("WAYLAND_SOCKET", "")
	os.Unsetenv("WAYLAND_SOCKET")
	t.Setenv("WAYLAND_DISPLAY", "wayland-does-not-exist")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	_, err := wl.Dial()
	var cerr *wl.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Path, "wayland-does-not-exist")
}
