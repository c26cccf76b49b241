package xdg_test

import (
	"testing"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/wltest"
	"deedles.dev/playland/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toplevel struct {
	configured bool
	states     []xdg.ToplevelState
}

func (t *toplevel) Configure(width, height int32, states []xdg.ToplevelState) {
	t.configured = true
	t.states = states
}

func (t *toplevel) Close() {}
func (t *toplevel) ConfigureBounds(width, height int32) {}
func (t *toplevel) WmCapabilities(caps []xdg.ToplevelWmCapabilities) {}

type surface struct {
	serials []uint32
}

func (s *surface) Configure(serial uint32) {
	s.serials = append(s.serials, serial)
}

func TestToplevel(t *testing.T) {
	srv, conn := wltest.New(t, wltest.Options{})
	display := wl.Connect(conn)
	defer display.Close()

	registry := display.GetRegistry()
	require.NoError(t, display.RoundTrip())

	compositor := wl.BindCompositor(registry, 1, registry.Globals()[1].Version)
	wm := xdg.BindWmBase(registry, 3, registry.Globals()[3].Version)

	s := compositor.CreateSurface()
	xs := wm.GetXdgSurface(s)
	assert.Same(t, s, xs.Surface())
	var xsl surface
	xs.Listener = &xsl

	top := xs.GetToplevel()
	var tl toplevel
	top.Listener = &tl
	top.SetTitle("test")
	top.SetMinSize(10, 20)
	top.SetMaxSize(300, 400)
	xs.SetWindowGeometry(0, 0, 10, 20)
	s.Commit()
	require.NoError(t, display.RoundTrip())

	assert.True(t, tl.configured)
	assert.Empty(t, tl.states)
	require.Len(t, xsl.serials, 1)

	xs.AckConfigure(xsl.serials[0])
	require.NoError(t, display.RoundTrip())

	minSize, _ := srv.WaitForRequest(xdg.ToplevelInterface, "set_min_size")
	assert.Equal(t, []any{int32(10), int32(20)}, minSize.Args)
	maxSize, _ := srv.WaitForRequest(xdg.ToplevelInterface, "set_max_size")
	assert.Equal(t, []any{int32(300), int32(400)}, maxSize.Args)
	geom, _ := srv.WaitForRequest(xdg.SurfaceInterface, "set_window_geometry")
	assert.Equal(t, []any{int32(0), int32(0), int32(10), int32(20)}, geom.Args)
	ack, _ := srv.WaitForRequest(xdg.SurfaceInterface, "ack_configure")
	assert.Equal(t, []any{xsl.serials[0]}, ack.Args)

	top.Destroy()
	xs.Destroy()
	s.Destroy()
	wm.Destroy()
	require.NoError(t, display.RoundTrip())
	assert.Nil(t, display.GetObject(top.ID()))
}

func TestPingListener(t *testing.T) {
	srv, conn := wltest.New(t, wltest.Options{PingOnBind: 77})
	display := wl.Connect(conn)
	defer display.Close()

	registry := display.GetRegistry()
	require.NoError(t, display.RoundTrip())

	wm := xdg.BindWmBase(registry, 3, registry.Globals()[3].Version)
	wm.Listener = pinger{wm}
	require.NoError(t, display.RoundTrip())
	require.NoError(t, display.RoundTrip())

	pong, _ := srv.WaitForRequest(xdg.WmBaseInterface, "pong")
	assert.Equal(t, []any{uint32(77)}, pong.Args)
}

type pinger struct {
	wm *xdg.WmBase
}

func (p pinger) Ping(serial uint32) {
	p.wm.Pong(serial)
}
