package app

import (
	"context"
	"testing"
	"time"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/wltest"
	"deedles.dev/playland/xdg"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSchedulerSingleOutstanding(t *testing.T) {
	app, _ := setup(t, wltest.Options{}, Options{})

	assert.Equal(t, 1, app.frames.Outstanding())
	assert.ErrorIs(t, app.frames.Request(), ErrFrameOutstanding)
	assert.Equal(t, 1, app.frames.Outstanding())
}

func TestFramesPaced(t *testing.T) {
	const frames = 5

	app, srv := start(t, wltest.Options{AutoFrame: true, MaxFrames: frames}, Options{})
	require.NoError(t, app.Setup())
	done := run(app)

	requested := 0
	srv.WaitFor(func(r wltest.Request) bool {
		if r.Is(wl.SurfaceInterface, "frame") {
			requested++
		}
		return requested == frames+1
	})

	srv.SendClose()
	require.NoError(t, wait(t, done))

	log := srv.Requests()
	for _, r := range log {
		if r.Is(wl.SurfaceInterface, "frame") {
			assert.LessOrEqual(t, r.Outstanding, 1, "%v", r)
		}
	}
	assert.Equal(t, frames+1, count(log, isPaint))
}

func TestPong(t *testing.T) {
	app, srv := setup(t, wltest.Options{}, Options{})
	done := run(app)

	srv.SendPing(42)
	pong, i := srv.WaitForRequest(xdg.WmBaseInterface, "pong")
	assert.Equal(t, []any{uint32(42)}, pong.Args)

	_, ping := srv.WaitFor(isEvent(xdg.WmBaseInterface, "ping"))
	log := srv.Requests()
	for _, r := range log[ping+1 : i] {
		assert.True(t, r.Event, "request %v sent before pong", r)
	}

	srv.SendClose()
	require.NoError(t, wait(t, done))
}

func TestPongDuringSetup(t *testing.T) {
	_, srv := setup(t, wltest.Options{PingOnBind: 9}, Options{})

	pong, i := srv.WaitForRequest(xdg.WmBaseInterface, "pong")
	assert.Equal(t, []any{uint32(9)}, pong.Args)

	_, attach := srv.WaitForRequest(wl.SurfaceInterface, "attach")
	assert.Less(t, i, attach)
}

func TestCloseStopsPainting(t *testing.T) {
	app, srv := setup(t, wltest.Options{}, Options{})
	done := run(app)

	srv.SendClose()
	srv.SendFrameDone()
	require.NoError(t, wait(t, done))

	assert.Equal(t, Closing, app.State())
	assert.False(t, app.Live())

	require.NoError(t, app.Close())
	srv.WaitForRequest(wl.SurfaceInterface, "destroy")

	_, closed := srv.WaitFor(isEvent(xdg.ToplevelInterface, "close"))
	log := srv.Requests()
	assert.Zero(t, requestsAfter(log, closed, wl.SurfaceInterface, "commit"))
	assert.Zero(t, requestsAfter(log, closed, wl.SurfaceInterface, "attach"))
	assert.Zero(t, requestsAfter(log, closed, xdg.SurfaceInterface, "ack_configure"))
	assert.Equal(t, 1, requestsAfter(log, closed, wl.BufferInterface, "destroy"))
	assert.Equal(t, 1, requestsAfter(log, closed, wl.ShmPoolInterface, "destroy"))
	assert.Equal(t, 1, requestsAfter(log, closed, xdg.ToplevelInterface, "destroy"))
}

func TestExitKey(t *testing.T) {
	input := newRecordingInput(1)
	app, srv := setup(t, wltest.Options{SeatCapabilities: wl.SeatCapabilityKeyboard}, Options{Input: input})
	done := run(app)

	srv.SendKey(30, wl.KeyboardKeyStatePressed)
	assert.Equal(t, uint32(30), receive(t, input.keys))

	srv.SendKey(1, wl.KeyboardKeyStateReleased)
	srv.SendKey(1, wl.KeyboardKeyStatePressed)
	assert.Equal(t, uint32(1), receive(t, input.keys))

	require.NoError(t, wait(t, done))
	assert.Equal(t, Closing, app.State())
	assert.False(t, app.Live())
	assert.Empty(t, input.keys)

	_, pressed := srv.WaitFor(func(r wltest.Request) bool {
		return r.Event && (r.Name == "key") && (r.Args[2] == uint32(1)) && (r.Args[3] == uint32(wl.KeyboardKeyStatePressed))
	})
	assert.Zero(t, requestsAfter(srv.Requests(), pressed, wl.SurfaceInterface, "commit"))
}

func TestPointerMotion(t *testing.T) {
	input := newRecordingInput(1)
	app, srv := setup(t, wltest.Options{SeatCapabilities: wl.SeatCapabilityPointer}, Options{Input: input})
	done := run(app)

	srv.SendMotion(10.5, 20.25)
	assert.Equal(t, [2]float64{10.5, 20.25}, receive(t, input.motion))

	srv.SendClose()
	require.NoError(t, wait(t, done))
}

func TestCancel(t *testing.T) {
	app, _ := setup(t, wltest.Options{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.NoError(t, wait(t, done))
	assert.False(t, app.Live())
}

func TestGlobalRemove(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	app, srv := setup(t, wltest.Options{}, Options{Log: logrus.NewEntry(logger)})
	done := run(app)

	srv.RemoveGlobal(5)
	assert.Eventually(t, func() bool {
		for _, entry := range hook.AllEntries() {
			if (entry.Level == logrus.WarnLevel) && (entry.Data["interface"] == wl.SeatInterface) {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	srv.SendClose()
	require.NoError(t, wait(t, done))
}

func TestKeyHandler(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := &KeyHandler{ExitKey: 1, ReportMotion: true, Log: logrus.NewEntry(logger)}

	assert.True(t, h.Key(1))
	assert.False(t, h.Key(2))

	h.Motion(1.5, 2)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, 1.5, hook.LastEntry().Data["x"])

	hook.Reset()
	h.ReportMotion = false
	h.Motion(3, 4)
	assert.Nil(t, hook.LastEntry())
}

func TestShellStateString(t *testing.T) {
	assert.Equal(t, "awaiting configure", AwaitingConfigure.String())
	assert.Equal(t, "closing", Closing.String())
	assert.Equal(t, "ShellState(9)", ShellState(9).String())
}
