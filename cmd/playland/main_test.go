package main

import (
	"errors"
	"fmt"
	"testing"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/app"
	"deedles.dev/playland/internal/config"
	"deedles.dev/playland/shm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "Success", err: nil, code: exitOK},
		{name: "Connection", err: &wl.ConnectionError{Path: "/run/wayland-0", Err: errors.New("refused")}, code: exitConnection},
		{name: "MissingGlobals", err: fmt.Errorf("setup: %w", &app.MissingGlobalsError{Names: []string{"wl_shm"}}), code: exitSetup},
		{name: "Allocation", err: &shm.AllocationError{Step: shm.ErrMapFailed, Err: errors.New("nope")}, code: exitSetup},
		{name: "Protocol", err: &wl.ProtocolError{ObjectID: 3, Code: 1, Message: "bad"}, code: exitRuntime},
		{name: "Usage", err: usageError{errors.New("bad flag")}, code: exitUsage},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.code, exitCode(test.err))
		})
	}
}

func TestApplyFlags(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{"--width", "320", "--renderer", "solid", "--log-level", "debug"}))

	cfg := config.DefaultConfig()
	applyFlags(rootCmd, cfg)

	assert.Equal(t, 320, cfg.Window.Width)
	assert.Equal(t, config.DefaultHeight, cfg.Window.Height)
	assert.Equal(t, "solid", cfg.Render.Renderer)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.DefaultTitle, cfg.Window.Title)
}
