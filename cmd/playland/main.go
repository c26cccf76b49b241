// Command playland opens a window on a Wayland compositor and fills it
// with noise until it is closed.
package main

import (
	"errors"
	"fmt"
	"os"

	wl "deedles.dev/playland/client"
	"deedles.dev/playland/internal/app"
	"deedles.dev/playland/shm"
)

// Exit codes.
const (
	exitOK = iota
	exitConnection
	exitSetup
	exitRuntime
	exitUsage
)

// usageError marks errors caused by bad flags or configuration.
type usageError struct {
	err error
}

func (err usageError) Error() string {
	return err.err.Error()
}

func (err usageError) Unwrap() error {
	return err.err
}

func exitCode(err error) int {
	var (
		usage   usageError
		conn    *wl.ConnectionError
		missing *app.MissingGlobalsError
		alloc   *shm.AllocationError
	)

	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage):
		return exitUsage
	case errors.As(err, &conn):
		return exitConnection
	case errors.As(err, &missing), errors.As(err, &alloc):
		return exitSetup
	default:
		return exitRuntime
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
