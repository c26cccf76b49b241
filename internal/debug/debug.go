// Package debug traces protocol traffic when the WAYLAND_DEBUG
// environment variable is set, in the spirit of libwayland.
package debug

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)

	v := os.Getenv("WAYLAND_DEBUG")
	if v == "client" {
		v = "1"
	}
	level, err := strconv.ParseInt(v, 10, 0)
	if err != nil {
		return
	}
	if level > 0 {
		logger.SetLevel(logrus.TraceLevel)
	}
}

// Enabled reports whether tracing is on.
func Enabled() bool {
	return logger.IsLevelEnabled(logrus.TraceLevel)
}

func Printf(str string, args ...any) {
	logger.Tracef(str, args...)
}
