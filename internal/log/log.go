// Package log centralizes logrus configuration for the CLI. It is deliberately
// kept off lazycopy's fault-handling path (internal/lazycopy never imports
// it): SetPanicOnFault's recover/retry loop runs far too often, and on far
// too hot a path, to pay for a structured logger on every materialized page.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// L is the package-wide logger, analogous to the reference CLI's ad hoc
// log.New() loggers handed to its VM launcher, except shared process-wide
// since lazycopy has no per-VM lifetime to scope a logger to.
var L = logrus.New()

func init() {
	L.SetOutput(os.Stderr)
	L.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	L.SetLevel(logrus.WarnLevel)
}

// SetLevel parses level (from config's log_level key or -v/--quiet flags)
// and applies it, falling back to warn on an unrecognized value.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	L.SetLevel(lvl)
}
