// Package logging configures the structured logger shared by the command
// line tool and the symmetrisation driver.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to out. Verbose enables per-pass debug
// output; otherwise only progress milestones are logged.
func New(verbose bool, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
