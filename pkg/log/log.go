package log

import (
	"fmt"
	"os"
)

// Logger is the minimal logging surface used throughout ghostlink. The
// frame-processing engines never log on the hot path; logging is reserved
// for session lifecycle, the peer link and the relay.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	debug bool
}

// New returns a Logger writing to stdout. Debugf output is suppressed
// unless debug is set.
func New(debug bool) Logger {
	return &logger{debug: debug}
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Printf("[INFO]\t"+format+"\n", args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	fmt.Printf("[WARN]\t"+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR]\t"+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if l.debug {
		fmt.Printf("[DEBUG]\t"+format+"\n", args...)
	}
}
