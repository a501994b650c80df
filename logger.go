package bfun

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogSendError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("bfun: unhandled server error: %s", err)
}

func (l stdLogger) LogSendError(err error) {
	l.Logger.Printf("bfun: error after headers were sent: %s", err)
}

func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogSendError           int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("bfun: unhandled server error: %s", err)
}

func (l *TestLogger) LogSendError(err error) {
	atomic.AddInt64(&l.NumLogSendError, 1)
	l.tb.Logf("bfun: error after headers were sent: %s", err)
}

var _ Logger = &TestLogger{}
