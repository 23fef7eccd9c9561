// Package logger builds the process-wide structured JSON logger.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.MessageFieldName = "msg"
	zerolog.ErrorFieldName = "error"
}

// New returns a zerolog logger writing one JSON object per line to w.
// Every entry carries a "ts" field rendered in loc as RFC3339Nano.
func New(w io.Writer, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	return zerolog.New(w).Hook(tsHook{loc: loc})
}

type tsHook struct {
	loc *time.Location
}

func (h tsHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("ts", time.Now().In(h.loc).Format(time.RFC3339Nano))
}
