// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogctx "github.com/veqryn/slog-context"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Debug bool

	// File, when set, sends logs to a size-rotated file instead of stderr.
	File string
}

// Setup installs a text handler that appends context attributes to every
// record and makes it the default logger. The returned closer releases the
// log file, if any.
func Setup(opts Options) io.Closer {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w, closer = lj, lj
	}

	slog.SetDefault(slog.New(NewHandler(w, opts.Debug)))
	return closer
}

func NewHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slogctx.NewHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
