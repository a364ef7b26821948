// Package console writes log lines to a terminal or a log collector.
package console

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures a Logger.
type Options struct {
	Debug bool
	// Format is "text", "json" or "logfmt". Unknown values fall back to text.
	Format string
	Prefix string
	Output io.Writer
}

var formatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// Logger is a logger.LoggerInstance backed by charmbracelet/log.
type Logger struct {
	l *log.Logger
}

func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	formatter, ok := formatters[strings.ToLower(opts.Format)]
	if !ok {
		formatter = log.TextFormatter
	}
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}

	return &Logger{l: log.NewWithOptions(out, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})}
}

func (c *Logger) Log(message string, keyvals ...any)   { c.l.Print(message, keyvals...) }
func (c *Logger) Debug(message string, keyvals ...any) { c.l.Log(log.DebugLevel, message, keyvals...) }
func (c *Logger) Info(message string, keyvals ...any)  { c.l.Log(log.InfoLevel, message, keyvals...) }
func (c *Logger) Warn(message string, keyvals ...any)  { c.l.Log(log.WarnLevel, message, keyvals...) }
func (c *Logger) Error(message string, keyvals ...any) { c.l.Log(log.ErrorLevel, message, keyvals...) }

// Fatal logs and exits with status 1.
func (c *Logger) Fatal(message string, keyvals ...any) { c.l.Fatal(message, keyvals...) }
