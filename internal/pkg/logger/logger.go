// Package logger provides the StdLogger adapter behind ports.Logger.
package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// StdLogger writes leveled lines to stderr through the stdlib log package.
// Everything below Error is gated on verbose so the interactive shell stays
// quiet by default.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		out:     log.New(os.Stderr, "vshell ", log.LstdFlags),
	}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("DEBUG", msg, formatFields(fields))
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("INFO", msg, formatFields(fields))
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.out.Println("WARN", msg, formatFields(fields))
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.out.Println("ERROR", msg, "err="+fmt.Sprint(err), formatFields(fields))
}

// formatFields renders fields as stable key=value pairs so log lines are
// comparable across runs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(pairs, " ")
}
