// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// These are the contracts between the application core and its adapters. The
// dispatcher and executor depend only on the abstractions declared here, so
// the speech, journal and launcher collaborators can be swapped without
// touching the core command flow.
package ports

import (
	"context"

	"github.com/doeshing/vshell/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.vshell/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// IntentParser turns one utterance into a typed intent. Implementations must
// be pure: same text in, same intent out, no filesystem or clock access.
type IntentParser interface {
	Parse(text string) domain.Intent
}

// HistoryRepository is the append-only interaction journal. Recent returns
// the newest n entries in chronological order (oldest of the window first);
// Clear truncates the journal to an empty state.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Recent(n int) ([]domain.HistoryRecord, error)
	Clear() error
}

// Launcher starts external programs. OpenApp accepts a canonical launch
// token and must fail closed for anything outside the platform whitelist.
// OpenPath hands an absolute in-sandbox path to the platform's default
// file-association handler. Neither ever receives raw user text as a shell
// command line.
type Launcher interface {
	OpenApp(app string) error
	OpenPath(path string) error
}

// Speaker vocalizes response text. Implementations must not block the
// command loop beyond a bounded call.
type Speaker interface {
	Say(text string)
	Enabled() bool
}

// InputSource yields utterances for the shell loop. Next returns ok=false
// when the source is exhausted. An empty string with ok=true means no speech
// was detected or the attempt was cancelled; the shell treats it as a no-op.
type InputSource interface {
	Next(context.Context) (text string, ok bool, err error)
}

// Transcriber is the speech-to-text collaborator: it captures one utterance
// and returns its lowercase transcription, or an empty string when no speech
// was detected. Capture must honor context cancellation.
type Transcriber interface {
	Transcribe(context.Context) (string, error)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
