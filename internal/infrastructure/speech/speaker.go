package speech

import (
	"fmt"
	"io"

	"github.com/doeshing/vshell/internal/ports"
)

// NullSpeaker discards vocalization text; used when TTS is disabled.
type NullSpeaker struct{}

func (NullSpeaker) Say(string)    {}
func (NullSpeaker) Enabled() bool { return false }

// WriterSpeaker echoes vocalization text to a writer with a speech marker.
// Stands in for a synthesis engine, which stays an external collaborator.
type WriterSpeaker struct {
	W io.Writer
}

func (s WriterSpeaker) Say(text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(s.W, "[voice] %s\n", text)
}

func (s WriterSpeaker) Enabled() bool { return true }

var (
	_ ports.Speaker = NullSpeaker{}
	_ ports.Speaker = WriterSpeaker{}
)
