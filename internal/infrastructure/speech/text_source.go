// Package speech holds the input-side collaborator adapters: a line-based
// text source for keyboard mode and a capture manager that drives an
// external speech-to-text transcriber with single-attempt and cancellation
// semantics. The recognition engine itself stays behind the Transcriber
// port.
package speech

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/doeshing/vshell/internal/ports"
)

// TextSource reads utterances line by line, used when the shell runs in
// keyboard mode.
type TextSource struct {
	scanner *bufio.Scanner
}

// NewTextSource wraps a reader (typically stdin).
func NewTextSource(r io.Reader) *TextSource {
	return &TextSource{scanner: bufio.NewScanner(r)}
}

// Next implements ports.InputSource. Returns ok=false at end of input.
func (t *TextSource) Next(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if !t.scanner.Scan() {
		return "", false, t.scanner.Err()
	}
	return strings.TrimSpace(t.scanner.Text()), true, nil
}

var _ ports.InputSource = (*TextSource)(nil)
