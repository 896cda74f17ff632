package speech

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/ports"
)

// CaptureManager drives one-shot capture-and-transcribe attempts. At most
// one attempt is active at a time; a new request while one runs is rejected
// outright, not queued. Cancellation is observable both before capture
// begins and while waiting for speech, and short-circuits to a cancelled
// outcome without ever reaching the parser.
type CaptureManager struct {
	transcriber ports.Transcriber
	timeout     time.Duration
	log         ports.Logger

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
}

// NewCaptureManager builds a manager over the external transcriber. timeout
// bounds how long a single attempt may wait for speech; zero disables the
// bound.
func NewCaptureManager(tr ports.Transcriber, timeout time.Duration, log ports.Logger) *CaptureManager {
	return &CaptureManager{transcriber: tr, timeout: timeout, log: log}
}

// Listen runs one capture attempt and returns its transcription. An empty
// string with nil error means no speech was detected. Returns
// domain.ErrCaptureBusy when an attempt is already active and
// domain.ErrCaptureCancelled when Cancel (or ctx) fired first.
func (m *CaptureManager) Listen(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return "", domain.ErrCaptureBusy
	}
	var attemptCtx context.Context
	var cancel context.CancelFunc
	if m.timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, m.timeout)
	} else {
		attemptCtx, cancel = context.WithCancel(ctx)
	}
	m.active = true
	m.cancel = cancel
	attempt := uuid.NewString()
	m.mu.Unlock()

	defer func() {
		cancel()
		m.mu.Lock()
		m.active = false
		m.cancel = nil
		m.mu.Unlock()
	}()

	if m.log != nil {
		m.log.Debug("capture attempt started", map[string]interface{}{"attempt": attempt})
	}

	// Cancelled before capture even began.
	if err := attemptCtx.Err(); err != nil {
		return "", domain.ErrCaptureCancelled
	}

	text, err := m.transcriber.Transcribe(attemptCtx)
	if attemptCtx.Err() != nil {
		return "", domain.ErrCaptureCancelled
	}
	if err != nil {
		return "", err
	}
	if m.log != nil {
		m.log.Debug("capture attempt finished", map[string]interface{}{"attempt": attempt, "heard": text != ""})
	}
	return text, nil
}

// Cancel aborts the active attempt, if any. Safe to call at any time.
func (m *CaptureManager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// Active reports whether an attempt is currently running.
func (m *CaptureManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Next implements ports.InputSource so a voice front end can plug the
// manager straight into the shell loop. Busy and cancelled attempts surface
// as empty no-op utterances rather than errors.
func (m *CaptureManager) Next(ctx context.Context) (string, bool, error) {
	text, err := m.Listen(ctx)
	switch {
	case err == nil:
		return text, true, nil
	case err == domain.ErrCaptureBusy, err == domain.ErrCaptureCancelled:
		return "", true, nil
	default:
		return "", false, err
	}
}

var _ ports.InputSource = (*CaptureManager)(nil)
